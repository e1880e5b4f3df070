package model

import (
	"encoding/json"
	"testing"
)

func TestTerritoryGangOverrides(t *testing.T) {
	raw := `{
		"id": "old_ruins",
		"name": "Old Ruins",
		"level": "2",
		"income": {"count": 1},
		"income_houseA": {"count": 3},
		"random_recruit": {"schema": "standard"},
		"random_recruit_house_escher": {"count": 3},
		"reputation": "+1 Reputation",
		"fixed_gear": null,
		"mystery": "kept"
	}`
	var terr Territory
	if err := json.Unmarshal([]byte(raw), &terr); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if terr.ID != "old_ruins" || terr.Name != "Old Ruins" || terr.Level != 2 {
		t.Errorf("header = %q %q %d", terr.ID, terr.Name, terr.Level)
	}

	got, ok := terr.Field(Income).Select("houseA")
	if !ok || string(got) != `{"count": 3}` {
		t.Errorf("Select(houseA) = %s, %v", got, ok)
	}
	got, ok = terr.Field(Income).Select("")
	if !ok || string(got) != `{"count": 1}` {
		t.Errorf("Select(\"\") = %s, %v", got, ok)
	}
	got, ok = terr.Field(Income).Select("houseB")
	if !ok || string(got) != `{"count": 1}` {
		t.Errorf("Select(houseB) = %s, %v, want base", got, ok)
	}
	if _, ok := terr.Field(RandomRecruit).Overrides["house_escher"]; !ok {
		t.Errorf("random_recruit override not split on longest prefix: %+v", terr.Field(RandomRecruit))
	}
	if _, ok := terr.Field(RandomRecruit).Select("House Escher"); !ok {
		t.Error("Select(random_recruit, House Escher) found nothing")
	}
	if _, ok := terr.Field(FixedGear).Select(""); ok {
		t.Error("null fixed_gear should count as absent")
	}
	if _, ok := terr.Field(FixedRecruit).Select("houseA"); ok {
		t.Error("missing fixed_recruit should count as absent")
	}
	if _, ok := terr.Field(Category("mystery")).Select(""); !ok {
		t.Error("unknown keys should be kept as their own category")
	}
}

func TestGangKey(t *testing.T) {
	tests := map[string]string{
		"houseA":        "housea",
		"House  Escher": "house_escher",
		"":              "",
	}
	for in, want := range tests {
		if got := GangKey(in); got != want {
			t.Errorf("GangKey(%q) = %q, want %q", in, got, want)
		}
	}
}
