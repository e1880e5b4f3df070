package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nstehr/dominion/dominion-core/campaign"
	"github.com/nstehr/dominion/dominion-core/data"
	"github.com/nstehr/dominion/dominion-core/dice"
	"github.com/nstehr/dominion/dominion-core/metrics"
	"github.com/nstehr/dominion/dominion-core/model"
	"github.com/nstehr/dominion/dominion-core/rules"
)

func newServer(t *testing.T, src dice.Source) *Server {
	t.Helper()
	c, err := campaign.Load(data.Files(""), dice.NewRoller(src))
	require.NoError(t, err)
	return New(c, metrics.New())
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) model.Result {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res model.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestHealthz(t *testing.T) {
	rec := do(t, newServer(t, dice.NewScripted(1)), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLootBoxRoute(t *testing.T) {
	s := newServer(t, dice.NewScripted(6, 4, 3))
	res := decodeResult(t, do(t, s, http.MethodPost, "/api/loot-box", ""))

	assert.Equal(t, "Credit Stash", res.Outcome.Name)
	assert.Equal(t, 30, res.Credits)
	require.Len(t, res.Rerolls, 1)

	metricsBody := do(t, s, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, metricsBody, `dominion_resolutions_total{kind="loot",status="resolved"} 1`)
	assert.Contains(t, metricsBody, "dominion_rerolls_total 1")
}

func TestLootBoxForcedRoll(t *testing.T) {
	s := newServer(t, dice.NewScripted(1))
	res := decodeResult(t, do(t, s, http.MethodPost, "/api/loot-box", `{"roll":3}`))
	assert.Equal(t, "Common Loot", res.Outcome.Name)
}

func TestRollTableRoute(t *testing.T) {
	s := newServer(t, dice.NewScripted(1))
	res := decodeResult(t, do(t, s, http.MethodPost, "/api/tables/xp/skill_brawn/roll", ""))
	assert.Equal(t, "Bull Charge", res.Outcome.Name)

	rec := do(t, s, http.MethodPost, "/api/tables/weather/storms/roll", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	res = decodeResult(t, do(t, s, http.MethodPost, "/api/tables/xp/no_such_table/roll", ""))
	assert.Equal(t, model.StatusError, res.Status, "a missing table inside a known set is an error result")
}

func TestResolveTerritoriesRoute(t *testing.T) {
	s := newServer(t, dice.NewScripted(1, 2, 3, 6, 6, 1))
	body := `{"territories":["old_ruins","settlement"],"gang":"escher","categories":["income","random_recruit"]}`
	rec := do(t, s, http.MethodPost, "/api/territories/resolve", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var batch rules.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	assert.Equal(t, 60, batch.Credits)
	require.Len(t, batch.Sections, 2)
	assert.Equal(t, model.Income, batch.Sections[0].Category)
}

func TestResolveTerritoriesErrors(t *testing.T) {
	s := newServer(t, dice.NewScripted(1))

	rec := do(t, s, http.MethodPost, "/api/territories/resolve", `{"territories":["atlantis"]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/territories/resolve", `{"territories":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/territories/resolve",
		`{"territories":["gambling_den"],"inputs":{"gambling_den":{"suit":"cups"}}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTerritoryPromptsRoute(t *testing.T) {
	s := newServer(t, dice.NewScripted(1))
	rec := do(t, s, http.MethodGet, "/api/territories/prompts?territories=old_ruins,slag_furnace", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var prompts []campaign.Prompt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prompts))
	require.Len(t, prompts, 1)
	assert.Equal(t, "slag_furnace", prompts[0].TerritoryID)
	assert.Equal(t, campaign.PromptCount, prompts[0].Kind)

	rec = do(t, s, http.MethodGet, "/api/territories/prompts?territories=old_ruins", "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/api/territories/prompts", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInjuryRoutes(t *testing.T) {
	s := newServer(t, dice.NewScripted(1))

	rec := do(t, s, http.MethodPost, "/api/injuries/grimdark", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	res := decodeResult(t, do(t, s, http.MethodPost, "/api/injuries/"+campaign.StandardInjuries, `{"roll":11}`))
	assert.Equal(t, 11, res.Roll())
	assert.Equal(t, "D66", res.Dice)
}

func TestRogueDocRoutes(t *testing.T) {
	s := newServer(t, dice.NewScripted(3))

	rec := do(t, s, http.MethodGet, "/api/rogue-doc/"+campaign.TradingPostDoc+"/cost", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cost":30}`, rec.Body.String())

	res := decodeResult(t, do(t, s, http.MethodPost, "/api/rogue-doc/"+campaign.TradingPostDoc, `{"cost":40}`))
	require.NotNil(t, res.Cost)
	assert.Equal(t, 40, *res.Cost)
}

func TestSkillRoutes(t *testing.T) {
	s := newServer(t, dice.NewScripted(1))

	rec := do(t, s, http.MethodGet, "/api/xp/skills", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var skills []campaign.SkillTable
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &skills))
	assert.NotEmpty(t, skills)

	res := decodeResult(t, do(t, s, http.MethodPost, "/api/xp/skills/skill_brawn/roll", ""))
	assert.Equal(t, "Bull Charge", res.Outcome.Name)

	rec = do(t, s, http.MethodPost, "/api/xp/skills/skill_knitting/roll", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, newServer(t, dice.NewScripted(1)), http.MethodGet, "/api/loot-box", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
