package data

import (
	"encoding/json"
	"testing"
)

func TestEmbeddedFilesAreValidJSON(t *testing.T) {
	fsys := Files("")
	for _, name := range Names {
		b, err := Read(fsys, name)
		if err != nil {
			t.Fatalf("Read(%s): %v", name, err)
		}
		if !json.Valid(b) {
			t.Errorf("%s is not valid JSON", name)
		}
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(Files(""), "nope.json"); err == nil {
		t.Error("Read(nope.json) succeeded, want error")
	}
}
