package settings

import (
	"testing"
)

func TestRoundtrip(t *testing.T) {
	dir := t.TempDir()
	if err := SetPath(dir); err != nil {
		t.Fatal(err)
	}

	Set("language", "nl")
	Set("graph.enabled", true)
	if err := Save(); err != nil {
		t.Fatal(err)
	}

	// Reload from disk and verify persistence.
	if err := Load(); err != nil {
		t.Fatal(err)
	}
	if got := Get("language"); got != "nl" {
		t.Errorf("language = %v", got)
	}
	if got := Get("graph.enabled"); got != true {
		t.Errorf("graph.enabled = %v", got)
	}

	all := All()
	if len(all) != 2 {
		t.Errorf("All() = %v", all)
	}

	// Mutating the copy must not touch the store.
	all["language"] = "en"
	if got := Get("language"); got != "nl" {
		t.Errorf("All() leaked internal state, language = %v", got)
	}
}

func TestMissingFileIsEmpty(t *testing.T) {
	if err := SetPath(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	if got := Get("anything"); got != nil {
		t.Errorf("fresh store returned %v", got)
	}
}
