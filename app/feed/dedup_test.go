package feed

import "testing"

func TestExcludeKnown(t *testing.T) {
	candidates := []Record{
		{Title: "First", URL: "https://example.com/a/1"},
		{Title: "Second", URL: "https://example.com/a/2"},
		{Title: "Third", URL: "https://example.com/a/3"},
	}

	known := map[string]struct{}{
		"https://example.com/a/1": {},
	}

	fresh := ExcludeKnown(candidates, known)

	if len(fresh) != 2 {
		t.Fatalf("Expected 2 fresh records, got %d", len(fresh))
	}
	if fresh[0].URL != "https://example.com/a/2" || fresh[1].URL != "https://example.com/a/3" {
		t.Errorf("Expected candidate order preserved, got %q then %q", fresh[0].URL, fresh[1].URL)
	}
}

func TestExcludeKnown_NothingKnown(t *testing.T) {
	candidates := []Record{
		{URL: "https://example.com/1"},
		{URL: "https://example.com/2"},
	}

	fresh := ExcludeKnown(candidates, map[string]struct{}{})

	if len(fresh) != len(candidates) {
		t.Errorf("Expected all %d records kept, got %d", len(candidates), len(fresh))
	}
}

func TestExcludeKnown_AllKnown(t *testing.T) {
	candidates := []Record{
		{URL: "https://example.com/1"},
		{URL: "https://example.com/2"},
	}

	known := map[string]struct{}{
		"https://example.com/1": {},
		"https://example.com/2": {},
	}

	fresh := ExcludeKnown(candidates, known)

	if len(fresh) != 0 {
		t.Errorf("Expected no fresh records, got %d", len(fresh))
	}
}
