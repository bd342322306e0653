package subscription

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSeedFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write seed file: %v", err)
	}
}

func TestLoader_LoadAll(t *testing.T) {
	dir := t.TempDir()

	writeSeedFile(t, dir, "blog.yml", `
name: "Dev Blog"
platform: "blog"
url: "https://devwriter.tistory.com"
account_id: "devwriter"
owner_id: "owner-1"
`)
	writeSeedFile(t, dir, "channel.yaml", `
name: "Dev Channel"
platform: "video"
url: "https://www.youtube.com/@devchannel"
`)

	seeds, err := NewLoader(dir).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	if len(seeds) != 2 {
		t.Fatalf("Expected 2 seeds, got %d", len(seeds))
	}

	blog := seeds[0]
	if blog.Name != "Dev Blog" {
		t.Errorf("Expected name 'Dev Blog', got %q", blog.Name)
	}
	if blog.Platform != "blog" {
		t.Errorf("Expected platform 'blog', got %q", blog.Platform)
	}
	if blog.URL != "https://devwriter.tistory.com" {
		t.Errorf("Unexpected URL: %q", blog.URL)
	}
	if blog.AccountID != "devwriter" {
		t.Errorf("Expected account_id mapped, got %q", blog.AccountID)
	}
	if blog.OwnerID != "owner-1" {
		t.Errorf("Expected owner_id mapped, got %q", blog.OwnerID)
	}
}

func TestLoader_LoadAll_MissingDirectory(t *testing.T) {
	seeds, err := NewLoader(filepath.Join(t.TempDir(), "nonexistent")).LoadAll()

	if err != nil {
		t.Errorf("Missing directory should not be an error, got: %v", err)
	}
	if len(seeds) != 0 {
		t.Errorf("Expected no seeds from missing directory, got %d", len(seeds))
	}
}

func TestLoader_LoadAll_EmptyDirectory(t *testing.T) {
	seeds, err := NewLoader(t.TempDir()).LoadAll()

	if err != nil {
		t.Errorf("Empty directory should not be an error, got: %v", err)
	}
	if len(seeds) != 0 {
		t.Errorf("Expected no seeds from empty directory, got %d", len(seeds))
	}
}

func TestLoader_LoadAll_DefaultsPlatform(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "minimal.yml", `
name: "Minimal"
url: "https://blog.naver.com/minimal"
`)

	seeds, err := NewLoader(dir).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	if seeds[0].Platform != "blog" {
		t.Errorf("Expected platform to default to 'blog', got %q", seeds[0].Platform)
	}
}

func TestLoader_LoadAll_InvalidSeeds(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing name", "url: \"https://example.com\"\n"},
		{"missing url", "name: \"No URL\"\n"},
		{"unknown platform", "name: \"Bad\"\nurl: \"https://example.com\"\nplatform: \"podcast\"\n"},
		{"malformed yaml", "name: [unclosed\n"},
	}

	for _, test := range tests {
		dir := t.TempDir()
		writeSeedFile(t, dir, "seed.yml", test.content)

		if _, err := NewLoader(dir).LoadAll(); err == nil {
			t.Errorf("%s: expected error, got none", test.name)
		}
	}
}
