package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateNextVersionAndName(t *testing.T) {
	dir := t.TempDir()

	// Registry ships 001 and 002, so the first generated unit is 003.
	path, err := Generate(dir, "Add Comments-Table")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if filepath.Base(path) != "unit_003_add_comments_table.go" {
		t.Fatalf("unexpected filename: %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read skeleton: %v", err)
	}
	for _, want := range []string{
		`Version: "003"`,
		`Name:    "add_comments_table"`,
		"package migrate",
		"func(tx *gorm.DB) error",
	} {
		if !strings.Contains(string(content), want) {
			t.Errorf("skeleton missing %q", want)
		}
	}

	// Existing files on disk advance the version too.
	path, err = Generate(dir, "another change")
	if err != nil {
		t.Fatalf("second generate failed: %v", err)
	}
	if filepath.Base(path) != "unit_004_another_change.go" {
		t.Fatalf("unexpected filename: %s", path)
	}
}

func TestGenerateAdvancesPastExistingFiles(t *testing.T) {
	dir := t.TempDir()

	pinned := filepath.Join(dir, "unit_002_dup.go")
	if err := os.WriteFile(pinned, []byte("package migrate\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Generate(dir, "dup"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	// Same name again lands on a fresh version rather than clobbering.
	path, err := Generate(dir, "dup")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if filepath.Base(path) != "unit_004_dup.go" {
		t.Fatalf("unexpected filename: %s", path)
	}
}

func TestGenerateRejectsEmptyName(t *testing.T) {
	if _, err := Generate(t.TempDir(), "  --  "); err == nil {
		t.Fatal("expected error for empty sanitized name")
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Initial Schema", "initial_schema"},
		{"add-user-index", "add_user_index"},
		{"  Mixed CASE Name ", "mixed_case_name"},
		{"drop!weird@chars", "dropweirdchars"},
	}
	for _, tt := range tests {
		if got := safeName(tt.in); got != tt.want {
			t.Errorf("safeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
