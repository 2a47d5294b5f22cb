package names

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonical(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"bill", "william", true},
		{"Bill", "william", true},
		{"  Peggy ", "margaret", true},
		{"hans", "johannes", true},
		{"william", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := r.Canonical(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("Canonical(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCanonicalizeGiven(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		in          string
		want        string
		wantChanged bool
	}{
		{"Bill", "william", true},
		{"Billy Ray", "william ray", true},
		{"Johann Wolfgang", "johann wolfgang", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, changed := r.CanonicalizeGiven(tt.in)
		if got != tt.want || changed != tt.wantChanged {
			t.Errorf("CanonicalizeGiven(%q) = %q, %v; want %q, %v",
				tt.in, got, changed, tt.want, tt.wantChanged)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nicknames.toml")
	content := `[nicknames]
wilhelmina = "wilhelmine"
bill = "wilhelm"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing registry file: %v", err)
	}

	r := NewRegistry()
	if err := r.LoadFile(path); err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	if got, ok := r.Canonical("wilhelmina"); !ok || got != "wilhelmine" {
		t.Errorf("Canonical(wilhelmina) = %q, %v; want wilhelmine, true", got, ok)
	}
	if got, _ := r.Canonical("bill"); got != "wilhelm" {
		t.Errorf("Canonical(bill) = %q, want override wilhelm", got)
	}
}
