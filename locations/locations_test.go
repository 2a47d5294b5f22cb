package locations

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercase and trim", "  London,  England  ", "london england"},
		{"state abbreviation", "Harvey, ND", "harvey north dakota"},
		{"abbreviation with periods", "Harvey, N.D.", "harvey north dakota"},
		{"already expanded", "Harvey, North Dakota", "harvey north dakota"},
		{"trailing usa stripped", "Harvey, North Dakota, USA", "harvey north dakota"},
		{"united states stripped", "Harvey, ND, United States", "harvey north dakota"},
		{"stacked qualifiers", "Harvey, ND, USA, United States", "harvey north dakota"},
		{"bare country canonicalized", "USA", "united states"},
		{"interior token untouched", "La Crosse, WI", "la crosse wisconsin"},
		{"canadian province", "Brandon, MB", "brandon manitoba"},
		{"unknown token kept", "Harvey, Wells County", "harvey wells county"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeAgreement(t *testing.T) {
	// The §12.3-style pairs the matcher depends on: short and long forms must
	// normalize identically.
	r := NewRegistry()

	pairs := [][2]string{
		{"Harvey, ND", "Harvey, North Dakota"},
		{"Fargo, ND, USA", "Fargo, North Dakota"},
		{"Toronto, ON", "Toronto, Ontario"},
	}

	for _, p := range pairs {
		if a, b := r.Normalize(p[0]), r.Normalize(p[1]); a != b {
			t.Errorf("Normalize(%q) = %q, Normalize(%q) = %q; want equal", p[0], a, p[1], b)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "locations.toml")
	content := `[abbreviations]
wc = "wells county"
nd = "nord dakota"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing registry file: %v", err)
	}

	r := NewRegistry()
	if err := r.LoadFile(path); err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	if got, ok := r.Expand("wc"); !ok || got != "wells county" {
		t.Errorf("Expand(wc) = %q, %v; want wells county, true", got, ok)
	}
	// User entries override built-ins.
	if got, _ := r.Expand("nd"); got != "nord dakota" {
		t.Errorf("Expand(nd) = %q, want override nord dakota", got)
	}
}

func TestLoadFileErrors(t *testing.T) {
	r := NewRegistry()

	if err := r.LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadFile on missing file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatalf("writing bad file: %v", err)
	}
	if err := r.LoadFile(bad); err == nil {
		t.Error("LoadFile on unparseable file should fail")
	}
}
