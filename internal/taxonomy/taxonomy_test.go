package taxonomy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		families map[string]string
		wantErr  bool
	}{
		{
			name:    "valid taxonomy",
			version: "v1",
			families: map[string]string{
				"Backend Engineer": "Software Engineering",
				"Data Engineer":    "Data / ML",
			},
			wantErr: false,
		},
		{
			name:     "missing version",
			version:  "",
			families: map[string]string{"Backend Engineer": "Software Engineering"},
			wantErr:  true,
		},
		{
			name:     "no roles",
			version:  "v1",
			families: map[string]string{},
			wantErr:  true,
		},
		{
			name:     "empty role name",
			version:  "v1",
			families: map[string]string{"": "Software Engineering"},
			wantErr:  true,
		},
		{
			name:     "role without family",
			version:  "v1",
			families: map[string]string{"Backend Engineer": ""},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.version, tt.families)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestTaxonomy_Lookups(t *testing.T) {
	tax, err := New("v1", map[string]string{
		"Backend Engineer":  "Software Engineering",
		"Frontend Engineer": "Software Engineering",
		"Data Engineer":     "Data / ML",
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if !tax.Contains("Backend Engineer") {
		t.Error("expected canonical role to be contained")
	}
	if tax.Contains("backend engineer") {
		t.Error("role matching is exact, lowercase variant must not match")
	}

	family, ok := tax.FamilyOf("Data Engineer")
	if !ok || family != "Data / ML" {
		t.Errorf("expected Data / ML, got %q (ok=%v)", family, ok)
	}
	if _, ok := tax.FamilyOf("Astronaut"); ok {
		t.Error("unknown role must report no family")
	}

	roles := tax.Roles()
	if len(roles) != 3 {
		t.Fatalf("expected 3 roles, got %d", len(roles))
	}
	// Sorted order is part of the contract.
	if roles[0] != "Backend Engineer" || roles[2] != "Frontend Engineer" {
		t.Errorf("roles not sorted: %v", roles)
	}

	families := tax.FamilyNames()
	if len(families) != 2 || families[0] != "Data / ML" {
		t.Errorf("unexpected family names: %v", families)
	}

	inFamily := tax.RolesInFamily("Software Engineering")
	if len(inFamily) != 2 {
		t.Errorf("expected 2 roles in Software Engineering, got %v", inFamily)
	}
}

func TestDefault(t *testing.T) {
	tax := Default()

	if tax.Version != DefaultVersion {
		t.Errorf("expected version %q, got %q", DefaultVersion, tax.Version)
	}
	if len(tax.Roles()) == 0 {
		t.Fatal("default taxonomy has no roles")
	}

	// Spot-check a few mappings.
	checks := map[string]string{
		"SDET (Software Development Engineer in Test)": "Quality Engineering",
		"Site Reliability Engineer (SRE)":              "Infrastructure / Systems",
		"Machine Learning Engineer":                    "Data / ML",
		"Security Analyst":                             "Security",
	}
	for role, wantFamily := range checks {
		family, ok := tax.FamilyOf(role)
		if !ok {
			t.Errorf("expected role %q in default taxonomy", role)
			continue
		}
		if family != wantFamily {
			t.Errorf("role %q: expected family %q, got %q", role, wantFamily, family)
		}
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "taxonomy.yaml")
		content := `version: v2
families:
  Backend Engineer: Software Engineering
  Data Engineer: Data / ML
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		tax, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile failed: %v", err)
		}
		if tax.Version != "v2" {
			t.Errorf("expected version v2, got %q", tax.Version)
		}
		if !tax.Contains("Data Engineer") {
			t.Error("expected Data Engineer in loaded taxonomy")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("version: [unclosed"), 0o600); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})

	t.Run("file without roles", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		if err := os.WriteFile(path, []byte("version: v3\n"), 0o600); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Error("expected error for taxonomy with no roles")
		}
	})
}
