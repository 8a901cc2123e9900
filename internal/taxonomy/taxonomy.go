// Package taxonomy holds the closed set of canonical roles and the fixed
// role-to-family mapping. The taxonomy is supplied at process start and is
// immutable afterwards; it is passed by reference to every component that
// consumes it rather than read from package state.
package taxonomy

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Taxonomy is the canonical role set plus its deterministic family mapping.
type Taxonomy struct {
	Version  string            `yaml:"version"`
	Families map[string]string `yaml:"families"` // canonical role -> family
	roles    []string
	roleSet  map[string]bool
}

// New builds a Taxonomy from a version string and a role->family map. Every
// canonical role must map to exactly one family; the role list is derived
// from the map keys.
func New(version string, families map[string]string) (*Taxonomy, error) {
	if version == "" {
		return nil, fmt.Errorf("taxonomy version is required")
	}
	if len(families) == 0 {
		return nil, fmt.Errorf("taxonomy has no roles")
	}

	roles := make([]string, 0, len(families))
	roleSet := make(map[string]bool, len(families))
	for role, family := range families {
		if role == "" {
			return nil, fmt.Errorf("taxonomy contains an empty role name")
		}
		if family == "" {
			return nil, fmt.Errorf("role %q has no family", role)
		}
		roles = append(roles, role)
		roleSet[role] = true
	}
	sort.Strings(roles)

	return &Taxonomy{
		Version:  version,
		Families: families,
		roles:    roles,
		roleSet:  roleSet,
	}, nil
}

// Roles returns the canonical roles in stable (sorted) order.
func (t *Taxonomy) Roles() []string {
	return t.roles
}

// Contains reports whether role is part of the canonical set.
func (t *Taxonomy) Contains(role string) bool {
	return t.roleSet[role]
}

// FamilyOf returns the family for a canonical role. The bool is false for
// roles outside the canonical set.
func (t *Taxonomy) FamilyOf(role string) (string, bool) {
	family, ok := t.Families[role]
	return family, ok
}

// FamilyNames returns the distinct families in stable (sorted) order.
func (t *Taxonomy) FamilyNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, family := range t.Families {
		if !seen[family] {
			seen[family] = true
			names = append(names, family)
		}
	}
	sort.Strings(names)
	return names
}

// RolesInFamily returns the canonical roles belonging to a family, sorted.
func (t *Taxonomy) RolesInFamily(family string) []string {
	var roles []string
	for _, role := range t.roles {
		if t.Families[role] == family {
			roles = append(roles, role)
		}
	}
	return roles
}

// taxonomyFile is the YAML on-disk shape.
type taxonomyFile struct {
	Version  string            `yaml:"version"`
	Families map[string]string `yaml:"families"`
}

// LoadFile reads a taxonomy from a YAML file of the form:
//
//	version: v2
//	families:
//	  Backend Engineer: Software Engineering
//	  ...
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	var f taxonomyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file: %w", err)
	}

	t, err := New(f.Version, f.Families)
	if err != nil {
		return nil, fmt.Errorf("invalid taxonomy in %s: %w", path, err)
	}
	return t, nil
}
