package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/model"
)

func intPtr(n int) *int { return &n }

func TestResolveLevelSpec(t *testing.T) {
	tests := []struct {
		name         string
		observations map[string]model.FieldObservation
		wantLevel    *int
		wantSpec     string
	}{
		{
			name: "vendor role wins over the others",
			observations: map[string]model.FieldObservation{
				model.FieldVendorRole: {Level: intPtr(4), Specialization: "payments"},
				model.FieldRoleTitle:  {Level: intPtr(2), Specialization: "mobile"},
				model.FieldJobTitle:   {Level: intPtr(1)},
			},
			wantLevel: intPtr(4),
			wantSpec:  "payments",
		},
		{
			name: "falls through empty fields in priority order",
			observations: map[string]model.FieldObservation{
				model.FieldVendorRole: {},
				model.FieldRoleTitle:  {Level: intPtr(3)},
				model.FieldJobTitle:   {Level: intPtr(1), Specialization: "infra"},
			},
			wantLevel: intPtr(3),
			wantSpec:  "",
		},
		{
			name: "specialization alone wins both values",
			observations: map[string]model.FieldObservation{
				model.FieldVendorRole: {Specialization: "security"},
				model.FieldRoleTitle:  {Level: intPtr(5)},
			},
			wantLevel: nil,
			wantSpec:  "security",
		},
		{
			name: "no field supplies either value",
			observations: map[string]model.FieldObservation{
				model.FieldVendorRole: {},
				model.FieldRoleTitle:  {},
				model.FieldJobTitle:   {},
			},
			wantLevel: nil,
			wantSpec:  "",
		},
		{
			name:         "missing observations are skipped",
			observations: map[string]model.FieldObservation{},
			wantLevel:    nil,
			wantSpec:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, spec := ResolveLevelSpec(tt.observations)
			if tt.wantLevel == nil {
				assert.Nil(t, level)
			} else {
				require.NotNil(t, level)
				assert.Equal(t, *tt.wantLevel, *level)
			}
			assert.Equal(t, tt.wantSpec, spec)
		})
	}
}
