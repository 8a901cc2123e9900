package engine

import "github.com/rbaxabr/role-taxonomy-ensemble/internal/model"

// ResolveOrder is the field priority for level and specialization: most
// specific source first. This is an override, not a vote - the first field
// that supplies either value wins both.
var ResolveOrder = []string{model.FieldVendorRole, model.FieldRoleTitle, model.FieldJobTitle}

// ResolveLevelSpec picks the final level and specialization from the field
// observations in priority order. Returns (nil, "") when no field supplied
// either value.
func ResolveLevelSpec(observations map[string]model.FieldObservation) (*int, string) {
	for _, field := range ResolveOrder {
		obs, ok := observations[field]
		if !ok {
			continue
		}
		if obs.Level != nil || obs.Specialization != "" {
			return obs.Level, obs.Specialization
		}
	}
	return nil, ""
}
