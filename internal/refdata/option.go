package refdata

import (
	"fmt"
	"strconv"
	"strings"
)

// Option is a single normalized lookup entry. Raw wire fields are kept in
// Extra so dependent filtering (e.g. projects by developer) stays possible.
type Option struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Extra map[string]any `json:"extra,omitempty"`
}

// Categories lists every lookup list the core API exposes.
var Categories = []string{
	CategoryDevelopers,
	CategoryAgents,
	CategoryProjects,
	CategoryStatuses,
	CategoryCommissionTypes,
	CategoryDealTypes,
	CategoryPropertyTypes,
	CategoryUnitTypes,
	CategoryLeadSources,
	CategoryNationalities,
	CategoryPurchaseStatuses,
	CategoryUserRoles,
	CategoryBedrooms,
	CategoryMediaTypes,
	CategoryAreas,
	CategoryTeams,
	CategoryManagers,
}

// Lookup category constants
const (
	CategoryDevelopers       = "developers"
	CategoryAgents           = "agents"
	CategoryProjects         = "projects"
	CategoryStatuses         = "statuses"
	CategoryCommissionTypes  = "commission-types"
	CategoryDealTypes        = "deal-types"
	CategoryPropertyTypes    = "property-types"
	CategoryUnitTypes        = "unit-types"
	CategoryLeadSources      = "lead-sources"
	CategoryNationalities    = "nationalities"
	CategoryPurchaseStatuses = "purchase-statuses"
	CategoryUserRoles        = "user-roles"
	CategoryBedrooms         = "bedrooms"
	CategoryMediaTypes       = "media-types"
	CategoryAreas            = "areas"
	CategoryTeams            = "teams"
	CategoryManagers         = "managers"
)

// nameFields is the precedence order for deriving a display name.
var nameFields = []string{"name", "status", "title", "label", "value"}

// Normalize converts raw lookup records into options. Records without an id
// are dropped. The display name comes from the first present name-like field;
// role options use the wire field "status". Project names are synthesized as
// "<project> — <developer>" when a developer name is available. Options whose
// labels collide are disambiguated with a short id suffix.
func Normalize(category string, raw []map[string]any) []Option {
	opts := make([]Option, 0, len(raw))
	for _, item := range raw {
		id := stringify(item["id"])
		if id == "" {
			continue
		}

		var name string
		switch category {
		case CategoryUserRoles:
			name = stringify(item["status"])
		case CategoryProjects:
			name = projectName(item)
		default:
			for _, field := range nameFields {
				if v := stringify(item[field]); v != "" {
					name = v
					break
				}
			}
		}
		if name == "" {
			name = id
		}

		opts = append(opts, Option{ID: id, Name: name, Extra: item})
	}

	return disambiguate(opts)
}

// projectName builds the project display label. The developer name may arrive
// flat (developerName) or nested (developer.name).
func projectName(item map[string]any) string {
	name := stringify(item["name"])
	if name == "" {
		return ""
	}

	dev := stringify(item["developerName"])
	if dev == "" {
		if nested, ok := item["developer"].(map[string]any); ok {
			dev = stringify(nested["name"])
		}
	}
	if dev == "" {
		return name
	}
	return fmt.Sprintf("%s — %s", name, dev)
}

// disambiguate appends a short id fragment to labels that would otherwise
// render identically, so visual duplicates stay distinguishable in a dropdown.
// Only the label changes; ids are untouched.
func disambiguate(opts []Option) []Option {
	counts := make(map[string]int, len(opts))
	for _, o := range opts {
		counts[o.Name]++
	}

	for i, o := range opts {
		if counts[o.Name] > 1 {
			opts[i].Name = fmt.Sprintf("%s (%s)", o.Name, shortID(o.ID))
		}
	}
	return opts
}

func shortID(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[:6]
}

// stringify renders a wire value as a string. JSON numbers arrive as float64;
// integral values must not pick up a decimal point.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}
