// Package extract derives design bits from raw order line item properties.
package extract

import (
	"strings"

	"github.com/printhaus/fulfilbridge/internal/domain"
)

// Default property names per design-text slot, used when a client has no
// aliases configured for the slot or none of its aliases match.
const (
	DefaultTopAlias    = "Top line"
	DefaultMiddleAlias = "Middle line"
	DefaultBottomAlias = "Bottom line"
)

// Metadata property names are a closed enumeration, not a pattern: only
// these exact names (known case variants of the upstream apps) resolve.
var (
	printJobIDNames = []string{"_printJobId", "_printjobid", "_print_job_id"}
	thumbNames      = []string{"_thumb", "_Thumb", "_thumbnail", "_preview"}
)

// Bits resolves a line item's property list into design bits using the
// client's alias configuration. Pure function of (properties, aliases);
// no side effects, no external calls.
func Bits(props []domain.Property, aliases domain.AliasConfig) domain.DesignBits {
	return domain.DesignBits{
		Top:        slotValue(props, aliases.Top, DefaultTopAlias),
		Middle:     slotValue(props, aliases.Middle, DefaultMiddleAlias),
		Bottom:     slotValue(props, aliases.Bottom, DefaultBottomAlias),
		PrintJobID: exactValue(props, printJobIDNames),
		Thumb:      exactValue(props, thumbNames),
	}
}

// slotValue returns the value of the first property whose name matches one
// of the configured aliases, case-insensitively. When no alias is
// configured or none matches, the fixed default name for the slot is tried.
func slotValue(props []domain.Property, aliases []string, defaultAlias string) string {
	for _, alias := range aliases {
		for _, p := range props {
			if strings.EqualFold(p.Name, alias) {
				return p.Value
			}
		}
	}
	for _, p := range props {
		if strings.EqualFold(p.Name, defaultAlias) {
			return p.Value
		}
	}
	return ""
}

// exactValue returns the first property value whose name is in the closed
// set of metadata names. Exact match; the set itself carries case variants.
func exactValue(props []domain.Property, names []string) string {
	for _, p := range props {
		for _, name := range names {
			if p.Name == name {
				return p.Value
			}
		}
	}
	return ""
}
