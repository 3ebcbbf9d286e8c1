package domain

import (
	"encoding/json"
	"strings"
)

// AliasConfig lists the acceptable property names for each design-text slot.
// An empty slot means "use the default name for that slot".
type AliasConfig struct {
	Top    []string
	Middle []string
	Bottom []string
}

// ParseAliasList turns a stored alias value into a list of property names.
// Client configs store aliases either as a JSON array or as a comma-joined
// string; the structured decode is tried first, then the comma fallback.
// The parse is total: any input yields a (possibly empty) list.
func ParseAliasList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err == nil {
		return cleanAliases(names)
	}

	return cleanAliases(strings.Split(raw, ","))
}

func cleanAliases(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseSlug derives the tenant slug from an inbound hook identifier: a
// trailing "-orders"/"_orders" suffix is stripped and the remainder is
// normalized to lowercase alphanumerics, hyphens and underscores.
func ParseSlug(hookID string) string {
	s := strings.ToLower(strings.TrimSpace(hookID))
	s = strings.TrimSuffix(s, "-orders")
	s = strings.TrimSuffix(s, "_orders")

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
