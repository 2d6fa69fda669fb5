// Package sorting encodes ordered, directional sort entries such as "+name"
// and "-age" and validates them against an allow-list.
package sorting

import "strings"

const (
	ascPrefix  = "+"
	descPrefix = "-"
)

// Entry is a direction-prefixed field name: "+field" sorts ascending and
// "-field" descending.
type Entry string

// Asc builds an ascending entry.
func Asc(field string) Entry {
	return Entry(ascPrefix + field)
}

// Desc builds a descending entry.
func Desc(field string) Entry {
	return Entry(descPrefix + field)
}

// Normalize prefixes raw with "+" unless it already carries a direction. It
// reports false when no field name remains.
func Normalize(raw string) (Entry, bool) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, ascPrefix) && !strings.HasPrefix(raw, descPrefix) {
		raw = ascPrefix + raw
	}
	if len(raw) < 2 {
		return "", false
	}
	return Entry(raw), true
}

// Field returns the name without its direction.
func (e Entry) Field() string {
	s := string(e)
	if strings.HasPrefix(s, ascPrefix) || strings.HasPrefix(s, descPrefix) {
		return s[1:]
	}
	return s
}

// Descending reports whether e sorts descending.
func (e Entry) Descending() bool {
	return strings.HasPrefix(string(e), descPrefix)
}

// Reverse flips the direction of e.
func (e Entry) Reverse() Entry {
	if e.Descending() {
		return Asc(e.Field())
	}
	return Desc(e.Field())
}

func (e Entry) String() string {
	return string(e)
}

// Expand resolves an allow-list into the set of permitted entries. A bare
// field name permits both directions; a prefixed one permits only itself.
func Expand(allowed []string) map[string]struct{} {
	out := make(map[string]struct{}, len(allowed)*2)
	for _, item := range allowed {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.HasPrefix(item, ascPrefix) || strings.HasPrefix(item, descPrefix) {
			if len(item) > 1 {
				out[item] = struct{}{}
			}
			continue
		}
		out[ascPrefix+item] = struct{}{}
		out[descPrefix+item] = struct{}{}
	}
	return out
}
