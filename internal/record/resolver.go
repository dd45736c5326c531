package record

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DefaultFallback is the value a resolution miss renders as.
const DefaultFallback = "NA"

// unwrapKeys are the sub-fields tried, in order, when a candidate path
// resolves to a nested object instead of a scalar.
var unwrapKeys = []string{"name", "value", "amount", "label"}

// Resolver performs alias-aware field lookup with a documented default.
// It never returns an error and never panics regardless of record shape.
type Resolver struct {
	aliases AliasTable
	logger  *zap.Logger
}

// NewResolver creates a resolver over the given alias table. A nil table
// falls back to the built-in defaults.
func NewResolver(aliases AliasTable, logger *zap.Logger) *Resolver {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{aliases: aliases, logger: logger}
}

// Resolve returns the first usable value for the logical field name, or
// "NA" when no candidate path resolves.
func (r *Resolver) Resolve(rec Record, name string) string {
	return r.ResolveDefault(rec, name, DefaultFallback)
}

// ResolveDefault is Resolve with a caller-supplied fallback value.
func (r *Resolver) ResolveDefault(rec Record, name, fallback string) string {
	candidates, ok := r.aliases[name]
	if !ok {
		candidates = []string{name}
	}

	for _, path := range candidates {
		v, found := rec.Lookup(path)
		if !found {
			continue
		}
		s, usable := coerce(v, fallback)
		if !usable {
			continue
		}
		r.logger.Debug("field resolved",
			zap.String("field", name),
			zap.String("path", path),
		)
		return s
	}

	r.logger.Debug("field unresolved", zap.String("field", name))
	return fallback
}

// Has reports whether the logical field resolves to a usable value.
func (r *Resolver) Has(rec Record, name string) bool {
	return r.ResolveDefault(rec, name, "") != ""
}

// coerce converts a raw candidate value to its display string. The second
// return value is false when the candidate must be skipped so a lower
// priority path can be tried. Boolean false is a usable value ("No"), not
// a miss.
func coerce(v any, fallback string) (string, bool) {
	switch val := v.(type) {
	case bool:
		if val {
			return "Yes", true
		}
		return "No", true
	case string:
		s := strings.TrimSpace(val)
		if s == "" || strings.EqualFold(s, DefaultFallback) {
			return "", false
		}
		return normalizeToken(s), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case map[string]any:
		for _, key := range unwrapKeys {
			if inner, ok := val[key]; ok && inner != nil {
				if s, usable := coerce(inner, fallback); usable {
					return s, true
				}
			}
		}
		// Any other object collapses to the fallback rather than falling
		// through to a lower priority candidate.
		return fallback, true
	default:
		return "", false
	}
}

// normalizeToken canonicalizes yes/no answers so checklist cells render
// consistently regardless of how the form stored them.
func normalizeToken(s string) string {
	switch strings.ToLower(s) {
	case "yes", "y", "true":
		return "Yes"
	case "no", "n", "false":
		return "No"
	default:
		return s
	}
}
