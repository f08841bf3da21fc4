// File: internal/cssom/media.go
package cssom

import (
	"strconv"
	"strings"
)

// Environment describes the evaluating window for conditional rules:
// viewport geometry, the root font size for em/rem lengths inside media
// conditions, and the media type being rendered.
type Environment struct {
	ViewportWidth  float64
	ViewportHeight float64
	RootFontSize   float64
	MediaType      string
}

// DefaultEnvironment returns the environment used when nothing is configured.
func DefaultEnvironment() Environment {
	return Environment{
		ViewportWidth:  1280,
		ViewportHeight: 800,
		RootFontSize:   16,
		MediaType:      "screen",
	}
}

// Orientation derives landscape/portrait from the viewport. Square viewports
// count as landscape, matching CSS ("portrait" requires height > width).
func (e Environment) Orientation() string {
	if e.ViewportHeight > e.ViewportWidth {
		return "portrait"
	}
	return "landscape"
}

// MatchMedia evaluates a media query list against the environment. A list is
// a comma-separated disjunction; each query is an optional "not"/"only"
// prefix, an optional media type, and "and"-joined parenthesized features.
// A query containing a feature the evaluator does not understand is false,
// even under "not" — an unknown condition never reveals hidden rules.
func MatchMedia(query string, env Environment) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	for _, q := range splitTopLevel(query, ',') {
		if matchSingleQuery(strings.TrimSpace(q), env) {
			return true
		}
	}
	return false
}

func matchSingleQuery(q string, env Environment) bool {
	if q == "" {
		return false
	}
	negate := false

	lower := strings.ToLower(q)
	if strings.HasPrefix(lower, "not ") {
		negate = true
		q = strings.TrimSpace(q[4:])
	} else if strings.HasPrefix(lower, "only ") {
		q = strings.TrimSpace(q[5:])
	}

	result := true
	known := true
	for _, part := range splitOnAnd(q) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "(") {
			ok, understood := matchFeature(part, env)
			if !understood {
				known = false
				break
			}
			result = result && ok
		} else {
			result = result && matchMediaType(part, env)
		}
	}

	if !known {
		// Unknown feature: the whole query is false regardless of "not".
		return false
	}
	if negate {
		return !result
	}
	return result
}

func matchMediaType(t string, env Environment) bool {
	t = strings.ToLower(strings.TrimSpace(t))
	envType := strings.ToLower(env.MediaType)
	if envType == "" {
		envType = "screen"
	}
	return t == "all" || t == envType
}

// matchFeature evaluates a single "(name: value)" or "(name)" feature. The
// second return value is false when the feature is not understood.
func matchFeature(expr string, env Environment) (matched bool, understood bool) {
	expr = strings.TrimSpace(expr)
	if !strings.HasPrefix(expr, "(") || !strings.HasSuffix(expr, ")") {
		return false, false
	}
	inner := strings.TrimSpace(expr[1 : len(expr)-1])
	name, value := inner, ""
	if idx := strings.Index(inner, ":"); idx >= 0 {
		name = strings.TrimSpace(inner[:idx])
		value = strings.TrimSpace(inner[idx+1:])
	}
	name = strings.ToLower(name)

	switch name {
	case "width", "min-width", "max-width":
		px, ok := parseMediaLength(value, env)
		if !ok {
			return false, false
		}
		return compareDimension(name, env.ViewportWidth, px), true
	case "height", "min-height", "max-height":
		px, ok := parseMediaLength(value, env)
		if !ok {
			return false, false
		}
		return compareDimension(name, env.ViewportHeight, px), true
	case "orientation":
		switch strings.ToLower(value) {
		case "landscape", "portrait":
			return env.Orientation() == strings.ToLower(value), true
		}
		return false, false
	default:
		return false, false
	}
}

func compareDimension(name string, actual, wanted float64) bool {
	switch {
	case strings.HasPrefix(name, "min-"):
		return actual >= wanted
	case strings.HasPrefix(name, "max-"):
		return actual <= wanted
	default:
		return actual == wanted
	}
}

// parseMediaLength resolves px, em and rem lengths plus bare numbers.
func parseMediaLength(v string, env Environment) (float64, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return 0, false
	}
	font := env.RootFontSize
	if font <= 0 {
		font = 16
	}
	for _, unit := range []struct {
		suffix string
		scale  float64
	}{
		{"px", 1},
		{"rem", font},
		{"em", font},
	} {
		if strings.HasSuffix(v, unit.suffix) {
			num := strings.TrimSpace(strings.TrimSuffix(v, unit.suffix))
			f, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0, false
			}
			return f * unit.scale, true
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// splitOnAnd splits a query on the "and" keyword outside parentheses.
func splitOnAnd(q string) []string {
	var parts []string
	depth := 0
	last := 0
	lower := strings.ToLower(q)
	for i := 0; i < len(q); i++ {
		switch q[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && i+4 <= len(q) && lower[i:i+3] == "and" {
			beforeOK := i == 0 || q[i-1] == ' ' || q[i-1] == ')'
			afterOK := i+3 < len(q) && (q[i+3] == ' ' || q[i+3] == '(')
			if beforeOK && afterOK && i > last {
				parts = append(parts, q[last:i])
				last = i + 3
			}
		}
	}
	parts = append(parts, q[last:])
	return parts
}

// splitTopLevel splits on sep outside parentheses.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}
