package cssom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvalSupports(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		supported bool
		evaluable bool
	}{
		{"known declaration", "(display: grid)", true, true},
		{"known declaration with spaces", "( gap : 4px )", true, true},
		{"negated known declaration", "not (display: grid)", false, true},
		{"double negation", "not (not (display: flex))", true, true},
		{"conjunction", "(display: flex) and (gap: 2px)", true, true},
		{"disjunction short-circuits on a true branch", "(display: flex) or (frobnicate: 1)", true, true},
		{"disjunction with unknown deciding branch", "(frobnicate: 1) or (display: flex)", false, false},
		{"unknown property", "(frobnicate: 12px)", false, false},
		{"vendor prefixed property", "(-webkit-backdrop-filter: blur(2px))", false, false},
		{"custom property", "(--theme: dark)", true, true},
		{"missing value", "(display:)", false, false},
		{"no colon", "(display)", false, false},
		{"empty condition", "", false, false},
		{"selector function construct", "selector(a:hover)", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			supported, evaluable := EvalSupports(tt.condition)
			assert.Equal(t, tt.evaluable, evaluable, "evaluable for %q", tt.condition)
			if tt.evaluable {
				assert.Equal(t, tt.supported, supported, "supported for %q", tt.condition)
			}
		})
	}
}

func TestEvalSupportsConjunctionWithFalseBranch(t *testing.T) {
	supported, evaluable := EvalSupports("(display: flex) and (not (display: flex))")
	assert.True(t, evaluable)
	assert.False(t, supported)
}
