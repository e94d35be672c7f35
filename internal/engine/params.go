package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/mercator/internal/ast"
)

// DefaultEpsilon is the boundary nudge applied by Outside: the difference
// between 1.0 and the next representable float64. The tolerance is absolute
// and does not scale with the shape.
const DefaultEpsilon = 2.220446049250313e-16

// ViewPort is the caller's clipping rectangle, in raw coordinates of the
// clipped bag's space.
type ViewPort struct {
	Low  ast.LiteralPosition
	High ast.LiteralPosition
}

// Parameters are the per-turn execution settings.
type Parameters struct {
	// ViewPort clips query results when set.
	ViewPort *ViewPort

	// Epsilon is the inward nudge that makes shape surfaces count as
	// outside.
	Epsilon float64
}

// DefaultParameters returns parameters with no viewport and DefaultEpsilon.
func DefaultParameters() Parameters {
	return Parameters{Epsilon: DefaultEpsilon}
}

// ParseViewPort parses "low;high" where each corner is a comma-separated
// list of numbers, e.g. "0,0;10,10". An empty string means no viewport.
func ParseViewPort(text string) (*ViewPort, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	lowText, highText, ok := strings.Cut(text, ";")
	if !ok {
		return nil, fmt.Errorf("viewport %q: expected low;high", text)
	}
	low, err := parseCorner(lowText)
	if err != nil {
		return nil, fmt.Errorf("viewport %q: %w", text, err)
	}
	high, err := parseCorner(highText)
	if err != nil {
		return nil, fmt.Errorf("viewport %q: %w", text, err)
	}
	if len(low) != len(high) {
		return nil, fmt.Errorf("viewport %q: corners have %d and %d dimensions", text, len(low), len(high))
	}
	return &ViewPort{Low: low, High: high}, nil
}

func parseCorner(text string) (ast.LiteralPosition, error) {
	var pos ast.LiteralPosition
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if i, err := strconv.ParseInt(part, 10, 64); err == nil {
			pos = append(pos, ast.Int(i))
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", part)
		}
		pos = append(pos, ast.Float(f))
	}
	return pos, nil
}
