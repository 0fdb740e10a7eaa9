package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var formulaRe = regexp.MustCompile(`^(\d+)d(\d+)(?:\s*([+-])\s*(\d+))?$`)

// Formula is a parsed dice expression such as "2d6+3"
type Formula struct {
	Count int
	Sides int
	Bonus int
}

// ParseFormula parses an "XdY", "XdY+Z" or "XdY-Z" expression
func ParseFormula(s string) (*Formula, error) {
	m := formulaRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return nil, fmt.Errorf("invalid dice formula: %q", s)
	}

	count, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("invalid dice count in %q: %w", s, err)
	}
	sides, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, fmt.Errorf("invalid dice size in %q: %w", s, err)
	}
	if count <= 0 || sides <= 0 {
		return nil, fmt.Errorf("dice formula %q must have positive count and size", s)
	}

	var bonus int
	if m[3] != "" {
		bonus, err = strconv.Atoi(m[4])
		if err != nil {
			return nil, fmt.Errorf("invalid bonus in %q: %w", s, err)
		}
		if m[3] == "-" {
			bonus = -bonus
		}
	}

	return &Formula{Count: count, Sides: sides, Bonus: bonus}, nil
}

// Normalize returns the canonical text form of a formula string, stripping
// whitespace around the operator. Unparseable input is returned trimmed so
// callers can still use it as a de-duplication key.
func Normalize(s string) string {
	f, err := ParseFormula(s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return f.String()
}

// String renders the canonical text form, e.g. "1d8+4"
func (f *Formula) String() string {
	switch {
	case f.Bonus > 0:
		return fmt.Sprintf("%dd%d+%d", f.Count, f.Sides, f.Bonus)
	case f.Bonus < 0:
		return fmt.Sprintf("%dd%d-%d", f.Count, f.Sides, -f.Bonus)
	default:
		return fmt.Sprintf("%dd%d", f.Count, f.Sides)
	}
}

// Average returns the rounded-down expected value of the formula
func (f *Formula) Average() int {
	return f.Count*(f.Sides+1)/2 + f.Bonus
}

// Max returns the maximum possible roll
func (f *Formula) Max() int {
	return f.Count*f.Sides + f.Bonus
}
