package position

import (
	"fmt"
	"strings"
)

// SizeMode says which reading of Inputs.Amount is authoritative.
type SizeMode int

const (
	// ByAmount treats Amount as the dollar investment.
	ByAmount SizeMode = iota
	// ByQuantity treats Amount as a share/unit count.
	ByQuantity
)

func (m SizeMode) String() string {
	switch m {
	case ByAmount:
		return "investment"
	case ByQuantity:
		return "quantity"
	default:
		return fmt.Sprintf("SizeMode(%d)", int(m))
	}
}

// ParseSizeMode accepts the canonical names plus a few shorthands
// ("amount", "$", "qty", "shares").
func ParseSizeMode(s string) (SizeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "investment", "amount", "$", "":
		return ByAmount, nil
	case "quantity", "qty", "shares":
		return ByQuantity, nil
	}
	return ByAmount, fmt.Errorf("unknown size mode %q", s)
}

func (m SizeMode) MarshalText() ([]byte, error) {
	if m != ByAmount && m != ByQuantity {
		return nil, fmt.Errorf("invalid size mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *SizeMode) UnmarshalText(b []byte) error {
	v, err := ParseSizeMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
