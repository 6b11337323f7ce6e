package evaluation

import (
	"fmt"
	"strings"
)

// Value is the recorded response to a question.
type Value string

const (
	// Unset marks a question with no response yet.
	Unset Value = ""
	// Yes marks a compliant response.
	Yes Value = "yes"
	// No marks a non-compliant response.
	No Value = "no"
	// NA marks a question as not applicable.
	NA Value = "na"
)

// ParseValue converts user input into a Value.
func ParseValue(raw string) (Value, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y":
		return Yes, nil
	case "no", "n":
		return No, nil
	case "na", "n/a", "a":
		return NA, nil
	case "", "unset":
		return Unset, nil
	}
	return Unset, fmt.Errorf("unknown answer value %q", raw)
}

// IsSet reports whether the value is a real response.
func (v Value) IsSet() bool {
	return v == Yes || v == No || v == NA
}

// String returns the wire form of the value.
func (v Value) String() string {
	if v == Unset {
		return "unset"
	}
	return string(v)
}
