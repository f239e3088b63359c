package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Number is a cost/quantity value that tolerates sloppy input. Operators type
// into free-form entry fields, and old ledger files store some numerics as
// strings, so decoding accepts JSON numbers, quoted numbers, null, and garbage
// alike. Anything unparseable decodes to 0 rather than failing the request.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number(ParseNumberOrZero(string(data)))
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(n))
}

// ParseNumberOrZero is the single definition of the silent numeric coercion
// used across the engine: blank or unparseable input is 0, never an error.
// The input may carry JSON string quotes.
func ParseNumberOrZero(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"`)
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
