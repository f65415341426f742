package tokenapi

import (
	"bytes"
	"math"
	"strconv"
)

// optionalInt decodes a JSON integer and records whether one was present.
// Anything else (null, strings, fractions, objects) leaves it unset without
// failing the surrounding document.
type optionalInt struct {
	value int
	set   bool
}

func (o *optionalInt) UnmarshalJSON(data []byte) error {
	*o = optionalInt{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] == '"' || trimmed[0] == '{' || trimmed[0] == '[' {
		return nil
	}

	if parsed, err := strconv.ParseInt(string(trimmed), 10, 64); err == nil {
		if parsed >= math.MinInt32 && parsed <= math.MaxInt32 {
			*o = optionalInt{value: int(parsed), set: true}
		}
		return nil
	}

	parsed, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil || parsed != math.Trunc(parsed) || math.Abs(parsed) > math.MaxInt32 {
		return nil
	}
	*o = optionalInt{value: int(parsed), set: true}

	return nil
}

func (o optionalInt) ptr() *int {
	if !o.set {
		return nil
	}
	value := o.value
	return &value
}
