package requests

import (
	"bytes"
	"encoding/json"
	"fmt"

	"requester-dashboard/internal/util"
)

// Scalar is a backend-assigned value that may arrive as a JSON string or number.
// Booleans, objects and arrays are rejected.
//
// The original JSON kind is kept so the value round-trips unchanged. Scalars are
// comparable and can be used as map keys.
type Scalar struct {
	text    string
	numeric bool
	set     bool
}

// StringScalar returns a Scalar that encodes as a JSON string.
func StringScalar(s string) Scalar {
	return Scalar{text: s, set: true}
}

// NumberScalar returns a Scalar that encodes as a JSON number.
func NumberScalar(n int64) Scalar {
	return Scalar{text: fmt.Sprint(n), numeric: true, set: true}
}

// String returns the textual form ("" when absent).
func (s Scalar) String() string { return s.text }

// IsZero reports whether the value was absent or null.
func (s Scalar) IsZero() bool { return !s.set }

// Numeric reports whether the backend sent a JSON number.
func (s Scalar) Numeric() bool { return s.numeric }

func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte("null"), nil
	}
	if s.numeric {
		return []byte(s.text), nil
	}
	return json.Marshal(s.text)
}

func (s *Scalar) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*s = Scalar{}
		return nil
	}
	var v any
	if err := util.DecodeJSON(b, &v); err != nil {
		return err
	}
	text, numeric, ok := util.ScalarText(v)
	if !ok {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*s = Scalar{text: text, numeric: numeric, set: true}
	return nil
}
