package util

import (
	"encoding/json"
	"strconv"
)

// ScalarText renders a decoded JSON scalar as text.
//
// Numbers must arrive as json.Number (json.Decoder.UseNumber) so large ids are
// not rounded through float64. The second result reports whether v was numeric.
func ScalarText(v any) (text string, numeric bool, ok bool) {
	switch x := v.(type) {
	case string:
		return x, false, true
	case json.Number:
		return x.String(), true, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true, true
	case int:
		return strconv.Itoa(x), true, true
	case int64:
		return strconv.FormatInt(x, 10), true, true
	default:
		return "", false, false
	}
}
