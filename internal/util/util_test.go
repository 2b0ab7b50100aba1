package util

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	var v any
	if err := DecodeJSON([]byte(`{"id": 12345678901234567890}`), &v); err != nil {
		t.Fatalf("DecodeJSON error: %v", err)
	}
	id := v.(map[string]any)["id"]
	if n, ok := id.(json.Number); !ok || n.String() != "12345678901234567890" {
		t.Errorf("id = %#v, want json.Number 12345678901234567890", id)
	}

	if err := DecodeJSON([]byte(`[1] [2]`), &v); err == nil {
		t.Error("expected error for trailing content")
	}
	if err := DecodeJSON([]byte(`  [1]  `), &v); err != nil {
		t.Errorf("whitespace should be allowed, got %v", err)
	}
}

func TestReadAllLimit(t *testing.T) {
	b, err := ReadAllLimit(strings.NewReader("abcdef"), 4)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "abcd" {
		t.Errorf("got %q, want abcd", b)
	}

	b, _ = ReadAllLimit(strings.NewReader("abc"), 0)
	if string(b) != "abc" {
		t.Errorf("got %q, want abc", b)
	}
}

func TestScalarText(t *testing.T) {
	tests := []struct {
		in      any
		text    string
		numeric bool
		ok      bool
	}{
		{"REQ-1", "REQ-1", false, true},
		{json.Number("42"), "42", true, true},
		{float64(7), "7", true, true},
		{int64(9), "9", true, true},
		{true, "", false, false},
		{map[string]any{}, "", false, false},
		{nil, "", false, false},
	}
	for _, tt := range tests {
		text, numeric, ok := ScalarText(tt.in)
		if text != tt.text || numeric != tt.numeric || ok != tt.ok {
			t.Errorf("ScalarText(%#v) = (%q, %v, %v), want (%q, %v, %v)",
				tt.in, text, numeric, ok, tt.text, tt.numeric, tt.ok)
		}
	}
}

func TestMustJSON(t *testing.T) {
	if got := MustJSON(map[string]int{"a": 1}); got != "{\n  \"a\": 1\n}" {
		t.Errorf("MustJSON = %q", got)
	}
	if got := MustJSON(func() {}); !strings.HasPrefix(got, "<json error") {
		t.Errorf("MustJSON(func) = %q, want error marker", got)
	}
}
