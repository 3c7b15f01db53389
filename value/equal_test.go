package value

import (
	"math"
	"testing"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"ints", uint8(1), uint8(1), true},
		{"int types differ", uint8(1), uint16(1), false},
		{"flags missing is false", Flags{"a": true, "b": false}, Flags{"a": true}, true},
		{"flags differ", Flags{"a": true}, Flags{"b": true}, false},
		{"record", Record{"x": uint8(255), "y": "ab"}, Record{"x": uint8(255), "y": "ab"}, true},
		{"record missing field", Record{"x": nil}, Record{"y": nil}, false},
		{"variant", Variant{Case: "err", Value: "bad"}, Variant{Case: "err", Value: "bad"}, true},
		{"variant case", Variant{Case: "ok"}, Variant{Case: "err"}, false},
		{"nested option", Some(None), Some(None), true},
		{"some none vs none", Some(None), None, false},
		{"result", Err("x"), Err("x"), true},
		{"result side", Ok("x"), Err("x"), false},
		{"nan", math.NaN(), math.NaN(), true},
		{"list", []any{Record{"a": int8(1)}}, []any{Record{"a": int8(1)}}, true},
		{"typed slice", []float32{1, 2}, []float32{1, 2}, true},
		{"nil", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
