package plugin

import (
	"reflect"
	"testing"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		src      string
		expected Params
	}{
		{"", Params{}},
		{"r=255, g=0, b=0", Params{"r": 255, "g": 0, "b": 0}},
		{"color: 'blue'", Params{"color": "blue"}},
		{`name="it's", x=-1.5`, Params{"name": "it's", "x": -1.5}},
		{"threshold=1e-3", Params{"threshold": 0.001}},
		{"omitfirst=True, omitlast=false, none=None", Params{"omitfirst": true, "omitlast": false, "none": nil}},
		{"letters=['a', 'b'], rgb=(1, 2, 3,)", Params{"letters": []any{"a", "b"}, "rgb": []any{1, 2, 3}}},
		{"nested=[[1], []]", Params{"nested": []any{[]any{1}, []any{}}}},
		{"'quoted key'=1", Params{"quoted key": 1}},
		{`s='a\'b\n'`, Params{"s": "a'b\n"}},
		{"big=1_000", Params{"big": 1000}},
	}

	for _, tt := range tests {
		got, err := ParseParams(tt.src)
		if err != nil {
			t.Errorf("ParseParams(%q) failed: %v", tt.src, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("ParseParams(%q) = %#v, expected %#v", tt.src, got, tt.expected)
		}
	}
}

func TestParseParamsErrors(t *testing.T) {
	tests := []string{
		"r",
		"r=",
		"r=1 g=2",
		"r=1, r=2",
		"r=open('x')",
		"1=2",
		"s='unterminated",
		"l=[1, 2",
		"x=-",
		"x=@",
	}

	for _, src := range tests {
		if got, err := ParseParams(src); err == nil {
			t.Errorf("ParseParams(%q) = %v, expected an error", src, got)
		}
	}
}
