package main

import (
	"reflect"
	"testing"

	"github.com/dougfinl/osckit/osc"
)

func TestParseArg(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		long   bool
		double bool
		symbol bool
		want   interface{}
	}{
		{name: "int32", in: "42", want: int32(42)},
		{name: "negative int32", in: "-7", want: int32(-7)},
		{name: "int64 when forced", in: "42", long: true, want: int64(42)},
		{name: "int64 when too wide", in: "3000000000", want: int64(3000000000)},
		{name: "float32", in: "1.5", want: float32(1.5)},
		{name: "float32 exponent", in: "1e3", want: float32(1000)},
		{name: "float64 when forced", in: "1.5", double: true, want: 1.5},
		{name: "string", in: "hello", want: "hello"},
		{name: "symbol when forced", in: "hello", symbol: true, want: osc.Symbol("hello")},
		{name: "true", in: "true", want: true},
		{name: "false", in: "false", want: false},
		{name: "nil", in: "nil", want: nil},
		{name: "impulse", in: "impulse", want: osc.Impulse{}},
		{name: "numeric-looking string", in: "12abc", want: "12abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseArg(tt.in, tt.long, tt.double, tt.symbol)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseArg(%q) = %#v (%T), want %#v (%T)", tt.in, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestParseArgAppendable(t *testing.T) {
	msg := osc.NewMessage("/check")
	for _, in := range []string{"42", "1.5", "true", "nil", "impulse", "text"} {
		if err := msg.Append(parseArg(in, false, false, false)); err != nil {
			t.Errorf("Append(parseArg(%q)): %v", in, err)
		}
	}
	tags, err := msg.TypeTags()
	if err != nil {
		t.Fatal(err)
	}
	if tags != ",ifTNIs" {
		t.Errorf("TypeTags = %q, want \",ifTNIs\"", tags)
	}
}
