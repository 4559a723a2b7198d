package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"heal", []string{"heal"}},
		{"teleport  bob 10\t20", []string{"teleport", "bob", "10", "20"}},
		{`heal "John Smith"`, []string{"heal", "John Smith"}},
		{`say "a \"quoted\" word"`, []string{"say", `a "quoted" word`}},
		{`kick back\\slash`, []string{"kick", `back\slash`}},
		{`kick ""`, []string{"kick", ""}},
		{`a b\ c`, []string{"a", "b c"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitArgs(tt.line), "line %q", tt.line)
	}
}

func TestQuote_RoundTripsThroughSplitArgs(t *testing.T) {
	names := []string{"Bob", "John Smith", `Evil"Name`, `Back\slash`, ""}
	for _, name := range names {
		args := SplitArgs("heal " + Quote(name))
		if assert.Len(t, args, 2, "name %q", name) {
			assert.Equal(t, name, args[1])
		}
	}
}
