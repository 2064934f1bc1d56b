package moderation_test

import (
	"testing"

	"mindbridge/backend/internal/moderation"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Clean(t *testing.T) {
	f := moderation.Default()

	tests := []struct {
		in   string
		want string
	}{
		{in: "have a nice day", want: "have a nice day"},
		{in: "I hate exams", want: "I *** exams"},
		{in: "HATE and Harm", want: "*** and ***"},
		{in: "what a skill", want: "what a s***"},
		{in: "the diet starts monday", want: "the ***t starts monday"},
		{in: "kill kill", want: "*** ***"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Clean(tt.in))
		})
	}
}

func TestFilter_Flagged(t *testing.T) {
	f := moderation.Default()
	assert.True(t, f.Flagged("Harmless"))
	assert.False(t, f.Flagged("hello there"))
}

func TestFilter_CustomWordsAreQuoted(t *testing.T) {
	f := moderation.NewFilter([]string{"a.b", " ", ""}, "#")
	assert.Equal(t, "x#y", f.Clean("xa.by"))
	assert.Equal(t, "xaaby", f.Clean("xaaby"), "dots match literally")

	empty := moderation.NewFilter(nil, "#")
	assert.Equal(t, "hate", empty.Clean("hate"))
	assert.False(t, empty.Flagged("hate"))
}
