package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampProgress(t *testing.T) {
	assert.Equal(t, 0, ClampProgress(-10))
	assert.Equal(t, 0, ClampProgress(0))
	assert.Equal(t, 55, ClampProgress(55))
	assert.Equal(t, 100, ClampProgress(100))
	assert.Equal(t, 100, ClampProgress(150))
}

func TestApplyProgressKeepsCompletionInSync(t *testing.T) {
	var e Enrollment

	e.ApplyProgress(40)
	assert.Equal(t, 40, e.Progress)
	assert.False(t, e.Completed)

	e.ApplyProgress(100)
	assert.True(t, e.Completed)

	// Moving back below 100 clears the flag again.
	e.ApplyProgress(99)
	assert.False(t, e.Completed)

	e.ApplyProgress(250)
	assert.Equal(t, 100, e.Progress)
	assert.True(t, e.Completed)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Advanced Go Patterns":     "advanced-go-patterns",
		"  Hello,   World!  ":      "hello-world",
		"Go 1.23 Release Notes":    "go-1-23-release-notes",
		"---":                      "",
		"UPPER":                    "upper",
		"already-a-slug":           "already-a-slug",
		"trailing punctuation!!!!": "trailing-punctuation",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}
