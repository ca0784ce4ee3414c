package server

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", maxArgLogLen))
	assert.Equal(t, "ab", truncate("abcdef", 2))

	long := strings.Repeat("x", 250)
	got := truncate(long, maxArgLogLen)
	assert.Len(t, got, maxArgLogLen)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	got := truncate(strings.Repeat("ü", 10), 6)
	assert.Equal(t, "üüü...", got)
	assert.True(t, utf8.ValidString(got))
}
