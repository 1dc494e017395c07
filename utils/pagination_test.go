package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	assert.Nil(t, Paginate(nil, 10))
	assert.Equal(t, []string{"a\nb"}, Paginate([]string{"a", "b"}, 10))
	assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, Paginate([]string{"aaaa", "bbbb", "cccc"}, 9))
	assert.Equal(t, []string{"abcde", "x"}, Paginate([]string{"abcdefgh", "x"}, 5))
}

func TestPaginateDefaultLimit(t *testing.T) {
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = strings.Repeat("x", 60)
	}
	pages := Paginate(lines, 0)
	assert.Len(t, pages, 2)
	for _, p := range pages {
		assert.LessOrEqual(t, len(p), MaxMessageLength)
	}
	assert.Equal(t, strings.Join(lines, "\n"), strings.Join(pages, "\n"))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "ab", truncate("ab🎉", 4))
	assert.Equal(t, "ab🎉", truncate("ab🎉c", 6))
	assert.Equal(t, "abc", truncate("abc", 3))
}
