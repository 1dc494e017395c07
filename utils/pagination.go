package utils

import "strings"

// MaxMessageLength is the longest message content Discord accepts.
const MaxMessageLength = 2000

// Paginate packs lines into pages joined by newlines, each at most limit
// characters long. A single line longer than limit is cut to fit.
func Paginate(lines []string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageLength
	}

	var pages []string
	var current strings.Builder
	for _, line := range lines {
		if len(line) > limit {
			line = truncate(line, limit)
		}
		if current.Len() > 0 && current.Len()+1+len(line) > limit {
			pages = append(pages, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		pages = append(pages, current.String())
	}
	return pages
}

// truncate shortens s to at most limit bytes without splitting a UTF-8 sequence.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := 0
	for i := range s {
		if i > limit {
			break
		}
		cut = i
	}
	return s[:cut]
}
