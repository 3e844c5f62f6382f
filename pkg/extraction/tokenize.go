package extraction

import (
	"strings"

	"lexi-drafting-be/pkg/store"
)

// DefaultMaxReplacements bounds how many occurrences of one example become tokens.
const DefaultMaxReplacements = 3

// Tokenize replaces up to limit literal occurrences of each variable's example
// with its {{key}} token. Occurrences overlapping an existing token are skipped.
func Tokenize(body string, vars []store.Variable, limit int) string {
	if limit <= 0 {
		limit = DefaultMaxReplacements
	}
	for _, v := range vars {
		example := strings.TrimSpace(v.Example)
		if example == "" || v.Key == "" {
			continue
		}
		body = replaceOutsideTokens(body, example, "{{"+v.Key+"}}", limit)
	}
	return body
}

func replaceOutsideTokens(body, example, token string, limit int) string {
	spans := PlaceholderPattern.FindAllStringIndex(body, -1)

	var b strings.Builder
	pos, search, replaced := 0, 0, 0
	for replaced < limit && search < len(body) {
		idx := strings.Index(body[search:], example)
		if idx < 0 {
			break
		}
		start := search + idx
		end := start + len(example)
		if overlapsAny(spans, start, end) {
			search = start + 1
			continue
		}
		b.WriteString(body[pos:start])
		b.WriteString(token)
		pos, search = end, end
		replaced++
	}
	if replaced == 0 {
		return body
	}
	b.WriteString(body[pos:])
	return b.String()
}

func overlapsAny(spans [][]int, start, end int) bool {
	for _, s := range spans {
		if start < s[1] && end > s[0] {
			return true
		}
	}
	return false
}
