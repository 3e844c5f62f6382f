package drafting

import (
	"lexi-drafting-be/pkg/extraction"
)

// Render substitutes answers into body in one pass. Tokens without an answer
// stay as they are and substituted text is never scanned again.
func Render(body string, answers map[string]string) string {
	return extraction.PlaceholderPattern.ReplaceAllStringFunc(body, func(token string) string {
		key := token[2 : len(token)-2]
		if v, ok := answers[key]; ok {
			return v
		}
		return token
	})
}
