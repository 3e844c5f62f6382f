package extraction

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lexi-drafting-be/pkg/store"
)

// PlaceholderPattern matches a {{key}} token.
var PlaceholderPattern = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)

var titleCaser = cases.Title(language.English)

// FindPlaceholders returns distinct placeholder keys in first-appearance order.
func FindPlaceholders(text string) []string {
	var keys []string
	seen := make(map[string]struct{})
	for _, m := range PlaceholderPattern.FindAllStringSubmatch(text, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		keys = append(keys, m[1])
	}
	return keys
}

// LabelFromKey turns "tenant_full_name" into "Tenant Full Name".
func LabelFromKey(key string) string {
	return titleCaser.String(strings.ToLower(strings.TrimSpace(strings.ReplaceAll(key, "_", " "))))
}

// VariablesFromBody derives required string variables from the body's tokens.
func VariablesFromBody(body string) []store.Variable {
	return placeholderVariables(FindPlaceholders(body))
}

func placeholderVariables(keys []string) []store.Variable {
	vars := make([]store.Variable, len(keys))
	for i, key := range keys {
		label := LabelFromKey(key)
		vars[i] = store.Variable{
			Key:         key,
			Label:       label,
			Description: "Variable for " + strings.ToLower(label),
			Required:    true,
			Dtype:       store.DtypeString,
		}
	}
	return vars
}

// NormalizeKey coerces a model-supplied key into a snake_case identifier.
// It returns "" when nothing usable is left.
func NormalizeKey(raw string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToLower(r))
			underscore = false
		case b.Len() > 0 && !underscore:
			b.WriteByte('_')
			underscore = true
		}
	}
	key := strings.TrimRight(b.String(), "_")
	if key == "" {
		return ""
	}
	if key[0] >= '0' && key[0] <= '9' {
		key = "_" + key
	}
	return key
}

var documentExtensions = map[string]struct{}{
	".pdf": {}, ".docx": {}, ".doc": {}, ".txt": {}, ".md": {}, ".markdown": {}, ".rtf": {},
}

// TitleFromFilename strips a document extension and title-cases the rest.
// Web page titles pass through with only their casing changed.
func TitleFromFilename(filename string) string {
	base := filename
	if _, ok := documentExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
		base = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	if strings.TrimSpace(base) == "" {
		return "Untitled Template"
	}
	return titleCaser.String(strings.ToLower(base))
}
