package main

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"lexi-drafting-be/pkg/apperror"
)

// readTextFile returns the file contents, refusing anything that is not
// UTF-8 text so chunk offsets map back onto the original bytes.
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", apperror.Invalid("%s is not valid UTF-8 text", filepath.Base(path))
	}
	return string(data), nil
}
