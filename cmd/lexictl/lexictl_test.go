package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexi-drafting-be/internal/config"
	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/pkg/apperror"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestReadTextFile(t *testing.T) {
	t.Run("utf8 text", func(t *testing.T) {
		text, err := readTextFile(writeFile(t, "notice.txt", []byte("Notice to café owners.")))
		require.NoError(t, err)
		assert.Equal(t, "Notice to café owners.", text)
	})

	t.Run("invalid utf8", func(t *testing.T) {
		_, err := readTextFile(writeFile(t, "latin1.txt", []byte("caf\xe9 lease")))
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		assert.ErrorContains(t, err, "latin1.txt")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readTextFile(filepath.Join(t.TempDir(), "nope.txt"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestRunChunks(t *testing.T) {
	cfg = config.Load()
	log = logger.NewNopLogger()

	t.Run("prints spans", func(t *testing.T) {
		var out bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&out)

		require.NoError(t, runChunks(cmd, []string{writeFile(t, "short.txt", []byte("One sentence only."))}))
		assert.Contains(t, out.String(), "#1 [0,18) overlap=0")
		assert.Contains(t, out.String(), "1 chunks")
	})

	t.Run("rejects invalid utf8", func(t *testing.T) {
		var out bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&out)

		err := runChunks(cmd, []string{writeFile(t, "bad.txt", []byte{'a', 0xff, 'b'})})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		assert.Empty(t, out.String())
	})
}
