package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/fwojciec/traverse/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSolidityFiles(t *testing.T) {
	t.Parallel()

	t.Run("finds sources and skips excluded directories", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "contracts/Token.sol", "")
		writeFile(t, dir, "contracts/lib/Math.sol", "")
		writeFile(t, dir, "Vault.sol", "")
		writeFile(t, dir, "README.md", "")
		writeFile(t, dir, "node_modules/dep/Dep.sol", "")
		writeFile(t, dir, "build/Out.sol", "")
		writeFile(t, dir, "cache/Cached.sol", "")
		writeFile(t, dir, ".git/Hook.sol", "")

		got, err := fs.FindSolidityFiles(dir)
		require.NoError(t, err)

		assert.Equal(t, []string{
			fs.PathToURI(filepath.Join(dir, "Vault.sol")),
			fs.PathToURI(filepath.Join(dir, "contracts", "Token.sol")),
			fs.PathToURI(filepath.Join(dir, "contracts", "lib", "Math.sol")),
		}, got)
	})

	t.Run("returned uris resolve back to paths", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeFile(t, dir, "My Token.sol", "")

		got, err := fs.FindSolidityFiles(dir)
		require.NoError(t, err)
		require.Len(t, got, 1)

		resolved, err := fs.ResolveLocation(got[0])
		require.NoError(t, err)
		assert.Equal(t, path, resolved)
	})

	t.Run("extension match is case sensitive", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "Lower.sol", "")
		writeFile(t, dir, "Upper.SOL", "")
		writeFile(t, dir, "Mixed.Sol", "")

		got, err := fs.FindSolidityFiles(dir)
		require.NoError(t, err)

		assert.Equal(t, []string{fs.PathToURI(filepath.Join(dir, "Lower.sol"))}, got)
	})

	t.Run("empty workspace", func(t *testing.T) {
		t.Parallel()

		got, err := fs.FindSolidityFiles(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("missing workspace is an error", func(t *testing.T) {
		t.Parallel()

		_, err := fs.FindSolidityFiles(filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
	})
}
