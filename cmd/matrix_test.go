package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const kernelText = `gene k1 k2 k3
YAL001C 0.5 1.25 -3.0
YAL002W 2.0 0.0 4.5
YAL003W -1.5 0.75 0.25
`

func TestParseTextMatrix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kernel.txt")
	require.NoError(t, os.WriteFile(path, []byte(kernelText), 0o644))

	t.Run("header skipped and identifier column dropped", func(t *testing.T) {
		m, err := parseTextMatrix(path, true)
		require.NoError(t, err)

		rows, cols := m.Dims()
		require.Equal(t, 3, rows)
		require.Equal(t, 3, cols)
		require.InDelta(t, 0.5, m.At(0, 0), 1e-12)
		require.InDelta(t, 4.5, m.At(1, 2), 1e-12)
		require.InDelta(t, -1.5, m.At(2, 0), 1e-12)
	})

	t.Run("labels file has no header row", func(t *testing.T) {
		labelsPath := filepath.Join(t.TempDir(), "labels.txt")
		require.NoError(t, os.WriteFile(labelsPath, []byte("YAL001C 1 -1\nYAL002W -1 1\n"), 0o644))

		m, err := parseTextMatrix(labelsPath, false)
		require.NoError(t, err)

		rows, cols := m.Dims()
		require.Equal(t, 2, rows)
		require.Equal(t, 2, cols)
		require.Equal(t, 1.0, m.At(0, 0))
		require.Equal(t, -1.0, m.At(1, 0))
	})

	t.Run("ragged rows are rejected", func(t *testing.T) {
		badPath := filepath.Join(t.TempDir(), "bad.txt")
		require.NoError(t, os.WriteFile(badPath, []byte("a 1 2\nb 1\n"), 0o644))

		_, err := parseTextMatrix(badPath, false)
		require.Error(t, err)
	})

	t.Run("non-numeric values are rejected", func(t *testing.T) {
		badPath := filepath.Join(t.TempDir(), "bad.txt")
		require.NoError(t, os.WriteFile(badPath, []byte("a 1 oops\n"), 0o644))

		_, err := parseTextMatrix(badPath, false)
		require.Error(t, err)
	})
}

func TestMatrixCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	txtPath := filepath.Join(dir, "kernel.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte(kernelText), 0o644))

	parsed, err := parseTextMatrix(txtPath, true)
	require.NoError(t, err)

	npyPath := filepath.Join(dir, "kernel.npy")
	require.NoError(t, saveMatrix(npyPath, parsed))

	loaded, err := loadMatrix(npyPath)
	require.NoError(t, err)

	rows, cols := loaded.Dims()
	require.Equal(t, 3, rows)
	require.Equal(t, 3, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			require.InDelta(t, parsed.At(i, j), loaded.At(i, j), 1e-12)
		}
	}
}

func TestConvertKernelFile(t *testing.T) {
	dir := t.TempDir()
	txtPath := filepath.Join(dir, "kernel.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte(kernelText), 0o644))
	npyPath := filepath.Join(dir, "kernel.npy")

	require.NoError(t, convertKernelFile(txtPath, npyPath))

	// the text source is gone, the binary cache readable
	_, err := os.Stat(txtPath)
	require.True(t, os.IsNotExist(err))
	m, err := loadMatrix(npyPath)
	require.NoError(t, err)
	rows, cols := m.Dims()
	require.Equal(t, 3, rows)
	require.Equal(t, 3, cols)
}

func TestConcatColumns(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b := mat.NewDense(2, 1, []float64{5, 6})

	combined := concatColumns([]*mat.Dense{a, b})

	rows, cols := combined.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 3, cols)
	require.Equal(t, 2.0, combined.At(0, 1))
	require.Equal(t, 5.0, combined.At(0, 2))
	require.Equal(t, 6.0, combined.At(1, 2))
}
