package cmd

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// parseTextMatrix loads a whitespace-delimited numeric text matrix. The
// leading column of every row is a sample identifier and is dropped;
// skipHeader additionally skips the first row.
func parseTextMatrix(path string, skipHeader bool) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	// kernel matrix rows run to thousands of columns
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var data []float64
	rows, cols := 0, -1
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			if skipHeader {
				continue
			}
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, errors.Errorf("parse %s: row %d has %d columns", path, rows+1, len(fields))
		}
		if cols == -1 {
			cols = len(fields) - 1
		} else if len(fields)-1 != cols {
			return nil, errors.Errorf("parse %s: row %d has %d columns, want %d", path, rows+1, len(fields)-1, cols)
		}

		for _, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "parse %s: row %d", path, rows+1)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if rows == 0 {
		return nil, errors.Errorf("parse %s: empty matrix", path)
	}

	return mat.NewDense(rows, cols, data), nil
}

// saveMatrix writes m to path in NumPy .npy format.
func saveMatrix(path string, m *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	if err := npyio.Write(f, m); err != nil {
		f.Close()
		return errors.Wrapf(err, "save %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}

func loadMatrix(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	defer f.Close()

	var m mat.Dense
	if err := npyio.Read(f, &m); err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return &m, nil
}

// concatColumns joins row-aligned matrices side by side.
func concatColumns(kernels []*mat.Dense) *mat.Dense {
	combined := kernels[0]
	for _, k := range kernels[1:] {
		var wide mat.Dense
		wide.Augment(combined, k)
		combined = &wide
	}
	return combined
}
