package cmd

import (
	"encoding/gob"
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// uniqueIndices returns the row indices of samples belonging exclusively to
// classA or classB: flag 1 in that column and in no other column at all.
// The classA block comes first, each block in ascending row order and
// truncated to maxPerClass. Column indexing starts at zero.
func uniqueIndices(y mat.Matrix, classA, classB, maxPerClass int) []int {
	indices := exclusiveTo(y, classA, maxPerClass)
	return append(indices, exclusiveTo(y, classB, maxPerClass)...)
}

func exclusiveTo(y mat.Matrix, class, maxPerClass int) []int {
	rows, cols := y.Dims()
	indices := make([]int, 0, maxPerClass)
	for i := 0; i < rows; i++ {
		if y.At(i, class) != 1 {
			continue
		}
		only := true
		for j := 0; j < cols; j++ {
			if j != class && y.At(i, j) == 1 {
				only = false
				break
			}
		}
		if only {
			indices = append(indices, i)
			if len(indices) == maxPerClass {
				break
			}
		}
	}
	return indices
}

// ClassPairSubset is a binary classification view of the full dataset,
// restricted to samples exclusive to one of two classes. Y holds 1 for
// first-class membership and -1 otherwise; K is the column-wise
// concatenation of the reduced kernels.
type ClassPairSubset struct {
	Kernels map[string]*mat.Dense
	Y       []float64
	K       *mat.Dense
	Indices []int
}

// buildPairSubset derives the class-pair subset from the full dataset.
// Classes are 0-based column indices here; the public 1-based numbering is
// converted by the callers.
func buildPairSubset(data *Dataset, classA, classB, maxPerClass int) *ClassPairSubset {
	indices := uniqueIndices(data.Y, classA, classB, maxPerClass)

	sub := &ClassPairSubset{
		Kernels: make(map[string]*mat.Dense, len(yeastKernelNames)),
		Indices: indices,
	}

	kernels := make([]*mat.Dense, 0, len(yeastKernelNames))
	for _, name := range yeastKernelNames {
		reduced := squareSubmatrix(data.Kernels[name], indices)
		sub.Kernels[name] = reduced
		kernels = append(kernels, reduced)
	}
	sub.K = concatColumns(kernels)

	sub.Y = make([]float64, len(indices))
	for i, idx := range indices {
		sub.Y[i] = data.Y.At(idx, classA)
	}

	return sub
}

// squareSubmatrix takes the same index set along both axes, preserving the
// kernel matrix property under sample selection.
func squareSubmatrix(m *mat.Dense, indices []int) *mat.Dense {
	out := mat.NewDense(len(indices), len(indices), nil)
	for i, row := range indices {
		for j, col := range indices {
			out.Set(i, j, m.At(row, col))
		}
	}
	return out
}

// Gob needs exported fields, and mat.Dense has none, so subsets are stored
// through flat records.
type matrixRecord struct {
	Rows, Cols int
	Data       []float64
}

type subsetRecord struct {
	Kernels map[string]matrixRecord
	Y       []float64
	K       matrixRecord
	Indices []int
}

func toMatrixRecord(m *mat.Dense) matrixRecord {
	rows, cols := m.Dims()
	data := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return matrixRecord{Rows: rows, Cols: cols, Data: data}
}

func fromMatrixRecord(rec matrixRecord) *mat.Dense {
	return mat.NewDense(rec.Rows, rec.Cols, rec.Data)
}

func saveSubset(path string, sub *ClassPairSubset) error {
	rec := subsetRecord{
		Kernels: make(map[string]matrixRecord, len(sub.Kernels)),
		Y:       sub.Y,
		K:       toMatrixRecord(sub.K),
		Indices: sub.Indices,
	}
	for name, k := range sub.Kernels {
		rec.Kernels[name] = toMatrixRecord(k)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "save subset %s", path)
	}
	if err := gob.NewEncoder(f).Encode(rec); err != nil {
		f.Close()
		return errors.Wrapf(err, "save subset %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "save subset %s", path)
	}
	return nil
}

func loadSubset(path string) (*ClassPairSubset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rec subsetRecord
	if err := gob.NewDecoder(f).Decode(&rec); err != nil {
		return nil, errors.Wrapf(err, "load subset %s", path)
	}

	sub := &ClassPairSubset{
		Kernels: make(map[string]*mat.Dense, len(rec.Kernels)),
		Y:       rec.Y,
		K:       fromMatrixRecord(rec.K),
		Indices: rec.Indices,
	}
	for name, k := range rec.Kernels {
		sub.Kernels[name] = fromMatrixRecord(k)
	}
	return sub, nil
}
