package cmd

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/weaviate/hdf5"
	"gonum.org/v1/gonum/mat"
)

// exportSubsetHDF5 writes the combined kernel matrix and labels of a
// class-pair subset to an HDF5 file, so the subset can be fed to benchmark
// tooling that consumes ann-benchmarks style files.
func exportSubsetHDF5(sub *ClassPairSubset, path string) error {
	log.WithFields(log.Fields{"path": path}).Info("Exporting subset to HDF5")

	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	if err := writeHdf5Matrix(f, "train", sub.K); err != nil {
		return errors.Wrapf(err, "export %s", path)
	}
	if err := writeHdf5Vector(f, "labels", sub.Y); err != nil {
		return errors.Wrapf(err, "export %s", path)
	}
	return nil
}

func writeHdf5Matrix(f *hdf5.File, name string, m *mat.Dense) error {
	rows, cols := m.Dims()

	dataspace, err := hdf5.CreateSimpleDataspace([]uint{uint(rows), uint(cols)}, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	dataset, err := f.CreateDataset(name, hdf5.T_NATIVE_DOUBLE, dataspace)
	if err != nil {
		return err
	}
	defer dataset.Close()

	flat := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			flat = append(flat, m.At(i, j))
		}
	}
	return dataset.Write(&flat)
}

func writeHdf5Vector(f *hdf5.File, name string, v []float64) error {
	dataspace, err := hdf5.CreateSimpleDataspace([]uint{uint(len(v))}, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	dataset, err := f.CreateDataset(name, hdf5.T_NATIVE_DOUBLE, dataspace)
	if err != nil {
		return err
	}
	defer dataset.Close()

	return dataset.Write(&v)
}
