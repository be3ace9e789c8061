package cmd

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Documentation and data: http://noble.gs.washington.edu/yeast/
const (
	yeastDatasetName = "yeast"
	yeastBaseURL     = "http://noble.gs.washington.edu/yeast"
	yeastLabelsName  = "labels_3588_13"
	npyExt           = ".npy"
)

var yeastKernelNames = []string{
	"kernel_matrix_tap_n_3588",
	"kernel_matrix_mpi_n_3588",
	"kernel_matrix_mgi_n_3588",
	"kernel_matrix_exp_gauss_n_3588",
	"kernel_matrix_pfamdom_exp_cn_3588",
	"kernel_matrix_sw_cn_3588",
}

// Dataset is the full yeast kernel collection. All matrices share row
// indexing with the label matrix Y; K is the column-wise concatenation of
// every kernel.
type Dataset struct {
	Kernels map[string]*mat.Dense
	Y       *mat.Dense
	K       *mat.Dense
}

// fetchData returns the yeast kernel dataset, downloading and converting it
// into the binary array cache if needed. Subsequent calls are served entirely
// from disk.
func fetchData(cfg *Config) (*Dataset, error) {
	client := newHTTPClient()
	dir := datasetDir(cfg.DataDir, yeastDatasetName)

	kernelFiles := make([]string, len(yeastKernelNames))
	for i, name := range yeastKernelNames {
		kernelFiles[i] = name + npyExt
	}

	if _, err := locateDataset(yeastDatasetName, kernelFiles, cfg.DataDir); err != nil {
		var missing *missingFileError
		if !errors.As(err, &missing) {
			return nil, err
		}
		log.WithFields(log.Fields{"missing": missing.Path}).Info("Kernel cache incomplete, fetching dataset")

		urls := make([]string, len(yeastKernelNames))
		for i, name := range yeastKernelNames {
			urls[i] = cfg.BaseURL + "/" + name + ".txt.gz"
		}
		bases, err := acquireDataset(client, yeastDatasetName, urls, cfg, true)
		if err != nil {
			return nil, err
		}

		for i, base := range bases {
			log.Printf("Converting file %d of %d", i+1, len(bases))
			if err := convertKernelFile(base, filepath.Join(dir, kernelFiles[i])); err != nil {
				// no half-converted cache may persist
				os.RemoveAll(dir)
				return nil, err
			}
		}
	}

	labelsFile := yeastLabelsName + npyExt
	if _, err := locateDataset(yeastDatasetName, []string{labelsFile}, cfg.DataDir); err != nil {
		var missing *missingFileError
		if !errors.As(err, &missing) {
			return nil, err
		}
		log.WithFields(log.Fields{"missing": missing.Path}).Info("Label cache missing, fetching labels")

		urls := []string{cfg.BaseURL + "/" + yeastLabelsName + ".txt"}
		bases, err := acquireDataset(client, yeastDatasetName, urls, cfg, true)
		if err != nil {
			return nil, err
		}

		txtName := bases[0] + ".txt"
		y, err := parseTextMatrix(txtName, false)
		if err != nil {
			os.RemoveAll(dir)
			return nil, errors.Wrapf(err, "convert %s", txtName)
		}
		if err := saveMatrix(filepath.Join(dir, labelsFile), y); err != nil {
			os.RemoveAll(dir)
			return nil, err
		}
		os.Remove(txtName)
	}

	data := &Dataset{Kernels: make(map[string]*mat.Dense, len(yeastKernelNames))}
	kernels := make([]*mat.Dense, 0, len(yeastKernelNames))
	for _, name := range yeastKernelNames {
		ki, err := loadMatrix(filepath.Join(dir, name+npyExt))
		if err != nil {
			return nil, err
		}
		data.Kernels[name] = ki
		kernels = append(kernels, ki)
	}
	data.K = concatColumns(kernels)

	y, err := loadMatrix(filepath.Join(dir, labelsFile))
	if err != nil {
		return nil, err
	}
	data.Y = y

	return data, nil
}

// convertKernelFile turns a downloaded plain-text kernel matrix into its
// binary cache entry and removes the text source.
func convertKernelFile(txtPath, npyPath string) error {
	k, err := parseTextMatrix(txtPath, true)
	if err != nil {
		return errors.Wrapf(err, "convert %s", txtPath)
	}
	if err := saveMatrix(npyPath, k); err != nil {
		return err
	}
	if err := os.Remove(txtPath); err != nil {
		return errors.Wrapf(err, "remove %s", txtPath)
	}
	return nil
}
