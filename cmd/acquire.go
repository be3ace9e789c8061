package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// acquireDataset downloads every URL into the dataset's directory, extracting
// each archive as it lands. A failed download removes the whole dataset
// directory and aborts the acquisition, so the cache is either fully
// populated or absent. A failed extraction gets exactly one retry cycle with
// a freshly downloaded copy; a second failure is fatal.
//
// The returned paths are the downloaded files with their final extension
// stripped, one per URL, in input order.
func acquireDataset(client *retryablehttp.Client, datasetName string, urls []string, cfg *Config, uncompress bool) ([]string, error) {
	dir := datasetDir(cfg.DataDir, datasetName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create dataset directory %s", dir)
	}

	files := make([]string, 0, len(urls))
	for _, url := range urls {
		fullName, err := fetchFile(client, url, dir, cfg.progressOut())
		if err != nil {
			// leave no partially populated dataset behind
			os.RemoveAll(dir)
			return nil, errors.Wrapf(err, "acquire %s", datasetName)
		}

		if uncompress {
			if err := extractArchive(fullName, cfg.KeepArchives); err != nil {
				// One more cycle with a fresh copy, but no third attempt.
				log.WithFields(log.Fields{"archive": fullName}).Warn("Archive corrupted, downloading it again")
				os.Remove(fullName)
				if _, err := fetchFile(client, url, dir, cfg.progressOut()); err != nil {
					os.RemoveAll(dir)
					return nil, errors.Wrapf(err, "acquire %s", datasetName)
				}
				if err := extractArchive(fullName, cfg.KeepArchives); err != nil {
					return nil, errors.Wrapf(err, "acquire %s", datasetName)
				}
			}
		}

		files = append(files, strings.TrimSuffix(fullName, filepath.Ext(fullName)))
	}

	return files, nil
}
