package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var subsetCmd = &cobra.Command{
	Use:   "subset",
	Short: "Build a binary class-pair subset of the yeast dataset",
	Long: `Selects the samples belonging exclusively to one of two chosen classes and
reduces every kernel matrix to them, turning the multi-label dataset into a
binary classification problem. The derived subset is memoized on disk; the
full dataset is fetched first if the cache is empty.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := globalConfig
		cfg.Mode = "subset"

		if err := cfg.Validate(); err != nil {
			fatal(err)
		}

		class1, class2, err := cfg.ClassPair()
		if err != nil {
			fatal(err)
		}

		sub, err := fetchYeastPair(&cfg, class1, class2)
		if err != nil {
			fatal(err)
		}

		rows, cols := sub.K.Dims()
		infof("subset %dv%d ready: %d samples, combined matrix %dx%d",
			class1, class2, len(sub.Y), rows, cols)

		if cfg.ExportFile != "" {
			if err := exportSubsetHDF5(sub, cfg.ExportFile); err != nil {
				fatal(err)
			}
			infof("subset exported to %q", cfg.ExportFile)
		}
	},
}

func initSubset() {
	rootCmd.AddCommand(subsetCmd)
	subsetCmd.PersistentFlags().StringVarP(&globalConfig.Classes,
		"classes", "c", "5,7", "The 1-based class pair to build the subset for, e.g. 5,7")
	subsetCmd.PersistentFlags().IntVarP(&globalConfig.MaxPerClass,
		"samples", "n", 100, "Maximum number of exclusive samples to keep per class")
	subsetCmd.PersistentFlags().StringVarP(&globalConfig.DataDir,
		"data-dir", "d", DefaultDataDir, "Directory the dataset cache lives under")
	subsetCmd.PersistentFlags().StringVarP(&globalConfig.BaseURL,
		"base-url", "u", yeastBaseURL, "Base URL the dataset files are downloaded from")
	subsetCmd.PersistentFlags().StringVarP(&globalConfig.ExportFile,
		"export", "e", "", "Write the subset to an HDF5 file at this path")
	subsetCmd.PersistentFlags().BoolVarP(&globalConfig.Quiet,
		"quiet", "q", false, "Suppress download progress output")
}

// pairCachePath names the memoized subset file. Classes are 0-based in the
// file name, matching the cache layout of earlier versions of this tool, and
// the pair order is part of the key.
func pairCachePath(dataDir string, classA, classB int) string {
	name := fmt.Sprintf("%s_data__%d_%d.gob", yeastDatasetName, classA, classB)
	return filepath.Join(datasetDir(dataDir, yeastDatasetName), name)
}

// fetchYeastPair returns the class-pair subset for a 1-based class pair,
// computing and memoizing it on first use. Presence of the cache file
// short-circuits recomputation entirely; there is no invalidation if the
// source data changes.
func fetchYeastPair(cfg *Config, class1, class2 int) (*ClassPairSubset, error) {
	// column indexing starts at zero, the public numbering at one
	classA := class1 - 1
	classB := class2 - 1

	cachePath := pairCachePath(cfg.DataDir, classA, classB)
	if sub, err := loadSubset(cachePath); err == nil {
		return sub, nil
	} else if !os.IsNotExist(err) {
		log.WithFields(log.Fields{"path": cachePath}).WithError(err).Warn("Unreadable subset cache, recomputing")
	}

	log.Printf("Recomputing class pair data")
	data, err := fetchData(cfg)
	if err != nil {
		return nil, err
	}

	sub := buildPairSubset(data, classA, classB, cfg.MaxPerClass)
	if err := saveSubset(cachePath, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// FetchYeast57 returns the class 5 versus class 7 subset.
func FetchYeast57(cfg *Config) (*ClassPairSubset, error) {
	return fetchYeastPair(cfg, 5, 7)
}

// FetchYeast512 returns the class 5 versus class 12 subset.
func FetchYeast512(cfg *Config) (*ClassPairSubset, error) {
	return fetchYeastPair(cfg, 5, 12)
}

// FetchYeast712 returns the class 7 versus class 12 subset.
func FetchYeast712(cfg *Config) (*ClassPairSubset, error) {
	return fetchYeastPair(cfg, 7, 12)
}
