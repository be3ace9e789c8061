package cmd

import (
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and convert the yeast kernel dataset",
	Long: `Downloads the yeast genomic kernel matrices and label matrix, extracts the
archives and converts the plain-text matrices into a binary array cache under
the data directory. Files already present in the cache are not downloaded
again.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := globalConfig
		cfg.Mode = "fetch"

		if err := cfg.Validate(); err != nil {
			fatal(err)
		}

		data, err := fetchData(&cfg)
		if err != nil {
			fatal(err)
		}

		rows, cols := data.K.Dims()
		infof("dataset ready: %d kernels, combined matrix %dx%d", len(data.Kernels), rows, cols)
	},
}

func initFetch() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.PersistentFlags().StringVarP(&globalConfig.DataDir,
		"data-dir", "d", DefaultDataDir, "Directory the dataset cache lives under")
	fetchCmd.PersistentFlags().StringVarP(&globalConfig.BaseURL,
		"base-url", "u", yeastBaseURL, "Base URL the dataset files are downloaded from")
	fetchCmd.PersistentFlags().BoolVarP(&globalConfig.KeepArchives,
		"keep-archives", "k", false, "Keep the downloaded archives after extraction")
	fetchCmd.PersistentFlags().BoolVarP(&globalConfig.Quiet,
		"quiet", "q", false, "Suppress download progress output")
}
