package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/labeler/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "labeler-cli",
	Short: "Label incident workbooks from the terminal",
	Long: `labeler-cli works on the same .xlsx workbooks as the labeling server.

It can summarize a workbook's labeling progress or open it in an
interactive labeler that writes the labeled workbook back to disk.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		_ = godotenv.Load()
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readWorkbook loads path, enforcing the configured upload size limit.
func readWorkbook(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if limit := cfg.Upload.MaxFileSize; info.Size() > limit {
		return nil, fmt.Errorf("%s: file too large: %d bytes exceeds %d", path, info.Size(), limit)
	}
	return os.ReadFile(path)
}
