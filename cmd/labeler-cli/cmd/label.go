package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/labeler/internal/application"
	"github.com/JonMunkholm/labeler/internal/core"
	"github.com/JonMunkholm/labeler/internal/logging"
)

var (
	outputPath string
	logPath    string
	startAt    int
)

var labelCmd = &cobra.Command{
	Use:   "label <file.xlsx>",
	Short: "Label a workbook interactively",
	Long: `Open a workbook in the terminal labeler. Labeling resumes at the first
record without a primary category unless --start is given.

Press w to write the labeled workbook at any time; it is also written on
quit when there are unwritten changes.

Examples:
  labeler-cli label incidents.xlsx
  labeler-cli label incidents.xlsx -o labeled.xlsx --start 120`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := args[0]
		data, err := readWorkbook(in)
		if err != nil {
			return err
		}
		table, resume, err := core.Load(data)
		if err != nil {
			return fmt.Errorf("%s: %s", in, core.FormatUserError(err))
		}

		logger, closeLog, err := openLogger(logPath)
		if err != nil {
			return err
		}
		defer closeLog()

		editor := core.NewRecordEditor(table, resume)
		if startAt > 0 {
			if _, err := editor.Jump(startAt); err != nil {
				return fmt.Errorf("--start %d: %s", startAt, core.FormatUserError(err))
			}
		}

		out := outputPath
		if out == "" {
			out = defaultOutput(in)
		}
		logger.Info("labeling session started", "file", in, "output", out, "records", table.Len(), "start", editor.Position())

		model := application.New(editor, application.Options{
			FileName: filepath.Base(in),
			Output:   out,
			Sheet:    cfg.Export.SheetName,
			Logger:   logger,
		})
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return err
		}

		if !model.Dirty() {
			return nil
		}
		data, err = core.Export(table, cfg.Export.SheetName)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		logger.Info("labeled workbook written", "output", out, "labeled", table.LabeledCount())
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records (%d labeled) to %s\n", table.Len(), table.LabeledCount(), out)
		return nil
	},
}

// defaultOutput places the labeled copy next to the input.
func defaultOutput(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + "_labeled.xlsx"
}

// openLogger logs to path, or discards when path is empty; the terminal
// belongs to the labeler while it runs.
func openLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return logging.SetupWriter(io.Discard, cfg.Logging.Level, cfg.Logging.Format), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.SetupWriter(f, cfg.Logging.Level, cfg.Logging.Format), func() { f.Close() }, nil
}

func init() {
	labelCmd.Flags().StringVarP(&outputPath, "output", "o", "", "where to write the labeled workbook (default <file>_labeled.xlsx)")
	labelCmd.Flags().StringVar(&logPath, "log-file", "", "append logs to this file")
	labelCmd.Flags().IntVar(&startAt, "start", 0, "one-based record to start at")
	rootCmd.AddCommand(labelCmd)
}
