package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/labeler/internal/core"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.xlsx>",
	Short: "Summarize a workbook's labeling progress",
	Long: `Print the size of a workbook, which label columns are missing, how many
records are labeled, where labeling would resume and how often each
category is used.

Examples:
  labeler-cli inspect incidents.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readWorkbook(args[0])
		if err != nil {
			return err
		}
		imp, err := core.Import(data)
		if err != nil {
			return fmt.Errorf("%s: %s", args[0], core.FormatUserError(err))
		}

		t := imp.Table
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Sheet:    %s\n", imp.Sheet)
		fmt.Fprintf(w, "Records:  %d\n", t.Len())
		fmt.Fprintf(w, "Columns:  %s\n", strings.Join(t.Header(), ", "))
		if len(imp.Added) > 0 {
			fmt.Fprintf(w, "Missing:  %s (created empty)\n", strings.Join(imp.Added, ", "))
		}
		fmt.Fprintf(w, "Labeled:  %d of %d\n", t.LabeledCount(), t.Len())
		if t.LabeledCount() < t.Len() {
			fmt.Fprintf(w, "Resume:   record %d\n", imp.ResumeIndex+1)
		}

		counts := t.TagCounts()
		if len(counts) == 0 {
			return nil
		}
		tags := make([]string, 0, len(counts))
		for tag := range counts {
			tags = append(tags, tag)
		}
		sort.Slice(tags, func(i, j int) bool {
			if counts[tags[i]] != counts[tags[j]] {
				return counts[tags[i]] > counts[tags[j]]
			}
			return tags[i] < tags[j]
		})
		fmt.Fprintln(w, "\nCategories:")
		for _, tag := range tags {
			fmt.Fprintf(w, "  %4d  %s\n", counts[tag], tag)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
