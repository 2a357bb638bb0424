package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"recworklist/internal/highlight"
)

var highlightFile string

var highlightCmd = &cobra.Command{
	Use:   "highlight",
	Short: "Manage the local highlight keywords",
	Long: `Highlight keywords mark matching text in program titles and details.
They are stored in the local database; a running worklist picks up changes.`,
}

var highlightShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the highlight keywords, one per line",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := newRuntime(false)
		if err != nil {
			return err
		}
		defer rt.Close()
		return showHighlight(cmd.Context(), rt.db.Storage(), cmd.OutOrStdout())
	},
}

var highlightSetCmd = &cobra.Command{
	Use:   "set [KEYWORD...]",
	Short: "Replace the highlight keywords",
	Long: `Replace the highlight keywords with the arguments, or with the lines of
--file ("-" reads stdin). Keywords are deduplicated and sorted. No keywords
clears the list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := strings.Join(args, "\n")
		if highlightFile != "" {
			text, err := readSource(highlightFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			raw += "\n" + text
		}
		rt, err := newRuntime(false)
		if err != nil {
			return err
		}
		defer rt.Close()
		return setHighlight(cmd.Context(), rt.db.Storage(), raw, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(highlightCmd)
	highlightCmd.AddCommand(highlightShowCmd, highlightSetCmd)

	highlightSetCmd.Flags().StringVarP(&highlightFile, "file", "f", "", `read keywords from a file ("-" for stdin)`)
}

func showHighlight(ctx context.Context, store highlight.Store, w io.Writer) error {
	c, err := highlight.Load(ctx, store)
	if err != nil {
		return err
	}
	for _, kw := range c.List() {
		_, _ = fmt.Fprintln(w, kw)
	}
	return nil
}

func setHighlight(ctx context.Context, store highlight.Store, raw string, w io.Writer) error {
	c, err := highlight.Save(ctx, store, raw)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Saved %d highlight keyword(s)\n", len(c.List()))
	return nil
}

// readSource reads path, or stdin for "-".
func readSource(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path) //nolint:gosec // G304: user-chosen input file
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(b), nil
}
