package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"recworklist/internal/api"
	"recworklist/internal/history"
	"recworklist/internal/page"
)

var keywordNot string

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Manage the recorder's recording keywords",
}

var keywordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recording keywords",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := newRuntime(true)
		if err != nil {
			return err
		}
		defer rt.Close()
		kws, err := rt.client.FetchKeywords(cmd.Context())
		if err != nil {
			return err
		}
		renderKeywords(cmd.OutOrStdout(), kws)
		return nil
	},
}

var keywordsAddCmd = &cobra.Command{
	Use:   "add KEY",
	Short: "Add a recording keyword",
	Long: `Add a recording keyword. Programs whose text contains --not are skipped.

Example:
  recworklist keywords add 声優 --not 再放送`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editKeyword(cmd, api.KeywordAdd, args[0], keywordNot)
	},
}

var keywordsRemoveCmd = &cobra.Command{
	Use:   "remove KEY",
	Short: "Remove a recording keyword",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editKeyword(cmd, api.KeywordRemove, args[0], "")
	},
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
	keywordsCmd.AddCommand(keywordsListCmd, keywordsAddCmd, keywordsRemoveCmd)

	keywordsAddCmd.Flags().StringVar(&keywordNot, "not", "", "exclude programs containing this text")
}

type keywordEditor interface {
	EditKeywords(ctx context.Context, cmd api.KeywordCommand, key, not string) (api.Response, error)
}

func editKeyword(cmd *cobra.Command, op api.KeywordCommand, key, not string) error {
	rt, err := newRuntime(true)
	if err != nil {
		return err
	}
	defer rt.Close()
	return runKeywordEdit(cmd.Context(), rt.client, rt.recorder, op, key, not, cmd.OutOrStdout())
}

func runKeywordEdit(ctx context.Context, client keywordEditor, rec *history.Recorder, op api.KeywordCommand, key, not string, w io.Writer) error {
	resp, err := client.EditKeywords(ctx, op, key, not)
	rec.Record(ctx, resp, err)
	if err != nil {
		return fmt.Errorf("%s keyword %q: %w", op, key, err)
	}
	_, _ = fmt.Fprintf(w, "%s %q: %s\n", op, key, resp.Result.Summary())
	return nil
}

func renderKeywords(w io.Writer, kws []page.Keyword) {
	if len(kws) == 0 {
		_, _ = fmt.Fprintln(w, "No keywords")
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Key", "Not"})
	for _, kw := range kws {
		tw.AppendRow(table.Row{kw.Key, kw.Not})
	}
	tw.Render()
}
