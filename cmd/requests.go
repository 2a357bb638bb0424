package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"recworklist/internal/api"
	"recworklist/internal/history"
	"recworklist/internal/page"
)

var (
	addFile     string
	commandSort string
)

var addCmd = &cobra.Command{
	Use:   "add [URI...]",
	Short: "Add programs to the recorder",
	Long: `Submit program URIs to addPrograms. URIs come from the arguments, or one
per line from --file ("-" reads stdin).

Examples:
  recworklist add --provider radiko https://radiko.jp/#!/ts/TBS/20261001010000
  pbpaste | recworklist add -f -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		uris, err := collectURIs(args, addFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		rt, err := newRuntime(true)
		if err != nil {
			return err
		}
		defer rt.Close()
		return addPrograms(cmd.Context(), rt.client, rt.recorder, cfg.Provider, uris, cmd.OutOrStdout())
	},
}

var commandCmd = &cobra.Command{
	Use:       "command Retry|Abort|Remove ID...",
	Short:     "Run a bulk command on programs",
	Args:      cobra.MinimumNArgs(2),
	ValidArgs: []string{string(api.CommandRetry), string(api.CommandAbort), string(api.CommandRemove)},
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := parseCommand(args[0])
		if err != nil {
			return err
		}
		rt, err := newRuntime(true)
		if err != nil {
			return err
		}
		defer rt.Close()
		req := api.CommandRequest{
			Command:    c,
			ProgramIDs: args[1:],
			Provider:   cfg.Provider,
			SortBy:     commandSort,
		}
		return runCommand(cmd.Context(), rt.client, rt.recorder, req, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(commandCmd)

	addCmd.Flags().StringVarP(&addFile, "file", "f", "", `read URIs from a file, one per line ("-" for stdin)`)
	commandCmd.Flags().StringVar(&commandSort, "sort-by", page.SortByStatus, "SortBy sent with the command")
}

// programAdder is the part of the API client add uses.
type programAdder interface {
	AddPrograms(ctx context.Context, provider string, uris []string) (api.Response, error)
}

// commander is the part of the API client command uses.
type commander interface {
	Command(ctx context.Context, req api.CommandRequest) (api.Response, error)
}

func collectURIs(args []string, file string, stdin io.Reader) ([]string, error) {
	uris := api.SplitURIs(strings.Join(args, "\n"))
	if file != "" {
		text, err := readSource(file, stdin)
		if err != nil {
			return nil, err
		}
		uris = append(uris, api.SplitURIs(text)...)
	}
	if len(uris) == 0 {
		return nil, api.ErrNoPrograms
	}
	return uris, nil
}

func parseCommand(name string) (api.Command, error) {
	for _, c := range api.Commands {
		if strings.EqualFold(string(c), name) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown command %q (want Retry, Abort or Remove)", name)
}

func addPrograms(ctx context.Context, client programAdder, rec *history.Recorder, provider string, uris []string, w io.Writer) error {
	resp, err := client.AddPrograms(ctx, provider, uris)
	rec.Record(ctx, resp, err)
	if err != nil {
		return fmt.Errorf("adding programs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Added %d program(s): %s\n", len(uris), resp.Result.Summary())
	return nil
}

func runCommand(ctx context.Context, client commander, rec *history.Recorder, req api.CommandRequest, w io.Writer) error {
	resp, err := client.Command(ctx, req)
	rec.Record(ctx, resp, err)
	if err != nil {
		return fmt.Errorf("%s: %w", req.Command, err)
	}
	_, _ = fmt.Fprintf(w, "%s %d program(s): %s\n", req.Command, len(req.ProgramIDs), resp.Result.Summary())
	return nil
}
