package cli

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/storybook/internal/config"
	"github.com/jwebster45206/storybook/pkg/state"
	"github.com/spf13/cobra"
)

var (
	validateGenre string
	validateQuiet bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Build story graphs and check every choice edge",
		Long:  "Materialize the story graph for each genre in the phrase tables, print its edges, and fail if any graph is malformed.",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
	cmd.Flags().StringVar(&validateGenre, "genre", "", "Only validate this genre (default: every genre in the tables)")
	cmd.Flags().BoolVarP(&validateQuiet, "quiet", "q", false, "Do not print edges")

	RootCmd.AddCommand(cmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	gen, err := loadGenerator(cfg)
	if err != nil {
		return err
	}

	genres := gen.Genres()
	if validateGenre != "" {
		genres = []string{validateGenre}
	}

	out := cmd.OutOrStdout()
	var failed []string
	for _, genre := range genres {
		ws := state.NewWorldState(genre, "", "", "")
		graph := gen.Materialize(ws)

		fmt.Fprintf(out, "%s (seed %d)\n", ws.Genre, ws.WorldSeed)
		if !validateQuiet {
			for _, e := range graph.Edges() {
				fmt.Fprintf(out, "  %-14s %s -> %-15s %s\n", e.From, e.Key, e.Target, e.Label)
			}
		}

		if err := graph.Validate(); err != nil {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(out, "  invalid: %s\n", line)
			}
			failed = append(failed, ws.Genre)
			continue
		}
		fmt.Fprintln(out, "  ok")
	}

	if len(failed) > 0 {
		return fmt.Errorf("invalid story graph for %s", strings.Join(failed, ", "))
	}
	return nil
}
