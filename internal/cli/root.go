// Package cli implements the storybook commands.
package cli

import (
	"fmt"
	"os"

	"github.com/jwebster45206/storybook/internal/config"
	"github.com/jwebster45206/storybook/pkg/content"
	"github.com/spf13/cobra"
)

var tablesPath string

// RootCmd is the top-level command. Run without a subcommand it plays a story.
var RootCmd = &cobra.Command{
	Use:          "storybook",
	Short:        "Interactive branching storybook",
	Long:         "Play a short branching tale: pick lettered choices, find the hidden path, and rewrite the ending until it suits you.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runPlay,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&tablesPath, "tables", "t", "", "Phrase tables YAML (default: $STORYBOOK_TABLES or the built-in tables)")
	addPlayFlags(RootCmd)
}

// loadGenerator returns a generator for the --tables flag, then
// STORYBOOK_TABLES, then the embedded tables.
func loadGenerator(cfg *config.Config) (*content.Generator, error) {
	path := tablesPath
	if path == "" {
		path = cfg.TablesFile
	}
	if path == "" {
		return content.NewGenerator(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read phrase tables: %w", err)
	}
	return content.NewGeneratorFromYAML(data)
}
