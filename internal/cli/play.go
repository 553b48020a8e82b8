package cli

import (
	"io"

	"github.com/jwebster45206/storybook/internal/config"
	"github.com/jwebster45206/storybook/internal/console"
	"github.com/jwebster45206/storybook/internal/logger"
	"github.com/jwebster45206/storybook/internal/terminal"
	"github.com/jwebster45206/storybook/pkg/state"
	"github.com/spf13/cobra"
)

var (
	plainFlag       bool
	genreFlag       string
	toneFlag        string
	protagonistFlag string
	companionFlag   string
)

var seedFlagNames = []string{"genre", "tone", "protagonist", "companion"}

func init() {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a story (default command)",
		Args:  cobra.NoArgs,
		RunE:  runPlay,
	}
	addPlayFlags(cmd)

	RootCmd.AddCommand(cmd)
}

func addPlayFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&plainFlag, "plain", false, "Use the line-oriented terminal instead of the TUI (default: $STORYBOOK_PLAIN)")
	f.StringVar(&genreFlag, "genre", "", "Story genre; setting any seed flag skips the seed prompt")
	f.StringVar(&toneFlag, "tone", "", "Story tone")
	f.StringVar(&protagonistFlag, "protagonist", "", "Protagonist name")
	f.StringVar(&companionFlag, "companion", "", "Companion name")
}

// presetSeeds returns a world state when any seed flag was given.
func presetSeeds(cmd *cobra.Command) *state.WorldState {
	for _, name := range seedFlagNames {
		if cmd.Flags().Changed(name) {
			return state.NewWorldState(genreFlag, toneFlag, protagonistFlag, companionFlag)
		}
	}
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	plain := cfg.Plain || plainFlag

	// The TUI owns the whole screen, so its logs need LOG_FILE.
	var fallback io.Writer = io.Discard
	if plain {
		fallback = cmd.ErrOrStderr()
	}
	log, closeLog, err := logger.Setup(cfg, fallback)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLog() // Ignore error in defer
	}()

	gen, err := loadGenerator(cfg)
	if err != nil {
		logger.WithError(log, err).Error("Failed to load phrase tables")
		return err
	}

	seeds := presetSeeds(cmd)
	log.Info("Starting storybook", "plain", plain, "environment", cfg.Environment, "preset_seeds", seeds != nil)

	if plain {
		opts := []terminal.Option{
			terminal.WithWidth(cfg.WrapWidth),
			terminal.WithLogger(log),
		}
		if seeds != nil {
			opts = append(opts, terminal.WithSeeds(seeds))
		}
		err = terminal.New(cmd.InOrStdin(), cmd.OutOrStdout(), gen, opts...).Run()
	} else {
		var opts []console.Option
		if seeds != nil {
			opts = append(opts, console.WithSeeds(seeds))
		}
		err = console.Run(gen, log, opts...)
	}

	if err != nil {
		logger.WithError(log, err).Error("Session ended with error")
		return err
	}
	log.Info("Storybook closed")
	return nil
}
