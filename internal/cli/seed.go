package cli

import (
	"fmt"

	"github.com/jwebster45206/storybook/pkg/state"
	"github.com/spf13/cobra"
)

var verboseSeed bool

func init() {
	cmd := &cobra.Command{
		Use:   "seed [genre] [tone] [protagonist] [companion]",
		Short: "Print the world seed for a set of answers",
		Long:  "Print the world seed derived from the four seed answers. Missing or blank answers take the defaults.",
		Args:  cobra.MaximumNArgs(4),
		Run:   runSeed,
	}
	cmd.Flags().BoolVarP(&verboseSeed, "verbose", "v", false, "Also print the resolved world")

	RootCmd.AddCommand(cmd)
}

func runSeed(cmd *cobra.Command, args []string) {
	answers := make([]string, 4)
	copy(answers, args)
	ws := state.NewWorldState(answers[0], answers[1], answers[2], answers[3])

	out := cmd.OutOrStdout()
	if verboseSeed {
		fmt.Fprintln(out, ws.Summary())
	}
	fmt.Fprintln(out, ws.WorldSeed)
}
