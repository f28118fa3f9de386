package cli

import (
	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"
)

// Run executes the command line. Without a subcommand the player opens.
func Run(version string) {
	boa.CmdT[PlayParams]{
		Use:         "serenade",
		Short:       "A terminal music player for a curated library",
		Version:     version,
		ParamEnrich: paramEnricher(),
		SubCmds: []*cobra.Command{
			PlayCmd(),
			LibraryCmd(),
			RecentCmd(),
			ConfigCmd(),
			GateCmd(),
		},
		RunFunc: func(params *PlayParams, cmd *cobra.Command, args []string) {
			exitOnError(RunPlay(params))
		},
	}.Run()
}
