package cli

import (
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/llehouerou/serenade/internal/config"
	"github.com/llehouerou/serenade/internal/errmsg"
)

type ConfigParams struct {
	Config string `optional:"true" help:"Read this config file instead of the default locations."`
}

func ConfigCmd() *cobra.Command {
	return boa.CmdT[ConfigParams]{
		Use:         "config",
		Short:       "Show the effective settings",
		ParamEnrich: paramEnricher(),
		RunFunc: func(params *ConfigParams, cmd *cobra.Command, args []string) {
			exitOnError(runConfig(params, os.Stdout))
		},
	}.ToCobra()
}

func runConfig(params *ConfigParams, w io.Writer) error {
	cfg, err := loadConfig(params.Config)
	if err != nil {
		return errmsg.Wrap(errmsg.OpConfigLoad, err)
	}
	renderConfig(w, cfg)
	return nil
}

func renderConfig(w io.Writer, cfg *config.Config) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Setting", "Value"})
	for _, kv := range cfg.Summary() {
		t.AppendRow(table.Row{kv[0], kv[1]})
	}
	t.Render()
}
