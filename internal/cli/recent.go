package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/serenade/internal/errmsg"
	"github.com/llehouerou/serenade/internal/state"
)

type RecentParams struct {
	Top int `short:"n" optional:"true" help:"Show the n most played tracks instead." default:"0"`
}

func RecentCmd() *cobra.Command {
	return boa.CmdT[RecentParams]{
		Use:         "recent",
		Short:       "Show recently played tracks",
		ParamEnrich: paramEnricher(),
		RunFunc: func(params *RecentParams, cmd *cobra.Command, args []string) {
			exitOnError(runRecent(params, os.Stdout))
		},
	}.ToCobra()
}

func runRecent(params *RecentParams, w io.Writer) error {
	st, err := state.Open(consoleLogger())
	if err != nil {
		return errmsg.Wrap(errmsg.OpInitialize, err)
	}
	defer st.Close()

	if params.Top > 0 {
		counts, err := st.PlayCounts()
		if err != nil {
			return errmsg.Wrap(errmsg.OpRecentLoad, err)
		}
		entries, _ := st.GetRecent()
		titles := lo.SliceToMap(entries, func(e state.RecentEntry) (string, string) {
			return e.TrackID, e.Title
		})
		renderTop(w, counts, titles, params.Top, time.Now())
		return nil
	}

	entries, err := st.GetRecent()
	if err != nil {
		return errmsg.Wrap(errmsg.OpRecentLoad, err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "Nothing played yet")
		return nil
	}
	renderRecent(w, entries, time.Now())
	return nil
}

func renderRecent(w io.Writer, entries []state.RecentEntry, now time.Time) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"", "Title", "Artist", "Played"})
	for i, e := range entries {
		t.AppendRow(table.Row{i + 1, e.Title, e.Artist, playedAgo(e.PlayedAt, now)})
	}
	t.Render()
}

// renderTop prints the n most played tracks. Tracks without a known
// title are shown by ID.
func renderTop(w io.Writer, counts []state.PlayCount, titles map[string]string, n int, now time.Time) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"", "Track", "Plays", "Last played"})
	for i, pc := range counts[:min(n, len(counts))] {
		name := titles[pc.TrackID]
		if name == "" {
			name = pc.TrackID
		}
		t.AppendRow(table.Row{i + 1, name, humanize.Comma(int64(pc.Count)), playedAgo(pc.LastPlayedAt, now)})
	}
	t.Render()
}

func playedAgo(at, now time.Time) string {
	if at.IsZero() {
		return "-"
	}
	return humanize.RelTime(at, now, "ago", "from now")
}
