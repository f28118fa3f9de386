package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/serenade/internal/errmsg"
	"github.com/llehouerou/serenade/internal/library"
	"github.com/llehouerou/serenade/internal/playlist"
	"github.com/llehouerou/serenade/internal/state"
)

type LibraryParams struct {
	Library   string `short:"l" optional:"true" help:"Path or URL of music-library.json."`
	Config    string `optional:"true" help:"Read this config file instead of the default locations."`
	Favorites bool   `short:"f" optional:"true" help:"Only list favorite tracks."`
	Search    string `short:"q" optional:"true" help:"Only list tracks matching this query."`
	Artist    string `short:"a" optional:"true" help:"Only list tracks by this artist."`
	Album     string `optional:"true" help:"Only list tracks of this album (\"Album\" or \"Artist - Album\")."`
	Genre     string `short:"g" optional:"true" help:"Only list tracks of this genre."`
	Browse    string `short:"b" optional:"true" help:"List artists, albums or genres instead of tracks."`
	Stats     bool   `short:"s" optional:"true" help:"Print library statistics instead of tracks."`
}

// libraryFilter selects the tracks a listing shows. Empty fields match
// everything.
type libraryFilter struct {
	Query     string
	Favorites bool
	Artist    string
	Album     string
	Genre     string
}

func (p *LibraryParams) filter() libraryFilter {
	return libraryFilter{
		Query:     p.Search,
		Favorites: p.Favorites,
		Artist:    p.Artist,
		Album:     p.Album,
		Genre:     p.Genre,
	}
}

func LibraryCmd() *cobra.Command {
	return boa.CmdT[LibraryParams]{
		Use:         "library",
		Aliases:     []string{"ls"},
		Short:       "List the tracks of the library",
		ParamEnrich: paramEnricher(),
		RunFunc: func(params *LibraryParams, cmd *cobra.Command, args []string) {
			exitOnError(runLibrary(params, os.Stdout))
		},
	}.ToCobra()
}

// libraryRow is one printed track with its listening stats.
type libraryRow struct {
	Index    int
	Track    playlist.Track
	Favorite bool
	Plays    int
}

func runLibrary(params *LibraryParams, w io.Writer) error {
	cfg, err := loadConfig(params.Config)
	if err != nil {
		return errmsg.Wrap(errmsg.OpConfigLoad, err)
	}
	logger := consoleLogger()

	tracks, err := loadLibrary(context.Background(), resolveLibrary(params.Library, cfg), logger)
	if err != nil && !errors.Is(err, library.ErrNoLocation) {
		logger.Warn().Msg(errmsg.Format(errmsg.OpLibraryLoad, err) + ", showing built-in list")
	}

	st, err := state.Open(logger)
	if err != nil {
		return errmsg.Wrap(errmsg.OpInitialize, err)
	}
	defer st.Close()

	switch {
	case params.Stats:
		stats, err := libraryStats(st, tracks)
		if err != nil {
			return err
		}
		renderStats(w, stats)
		return nil
	case params.Browse != "":
		field, ok := library.ParseField(params.Browse)
		if !ok {
			return fmt.Errorf("cannot browse by %q: use artists, albums or genres", params.Browse)
		}
		renderGroups(w, field, library.Browse(tracks, field))
		return nil
	}

	rows, err := libraryRows(st, tracks, params.filter())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "No tracks found")
		return nil
	}
	renderLibrary(w, rows, terminalWidth())
	return nil
}

// libraryRows filters tracks and attaches favorites and play counts.
func libraryRows(st state.Interface, tracks []playlist.Track, f libraryFilter) ([]libraryRow, error) {
	if durations, err := st.Durations(); err == nil {
		library.ApplyDurations(tracks, durations)
	}
	favIDs, err := st.Favorites()
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpFavoritesLoad, err)
	}
	favorites := lo.SliceToMap(favIDs, func(id string) (string, bool) { return id, true })

	counts, err := st.PlayCounts()
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpRecentLoad, err)
	}
	plays := lo.SliceToMap(counts, func(pc state.PlayCount) (string, int) { return pc.TrackID, pc.Count })

	indices := library.Search(tracks, f.Query)
	if f.Favorites {
		_, favIndices := library.Pick(tracks, favIDs)
		indices = lo.Intersect(indices, favIndices)
	}
	for field, name := range map[library.Field]string{library.ByArtist: f.Artist, library.ByAlbum: f.Album, library.ByGenre: f.Genre} {
		if name != "" {
			indices = lo.Intersect(indices, library.Filter(tracks, field, name))
		}
	}
	slices.Sort(indices)

	rows := make([]libraryRow, 0, len(indices))
	for _, i := range indices {
		t := tracks[i]
		rows = append(rows, libraryRow{Index: i, Track: t, Favorite: favorites[t.ID], Plays: plays[t.ID]})
	}
	return rows, nil
}

// libraryStats counts the library against the stored favorites and plays.
func libraryStats(st state.Interface, tracks []playlist.Track) (library.Stats, error) {
	if durations, err := st.Durations(); err == nil {
		library.ApplyDurations(tracks, durations)
	}
	favIDs, err := st.Favorites()
	if err != nil {
		return library.Stats{}, errmsg.Wrap(errmsg.OpFavoritesLoad, err)
	}
	counts, err := st.PlayCounts()
	if err != nil {
		return library.Stats{}, errmsg.Wrap(errmsg.OpRecentLoad, err)
	}
	played := lo.Map(counts, func(pc state.PlayCount, _ int) string { return pc.TrackID })
	return library.ComputeStats(tracks, favIDs, played), nil
}

func renderStats(w io.Writer, s library.Stats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendRows([]table.Row{
		{"Tracks", humanize.Comma(int64(s.Tracks))},
		{"Artists", humanize.Comma(int64(s.Artists))},
		{"Albums", humanize.Comma(int64(s.Albums))},
		{"Genres", humanize.Comma(int64(s.Genres))},
		{"Favorites", humanize.Comma(int64(s.Favorites))},
		{"Played", humanize.Comma(int64(s.Played))},
		{"Total length", library.FormatDuration(s.Duration)},
	})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()
}

func renderGroups(w io.Writer, field library.Field, groups []library.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No "+field.String()+"s found")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{strings.ToUpper(field.String()[:1]) + field.String()[1:], "Tracks", "Length"})
	for _, g := range groups {
		t.AppendRow(table.Row{g.Name, len(g.Indices), library.FormatDuration(g.Duration)})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d %ss", len(groups), field), "", ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

func renderLibrary(w io.Writer, rows []libraryRow, width int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetAllowedRowLength(width)
	t.AppendHeader(table.Row{"#", "Title", "Artist", "Album", "Length", "Plays", ""})

	var total time.Duration
	for _, r := range rows {
		heart := ""
		if r.Favorite {
			heart = text.FgHiMagenta.Sprint("♥")
		}
		year := ""
		if r.Track.Year > 0 {
			year = " (" + strconv.Itoa(r.Track.Year) + ")"
		}
		total += r.Track.Duration
		t.AppendRow(table.Row{
			r.Index + 1,
			r.Track.Title,
			r.Track.Artist,
			r.Track.Album + year,
			library.FormatDuration(r.Track.Duration),
			r.Plays,
			heart,
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d tracks", len(rows)), "", "", library.FormatDuration(total), "", ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.Render()
}
