package keymap

// Binding maps keys to an action.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "list"
}

// Bindings contains every key binding of the player.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},
	{ActionSearch, []string{"/"}, "Search", "global"},
	{ActionView, []string{"tab"}, "All / favorites / recent", "global"},
	{ActionPlayer, []string{"v"}, "Expand player", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionNextTrack, []string{"n", "pgdown"}, "Next track", "playback"},
	{ActionPrevTrack, []string{"p", "pgup"}, "Previous track", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Seek forward", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Seek back", "playback"},
	{ActionVolumeUp, []string{"+", "="}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"-"}, "Volume down", "playback"},
	{ActionMute, []string{"m"}, "Mute", "playback"},
	{ActionToggleShuffle, []string{"S"}, "Toggle shuffle", "playback"},
	{ActionToggleRepeat, []string{"R"}, "Toggle repeat", "playback"},
	{ActionToggleFade, []string{"F"}, "Toggle fades", "playback"},
	{ActionToggleAutoPlay, []string{"A"}, "Toggle auto play", "playback"},

	// Track list
	{ActionMoveUp, []string{"k", "up"}, "Move up", "list"},
	{ActionMoveDown, []string{"j", "down"}, "Move down", "list"},
	{ActionPageUp, []string{"ctrl+u"}, "Page up", "list"},
	{ActionPageDown, []string{"ctrl+d"}, "Page down", "list"},
	{ActionJumpStart, []string{"g", "home"}, "First track", "list"},
	{ActionJumpEnd, []string{"G", "end"}, "Last track", "list"},
	{ActionPlaySelected, []string{"enter"}, "Play selected", "list"},
	{ActionToggleFavorite, []string{"f"}, "Toggle favorite", "list"},
	{ActionJumpToPlaying, []string{"."}, "Jump to playing", "list"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
