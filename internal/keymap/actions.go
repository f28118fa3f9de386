// Package keymap defines key bindings and action dispatch for the player.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit   Action = "quit"
	ActionHelp   Action = "help"
	ActionSearch Action = "search"
	ActionView   Action = "cycle_view"
	ActionPlayer Action = "toggle_player_display"

	// Playback actions
	ActionPlayPause   Action = "play_pause"
	ActionStop        Action = "stop"
	ActionNextTrack   Action = "next_track"
	ActionPrevTrack   Action = "prev_track"
	ActionSeekForward Action = "seek_forward"
	ActionSeekBack    Action = "seek_back"

	// Volume actions
	ActionVolumeUp   Action = "volume_up"
	ActionVolumeDown Action = "volume_down"
	ActionMute       Action = "mute"

	// Mode actions
	ActionToggleShuffle  Action = "toggle_shuffle"
	ActionToggleRepeat   Action = "toggle_repeat"
	ActionToggleFade     Action = "toggle_fade"
	ActionToggleAutoPlay Action = "toggle_auto_play"

	// Track list actions
	ActionMoveUp         Action = "move_up"
	ActionMoveDown       Action = "move_down"
	ActionPageUp         Action = "page_up"
	ActionPageDown       Action = "page_down"
	ActionJumpStart      Action = "jump_start"
	ActionJumpEnd        Action = "jump_end"
	ActionPlaySelected   Action = "play_selected"
	ActionToggleFavorite Action = "toggle_favorite"
	ActionJumpToPlaying  Action = "jump_to_playing"
)
