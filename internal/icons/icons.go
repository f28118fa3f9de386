// Package icons provides the glyphs shown in the player for each icon style.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the glyphs for one style.
type Icons struct {
	Play     string
	Pause    string
	Stop     string
	Loading  string
	Shuffle  string
	Repeat   string
	Fade     string
	AutoPlay string
	Favorite string
	Volume   string
	Mute     string
	Playing  string // marker in front of the current track
}

var (
	nerdIcons = Icons{
		Play:     "", // nf-fa-play
		Pause:    "", // nf-fa-pause
		Stop:     "", // nf-fa-stop
		Loading:  "󰔟",      // nf-md-timer_sand
		Shuffle:  "󰒟",      // nf-md-shuffle
		Repeat:   "󰑘",      // nf-md-repeat_once
		Fade:     "󰕾",      // nf-md-volume_high
		AutoPlay: "󰐊",      // nf-md-play
		Favorite: "󰣐",      // nf-md-heart
		Volume:   "󰕾",      // nf-md-volume_high
		Mute:     "󰝟",      // nf-md-volume_off
		Playing:  "󰝚",      // nf-md-music_note
	}

	unicodeIcons = Icons{
		Play:     "▶",
		Pause:    "⏸",
		Stop:     "⏹",
		Loading:  "…",
		Shuffle:  "🔀",
		Repeat:   "🔂",
		Fade:     "〰",
		AutoPlay: "⏭",
		Favorite: "♥",
		Volume:   "🔊",
		Mute:     "🔇",
		Playing:  "♪",
	}

	noneIcons = Icons{
		Play:     ">",
		Pause:    "||",
		Stop:     "[]",
		Loading:  "..",
		Shuffle:  "[S]",
		Repeat:   "[1]",
		Fade:     "[F]",
		AutoPlay: "[A]",
		Favorite: "*",
		Volume:   "vol",
		Mute:     "mute",
		Playing:  ">",
	}

	current = unicodeIcons
)

// Init selects the icon style. Unknown styles fall back to unicode.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleNone:
		current = noneIcons
	default:
		current = unicodeIcons
	}
}

// Current returns the active icon set.
func Current() Icons {
	return current
}
