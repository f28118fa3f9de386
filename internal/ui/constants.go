// Package ui holds layout constants and the panel base shared by the
// player's components.
package ui

const (
	// ScrollMargin is the number of rows kept visible above and below the
	// cursor.
	ScrollMargin = 3

	// BorderWidth and BorderHeight are the space a rounded panel border
	// takes on each axis.
	BorderWidth  = 2
	BorderHeight = 2

	// HeaderHeight covers the panel title and its separator.
	HeaderHeight = 2

	PanelOverhead = BorderHeight + HeaderHeight
)
