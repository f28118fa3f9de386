package ui

// Base holds the size and focus of a panel. Embed it in component models.
type Base struct {
	width, height int
	focused       bool
}

// SetFocused sets whether the panel receives list keys. Only a focused
// panel highlights its cursor row.
func (b *Base) SetFocused(focused bool) {
	b.focused = focused
}

// IsFocused reports whether the panel is focused.
func (b Base) IsFocused() bool {
	return b.focused
}

// SetSize sets the outer size of the panel, border included. Negative sizes
// count as zero.
func (b *Base) SetSize(width, height int) {
	b.width = max(width, 0)
	b.height = max(height, 0)
}

func (b Base) Width() int  { return b.width }
func (b Base) Height() int { return b.height }

// Inner returns the space left for rows inside the border and header.
func (b Base) Inner() (width, height int) {
	return max(b.width-BorderWidth, 0), max(b.height-PanelOverhead, 0)
}
