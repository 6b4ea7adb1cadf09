package terminal

import (
	"strings"
)

// Bar characters.
const (
	BarFilled = "█"
	BarEmpty  = " "
)

// Box drawing characters - heavy.
const (
	BoxHeavyHorizontal  = "━"
	BoxHeavyVertical    = "┃"
	BoxHeavyTopLeft     = "┏"
	BoxHeavyTopRight    = "┓"
	BoxHeavyBottomLeft  = "┗"
	BoxHeavyBottomRight = "┛"
)

// HeaderPadding is the space around header content.
const HeaderPadding = 1

// BarLength scales value against maxValue into at most width cells.
// Positive values always get at least one cell.
func BarLength(value, maxValue, width int) int {
	if value <= 0 || maxValue <= 0 || width <= 0 {
		return 0
	}

	n := value * width / maxValue
	if n < 1 {
		n = 1
	}

	return min(n, width)
}

// DrawBar draws a horizontal bar of BarLength cells.
func DrawBar(value, maxValue, width int) string {
	return strings.Repeat(BarFilled, BarLength(value, maxValue, width))
}

// PadLeft pads s with spaces on the left to reach width.
// If s is already longer than width, returns s unchanged.
func PadLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}

	return strings.Repeat(" ", width-len(s)) + s
}

// DrawHeader draws a heavy-bordered header with a title on the left and
// rightText flush right.
// ┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓
// ┃ TITLE                     rightText ┃
// ┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
func DrawHeader(title, rightText string, width int) string {
	minRequired := len(title) + len(rightText) + 4 + (HeaderPadding * 2)
	if width < minRequired {
		width = minRequired
	}

	innerWidth := width - 2
	contentWidth := innerWidth - (HeaderPadding * 2)
	gap := max(contentWidth-len(title)-len(rightText), 1)
	pad := strings.Repeat(" ", HeaderPadding)

	var sb strings.Builder

	sb.WriteString(BoxHeavyTopLeft + strings.Repeat(BoxHeavyHorizontal, innerWidth) + BoxHeavyTopRight + "\n")
	sb.WriteString(BoxHeavyVertical + pad + title + strings.Repeat(" ", gap) + rightText + pad + BoxHeavyVertical + "\n")
	sb.WriteString(BoxHeavyBottomLeft + strings.Repeat(BoxHeavyHorizontal, innerWidth) + BoxHeavyBottomRight)

	return sb.String()
}
