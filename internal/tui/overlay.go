package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// spliceOverlay replaces a rectangular region of a rendered view with overlay
// lines anchored at (x, y). Escape sequences on both sides of the overlay are
// preserved.
func spliceOverlay(view string, overlay []string, x, y int) string {
	if len(overlay) == 0 {
		return view
	}

	lines := strings.Split(view, "\n")
	width := ansi.StringWidth(overlay[0])

	for i, over := range overlay {
		row := y + i
		if row < 0 || row >= len(lines) {
			continue
		}

		line := lines[row]
		lineWidth := ansi.StringWidth(line)

		var sb strings.Builder
		if x > 0 {
			prefix := ansi.Truncate(line, x, "")
			sb.WriteString(prefix)
			// Pad short lines so the overlay lands at its column.
			if pw := ansi.StringWidth(prefix); pw < x {
				sb.WriteString(strings.Repeat(" ", x-pw))
			}
		}
		sb.WriteString("\x1b[0m")
		sb.WriteString(over)
		sb.WriteString("\x1b[0m")

		if end := x + width; end < lineWidth {
			sb.WriteString(ansi.TruncateLeft(line, end, ""))
		}

		lines[row] = sb.String()
	}

	return strings.Join(lines, "\n")
}
