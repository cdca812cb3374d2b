package components

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Particle is one floating effect symbol.
type Particle struct {
	ID     uint64
	Symbol string
}

// ParticleField scatters particles over a width x rows area. Placement is
// derived from the particle id so a particle keeps its spot between frames.
func ParticleField(particles []Particle, width, rows int) string {
	if rows <= 0 || width <= 0 {
		return ""
	}
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, width)
	}

	for _, p := range particles {
		h := p.ID*2654435761 + 97
		row := int(h % uint64(rows))
		// Emoji take two cells.
		col := int((h / uint64(rows)) % uint64(max(width-1, 1)))
		if grid[row][col] != "" || (col+1 < width && grid[row][col+1] != "") {
			continue
		}
		grid[row][col] = p.Symbol
		if col+1 < width {
			grid[row][col+1] = "\x00"
		}
	}

	var b strings.Builder
	for r, cells := range grid {
		for _, c := range cells {
			switch c {
			case "":
				b.WriteByte(' ')
			case "\x00":
			default:
				b.WriteString(c)
			}
		}
		if r < rows-1 {
			b.WriteByte('\n')
		}
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}
