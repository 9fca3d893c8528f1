// Package report renders what a session learned: plain-text connection lists,
// a square grid view of the maze, an interactive HTML page and a compressed
// snapshot of the known graph.
package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/mazewalk/pkg/maze"
)

var (
	markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true)
	routeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5599FF"))
	weightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#DDDDDD"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF"))
)

// Grid symbols.
const (
	SymbolEntry = "E"
	SymbolExit  = "S"
	SymbolPath  = "█"
	SymbolTrace = "Θ"
)

// WriteConnections writes one "Node v -> (d, w), ..." line per visited vertex in
// ascending order, neighbors sorted by ID. Weights are truncated to integers.
func WriteConnections(w io.Writer, g *maze.KnownGraph) error {
	bw := bufio.NewWriter(w)
	for _, id := range g.Vertices() {
		adjacency, err := g.Adjacency(id)
		if err != nil {
			return err
		}
		sort.Slice(adjacency, func(i, j int) bool {
			if adjacency[i].ID != adjacency[j].ID {
				return adjacency[i].ID < adjacency[j].ID
			}
			return adjacency[i].Weight < adjacency[j].Weight
		})

		parts := make([]string, len(adjacency))
		for i, n := range adjacency {
			parts[i] = fmt.Sprintf("(%d, %d)", n.ID, int64(n.Weight))
		}
		fmt.Fprintf(bw, "Node %d -> %s\n", id, strings.Join(parts, ", "))
	}
	return bw.Flush()
}

// GridOptions selects what WriteGrid highlights.
type GridOptions struct {
	Trace []maze.VertexID
	Path  []maze.VertexID
	Color bool
}

// GridSide is the side of the square grid needed to place every vertex up to
// maxID, with vertex v drawn at row v/side, column v%side.
func GridSide(maxID maze.VertexID) int {
	return int(math.Sqrt(float64(maxID))) + 1
}

// WriteGrid draws the visited vertices on a square grid. Cells show E for the
// entry, S for exits, █ on the path, Θ on the trace and otherwise the cheapest
// outgoing weight.
func WriteGrid(w io.Writer, g *maze.KnownGraph, entry maze.VertexID, opts GridOptions) error {
	ids := g.Vertices()
	if len(ids) == 0 {
		return nil
	}
	side := GridSide(ids[len(ids)-1])

	onPath := toSet(opts.Path)
	onTrace := toSet(opts.Trace)

	bw := bufio.NewWriter(w)
	bw.WriteString("  ")
	for x := 0; x < side; x++ {
		fmt.Fprintf(bw, "%2d", x)
	}
	bw.WriteString("\n")

	for y := 0; y < side; y++ {
		fmt.Fprintf(bw, "%2d ", y)
		for x := 0; x < side; x++ {
			id := maze.VertexID(y*side + x)
			if !g.IsVisited(id) {
				bw.WriteString("   ")
				continue
			}
			symbol, style := cell(g, id, entry, onPath, onTrace)
			padded := fmt.Sprintf("%-2s", symbol)
			if opts.Color {
				padded = style.Render(padded)
			}
			bw.WriteString(padded + " ")
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

func cell(g *maze.KnownGraph, id, entry maze.VertexID, onPath, onTrace map[maze.VertexID]bool) (string, lipgloss.Style) {
	switch {
	case id == entry:
		return SymbolEntry, markerStyle
	case g.IsExit(id):
		return SymbolExit, markerStyle
	case onPath[id]:
		return SymbolPath, routeStyle
	case onTrace[id]:
		return SymbolTrace, routeStyle
	}

	adjacency, _ := g.Adjacency(id)
	lightest := int64(0)
	for i, n := range adjacency {
		if i == 0 || int64(n.Weight) < lightest {
			lightest = int64(n.Weight)
		}
	}
	return fmt.Sprint(lightest), weightStyle
}

// FormatRoute joins vertices with arrows.
func FormatRoute(route []maze.VertexID) string {
	parts := make([]string, len(route))
	for i, v := range route {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " -> ")
}

func toSet(ids []maze.VertexID) map[maze.VertexID]bool {
	set := make(map[maze.VertexID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
