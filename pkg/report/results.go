package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dd0wney/mazewalk/pkg/maze"
)

// Output file names inside a maze's results directory.
const (
	TextFile     = "saida_labirinto.txt"
	HTMLFile     = "maze_visualization.html"
	SnapshotFile = "known_graph.json.sz"
	LayoutFile   = "maze_layout.json"
)

// Analysis is what a report is made from.
type Analysis struct {
	MazeID string
	Graph  *maze.KnownGraph
	Entry  maze.VertexID
	Trace  []maze.VertexID
	Path   []maze.VertexID
	Weight float64
	Found  bool
	// Layout names the visualization layout; empty means hierarchical.
	Layout string
}

// Files are the paths WriteResults produced.
type Files struct {
	Dir      string
	Text     string
	HTML     string
	Layout   string
	Snapshot string
}

// MazeDir is the directory a maze's results are written to.
func MazeDir(root, mazeID string) string {
	return filepath.Join(root, "maze_"+mazeID)
}

// WriteResults writes the text report, the HTML page, the layout data and the snapshot under
// root/maze_<id>/, creating directories as needed.
func WriteResults(root string, a Analysis) (Files, error) {
	dir := MazeDir(root, a.MazeID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("creating results directory: %w", err)
	}

	files := Files{
		Dir:      dir,
		Text:     filepath.Join(dir, TextFile),
		HTML:     filepath.Join(dir, HTMLFile),
		Layout:   filepath.Join(dir, LayoutFile),
		Snapshot: filepath.Join(dir, SnapshotFile),
	}

	writers := []struct {
		path  string
		write func(io.Writer) error
	}{
		{files.Text, func(w io.Writer) error { return writeAnalysis(w, a, false) }},
		{files.HTML, func(w io.Writer) error { return WriteHTML(w, a.Graph, a.Entry, a.Path, a.Weight, a.Layout) }},
		{files.Layout, func(w io.Writer) error { return WriteLayout(w, a.Graph, a.Entry, a.Path, a.Layout) }},
		{files.Snapshot, func(w io.Writer) error { return WriteSnapshot(w, a.MazeID, a.Graph, a.Entry) }},
	}
	for _, out := range writers {
		if err := writeFile(out.path, out.write); err != nil {
			return Files{}, err
		}
	}
	return files, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// PrintSummary writes the full analysis for a terminal, optionally coloured.
func PrintSummary(w io.Writer, a Analysis, color bool) error {
	return writeAnalysis(w, a, color)
}

func writeAnalysis(w io.Writer, a Analysis, color bool) error {
	bw := bufio.NewWriter(w)
	heading := func(title string) {
		if color {
			title = headerStyle.Render(title)
		}
		fmt.Fprintf(bw, "\n%s\n", title)
	}

	heading("Maze Connections:")
	if err := WriteConnections(bw, a.Graph); err != nil {
		return err
	}

	heading("Basic Maze Structure:")
	if err := WriteGrid(bw, a.Graph, a.Entry, GridOptions{Color: color}); err != nil {
		return err
	}

	heading("Complete Exploration Path:")
	if err := WriteGrid(bw, a.Graph, a.Entry, GridOptions{Trace: a.Trace, Color: color}); err != nil {
		return err
	}
	fmt.Fprintln(bw, FormatRoute(a.Trace))
	fmt.Fprintf(bw, "Steps Taken %d\n", len(a.Trace))

	heading("Minimum Path Found:")
	if !a.Found {
		fmt.Fprintln(bw, "No exit reachable")
		return bw.Flush()
	}
	if err := WriteGrid(bw, a.Graph, a.Entry, GridOptions{Path: a.Path, Color: color}); err != nil {
		return err
	}
	fmt.Fprintln(bw, FormatRoute(a.Path))
	fmt.Fprintf(bw, "Steps Taken %d\n", len(a.Path))
	fmt.Fprintf(bw, "Total Weight %g\n", a.Weight)

	return bw.Flush()
}
