package report

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/mazewalk/pkg/maze"
	"github.com/dd0wney/mazewalk/pkg/visualization"
)

// sample records 0 (entry) -> 1, 1 -> {3, 4}, 4 -> 1, with 3 an exit.
func sample() *maze.KnownGraph {
	g := maze.NewKnownGraph()
	g.Record(0, maze.RoleEntry, []maze.Neighbor{{ID: 1, Weight: 2}})
	g.Record(1, maze.RoleNormal, []maze.Neighbor{{ID: 4, Weight: 5}, {ID: 3, Weight: 1.5}})
	g.Record(3, maze.RoleExit, nil)
	g.Record(4, maze.RoleNormal, []maze.Neighbor{{ID: 1, Weight: 5}})
	return g
}

func sampleAnalysis() Analysis {
	return Analysis{
		MazeID: "42",
		Graph:  sample(),
		Entry:  0,
		Trace:  []maze.VertexID{0, 1, 4, 1, 3},
		Path:   []maze.VertexID{0, 1, 3},
		Weight: 3.5,
		Found:  true,
	}
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestWriteConnections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConnections(&buf, sample()))

	assert.Equal(t, []string{
		"Node 0 -> (1, 2)",
		"Node 1 -> (3, 1), (4, 5)",
		"Node 3 -> ",
		"Node 4 -> (1, 5)",
	}, lines(buf.String()))
}

func TestGridSide(t *testing.T) {
	assert.Equal(t, 1, GridSide(0))
	assert.Equal(t, 3, GridSide(4))
	assert.Equal(t, 3, GridSide(8))
	assert.Equal(t, 4, GridSide(9))
}

func TestWriteGrid(t *testing.T) {
	tests := []struct {
		name string
		opts GridOptions
		row0 string
		row1 string
	}{
		{
			name: "weights",
			row0: " 0 E  1     ",
			row1: " 1 S  5     ",
		},
		{
			name: "trace",
			opts: GridOptions{Trace: []maze.VertexID{0, 1, 4, 1, 3}},
			row0: " 0 E  Θ     ",
			row1: " 1 S  Θ     ",
		},
		{
			name: "path wins over trace",
			opts: GridOptions{Trace: []maze.VertexID{0, 1, 4}, Path: []maze.VertexID{0, 1, 3}},
			row0: " 0 E  █     ",
			row1: " 1 S  Θ     ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteGrid(&buf, sample(), 0, tt.opts))

			got := lines(buf.String())
			require.Len(t, got, 4)
			assert.Equal(t, "   0 1 2", got[0])
			assert.Equal(t, tt.row0, got[1])
			assert.Equal(t, tt.row1, got[2])
		})
	}
}

func TestWriteGrid_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, maze.NewKnownGraph(), 0, GridOptions{}))
	assert.Empty(t, buf.String())
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, sample(), 0, []maze.VertexID{0, 1, 3}, 3.5, ""))

	page := buf.String()
	assert.Contains(t, page, "vis.Network")
	assert.Contains(t, page, `"label":"0 (E)"`)
	assert.Contains(t, page, `"label":"3 (S)"`)
	assert.Contains(t, page, colorPath)
	assert.Contains(t, page, "weight 3.5")
}

func TestWriteHTML_Layouts(t *testing.T) {
	for _, name := range []string{visualization.LayoutHierarchical, visualization.LayoutCircular, visualization.LayoutForce} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteHTML(&buf, sample(), 0, []maze.VertexID{0, 1, 3}, 3.5, name))
			assert.Contains(t, buf.String(), `"label":"0 (E)"`)
		})
	}

	var buf bytes.Buffer
	err := WriteHTML(&buf, sample(), 0, nil, 0, "spiral")
	assert.ErrorIs(t, err, visualization.ErrUnknownLayout)
}

func TestWriteLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLayout(&buf, sample(), 0, []maze.VertexID{0, 1, 3}, visualization.LayoutCircular))

	var viz visualization.Visualization
	require.NoError(t, json.Unmarshal(buf.Bytes(), &viz))
	assert.Len(t, viz.Nodes, len(sample().Vertices()))
	onPath := 0
	for _, e := range viz.Edges {
		if e.OnPath {
			onPath++
		}
	}
	assert.Equal(t, 2, onPath)
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := sample()
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, "42", g, 0))

	snap, restored, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.Equal(t, "42", snap.MazeID)
	assert.Equal(t, g.Vertices(), restored.Vertices())
	assert.True(t, restored.IsExit(3))

	weight, ok := restored.EdgeWeight(1, 3)
	require.True(t, ok)
	assert.Equal(t, 1.5, weight)
}

func TestReadSnapshot_Corrupt(t *testing.T) {
	_, _, err := ReadSnapshot(strings.NewReader("not snappy"))
	assert.Error(t, err)
}

func TestWriteResults(t *testing.T) {
	root := t.TempDir()
	files, err := WriteResults(root, sampleAnalysis())
	require.NoError(t, err)

	assert.Equal(t, MazeDir(root, "42"), files.Dir)
	for _, path := range []string{files.Text, files.HTML, files.Layout, files.Snapshot} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	text, err := os.ReadFile(files.Text)
	require.NoError(t, err)
	assert.Contains(t, string(text), "Maze Connections:")
	assert.Contains(t, string(text), "0 -> 1 -> 4 -> 1 -> 3\nSteps Taken 5")
	assert.Contains(t, string(text), "0 -> 1 -> 3\nSteps Taken 3")
	assert.NotContains(t, string(text), "\x1b[", "files are never coloured")
}

func TestPrintSummary_NoExit(t *testing.T) {
	a := sampleAnalysis()
	a.Path = []maze.VertexID{}
	a.Found = false
	a.Weight = 0

	var buf bytes.Buffer
	require.NoError(t, PrintSummary(&buf, a, false))
	assert.Contains(t, buf.String(), "No exit reachable")
}
