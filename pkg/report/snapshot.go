package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/golang/snappy"

	"github.com/dd0wney/mazewalk/pkg/maze"
)

// Snapshot is the serialised known graph.
type Snapshot struct {
	MazeID   string        `json:"maze_id"`
	Entry    maze.VertexID `json:"entry"`
	Vertices []maze.Vertex `json:"vertices"`
}

// WriteSnapshot writes the known graph as snappy-compressed JSON.
func WriteSnapshot(w io.Writer, mazeID string, g *maze.KnownGraph, entry maze.VertexID) error {
	snap := Snapshot{MazeID: mazeID, Entry: entry}
	for _, id := range g.Vertices() {
		v, err := g.Vertex(id)
		if err != nil {
			return err
		}
		snap.Vertices = append(snap.Vertices, v)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	_, err = w.Write(snappy.Encode(nil, data))
	return err
}

// ReadSnapshot restores a known graph written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Snapshot, *maze.KnownGraph, error) {
	compressed, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, nil, fmt.Errorf("decompressing snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	g := maze.NewKnownGraph()
	for _, v := range snap.Vertices {
		g.Record(v.ID, v.Role, v.Adjacency)
	}
	return &snap, g, nil
}
