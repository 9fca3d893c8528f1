package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/dd0wney/mazewalk/pkg/maze"
	"github.com/dd0wney/mazewalk/pkg/visualization"
)

// Canvas size of each network on the page.
const (
	canvasWidth  = 900
	canvasHeight = 600
)

const (
	colorDefault = "#97C2FC"
	colorEntry   = "#FF8080"
	colorExit    = "#80FF80"
	colorUnknown = "#DDDDDD"
	colorPath    = "#FF0000"
)

type visNode struct {
	ID    maze.VertexID `json:"id"`
	Label string        `json:"label"`
	Color string        `json:"color"`
	X     float64       `json:"x"`
	Y     float64       `json:"y"`
}

type visEdge struct {
	ID     int           `json:"id"`
	From   maze.VertexID `json:"from"`
	To     maze.VertexID `json:"to"`
	Label  string        `json:"label"`
	Arrows string        `json:"arrows"`
	Color  string        `json:"color,omitempty"`
}

type page struct {
	Title     string
	Weight    string
	Nodes     []visNode
	Edges     []visEdge
	PathNodes []visNode
	PathEdges []visEdge
}

var pageTemplate = template.Must(template.New("maze").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script type="text/javascript" src="https://cdnjs.cloudflare.com/ajax/libs/vis/4.21.0/vis.min.js"></script>
<link href="https://cdnjs.cloudflare.com/ajax/libs/vis/4.21.0/vis.min.css" rel="stylesheet" type="text/css" />
<style type="text/css">
.graph { width: 900px; height: 600px; border: 1px solid lightgray; margin: 20px; }
.container { display: flex; flex-direction: column; align-items: center; }
</style>
</head>
<body>
<div class="container">
<h2>Complete Maze Graph</h2>
<div id="complete-graph" class="graph"></div>
<h2>Shortest Path{{if .Weight}} (weight {{.Weight}}){{end}}</h2>
<div id="path-graph" class="graph"></div>
</div>
<script type="text/javascript">
const options = {
  nodes: { shape: 'circle', size: 30, font: { size: 14 } },
  edges: { arrows: { to: true }, font: { size: 14, align: 'middle' } },
  physics: { enabled: false }
};
new vis.Network(document.getElementById('complete-graph'), {
  nodes: new vis.DataSet({{.Nodes}}),
  edges: new vis.DataSet({{.Edges}})
}, options);
new vis.Network(document.getElementById('path-graph'), {
  nodes: new vis.DataSet({{.PathNodes}}),
  edges: new vis.DataSet({{.PathEdges}})
}, options);
</script>
</body>
</html>
`))

// Visualize lays out the known graph with the named layout, rooted at the
// entry, and marks the corridors of path.
func Visualize(g *maze.KnownGraph, entry maze.VertexID, path []maze.VertexID, layoutName string) (*visualization.Visualization, error) {
	layout, err := visualization.NewLayout(layoutName, &visualization.LayoutConfig{
		Width:  canvasWidth,
		Height: canvasHeight,
		Root:   entry,
		Seed:   uint64(entry),
	})
	if err != nil {
		return nil, err
	}
	return visualization.Build(g, path, layout)
}

// WriteLayout writes the laid-out graph as JSON.
func WriteLayout(w io.Writer, g *maze.KnownGraph, entry maze.VertexID, path []maze.VertexID, layoutName string) error {
	viz, err := Visualize(g, entry, path, layoutName)
	if err != nil {
		return err
	}
	data, err := viz.ExportJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteHTML writes a self-contained page with two vis.js networks: the whole
// known graph, and the shortest path alone. Vertices are placed by the named
// layout; an empty name puts them in rows by hop distance from the entry.
func WriteHTML(w io.Writer, g *maze.KnownGraph, entry maze.VertexID, path []maze.VertexID, weight float64, layoutName string) error {
	viz, err := Visualize(g, entry, path, layoutName)
	if err != nil {
		return err
	}

	p := page{Title: "Maze Visualization"}
	if len(path) > 0 {
		p.Weight = fmt.Sprint(weight)
	}

	onPath := toSet(path)
	for _, n := range viz.Nodes {
		node := visNode{ID: n.ID, Label: n.Label, Color: colorDefault, X: n.X, Y: n.Y}
		switch {
		case !n.Known:
			node.Color = colorUnknown
		case n.ID == entry:
			node.Label += " (E)"
			node.Color = colorEntry
		case n.Role == maze.RoleExit:
			node.Label += " (S)"
			node.Color = colorExit
		}
		p.Nodes = append(p.Nodes, node)
		if onPath[n.ID] {
			p.PathNodes = append(p.PathNodes, node)
		}
	}

	for i, e := range viz.Edges {
		edge := visEdge{ID: i, From: e.From, To: e.To, Label: fmt.Sprint(int64(e.Weight)), Arrows: "to"}
		p.Edges = append(p.Edges, edge)
		if e.OnPath {
			edge.ID = len(p.PathEdges)
			edge.Color = colorPath
			p.PathEdges = append(p.PathEdges, edge)
		}
	}

	return pageTemplate.Execute(w, p)
}
