package pathfinder

import (
	"container/heap"

	"github.com/dd0wney/mazewalk/pkg/maze"
)

// entry is one frontier candidate. The path from the start is carried along so
// no predecessor map is needed.
type entry struct {
	distance float64
	seq      uint64
	vertex   maze.VertexID
	path     []maze.VertexID
}

// frontier is a min-heap on distance; equal distances pop in insertion order.
type frontier struct {
	items []*entry
	next  uint64
}

func (f *frontier) Len() int { return len(f.items) }

func (f *frontier) Less(i, j int) bool {
	if f.items[i].distance != f.items[j].distance {
		return f.items[i].distance < f.items[j].distance
	}
	return f.items[i].seq < f.items[j].seq
}

func (f *frontier) Swap(i, j int) { f.items[i], f.items[j] = f.items[j], f.items[i] }

func (f *frontier) Push(x any) { f.items = append(f.items, x.(*entry)) }

func (f *frontier) Pop() any {
	old := f.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	f.items = old[:n-1]
	return item
}

func (f *frontier) push(distance float64, v maze.VertexID, path []maze.VertexID) {
	heap.Push(f, &entry{distance: distance, seq: f.next, vertex: v, path: path})
	f.next++
}

func (f *frontier) pop() *entry {
	return heap.Pop(f).(*entry)
}

// extend returns a fresh path so frontier entries never share backing arrays.
func extend(path []maze.VertexID, v maze.VertexID) []maze.VertexID {
	out := make([]maze.VertexID, len(path), len(path)+1)
	copy(out, path)
	return append(out, v)
}
