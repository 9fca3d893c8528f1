package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Domain field helpers

func Component(name string) Field {
	return String("component", name)
}

// Vertex takes any unsigned integer type so callers can pass maze.VertexID
// without this package depending on maze.
func Vertex[T ~uint64](id T) Field {
	return Uint64("vertex", uint64(id))
}

func Target[T ~uint64](id T) Field {
	return Uint64("target", uint64(id))
}

func Route[T ~uint64](path []T) Field {
	ids := make([]uint64, len(path))
	for i, v := range path {
		ids[i] = uint64(v)
	}
	return Any("route", ids)
}

func Weight(w float64) Field {
	return Float64("weight", w)
}

func SessionID(id string) Field {
	return String("session_id", id)
}

func MazeID(id string) Field {
	return String("maze_id", id)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}
