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

// Field helpers for the analysis domain

func Component(name string) Field {
	return String("component", name)
}

func Stage(name string) Field {
	return String("stage", name)
}

func RunID(id string) Field {
	return String("run_id", id)
}

func Node(id string) Field {
	return String("node", id)
}

func Community(id int) Field {
	return Int("community", id)
}

func Metric(name string) Field {
	return String("metric", name)
}

func NodeCount(n int) Field {
	return Int("nodes", n)
}

func EdgeCount(n int) Field {
	return Int("edges", n)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}
