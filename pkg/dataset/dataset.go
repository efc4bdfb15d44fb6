// Package dataset reads the edge list and user attribute files the
// pipeline consumes. Both are header-addressed CSV, so column order in
// the files does not matter.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/exp/mmap"

	"github.com/socialmesh/influencegraph/pkg/graph"
	"github.com/socialmesh/influencegraph/pkg/logging"
)

var (
	// ErrMissingColumn is returned when a required CSV column is absent.
	ErrMissingColumn = errors.New("missing required column")

	// ErrEmptyFile is returned when a CSV file has no header row.
	ErrEmptyFile = errors.New("empty csv file")
)

const (
	defaultEdgeType   = "friend"
	defaultEdgeWeight = 1.0
)

// EdgeList is the result of reading an edge file.
type EdgeList struct {
	Edges []graph.Edge

	// Discarded counts rows dropped by the edge type filter.
	Discarded int
}

// ReadEdges loads an edge CSV with columns src, dst and optional type and
// weight. Rows with a blank type are treated as "friend". When edgeType is
// non-empty only edges of that type are kept.
func ReadEdges(path, edgeType string) (*EdgeList, error) {
	r, closeFile, err := openCSV(path)
	if err != nil {
		return nil, fmt.Errorf("open edges %s: %w", path, err)
	}
	defer closeFile()

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read edges header: %w", err)
	}

	cols := indexColumns(header)
	srcCol, ok := cols["src"]
	if !ok {
		return nil, fmt.Errorf("%w: src", ErrMissingColumn)
	}
	dstCol, ok := cols["dst"]
	if !ok {
		return nil, fmt.Errorf("%w: dst", ErrMissingColumn)
	}
	typeCol, hasType := cols["type"]
	weightCol, hasWeight := cols["weight"]

	out := &EdgeList{}
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read edges line %d: %w", line+1, err)
		}
		line++

		etype := defaultEdgeType
		if hasType && record[typeCol] != "" {
			etype = record[typeCol]
		}
		if edgeType != "" && etype != edgeType {
			out.Discarded++
			continue
		}

		weight := defaultEdgeWeight
		if hasWeight && record[weightCol] != "" {
			parsed, err := strconv.ParseFloat(record[weightCol], 64)
			if err != nil {
				logging.Warn("unparseable edge weight, using default",
					logging.Int("line", line),
					logging.String("value", record[weightCol]),
				)
			} else {
				weight = parsed
			}
		}

		out.Edges = append(out.Edges, graph.Edge{
			Source: record[srcCol],
			Target: record[dstCol],
			Weight: weight,
			Type:   etype,
		})
	}
	return out, nil
}

// ReadAttribute loads one attribute column from a user CSV keyed by the
// _id column. Rows with a blank attribute value are skipped, so the
// returned map contains only labeled nodes.
func ReadAttribute(path, attribute string) (map[string]string, error) {
	r, closeFile, err := openCSV(path)
	if err != nil {
		return nil, fmt.Errorf("open users %s: %w", path, err)
	}
	defer closeFile()

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read users header: %w", err)
	}

	cols := indexColumns(header)
	idCol, ok := cols["_id"]
	if !ok {
		return nil, fmt.Errorf("%w: _id", ErrMissingColumn)
	}
	attrCol, ok := cols[attribute]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, attribute)
	}

	labels := make(map[string]string)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read users: %w", err)
		}
		if record[idCol] == "" || record[attrCol] == "" {
			continue
		}
		labels[record[idCol]] = record[attrCol]
	}
	return labels, nil
}

// openCSV memory-maps the file and wraps it in a csv.Reader. Edge lists
// run to hundreds of megabytes, so reads go through the page cache
// instead of copying into userspace buffers.
func openCSV(path string) (*csv.Reader, func() error, error) {
	f, err := mmap.Open(path)
	if err != nil {
		return nil, nil, err
	}
	r := csv.NewReader(io.NewSectionReader(f, 0, int64(f.Len())))
	r.ReuseRecord = true
	return r, f.Close, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	return cols
}
