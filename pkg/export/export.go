// Package export writes pipeline results to CSV and JSON artifacts.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/socialmesh/influencegraph/pkg/algorithms"
	"github.com/socialmesh/influencegraph/pkg/graph"
	"github.com/socialmesh/influencegraph/pkg/leaders"
	"github.com/socialmesh/influencegraph/pkg/scoring"
)

// Exporter writes artifacts into a target directory, creating it on
// first use.
type Exporter struct {
	Dir string
}

// NewExporter returns an exporter rooted at dir.
func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir}
}

func (e *Exporter) create(name string) (*os.File, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir %s: %w", e.Dir, err)
	}
	f, err := os.Create(filepath.Join(e.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	return f, nil
}

// NodeFeatures writes one row per node with its raw metric columns, the
// min-max scaled columns (suffixed _norm) and the fused influence score,
// ordered by influence descending. Returns the number of data rows written.
func (e *Exporter) NodeFeatures(raw, normalized *scoring.MetricTable, influence map[string]float64) (int, error) {
	f, err := e.create("node_features.csv")
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return writeNodeFeatures(f, raw, normalized, influence)
}

func writeNodeFeatures(w io.Writer, raw, normalized *scoring.MetricTable, influence map[string]float64) (rows int, retErr error) {
	csvWriter := csv.NewWriter(w)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("csv flush: %w", err)
		}
	}()

	metrics := raw.Metrics()
	header := append([]string{"node"}, metrics...)
	for _, metric := range metrics {
		header = append(header, metric+"_norm")
	}
	header = append(header, "influence")
	if err := csvWriter.Write(header); err != nil {
		return 0, err
	}

	nodes := raw.Nodes()
	sort.Slice(nodes, func(i, j int) bool {
		a, b := influence[nodes[i]], influence[nodes[j]]
		if a != b {
			return a > b
		}
		return nodes[i] < nodes[j]
	})

	for _, node := range nodes {
		record := make([]string, 0, 2*len(metrics)+2)
		record = append(record, node)
		for _, metric := range metrics {
			record = append(record, formatFloat(raw.Value(metric, node)))
		}
		for _, metric := range metrics {
			record = append(record, formatFloat(normalized.Value(metric, node)))
		}
		record = append(record, formatFloat(influence[node]))
		if err := csvWriter.Write(record); err != nil {
			return rows, err
		}
		rows++
	}
	return rows, nil
}

// Communities writes one row per community with its size and sorted
// member list, ordered by community id.
func (e *Exporter) Communities(partition map[string]int) (int, error) {
	f, err := e.create("communities.csv")
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return writeCommunities(f, partition)
}

func writeCommunities(w io.Writer, partition map[string]int) (rows int, retErr error) {
	csvWriter := csv.NewWriter(w)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("csv flush: %w", err)
		}
	}()

	if err := csvWriter.Write([]string{"community", "size", "members"}); err != nil {
		return 0, err
	}

	members := make(map[int][]string)
	for node, comm := range partition {
		members[comm] = append(members[comm], node)
	}
	comms := make([]int, 0, len(members))
	for comm := range members {
		comms = append(comms, comm)
	}
	sort.Ints(comms)

	for _, comm := range comms {
		nodes := members[comm]
		sort.Strings(nodes)
		record := []string{
			strconv.Itoa(comm),
			strconv.Itoa(len(nodes)),
			strings.Join(nodes, ";"),
		}
		if err := csvWriter.Write(record); err != nil {
			return rows, err
		}
		rows++
	}
	return rows, nil
}

// Leaders writes the leader and deputy records.
func (e *Exporter) Leaders(records []leaders.Record) (int, error) {
	f, err := e.create("leaders.csv")
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return writeLeaders(f, records)
}

func writeLeaders(w io.Writer, records []leaders.Record) (rows int, retErr error) {
	csvWriter := csv.NewWriter(w)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("csv flush: %w", err)
		}
	}()

	header := []string{"community", "role", "node", "influence", "degree", "reach_count", "reach_pct"}
	if err := csvWriter.Write(header); err != nil {
		return 0, err
	}

	for _, r := range records {
		record := []string{
			strconv.Itoa(r.Community),
			string(r.Role),
			r.Node,
			formatFloat(r.Influence),
			strconv.Itoa(r.Degree),
			strconv.Itoa(r.ReachCount),
			formatFloat(r.ReachPct),
		}
		if err := csvWriter.Write(record); err != nil {
			return rows, err
		}
		rows++
	}
	return rows, nil
}

// SampledEdges writes the edges whose endpoints are both in the sampled
// node set, for downstream visualization.
func (e *Exporter) SampledEdges(idx *graph.Index, sampled map[string]bool) (int, error) {
	f, err := e.create("sampled_edges.csv")
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return writeSampledEdges(f, idx, sampled)
}

func writeSampledEdges(w io.Writer, idx *graph.Index, sampled map[string]bool) (rows int, retErr error) {
	csvWriter := csv.NewWriter(w)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("csv flush: %w", err)
		}
	}()

	if err := csvWriter.Write([]string{"src", "dst", "weight"}); err != nil {
		return 0, err
	}

	for _, edge := range idx.EdgesAmong(sampled) {
		record := []string{edge.Source, edge.Target, formatFloat(edge.Weight)}
		if err := csvWriter.Write(record); err != nil {
			return rows, err
		}
		rows++
	}
	return rows, nil
}

// TopEdges writes the n heaviest edges for visualization shortlists.
func (e *Exporter) TopEdges(idx *graph.Index, n int) (int, error) {
	f, err := e.create("top_edges.csv")
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return writeTopEdges(f, idx, n)
}

func writeTopEdges(w io.Writer, idx *graph.Index, n int) (rows int, retErr error) {
	csvWriter := csv.NewWriter(w)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("csv flush: %w", err)
		}
	}()

	if err := csvWriter.Write([]string{"src", "dst", "weight"}); err != nil {
		return 0, err
	}
	for _, edge := range idx.TopEdgesByWeight(n) {
		record := []string{edge.Source, edge.Target, formatFloat(edge.Weight)}
		if err := csvWriter.Write(record); err != nil {
			return rows, err
		}
		rows++
	}
	return rows, nil
}

// LinkPredictions writes the ranked candidate links.
func (e *Exporter) LinkPredictions(predictions []algorithms.LinkPrediction, method string) (int, error) {
	f, err := e.create("link_predictions.csv")
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return writeLinkPredictions(f, predictions, method)
}

func writeLinkPredictions(w io.Writer, predictions []algorithms.LinkPrediction, method string) (rows int, retErr error) {
	csvWriter := csv.NewWriter(w)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("csv flush: %w", err)
		}
	}()

	if err := csvWriter.Write([]string{"node_a", "node_b", "method", "score"}); err != nil {
		return 0, err
	}
	for _, pred := range predictions {
		record := []string{pred.NodeA, pred.NodeB, method, formatFloat(pred.Score)}
		if err := csvWriter.Write(record); err != nil {
			return rows, err
		}
		rows++
	}
	return rows, nil
}

// graphNode and graphLink shape the JSON graph document.
type graphNode struct {
	ID        string  `json:"id"`
	Community int     `json:"community"`
	Influence float64 `json:"influence"`
}

type graphLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

type graphDocument struct {
	Nodes []graphNode `json:"nodes"`
	Links []graphLink `json:"links"`
}

// GraphJSON writes the full scored graph as a node-link JSON document.
func (e *Exporter) GraphJSON(idx *graph.Index, partition map[string]int, influence map[string]float64) (int, error) {
	f, err := e.create("graph.json")
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return writeGraphJSON(f, idx, partition, influence)
}

func writeGraphJSON(w io.Writer, idx *graph.Index, partition map[string]int, influence map[string]float64) (int, error) {
	doc := graphDocument{
		Nodes: make([]graphNode, 0, idx.NodeCount()),
		Links: make([]graphLink, 0, idx.EdgeCount()),
	}
	for _, node := range idx.Nodes() {
		doc.Nodes = append(doc.Nodes, graphNode{
			ID:        node,
			Community: partition[node],
			Influence: influence[node],
		})
	}

	all := make(map[string]bool, idx.NodeCount())
	for _, node := range idx.Nodes() {
		all[node] = true
	}
	for _, edge := range idx.EdgesAmong(all) {
		doc.Links = append(doc.Links, graphLink{Source: edge.Source, Target: edge.Target, Weight: edge.Weight})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return 0, err
	}
	return len(doc.Nodes), nil
}

// Summary is the run-level JSON artifact: the scalar statistics the CSV
// tables cannot carry.
type Summary struct {
	RunID             string  `json:"run_id"`
	Nodes             int     `json:"nodes"`
	Edges             int     `json:"edges"`
	Communities       int     `json:"communities"`
	Modularity        float64 `json:"modularity"`
	AdjustedHomophily float64 `json:"adjusted_homophily,omitempty"`
	SampledNodes      int     `json:"sampled_nodes"`

	// CommunitySizes is ordered by community id.
	CommunitySizes []int `json:"community_sizes"`
}

// RunSummary writes the run-level statistics document.
func (e *Exporter) RunSummary(summary Summary) error {
	f, err := e.create("summary.json")
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
