package centrality

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/socialmesh/influencegraph/pkg/graph"
	"github.com/socialmesh/influencegraph/pkg/logging"
)

// ErrEmptyGraph is returned when community detection is asked to partition
// a graph with no nodes.
var ErrEmptyGraph = errors.New("graph has no nodes")

// LouvainOptions configures community detection.
type LouvainOptions struct {
	// Resolution scales the null-model term of modularity. Values above
	// 1.0 favour more, smaller communities; below 1.0 fewer, larger ones.
	Resolution float64

	// MaxLevels bounds the number of aggregation rounds.
	MaxLevels int

	// MaxIterations bounds local-move sweeps within one level.
	MaxIterations int

	// MinGain is the smallest modularity gain that justifies moving a node.
	MinGain float64

	// Seed drives the node visit order shuffle. Equal seeds on equal
	// graphs produce identical partitions.
	Seed int64
}

// DefaultLouvainOptions returns the options used by the pipeline.
func DefaultLouvainOptions() LouvainOptions {
	return LouvainOptions{
		Resolution:    1.0,
		MaxLevels:     10,
		MaxIterations: 100,
		MinGain:       1e-7,
		Seed:          42,
	}
}

// Partition is the result of community detection. Community ids are dense,
// starting at 0, numbered by descending community size with ties broken by
// the smallest member id.
type Partition struct {
	Communities map[string]int
	Modularity  float64
	Levels      int
}

// NumCommunities returns the number of distinct communities.
func (p *Partition) NumCommunities() int {
	seen := make(map[int]bool)
	for _, c := range p.Communities {
		seen[c] = true
	}
	return len(seen)
}

// Members groups node ids by community, each group sorted.
func (p *Partition) Members() map[int][]string {
	out := make(map[int][]string)
	for node, c := range p.Communities {
		out[c] = append(out[c], node)
	}
	for c := range out {
		sort.Strings(out[c])
	}
	return out
}

// compactGraph is the working representation the optimizer runs over:
// dense int node ids, adjacency lists with parallel weight slices, and
// cached degrees. Levels above the first hold super-nodes.
type compactGraph struct {
	n           int
	neighbors   [][]int
	weights     [][]float64
	selfLoops   []float64
	degrees     []float64
	totalWeight float64
}

func newCompactGraph(n int) *compactGraph {
	return &compactGraph{
		n:         n,
		neighbors: make([][]int, n),
		weights:   make([][]float64, n),
		selfLoops: make([]float64, n),
		degrees:   make([]float64, n),
	}
}

func (g *compactGraph) addEdge(u, v int, w float64) {
	if u == v {
		g.selfLoops[u] += w
		g.degrees[u] += 2 * w
		g.totalWeight += w
		return
	}
	g.neighbors[u] = append(g.neighbors[u], v)
	g.weights[u] = append(g.weights[u], w)
	g.neighbors[v] = append(g.neighbors[v], u)
	g.weights[v] = append(g.weights[v], w)
	g.degrees[u] += w
	g.degrees[v] += w
	g.totalWeight += w
}

func compactFromIndex(idx *graph.Index, ids *idMap) *compactGraph {
	g := newCompactGraph(ids.len())
	idx.ForEachEdge(func(u, v string, weight float64) {
		g.addEdge(int(ids.id(u)), int(ids.id(v)), weight)
	})
	return g
}

// louvainState tracks community membership during local optimization.
// Every node starts in its own community.
type louvainState struct {
	nodeToComm   []int
	commSize     []int
	commDegree   []float64
	commInternal []float64
}

func newLouvainState(g *compactGraph) *louvainState {
	s := &louvainState{
		nodeToComm:   make([]int, g.n),
		commSize:     make([]int, g.n),
		commDegree:   make([]float64, g.n),
		commInternal: make([]float64, g.n),
	}
	for i := 0; i < g.n; i++ {
		s.nodeToComm[i] = i
		s.commSize[i] = 1
		s.commDegree[i] = g.degrees[i]
		s.commInternal[i] = 2 * g.selfLoops[i]
	}
	return s
}

// modularity computes Newman's modularity of the current assignment, with
// the null-model term scaled by resolution.
func (s *louvainState) modularity(g *compactGraph, resolution float64) float64 {
	if g.totalWeight == 0 {
		return 0.0
	}
	m2 := 2.0 * g.totalWeight
	q := 0.0
	for c := 0; c < g.n; c++ {
		if s.commSize[c] == 0 {
			continue
		}
		frac := s.commDegree[c] / m2
		q += s.commInternal[c]/m2 - resolution*frac*frac
	}
	return q
}

// weightToComm sums edge weight from node to members of targetComm.
func (s *louvainState) weightToComm(g *compactGraph, node, targetComm int) float64 {
	w := 0.0
	for i, nb := range g.neighbors[node] {
		if s.nodeToComm[nb] == targetComm {
			w += g.weights[node][i]
		}
	}
	return w
}

func (s *louvainState) move(g *compactGraph, node, from, to int) {
	if from == to {
		return
	}
	deg := g.degrees[node]

	s.commSize[from]--
	s.commDegree[from] -= deg
	s.commInternal[from] -= 2 * (s.weightToComm(g, node, from) + g.selfLoops[node])

	s.nodeToComm[node] = to
	s.commSize[to]++
	s.commDegree[to] += deg
	s.commInternal[to] += 2 * (s.weightToComm(g, node, to) + g.selfLoops[node])
}

// oneLevel runs local-move sweeps until no node moves or the iteration cap
// is hit. Returns whether any move happened.
func oneLevel(g *compactGraph, s *louvainState, opts LouvainOptions, rng *rand.Rand) bool {
	if g.totalWeight == 0 {
		return false
	}
	improved := false
	order := make([]int, g.n)
	for i := range order {
		order[i] = i
	}
	m2 := 2.0 * g.totalWeight

	for iter := 0; iter < opts.MaxIterations; iter++ {
		moves := 0
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		for _, node := range order {
			current := s.nodeToComm[node]
			best := current
			bestGain := 0.0

			// Weight from node to each adjacent community.
			commWeight := map[int]float64{current: 0.0}
			for i, nb := range g.neighbors[node] {
				commWeight[s.nodeToComm[nb]] += g.weights[node][i]
			}

			deg := g.degrees[node]
			removalLoss := commWeight[current] - opts.Resolution*deg*(s.commDegree[current]-deg)/m2
			for target, w := range commWeight {
				if target == current || s.commSize[target] == 0 {
					continue
				}
				gain := w - opts.Resolution*deg*s.commDegree[target]/m2 - removalLoss
				if gain > bestGain || (gain == bestGain && gain > 0 && target < best) {
					best = target
					bestGain = gain
				}
			}

			if best != current && bestGain > opts.MinGain {
				s.move(g, node, current, best)
				moves++
				improved = true
			}
		}

		if moves == 0 {
			break
		}
	}
	return improved
}

// aggregate collapses each community into a super-node and rebuilds the
// membership slices so members[i] lists original-graph node indices.
func aggregate(g *compactGraph, s *louvainState, members [][]int) (*compactGraph, [][]int) {
	commToSuper := make(map[int]int)
	next := 0
	for c := 0; c < g.n; c++ {
		if s.commSize[c] > 0 {
			commToSuper[c] = next
			next++
		}
	}

	newMembers := make([][]int, next)
	for node := 0; node < g.n; node++ {
		super := commToSuper[s.nodeToComm[node]]
		newMembers[super] = append(newMembers[super], members[node]...)
	}

	super := newCompactGraph(next)
	superEdges := make(map[[2]int]float64)
	for node := 0; node < g.n; node++ {
		u := commToSuper[s.nodeToComm[node]]
		if g.selfLoops[node] != 0 {
			superEdges[[2]int{u, u}] += g.selfLoops[node]
		}
		for i, nb := range g.neighbors[node] {
			v := commToSuper[s.nodeToComm[nb]]
			if u < v {
				superEdges[[2]int{u, v}] += g.weights[node][i]
			} else if u == v {
				// Each intra-community edge is visited from both ends.
				superEdges[[2]int{u, v}] += g.weights[node][i] / 2
			}
		}
	}
	for edge, w := range superEdges {
		super.addEdge(edge[0], edge[1], w)
	}
	return super, newMembers
}

// Louvain partitions the graph into communities by modularity optimization,
// aggregating communities into super-nodes level by level until no move
// improves modularity.
func Louvain(idx *graph.Index, opts LouvainOptions) (*Partition, error) {
	ids := newIDMap(idx)
	if ids.len() == 0 {
		return nil, ErrEmptyGraph
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	g := compactFromIndex(idx, ids)
	s := newLouvainState(g)

	members := make([][]int, g.n)
	for i := range members {
		members[i] = []int{i}
	}

	levels := 0
	for level := 0; level < opts.MaxLevels; level++ {
		improved := oneLevel(g, s, opts, rng)
		levels++
		if !improved {
			break
		}

		superGraph, superMembers := aggregate(g, s, members)
		if superGraph.n >= g.n {
			break
		}
		logging.Debug("aggregated community level",
			logging.Int("level", level),
			logging.Int("nodes", g.n),
			logging.Int("super_nodes", superGraph.n),
		)
		g, members = superGraph, superMembers
		s = newLouvainState(g)
	}

	return &Partition{
		Communities: renumber(g, s, members, ids),
		Modularity:  s.modularity(g, opts.Resolution),
		Levels:      levels,
	}, nil
}

// Modularity scores an externally supplied partition against the graph.
func Modularity(idx *graph.Index, partition map[string]int, resolution float64) float64 {
	ids := newIDMap(idx)
	if ids.len() == 0 {
		return 0.0
	}
	g := compactFromIndex(idx, ids)
	s := newLouvainState(g)
	// Replay the assignment as moves so the cached sums stay consistent.
	for i, node := range ids.ordered {
		if c, ok := partition[node]; ok && c >= 0 && c < g.n {
			s.move(g, i, s.nodeToComm[i], c)
		}
	}
	return s.modularity(g, resolution)
}

// renumber maps final communities to dense ids ordered by size descending,
// ties broken by smallest member node id.
func renumber(g *compactGraph, s *louvainState, members [][]int, ids *idMap) map[string]int {
	type group struct {
		nodes []int
		min   string
	}
	groups := make(map[int]*group)
	for node := 0; node < g.n; node++ {
		c := s.nodeToComm[node]
		gr := groups[c]
		if gr == nil {
			gr = &group{}
			groups[c] = gr
		}
		for _, original := range members[node] {
			gr.nodes = append(gr.nodes, original)
			if name := ids.node(int64(original)); gr.min == "" || name < gr.min {
				gr.min = name
			}
		}
	}

	ordered := make([]*group, 0, len(groups))
	for _, gr := range groups {
		ordered = append(ordered, gr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i].nodes) != len(ordered[j].nodes) {
			return len(ordered[i].nodes) > len(ordered[j].nodes)
		}
		return ordered[i].min < ordered[j].min
	})

	out := make(map[string]int, ids.len())
	for rank, gr := range ordered {
		for _, original := range gr.nodes {
			out[ids.node(int64(original))] = rank
		}
	}
	return out
}
