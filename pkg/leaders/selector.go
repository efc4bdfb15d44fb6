package leaders

import (
	"sort"

	"github.com/socialmesh/influencegraph/pkg/algorithms"
	"github.com/socialmesh/influencegraph/pkg/graph"
)

// Role marks a record as the top-ranked or second-ranked community member.
type Role string

const (
	RoleLeader Role = "Leader"
	RoleDeputy Role = "Deputy"
)

// Record is one leader or deputy assignment. Records are produced once per
// run and never mutated; persistence is the caller's concern.
type Record struct {
	Community int     `json:"community"`
	Role      Role    `json:"role"`
	Node      string  `json:"node"`
	Influence float64 `json:"influence"`
	Degree    int     `json:"degree"`

	// ReachCount and ReachPct are only populated by SelectWithReach, and
	// only on leader records: the leader's k-hop reach restricted to its
	// community, and that count as a percentage of community size.
	ReachCount int     `json:"reach_count,omitempty"`
	ReachPct   float64 `json:"reach_pct,omitempty"`
}

// Select ranks each community's members and emits a Leader record for rank 0
// and a Deputy record for rank 1. Ranking uses one explicit key list: fused
// influence score descending, then degree descending, then node id
// ascending, so repeated runs on identical inputs always agree. A
// single-member community yields a leader only. Output is ordered by
// community id, leader before deputy.
func Select(idx *graph.Index, partition map[string]int, scores map[string]float64) []Record {
	members := make(map[int][]string)
	for node, comm := range partition {
		members[comm] = append(members[comm], node)
	}

	comms := make([]int, 0, len(members))
	for comm := range members {
		comms = append(comms, comm)
	}
	sort.Ints(comms)

	var records []Record
	for _, comm := range comms {
		nodes := members[comm]
		sort.Slice(nodes, func(i, j int) bool {
			si, sj := scores[nodes[i]], scores[nodes[j]]
			if si != sj {
				return si > sj
			}
			di, dj := idx.Degree(nodes[i]), idx.Degree(nodes[j])
			if di != dj {
				return di > dj
			}
			return nodes[i] < nodes[j]
		})

		records = append(records, Record{
			Community: comm,
			Role:      RoleLeader,
			Node:      nodes[0],
			Influence: scores[nodes[0]],
			Degree:    idx.Degree(nodes[0]),
		})
		if len(nodes) >= 2 {
			records = append(records, Record{
				Community: comm,
				Role:      RoleDeputy,
				Node:      nodes[1],
				Influence: scores[nodes[1]],
				Degree:    idx.Degree(nodes[1]),
			})
		}
	}

	return records
}

// SelectWithReach behaves like Select and additionally computes, for each
// leader, its k-hop reach restricted to its own community and the reach as a
// percentage of community size.
func SelectWithReach(idx *graph.Index, partition map[string]int, scores map[string]float64, k int) ([]Record, error) {
	records := Select(idx, partition, scores)

	memberSets := make(map[int]map[string]bool)
	for node, comm := range partition {
		if memberSets[comm] == nil {
			memberSets[comm] = make(map[string]bool)
		}
		memberSets[comm][node] = true
	}

	for i := range records {
		if records[i].Role != RoleLeader {
			continue
		}
		members := memberSets[records[i].Community]

		res, err := algorithms.ReachWithin(idx, records[i].Node, k, members)
		if err != nil {
			return nil, err
		}
		records[i].ReachCount = res.Count
		if len(members) > 0 {
			records[i].ReachPct = float64(res.Count) / float64(len(members)) * 100.0
		}
	}

	return records, nil
}
