package sampling

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Common sampling errors
var (
	ErrInsufficientNodes = errors.New("sample target exceeds node population")
)

// Quota maps community ids to the number of nodes to draw from each.
type Quota map[int]int

// Quotas computes per-community sample quotas proportional to community
// size. Each community starts from max(floor, round(share × target)); a
// deterministic correction pass then walks communities in descending size
// order (ties broken by ascending id), incrementing or decrementing
// (never below the floor) until the quotas sum exactly to target. When the
// floors alone exceed the target the floor is relaxed, smallest communities
// first, so the sum invariant always holds.
func Quotas(partition map[string]int, target, floor int) (Quota, error) {
	total := len(partition)
	if target > total {
		return nil, fmt.Errorf("%w: target %d exceeds population %d", ErrInsufficientNodes, target, total)
	}
	if target < 0 {
		return nil, fmt.Errorf("sample target must be >= 0, got %d", target)
	}

	sizes := make(map[int]int)
	for _, comm := range partition {
		sizes[comm]++
	}
	if len(sizes) == 0 {
		return Quota{}, nil
	}

	quotas := make(Quota, len(sizes))
	assigned := 0
	for comm, size := range sizes {
		share := float64(size) / float64(total)
		q := int(math.Round(share * float64(target)))
		if q < floor {
			q = floor
		}
		quotas[comm] = q
		assigned += q
	}

	// Correction pass: largest communities first, ascending id on ties.
	order := make([]int, 0, len(sizes))
	for comm := range sizes {
		order = append(order, comm)
	}
	sort.Slice(order, func(i, j int) bool {
		if sizes[order[i]] != sizes[order[j]] {
			return sizes[order[i]] > sizes[order[j]]
		}
		return order[i] < order[j]
	})

	diff := target - assigned
	stalls := 0
	for idx := 0; diff != 0; idx++ {
		comm := order[idx%len(order)]
		switch {
		case diff > 0:
			quotas[comm]++
			diff--
		case quotas[comm] > floor:
			quotas[comm]--
			diff++
			stalls = 0
		default:
			stalls++
		}

		if stalls >= len(order) {
			// Every quota sits at the floor but the sum still exceeds the
			// target: relax the floor, smallest communities first.
			for i := len(order) - 1; diff < 0; i-- {
				if i < 0 {
					i = len(order) - 1
				}
				if quotas[order[i]] > 0 {
					quotas[order[i]]--
					diff++
				}
			}
			break
		}
	}

	return quotas, nil
}

// Sample draws nodes per community according to quotas. Communities no
// larger than their quota contribute all members; larger ones are sampled
// uniformly with a generator seeded for this invocation only, so the same
// seed always yields the same sample and concurrent runs never interfere.
func Sample(partition map[string]int, quotas Quota, seed int64) (map[string]bool, error) {
	target := 0
	for _, q := range quotas {
		target += q
	}
	if target > len(partition) {
		return nil, fmt.Errorf("%w: quotas sum to %d but population is %d", ErrInsufficientNodes, target, len(partition))
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

	rng := rand.New(rand.NewSource(seed))
	sampled := make(map[string]bool)

	for _, comm := range comms {
		nodes := members[comm]
		sort.Strings(nodes)

		quota := quotas[comm]
		if len(nodes) <= quota {
			for _, n := range nodes {
				sampled[n] = true
			}
			continue
		}

		rng.Shuffle(len(nodes), func(i, j int) {
			nodes[i], nodes[j] = nodes[j], nodes[i]
		})
		for _, n := range nodes[:quota] {
			sampled[n] = true
		}
	}

	return sampled, nil
}
