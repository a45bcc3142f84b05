package physplit

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/phylo-engine/phylo/phytree"
)

// Incompatible reports whether t1 and t2 disagree as unrooted trees on
// their shared leaf set: it restricts both trees to the leaves they have in
// common and compares the induced nontrivial splits, which is the
// Robinson-Foulds distance being nonzero.
//
// Fewer than four shared leaves carry no unrooted topology, so such pairs
// are always compatible. Both trees must share one taxon set.
func Incompatible(t1, t2 *phytree.Tree) bool {
	shared := t1.LeafMask().Intersection(t2.LeafMask())
	if shared.Count() < 4 {
		return false
	}

	s1 := restrictedSplits(t1, shared)
	s2 := restrictedSplits(t2, shared)
	if len(s1) != len(s2) {
		return true
	}
	for k := range s1 {
		if _, ok := s2[k]; !ok {
			return true
		}
	}
	return false
}

// restrictedSplits collects the nontrivial splits t induces on the shared
// leaf set, each canonicalized to the side not containing the lowest shared
// taxon. Trivial splits (fewer than two leaves on either side) vanish when
// a tree is restricted, and the two clades meeting at the root describe the
// same split, so the set is deduplicated by construction.
func restrictedSplits(t *phytree.Tree, shared *bitset.BitSet) map[string]struct{} {
	total := shared.Count()
	lowest, _ := shared.NextSet(0)

	order := phytree.Preorder(t.Root())
	masks := make(map[*phytree.Node]*bitset.BitSet, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		m := bitset.New(shared.Len())
		if n.IsLeaf() {
			m.Set(uint(n.Taxon))
		} else {
			for _, c := range n.Children {
				m.InPlaceUnion(masks[c])
			}
		}
		masks[n] = m
	}

	splits := make(map[string]struct{})
	for _, n := range order {
		if n == t.Root() {
			continue
		}
		m := masks[n].Intersection(shared)
		if m.Test(lowest) {
			m = shared.Difference(m)
		}
		c := m.Count()
		if c < 2 || c > total-2 {
			continue
		}
		splits[maskKey(m)] = struct{}{}
	}
	return splits
}
