package phymerge

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/phylo-engine/phylo/physplit"
	"github.com/phylo-engine/phylo/phytree"
)

// location records where one pool node's clade sits within one constraint
// tree: absent, present at a node, or spanning the whole tree.
type location struct {
	node  *phytree.Node
	in    bool
	whole bool
}

func locate(ix *physplit.Index, clade *bitset.BitSet) location {
	if clade.Equal(ix.LeafMask()) {
		return location{node: ix.Tree().Root(), in: true, whole: true}
	}
	n, ok := ix.Lookup(clade)
	return location{node: n, in: ok}
}

// violates decides whether joining a and b would contradict a constraint
// tree. The nine presence patterns of the two clades across the two trees
// reduce to two kinds of test: wherever both clades sit in the same tree,
// their union must itself be a split of that tree; and when each clade
// lives in a different tree, the join is simulated on copies and the grown
// trees are compared on their shared leaves.
func (m *merger) violates(a, b *njNode) bool {
	a1 := locate(m.ix1, a.clade)
	a2 := locate(m.ix2, a.clade)
	b1 := locate(m.ix1, b.clade)
	b2 := locate(m.ix2, b.clade)

	join := a.clade.Union(b.clade)

	switch {
	case a1.in && a2.in:
		switch {
		case b1.in && b2.in:
			// Case 1: both clades in both trees; (a,b) must be a split
			// of each.
			if _, ok := m.ix1.Lookup(join); !ok {
				return true
			}
			_, ok := m.ix2.Lookup(join)
			return !ok
		case b1.in:
			// Case 2: b in the first tree only.
			_, ok := m.ix1.Lookup(join)
			return !ok
		case b2.in:
			// Case 3: b in the second tree only.
			_, ok := m.ix2.Lookup(join)
			return !ok
		}
	case a1.in:
		switch {
		case b1.in && b2.in:
			// Case 4: both clades present in the first tree.
			_, ok := m.ix1.Lookup(join)
			return !ok
		case b1.in:
			// Case 5: both clades in the first tree only.
			_, ok := m.ix1.Lookup(join)
			return !ok
		case b2.in:
			// Case 6: a only in the first tree, b only in the second.
			// No local split test decides this one.
			return m.simulateGrow(a1, a.clade, b2, b.clade)
		}
	case a2.in:
		switch {
		case b1.in && b2.in:
			// Case 7: both clades present in the second tree.
			_, ok := m.ix2.Lookup(join)
			return !ok
		case b1.in:
			// Case 8: mirror of case 6.
			return m.simulateGrow(b1, b.clade, a2, a.clade)
		case b2.in:
			// Case 9: both clades in the second tree only.
			_, ok := m.ix2.Lookup(join)
			return !ok
		}
	}
	panic(fmt.Errorf("BUG: pool clade present in neither constraint tree"))
}

// simulateGrow plays the merge-and-grow edit for (cladeInT1, cladeInT2) on
// deep copies of both constraint trees, then tests whether the grown trees
// still agree on their shared leaf set. Copies are discarded before the
// caller commits anything.
func (m *merger) simulateGrow(l1 location, c1 *bitset.BitSet, l2 location, c2 *bitset.BitSet) bool {
	if l1.whole || l2.whole {
		// Absorbing a whole constraint tree embeds it verbatim; nothing on
		// the shared leaf set can move.
		return false
	}

	s1, s2 := m.t1.Clone(), m.t2.Clone()
	n1, ok1 := physplit.Build(s1).Lookup(c1)
	n2, ok2 := physplit.Build(s2).Lookup(c2)
	if !ok1 || !ok2 {
		panic(fmt.Errorf("BUG: clade vanished from cloned constraint tree"))
	}
	g1, g2 := growBoth(s1, n1, c1, s2, n2, c2, m.ts)
	return physplit.Incompatible(g1, g2)
}
