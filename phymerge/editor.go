package phymerge

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/phylo-engine/phylo/phytree"
)

// joinConstraints edits the constraint trees so that a's and b's clades are
// siblings in every tree containing both. It reports whether any topology
// changed, in which case the split indexes are stale until rebuilt. The
// oracle has already vetted the pair, so the no-edit patterns need no
// further checking here.
func (m *merger) joinConstraints(a, b *njNode) bool {
	a1 := locate(m.ix1, a.clade)
	a2 := locate(m.ix2, a.clade)
	b1 := locate(m.ix1, b.clade)
	b2 := locate(m.ix2, b.clade)

	switch {
	case a1.in && a2.in:
		switch {
		case b1.in && b2.in:
			// Case 1: already siblings in both trees.
			return false
		case b1.in:
			// Case 2: copy b into the second tree beside a.
			m.t2 = graftInto(m.t1, b1.node, b.clade, m.t2, a2.node, a.clade, m.ts)
			return true
		case b2.in:
			// Case 3: copy b into the first tree beside a.
			m.t1 = graftInto(m.t2, b2.node, b.clade, m.t1, a1.node, a.clade, m.ts)
			return true
		}
	case a1.in:
		switch {
		case b1.in && b2.in:
			// Case 4: copy a into the second tree beside b.
			m.t2 = graftInto(m.t1, a1.node, a.clade, m.t2, b2.node, b.clade, m.ts)
			return true
		case b1.in:
			// Case 5: already siblings in the first tree.
			return false
		case b2.in:
			// Case 6: merge-and-grow across both trees.
			m.growTrees(a, a1, b, b2)
			return true
		}
	case a2.in:
		switch {
		case b1.in && b2.in:
			// Case 7: copy a into the first tree beside b.
			m.t1 = graftInto(m.t2, a2.node, a.clade, m.t1, b1.node, b.clade, m.ts)
			return true
		case b1.in:
			// Case 8: mirror of case 6.
			m.growTrees(b, b1, a, a2)
			return true
		case b2.in:
			// Case 9: already siblings in the second tree.
			return false
		}
	}
	panic(fmt.Errorf("BUG: pool clade present in neither constraint tree"))
}

// growTrees applies merge-and-grow for a clade held only by the first tree
// and one held only by the second. When either clade covers its whole tree
// the grow collapses into absorbing that tree, and the result spans the
// full taxon set; the caller detects that and finishes the run.
func (m *merger) growTrees(a *njNode, aLoc location, b *njNode, bLoc location) {
	switch {
	case aLoc.whole && bLoc.whole:
		m.t1 = phytree.New(phytree.NewInternal(m.subtree(a), m.subtree(b)), m.ts)
	case aLoc.whole:
		rerootSplit(m.t2, bLoc.node, b.clade)
		m.t1 = phytree.New(phytree.NewInternal(m.subtree(a), m.t2.Root()), m.ts)
	case bLoc.whole:
		rerootSplit(m.t1, aLoc.node, a.clade)
		m.t1 = phytree.New(phytree.NewInternal(m.t1.Root(), m.subtree(b)), m.ts)
	default:
		m.t1, m.t2 = growBoth(m.t1, aLoc.node, a.clade, m.t2, bLoc.node, b.clade, m.ts)
	}
}

// growBoth rewrites both trees so the two clades are siblings in each: each
// tree is rerooted to expose its clade beside the rest, then a copy of the
// other tree's clade subtree is grafted over the root.
func growBoth(t1 *phytree.Tree, nA *phytree.Node, cladeA *bitset.BitSet,
	t2 *phytree.Tree, nB *phytree.Node, cladeB *bitset.BitSet,
	ts *phytree.TaxonSet,
) (*phytree.Tree, *phytree.Tree) {
	aChild := rerootSplit(t1, nA, cladeA)
	bChild := rerootSplit(t2, nB, cladeB)

	r1 := phytree.NewInternal(t1.Root(), phytree.CloneSubtree(bChild))
	r2 := phytree.NewInternal(t2.Root(), phytree.CloneSubtree(aChild))
	return phytree.New(r1, ts), phytree.New(r2, ts)
}

// graftInto copies src's clade subtree into dst as the new sibling of
// dst's anchor clade: dst is rerooted as (anchor, rest), then a new root is
// placed over the copy and dst's old root. src is only rerooted, which
// leaves its unrooted topology untouched.
func graftInto(src *phytree.Tree, srcNode *phytree.Node, srcClade *bitset.BitSet,
	dst *phytree.Tree, dstNode *phytree.Node, dstClade *bitset.BitSet,
	ts *phytree.TaxonSet,
) *phytree.Tree {
	sub := rerootSplit(src, srcNode, srcClade)
	rerootSplit(dst, dstNode, dstClade)
	root := phytree.NewInternal(phytree.CloneSubtree(sub), dst.Root())
	return phytree.New(root, ts)
}

// rerootSplit reroots t so the root bipartition has the given clade on one
// side, returning the root child holding exactly that clade. The handle
// node may sit on either side of the split, because a split index maps a
// mask and its complement to the same node.
func rerootSplit(t *phytree.Tree, n *phytree.Node, clade *bitset.BitSet) *phytree.Node {
	t.RerootAtEdge(n)
	root := t.Root()
	if len(root.Children) != 2 {
		panic(fmt.Errorf("BUG: root has %d children after rerooting, want 2", len(root.Children)))
	}
	for _, c := range root.Children {
		if t.CladeMask(c).Equal(clade) {
			return c
		}
	}
	panic(fmt.Errorf("BUG: neither side of the root split matches the requested clade"))
}
