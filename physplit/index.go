// Package physplit indexes the splits of a rooted tree by clade bitmask and
// tests pairs of trees for topological agreement on their shared leaves.
//
// A split is an unordered bipartition of the leaf set, so each node is
// indexed under its clade bitmask and under the complement of that bitmask
// with respect to the tree's own leaves; lookups succeed from either side
// regardless of where the tree was rooted when the index was built. An index
// is a snapshot:
// it goes stale the moment the tree is structurally edited and must be
// rebuilt, never patched.
package physplit

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/phylo-engine/phylo/phytree"
)

// Index maps clade bitmasks of one tree to the nodes exhibiting them.
type Index struct {
	tree     *phytree.Tree
	leafMask *bitset.BitSet
	nodes    map[string]*phytree.Node
}

// Build indexes every split of t in one bottom-up traversal.
func Build(t *phytree.Tree) *Index {
	width := uint(t.Taxa().Len())
	order := phytree.Preorder(t.Root())

	masks := make(map[*phytree.Node]*bitset.BitSet, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		m := bitset.New(width)
		if n.IsLeaf() {
			m.Set(uint(n.Taxon))
		} else {
			for _, c := range n.Children {
				m.InPlaceUnion(masks[c])
			}
		}
		masks[n] = m
	}

	full := masks[t.Root()]
	ix := &Index{
		tree:     t,
		leafMask: full,
		nodes:    make(map[string]*phytree.Node, 2*len(order)),
	}
	for _, n := range order {
		m := masks[n]
		ix.nodes[maskKey(m)] = n
		ix.nodes[maskKey(full.SymmetricDifference(m))] = n
	}
	return ix
}

// Tree returns the tree this index was built from.
func (ix *Index) Tree() *phytree.Tree {
	return ix.tree
}

// LeafMask returns the bitmask of every taxon in the indexed tree.
func (ix *Index) LeafMask() *bitset.BitSet {
	return ix.leafMask
}

// Lookup returns the node whose clade (or clade complement) is exactly the
// given bitmask. A mask equal to the whole leaf set resolves to the root.
// Masks containing taxa outside the tree, and masks that match no split,
// report false.
func (ix *Index) Lookup(clade *bitset.BitSet) (*phytree.Node, bool) {
	if !ix.leafMask.IsSuperSet(clade) {
		return nil, false
	}
	if clade.Equal(ix.leafMask) {
		return ix.tree.Root(), true
	}
	n, ok := ix.nodes[maskKey(clade)]
	return n, ok
}

// maskKey renders a bitmask as a canonical map key.
func maskKey(m *bitset.BitSet) string {
	var b strings.Builder
	for i, ok := m.NextSet(0); ok; i, ok = m.NextSet(i + 1) {
		b.WriteString(strconv.FormatUint(uint64(i), 10))
		b.WriteByte(',')
	}
	return b.String()
}
