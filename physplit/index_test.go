package physplit_test

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/require"

	"github.com/phylo-engine/phylo/physplit"
	"github.com/phylo-engine/phylo/phytree"
	"github.com/phylo-engine/phylo/phytree/phynewick"
)

func mustParse(t *testing.T, ts *phytree.TaxonSet, s string) *phytree.Tree {
	t.Helper()
	tr, err := phynewick.Parse(s, ts)
	require.NoError(t, err)
	return tr
}

func mask(t *testing.T, ts *phytree.TaxonSet, labels ...string) *bitset.BitSet {
	t.Helper()
	m := bitset.New(uint(ts.Len()))
	for _, l := range labels {
		tx, ok := ts.Lookup(l)
		require.True(t, ok, "label %q not interned", l)
		m.Set(uint(tx))
	}
	return m
}

func TestBuildAndLookup(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	// Intern a taxon the tree does not contain, so lookups can be probed
	// with out-of-tree masks of matching width.
	ts.Add("z")
	tr := mustParse(t, ts, "((a,b),(c,d));")
	ix := physplit.Build(tr)

	ab, ok := ix.Lookup(mask(t, ts, "a", "b"))
	require.True(t, ok)
	require.NotNil(t, ab)

	_, ok = ix.Lookup(mask(t, ts, "a"))
	require.True(t, ok)

	_, ok = ix.Lookup(mask(t, ts, "a", "c"))
	require.False(t, ok)

	// Masks naming taxa outside the tree never resolve.
	_, ok = ix.Lookup(mask(t, ts, "a", "z"))
	require.False(t, ok)
}

func TestLookup_SplitSymmetry(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	tr := mustParse(t, ts, "((a,b),(c,d));")
	ix := physplit.Build(tr)

	// A split is an unordered bipartition: the mask and its complement
	// resolve to the same node.
	n1, ok := ix.Lookup(mask(t, ts, "a", "b"))
	require.True(t, ok)
	n2, ok := ix.Lookup(mask(t, ts, "c", "d"))
	require.True(t, ok)
	require.Same(t, n1, n2)

	l1, ok := ix.Lookup(mask(t, ts, "a"))
	require.True(t, ok)
	l2, ok := ix.Lookup(mask(t, ts, "b", "c", "d"))
	require.True(t, ok)
	require.Same(t, l1, l2)
}

func TestLookup_WholeTreeAndEmpty(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	tr := mustParse(t, ts, "((a,b),(c,d));")
	ix := physplit.Build(tr)

	n, ok := ix.Lookup(mask(t, ts, "a", "b", "c", "d"))
	require.True(t, ok)
	require.Same(t, tr.Root(), n)

	n, ok = ix.Lookup(bitset.New(uint(ts.Len())))
	require.True(t, ok)
	require.Same(t, tr.Root(), n)
}

func TestLookup_SurvivesRerooting(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	tr := mustParse(t, ts, "((a,b),(c,d));")

	// Reroot at leaf c, then rebuild: the {a,b} split must still resolve.
	c := tr.Root().Children[1].Children[0]
	require.True(t, c.IsLeaf())
	tr.RerootAtEdge(c)

	ix := physplit.Build(tr)
	_, ok := ix.Lookup(mask(t, ts, "a", "b"))
	require.True(t, ok)
	_, ok = ix.Lookup(mask(t, ts, "a", "c"))
	require.False(t, ok)
}
