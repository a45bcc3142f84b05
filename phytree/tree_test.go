package phytree_test

import (
	"testing"

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

func TestRerootAtEdge_AtLeaf(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	tr := mustParse(t, ts, "(((a,b),c),d);")
	ref := tr.Clone()

	// Leaf a is three levels down.
	a := tr.Root().Children[0].Children[0].Children[0]
	require.True(t, a.IsLeaf())

	tr.RerootAtEdge(a)

	root := tr.Root()
	require.Len(t, root.Children, 2)
	require.Same(t, a, root.Children[0])
	require.EqualValues(t, 1, tr.CladeMask(a).Count())

	// The unrooted topology is unchanged.
	require.False(t, physplit.Incompatible(tr, ref))
	require.Equal(t, 4, tr.CountLeaves())
}

func TestRerootAtEdge_AtInternalNode(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	tr := mustParse(t, ts, "(((a,b),c),d);")
	ref := tr.Clone()

	ab := tr.Root().Children[0].Children[0]
	require.False(t, ab.IsLeaf())

	tr.RerootAtEdge(ab)

	root := tr.Root()
	require.Len(t, root.Children, 2)
	require.Same(t, ab, root.Children[0])
	require.EqualValues(t, 2, tr.CladeMask(ab).Count())
	require.False(t, physplit.Incompatible(tr, ref))
	require.NoError(t, tr.CheckBinary())
}

func TestRerootAtEdge_AlreadyRootEdge(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	tr := mustParse(t, ts, "((a,b),c);")
	root := tr.Root()

	// c is already a child of a two-child root; nothing to do.
	c := root.Children[1]
	tr.RerootAtEdge(c)
	require.Same(t, root, tr.Root())
}

func TestResolvePolytomies(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	tr := mustParse(t, ts, "(a,b,c,d,e);")
	require.Len(t, tr.Root().Children, 5)

	tr.ResolvePolytomies()

	require.NoError(t, tr.CheckBinary())
	require.Equal(t, 5, tr.CountLeaves())
	require.EqualValues(t, 5, tr.LeafMask().Count())
}

func TestSuppressUnifurcations(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	tr := mustParse(t, ts, "((a),b);")
	tr.SuppressUnifurcations()

	require.Len(t, tr.Root().Children, 2)
	require.True(t, tr.Root().Children[0].IsLeaf())

	// A unary root is collapsed onto its child.
	tr2 := mustParse(t, ts, "((a,b));")
	tr2.SuppressUnifurcations()
	require.Len(t, tr2.Root().Children, 2)
	require.NoError(t, tr2.CheckBinary())
}

func TestCollapseBasalBifurcation(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	tr := mustParse(t, ts, "((a,b),(c,d));")
	tr.CollapseBasalBifurcation()

	require.Len(t, tr.Root().Children, 3)
	require.Equal(t, 4, tr.CountLeaves())

	// Two-leaf trees have nothing to collapse.
	tr2 := mustParse(t, ts, "(a,b);")
	tr2.CollapseBasalBifurcation()
	require.Len(t, tr2.Root().Children, 2)
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	tr := mustParse(t, ts, "((a,b),c);")
	before := phynewick.Write(tr)

	cp := tr.Clone()
	b := cp.Root().Children[0].Children[1]
	cp.RerootAtEdge(b)
	cp.ResolvePolytomies()

	require.Equal(t, before, phynewick.Write(tr))
	require.Equal(t, tr.CountLeaves(), cp.CountLeaves())
}

func TestCladeMask(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	tr := mustParse(t, ts, "((a,b),c);")

	ab := tr.Root().Children[0]
	m := tr.CladeMask(ab)
	require.EqualValues(t, 2, m.Count())

	a, ok := ts.Lookup("a")
	require.True(t, ok)
	b, ok := ts.Lookup("b")
	require.True(t, ok)
	require.True(t, m.Test(uint(a)))
	require.True(t, m.Test(uint(b)))

	c, ok := ts.Lookup("c")
	require.True(t, ok)
	require.False(t, m.Test(uint(c)))
}

func TestStripLengths(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	tr := mustParse(t, ts, "((a:1.5,b:2):0.5,c);")
	tr.StripLengths()

	for _, n := range phytree.Preorder(tr.Root()) {
		require.False(t, n.HasLength)
	}
}
