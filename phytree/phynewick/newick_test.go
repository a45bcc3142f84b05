package phynewick_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phylo-engine/phylo/phytree"
	"github.com/phylo-engine/phylo/phytree/phynewick"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{
		"((a,b),c);",
		"(a,(b,c));",
		"((a,b),(c,d));",
		"(a,b,c);",
		"a;",
	} {
		ts := phytree.NewTaxonSet()
		tr, err := phynewick.Parse(s, ts)
		require.NoError(t, err, s)
		require.Equal(t, s, phynewick.Write(tr), s)
	}
}

func TestParse_BranchLengths(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	tr, err := phynewick.Parse("((a:1.5,b:2.0):0.5,c);", ts)
	require.NoError(t, err)

	// Lengths are kept on the nodes but never written back out.
	require.Equal(t, "((a,b),c);", phynewick.Write(tr))

	ab := tr.Root().Children[0]
	require.True(t, ab.HasLength)
	require.Equal(t, 0.5, ab.Length)

	a := ab.Children[0]
	require.True(t, a.HasLength)
	require.Equal(t, 1.5, a.Length)

	c := tr.Root().Children[1]
	require.False(t, c.HasLength)
}

func TestParse_InternalLabelsAreNotTaxa(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	tr, err := phynewick.Parse("((a,b)anc:0.5,c);", ts)
	require.NoError(t, err)

	// Only the three leaves are interned.
	require.Equal(t, 3, ts.Len())
	_, ok := ts.Lookup("anc")
	require.False(t, ok)

	ab := tr.Root().Children[0]
	require.False(t, ab.IsLeaf())
	require.True(t, ab.HasLength)
}

func TestParse_Polytomy(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	tr, err := phynewick.Parse("(a,b,c,d);", ts)
	require.NoError(t, err)
	require.Len(t, tr.Root().Children, 4)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	for _, s := range []string{
		"",
		"   ",
		"((a,b),c)",   // missing semicolon
		"((a,b);",     // unbalanced
		"(,b);",       // unlabeled leaf
		"(a:x,b);",    // bad length
		"((a,b),c);x", // trailing text
	} {
		ts := phytree.NewTaxonSet()
		_, err := phynewick.Parse(s, ts)
		require.Error(t, err, "input %q", s)
	}
}
