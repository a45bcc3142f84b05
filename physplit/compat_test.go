package physplit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phylo-engine/phylo/physplit"
	"github.com/phylo-engine/phylo/phytree"
)

func TestIncompatible_DisagreeingTrees(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	t1 := mustParse(t, ts, "((a,b),(c,d));")
	t2 := mustParse(t, ts, "((a,c),(b,d));")

	require.True(t, physplit.Incompatible(t1, t2))
}

func TestIncompatible_SameTopologyDifferentRooting(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	t1 := mustParse(t, ts, "((a,b),(c,d));")
	t2 := mustParse(t, ts, "(((a,b),c),d);")

	require.False(t, physplit.Incompatible(t1, t2))
	require.False(t, physplit.Incompatible(t2, t1))
}

func TestIncompatible_PartialOverlap(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	// Shared leaves {a,b,c,d}; private leaves x and y.
	t1 := mustParse(t, ts, "(((a,b),x),(c,d));")
	t2 := mustParse(t, ts, "(((a,c),y),(b,d));")

	require.True(t, physplit.Incompatible(t1, t2))

	t3 := mustParse(t, ts, "(((a,b),y),(c,d));")
	require.False(t, physplit.Incompatible(t1, t3))
}

func TestIncompatible_TooFewSharedLeaves(t *testing.T) {
	t.Parallel()

	ts := phytree.NewTaxonSet()
	t1 := mustParse(t, ts, "((a,b),e);")
	t2 := mustParse(t, ts, "((a,f),b);")

	// Three or fewer shared leaves carry no unrooted topology.
	require.False(t, physplit.Incompatible(t1, t2))

	t3 := mustParse(t, ts, "(c,d);")
	require.False(t, physplit.Incompatible(t1, t3))
}
