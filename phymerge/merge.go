package phymerge

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/bits-and-blooms/bitset"

	"github.com/phylo-engine/phylo/phydist"
	"github.com/phylo-engine/phylo/physplit"
	"github.com/phylo-engine/phylo/phytree"
)

var (
	// ErrDisjointnessViolated means the two constraint trees share a leaf.
	ErrDisjointnessViolated = errors.New("phymerge: constraint trees share a leaf")

	// ErrLeafSetMismatch means the distance matrix does not cover exactly
	// the union of the two trees' leaves.
	ErrLeafSetMismatch = errors.New("phymerge: distance matrix taxa do not match the trees' leaves")

	// ErrConstraintInfeasible means some agglomeration step had no
	// remaining pair compatible with both constraint trees. The inputs
	// contradict each other; there is no retry strategy.
	ErrConstraintInfeasible = errors.New("phymerge: no remaining join is compatible with the constraint trees")
)

// njNode is a live node in the agglomeration pool: an original leaf or the
// join of two earlier pool nodes. It carries its clade bitmask, its row of
// distances to every other live node, and that row's sum for the
// Q-criterion.
type njNode struct {
	taxon    phytree.Taxon
	children [2]*njNode
	clade    *bitset.BitSet
	dist     map[*njNode]float64
	xsub     float64
}

type merger struct {
	log *slog.Logger
	ts  *phytree.TaxonSet

	t1, t2   *phytree.Tree
	ix1, ix2 *physplit.Index

	// Bitmask of the full taxon union; a constraint tree reaching it ends
	// the run early.
	full *bitset.BitSet

	pool []*njNode
}

// Merge returns an unrooted binary tree on the union of the leaves of t1
// and t2 that displays both trees, built by constrained Neighbor-Joining
// over dm. The two trees must share one [phytree.TaxonSet], their leaf sets
// must be disjoint, and dm must cover exactly their union.
//
// The inputs are not modified: the merge works on clones, resolving any
// polytomies and dropping branch lengths before the first join. The result
// is purely topological.
func Merge(log *slog.Logger, dm *phydist.Matrix, t1, t2 *phytree.Tree) (*phytree.Tree, error) {
	if t1.Taxa() != t2.Taxa() {
		panic(errors.New("BUG: constraint trees were built on different taxon sets"))
	}
	ts := t1.Taxa()

	t1, t2 = t1.Clone(), t2.Clone()
	for _, t := range []*phytree.Tree{t1, t2} {
		t.SuppressUnifurcations()
		t.ResolvePolytomies()
		t.StripLengths()
	}

	mask1, mask2 := t1.LeafMask(), t2.LeafMask()
	if inter := mask1.Intersection(mask2); inter.Any() {
		i, _ := inter.NextSet(0)
		return nil, fmt.Errorf("%w: %q", ErrDisjointnessViolated, ts.Label(phytree.Taxon(i)))
	}
	full := mask1.Union(mask2)
	if int(full.Count()) != dm.Len() {
		return nil, fmt.Errorf("%w: trees have %d leaves, matrix covers %d taxa",
			ErrLeafSetMismatch, full.Count(), dm.Len())
	}
	for _, l := range dm.Labels() {
		tx, ok := ts.Lookup(l)
		if !ok || !full.Test(uint(tx)) {
			return nil, fmt.Errorf("%w: matrix taxon %q is not a leaf of either tree", ErrLeafSetMismatch, l)
		}
	}

	m := &merger{
		log:  log,
		ts:   ts,
		t1:   t1,
		t2:   t2,
		ix1:  physplit.Build(t1),
		ix2:  physplit.Build(t2),
		full: full,
	}
	m.seedPool(dm)
	return m.run()
}

// seedPool builds the initial pool of leaf nodes in matrix row order and
// fills in the pairwise distance rows and their sums.
func (m *merger) seedPool(dm *phydist.Matrix) {
	width := uint(m.ts.Len())
	labels := dm.Labels()
	m.pool = make([]*njNode, len(labels))
	for i, l := range labels {
		tx, _ := m.ts.Lookup(l)
		nd := &njNode{
			taxon: tx,
			clade: bitset.New(width).Set(uint(tx)),
			dist:  make(map[*njNode]float64, len(labels)-1),
		}
		m.pool[i] = nd
	}
	for i, u := range m.pool {
		for j, v := range m.pool {
			if i == j {
				continue
			}
			d := dm.At(i, j)
			u.dist[v] = d
			u.xsub += d
		}
	}
}

func (m *merger) run() (*phytree.Tree, error) {
	n := len(m.pool)
	m.log.Debug("Merging constraint trees", "taxa", n)

	for n > 1 {
		m.log.Debug("Scanning candidate joins", "pool", n)

		a, b, ok := m.selectJoin(n)
		if !ok {
			return nil, ErrConstraintInfeasible
		}

		if m.joinConstraints(a, b) {
			if sp := m.spanning(); sp != nil {
				m.log.Info("Constraint tree spans every taxon; finishing early", "pool", n)
				sp.CollapseBasalBifurcation()
				return sp, nil
			}
			m.ix1, m.ix2 = physplit.Build(m.t1), physplit.Build(m.t2)
		}

		m.commit(a, b)
		n--
	}

	out := phytree.New(m.subtree(m.pool[0]), m.ts)
	out.CollapseBasalBifurcation()
	return out, nil
}

// selectJoin scans live pairs in ascending Q order, pool position breaking
// ties, and returns the first pair the compatibility oracle accepts.
func (m *merger) selectJoin(n int) (a, b *njNode, ok bool) {
	type candidate struct {
		i, j int
		q    float64
	}
	cands := make([]candidate, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		u := m.pool[i]
		for j := i + 1; j < n; j++ {
			v := m.pool[j]
			q := float64(n-2)*u.dist[v] - u.xsub - v.xsub
			cands = append(cands, candidate{i: i, j: j, q: q})
		}
	}
	slices.SortFunc(cands, func(x, y candidate) int {
		switch {
		case x.q < y.q:
			return -1
		case x.q > y.q:
			return 1
		case x.i != y.i:
			return x.i - y.i
		default:
			return x.j - y.j
		}
	})
	for _, c := range cands {
		u, v := m.pool[c.i], m.pool[c.j]
		if !m.violates(u, v) {
			return u, v, true
		}
	}
	return nil, nil, false
}

// commit replaces a and b with their join, updating the surviving distance
// rows and row sums incrementally.
func (m *merger) commit(a, b *njNode) {
	w := &njNode{
		taxon:    phytree.NoTaxon,
		children: [2]*njNode{a, b},
		clade:    a.clade.Union(b.clade),
		dist:     make(map[*njNode]float64, len(m.pool)-2),
	}
	dab := a.dist[b]

	rest := make([]*njNode, 0, len(m.pool)-1)
	for _, x := range m.pool {
		if x != a && x != b {
			rest = append(rest, x)
		}
	}
	for _, x := range rest {
		d := 0.5 * (x.dist[a] + x.dist[b] - dab)
		w.dist[x] = d
		x.dist[w] = d
		w.xsub += d
		x.xsub += d - x.dist[a] - x.dist[b]
		delete(x.dist, a)
		delete(x.dist, b)
	}
	m.pool = append(rest, w)
}

// spanning returns a constraint tree that has grown to cover the full
// taxon set, if either has.
func (m *merger) spanning() *phytree.Tree {
	if m.t1.LeafMask().Equal(m.full) {
		return m.t1
	}
	if m.t2.LeafMask().Equal(m.full) {
		return m.t2
	}
	return nil
}

// subtree materializes the agglomeration below nd as tree nodes.
func (m *merger) subtree(nd *njNode) *phytree.Node {
	if nd.taxon != phytree.NoTaxon {
		return phytree.NewLeaf(nd.taxon)
	}
	return phytree.NewInternal(m.subtree(nd.children[0]), m.subtree(nd.children[1]))
}
