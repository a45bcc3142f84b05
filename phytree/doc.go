// Package phytree (PHYlogenetic TREE) contains the rooted-binary tree model
// shared by the constraint-merging packages.
//
// Trees in this package carry a rooted orientation as an implementation
// convenience only; every operation that matters to callers is invariant
// under re-rooting at any edge. Leaf labels are interned into a [TaxonSet]
// so that subsets of the leaf universe can be handled as bitmasks,
// with the taxon's index selecting the bit position.
//
// Nothing in this package mutates a tree except [Tree.RerootAtEdge] and the
// explicit structural editors ([Tree.ResolvePolytomies],
// [Tree.SuppressUnifurcations], [Tree.CollapseBasalBifurcation]) and
// [Tree.StripLengths], which clears branch lengths; higher layers that splice subtrees build new roots out of existing nodes.
package phytree
