package phytree

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Tree is a rooted tree over taxa interned in a shared [TaxonSet].
type Tree struct {
	root *Node
	taxa *TaxonSet
}

// New returns a tree rooted at root.
func New(root *Node, taxa *TaxonSet) *Tree {
	return &Tree{root: root, taxa: taxa}
}

// Root returns the current root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Taxa returns the taxon set shared by this tree.
func (t *Tree) Taxa() *TaxonSet {
	return t.taxa
}

// Clone deep-copies the tree. The copy shares the taxon set.
func (t *Tree) Clone() *Tree {
	return &Tree{root: CloneSubtree(t.root), taxa: t.taxa}
}

// Preorder returns every node in the subtree rooted at n, parents first.
func Preorder(n *Node) []*Node {
	out := make([]*Node, 0, 16)
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		// Push children in reverse so they pop in declaration order.
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
	return out
}

// CladeMask returns the bitmask of taxa at or below n.
// The mask width is the current taxon set size.
func (t *Tree) CladeMask(n *Node) *bitset.BitSet {
	m := bitset.New(uint(t.taxa.Len()))
	for _, nd := range Preorder(n) {
		if nd.IsLeaf() {
			m.Set(uint(nd.Taxon))
		}
	}
	return m
}

// LeafMask returns the bitmask of every taxon in the tree.
func (t *Tree) LeafMask() *bitset.BitSet {
	return t.CladeMask(t.root)
}

// RerootAtEdge makes the edge into n the root edge: afterward the root has
// exactly two children and n is one of them, so one side of the root is
// exactly n's clade. The unrooted topology is unchanged.
//
// Rerooting at the current root, or at a child of a root that already has
// two children, is a no-op.
func (t *Tree) RerootAtEdge(n *Node) {
	if n == t.root || n.Parent == nil {
		return
	}
	if n.Parent == t.root && len(t.root.Children) == 2 {
		return
	}

	// Path from n's parent up to the old root.
	var path []*Node
	for v := n.Parent; v != nil; v = v.Parent {
		path = append(path, v)
	}

	n.Parent.RemoveChild(n)

	// Reverse the parent/child relation along the path.
	for i := 0; i+1 < len(path); i++ {
		path[i+1].RemoveChild(path[i])
		path[i].AddChild(path[i+1])
	}

	// The old root lost the child that became its parent;
	// if it is left unary, splice it out.
	old := path[len(path)-1]
	if len(old.Children) == 1 && old.Parent != nil {
		only := old.Children[0]
		p := old.Parent
		p.RemoveChild(old)
		old.RemoveChild(only)
		p.AddChild(only)
	}

	root := NewInternal(n, path[0])
	t.root = root
}

// ResolvePolytomies rewrites every node with more than two children into a
// cascade of binary nodes. The resolution is arbitrary but deterministic:
// the two leftmost children are paired first. Applied once before a merge;
// polytomies carry no split information, so any resolution displays the
// same unrooted topology on the original splits.
func (t *Tree) ResolvePolytomies() {
	for _, n := range Preorder(t.root) {
		for len(n.Children) > 2 {
			a, b := n.Children[0], n.Children[1]
			n.Children = n.Children[2:]
			in := NewInternal(a, b)
			in.Parent = n
			n.Children = append([]*Node{in}, n.Children...)
		}
	}
}

// SuppressUnifurcations splices out every internal node with a single child,
// including a unary root. Such nodes can appear in parsed input but carry
// no topology.
func (t *Tree) SuppressUnifurcations() {
	for len(t.root.Children) == 1 {
		t.root = t.root.Children[0]
		t.root.Parent = nil
	}
	for _, n := range Preorder(t.root) {
		for i := 0; i < len(n.Children); i++ {
			c := n.Children[i]
			for len(c.Children) == 1 {
				only := c.Children[0]
				c.RemoveChild(only)
				only.Parent = n
				n.Children[i] = only
				c = only
			}
		}
	}
}

// CollapseBasalBifurcation removes a two-child root by promoting the
// children of its first internal child, leaving a root of degree three.
// This is the conventional seed shape for an unrooted binary tree.
// A root whose children are both leaves is left alone.
func (t *Tree) CollapseBasalBifurcation() {
	if len(t.root.Children) != 2 {
		return
	}
	var in *Node
	for _, c := range t.root.Children {
		if !c.IsLeaf() {
			in = c
			break
		}
	}
	if in == nil {
		return
	}
	t.root.RemoveChild(in)
	for len(in.Children) > 0 {
		c := in.Children[0]
		in.RemoveChild(c)
		t.root.AddChild(c)
	}
}

// StripLengths drops every branch length in the tree.
func (t *Tree) StripLengths() {
	for _, n := range Preorder(t.root) {
		n.Length = 0
		n.HasLength = false
	}
}

// CountLeaves returns the number of leaves in the tree.
func (t *Tree) CountLeaves() int {
	c := 0
	for _, n := range Preorder(t.root) {
		if n.IsLeaf() {
			c++
		}
	}
	return c
}

// CheckBinary verifies that every internal node has exactly two children.
// It returns an error naming the first offending node.
func (t *Tree) CheckBinary() error {
	for _, n := range Preorder(t.root) {
		if !n.IsLeaf() && len(n.Children) != 2 {
			return fmt.Errorf("internal node has %d children, want 2", len(n.Children))
		}
	}
	return nil
}
