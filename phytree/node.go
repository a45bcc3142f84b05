package phytree

// Node is a node in a rooted tree.
//
// A leaf has a taxon and no children; an internal node has NoTaxon and,
// once a tree has been prepared for merging, exactly two children.
// Parent is nil only for the root.
type Node struct {
	Taxon    Taxon
	Parent   *Node
	Children []*Node

	// Branch length from the parent, as parsed.
	// The merge core strips lengths before use; they are retained on the
	// Node so that collaborators reading annotated inputs do not lose them
	// before deciding to.
	Length    float64
	HasLength bool
}

// NewLeaf returns a parentless leaf node for tx.
func NewLeaf(tx Taxon) *Node {
	return &Node{Taxon: tx}
}

// NewInternal returns a parentless internal node adopting the given children.
func NewInternal(children ...*Node) *Node {
	n := &Node{Taxon: NoTaxon}
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

// IsLeaf reports whether n carries a taxon.
func (n *Node) IsLeaf() bool {
	return n.Taxon != NoTaxon
}

// AddChild appends c to n's children and reparents c to n.
func (n *Node) AddChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// RemoveChild removes c from n's children, leaving c parentless.
// It is a no-op if c is not a child of n.
func (n *Node) RemoveChild(c *Node) {
	for i, x := range n.Children {
		if x == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.Parent = nil
			return
		}
	}
}

// CloneSubtree deep-copies the subtree rooted at n.
// The copy is parentless and shares no nodes with the original.
func CloneSubtree(n *Node) *Node {
	cp := &Node{Taxon: n.Taxon, Length: n.Length, HasLength: n.HasLength}
	for _, c := range n.Children {
		cp.AddChild(CloneSubtree(c))
	}
	return cp
}
