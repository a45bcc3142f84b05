// Package phynewick reads and writes trees in Newick format.
//
// This is a collaborator surface: the merge core never touches serialized
// trees. The reader accepts branch lengths and internal-node labels and
// keeps lengths on the parsed nodes; the writer emits topology only,
// because merged trees carry no length estimates.
package phynewick

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/phylo-engine/phylo/phytree"
)

// Parse reads a single Newick tree, interning leaf labels into taxa.
//
// The string must end with a semicolon, optionally followed by whitespace.
// Polytomies and unary nodes are accepted; callers that need a binary tree
// run [phytree.Tree.ResolvePolytomies] afterward.
func Parse(s string, taxa *phytree.TaxonSet) (*phytree.Tree, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("phynewick: no data")
	}
	last := len(s) - 1
	if s[last] != ';' {
		return nil, errors.New("phynewick: tree not terminated with ;")
	}

	p := &parser{rem: strings.TrimSpace(s[:last]), taxa: taxa}
	p.next()
	root, err := p.parseSubtree()
	if err != nil {
		return nil, err
	}
	if p.rem != "" || p.tok != "" {
		return nil, fmt.Errorf("phynewick: unparsed text after tree: %q", p.tok+p.rem)
	}
	return phytree.New(root, taxa), nil
}

type parser struct {
	rem  string
	tok  string
	taxa *phytree.TaxonSet
}

func (p *parser) next() {
	if p.rem == "" {
		p.tok = ""
		return
	}
	switch p.rem[0] {
	case '(', ')', ',':
		p.tok = string(p.rem[0])
		p.rem = strings.TrimSpace(p.rem[1:])
		return
	}
	if x := strings.IndexAny(p.rem, "(),"); x > 0 {
		p.tok = strings.TrimSpace(p.rem[:x])
		p.rem = p.rem[x:]
	} else {
		p.tok = p.rem
		p.rem = ""
	}
}

func (p *parser) parseSubtree() (*phytree.Node, error) {
	if p.tok == "(" {
		return p.parseSet()
	}
	// Leaf: a label with an optional :length.
	if p.tok == "" || p.tok == ")" || p.tok == "," {
		return nil, errors.New("phynewick: leaf without a label")
	}
	n := phytree.NewLeaf(phytree.NoTaxon)
	if err := p.nameLength(n); err != nil {
		return nil, err
	}
	if n.Taxon == phytree.NoTaxon {
		return nil, errors.New("phynewick: leaf without a label")
	}
	return n, nil
}

func (p *parser) parseSet() (*phytree.Node, error) {
	n := phytree.NewInternal()
	p.next() // consume (
	for {
		c, err := p.parseSubtree()
		if err != nil {
			return nil, err
		}
		n.AddChild(c)
		if p.tok != "," {
			break
		}
		p.next()
	}
	if p.tok != ")" {
		return nil, errors.New("phynewick: expected )")
	}
	p.next()
	// Internal nodes may carry a label and length. The label names no
	// taxon, so it is dropped without interning, but the length is kept.
	switch p.tok {
	case "", "(", ")", ",":
		return n, nil
	}
	tok := p.tok
	if i := strings.Index(tok, ":"); i >= 0 {
		w, err := strconv.ParseFloat(tok[i+1:], 64)
		if err != nil {
			return nil, fmt.Errorf("phynewick: bad branch length %q: %w", tok[i+1:], err)
		}
		n.Length = w
		n.HasLength = true
	}
	p.next()
	return n, nil
}

// nameLength consumes the current token as label[:length], setting the
// node's taxon (for labeled tokens) and length, then advances.
func (p *parser) nameLength(n *phytree.Node) error {
	tok := p.tok
	if i := strings.Index(tok, ":"); i >= 0 {
		w, err := strconv.ParseFloat(tok[i+1:], 64)
		if err != nil {
			return fmt.Errorf("phynewick: bad branch length %q: %w", tok[i+1:], err)
		}
		n.Length = w
		n.HasLength = true
		tok = tok[:i]
	}
	if tok != "" {
		n.Taxon = p.taxa.Add(tok)
	}
	p.next()
	return nil
}

// Write serializes the tree, topology only, with a terminating semicolon.
func Write(t *phytree.Tree) string {
	var b strings.Builder
	writeNode(&b, t.Root(), t.Taxa())
	b.WriteByte(';')
	return b.String()
}

func writeNode(b *strings.Builder, n *phytree.Node, taxa *phytree.TaxonSet) {
	if len(n.Children) > 0 {
		b.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNode(b, c, taxa)
		}
		b.WriteByte(')')
	}
	if n.IsLeaf() {
		b.WriteString(taxa.Label(n.Taxon))
	}
}
