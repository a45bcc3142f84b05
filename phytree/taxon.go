package phytree

// Taxon is an interned leaf label.
// Its value is a stable index in [0, N) where N is the number of labels
// interned in the owning [TaxonSet]; the index doubles as the bit position
// identifying the taxon in clade bitmasks.
type Taxon int

// NoTaxon marks internal nodes, which carry no label.
const NoTaxon Taxon = -1

// TaxonSet interns leaf labels and assigns each a stable [Taxon] index
// in insertion order.
//
// A single TaxonSet must be shared by every tree and distance matrix
// participating in one merge, and must be fully populated before clade
// bitmasks are built, so that all masks agree on width and bit positions.
type TaxonSet struct {
	labels []string
	index  map[string]Taxon
}

// NewTaxonSet returns an empty TaxonSet.
func NewTaxonSet() *TaxonSet {
	return &TaxonSet{index: make(map[string]Taxon)}
}

// Add interns label, returning its taxon.
// Adding a label twice returns the original taxon.
func (ts *TaxonSet) Add(label string) Taxon {
	if tx, ok := ts.index[label]; ok {
		return tx
	}
	tx := Taxon(len(ts.labels))
	ts.labels = append(ts.labels, label)
	ts.index[label] = tx
	return tx
}

// Lookup returns the taxon for label, if it was interned.
func (ts *TaxonSet) Lookup(label string) (Taxon, bool) {
	tx, ok := ts.index[label]
	return tx, ok
}

// Label returns the label interned for tx.
func (ts *TaxonSet) Label(tx Taxon) string {
	return ts.labels[tx]
}

// Len returns the number of interned labels.
func (ts *TaxonSet) Len() int {
	return len(ts.labels)
}
