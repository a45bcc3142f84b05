package phydist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadPhylip reads a PHYLIP-style square distance matrix: an integer taxon
// count on the first line, then one row per taxon whose first column is the
// row label and whose remaining columns are distances.
//
// If taxa is non-nil it overrides the row-label column and must name one
// taxon per row. If keep is non-nil, only rows and columns whose label
// satisfies it are retained; the result covers the kept labels in file
// order.
func ReadPhylip(r io.Reader, taxa []string, keep func(string) bool) (*Matrix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line, ok := nextLine(sc)
	if !ok {
		return nil, fmt.Errorf("phydist: empty matrix file")
	}
	ntax, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return nil, fmt.Errorf("phydist: bad taxon count %q: %w", line, err)
	}
	if taxa != nil && len(taxa) != ntax {
		return nil, fmt.Errorf("phydist: taxon name list has %d entries, matrix has %d rows", len(taxa), ntax)
	}

	labels := make([]string, 0, ntax)
	rows := make([][]float64, 0, ntax)
	for i := 0; i < ntax; i++ {
		line, ok := nextLine(sc)
		if !ok {
			return nil, fmt.Errorf("phydist: matrix truncated at row %d of %d", i+1, ntax)
		}
		fields := strings.Fields(line)
		if len(fields) != ntax+1 {
			return nil, fmt.Errorf("phydist: row %d has %d columns, want %d", i+1, len(fields), ntax+1)
		}
		label := fields[0]
		if taxa != nil {
			label = taxa[i]
		}
		row := make([]float64, ntax)
		for j, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("phydist: bad distance %q in row %q: %w", f, label, err)
			}
			row[j] = v
		}
		labels = append(labels, label)
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("phydist: reading matrix: %w", err)
	}

	if keep != nil {
		labels, rows = restrict(labels, rows, keep)
	}
	return New(labels, rows)
}

// restrict drops the rows and columns whose label fails keep.
func restrict(labels []string, rows [][]float64, keep func(string) bool) ([]string, [][]float64) {
	var idx []int
	for i, l := range labels {
		if keep(l) {
			idx = append(idx, i)
		}
	}
	kl := make([]string, len(idx))
	kr := make([][]float64, len(idx))
	for a, i := range idx {
		kl[a] = labels[i]
		row := make([]float64, len(idx))
		for b, j := range idx {
			row[b] = rows[i][j]
		}
		kr[a] = row
	}
	return kl, kr
}

// ReadTaxa reads a taxon-order file: one label per line, blanks skipped.
func ReadTaxa(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	var taxa []string
	for sc.Scan() {
		l := strings.TrimSpace(sc.Text())
		if l != "" {
			taxa = append(taxa, l)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("phydist: reading taxon names: %w", err)
	}
	return taxa, nil
}

func nextLine(sc *bufio.Scanner) (string, bool) {
	for sc.Scan() {
		l := strings.TrimSpace(sc.Text())
		if l != "" {
			return l, true
		}
	}
	return "", false
}
