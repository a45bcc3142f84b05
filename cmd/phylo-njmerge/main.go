// Command phylo-njmerge merges two Newick constraint trees on disjoint
// leaf sets into one unrooted tree, guided by a PHYLIP-style distance
// matrix over the union of their leaves.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/phylo-engine/phylo/phydist"
	"github.com/phylo-engine/phylo/phymerge"
	"github.com/phylo-engine/phylo/phytree"
	"github.com/phylo-engine/phylo/phytree/phynewick"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		dmatPath  string
		taxaPath  string
		tree1Path string
		tree2Path string
		outPath   string
		debug     bool
	)

	cmd := &cobra.Command{
		Use:   "phylo-njmerge",
		Short: "Merge two constraint trees with distance-guided neighbor joining",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))
			return run(log, dmatPath, taxaPath, tree1Path, tree2Path, outPath)
		},
	}

	cmd.Flags().StringVar(&dmatPath, "dmat", "", "PHYLIP-style distance matrix file (required)")
	cmd.Flags().StringVar(&taxaPath, "taxa", "", "optional taxon-order file, one label per matrix row")
	cmd.Flags().StringVar(&tree1Path, "tree1", "", "first Newick constraint tree (required)")
	cmd.Flags().StringVar(&tree2Path, "tree2", "", "second Newick constraint tree (required)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file for the merged Newick tree (default stdout)")
	cmd.Flags().BoolVar(&debug, "debug", false, "log every agglomeration step")

	for _, f := range []string{"dmat", "tree1", "tree2"} {
		if err := cmd.MarkFlagRequired(f); err != nil {
			panic(err)
		}
	}
	return cmd
}

func run(log *slog.Logger, dmatPath, taxaPath, tree1Path, tree2Path, outPath string) error {
	ts := phytree.NewTaxonSet()

	t1, err := readTree(tree1Path, ts)
	if err != nil {
		return err
	}
	t2, err := readTree(tree2Path, ts)
	if err != nil {
		return err
	}

	var taxa []string
	if taxaPath != "" {
		f, err := os.Open(taxaPath)
		if err != nil {
			return err
		}
		taxa, err = phydist.ReadTaxa(f)
		f.Close()
		if err != nil {
			return err
		}
	}

	// The matrix file may cover more taxa than this pair of trees;
	// restrict it to their union up front.
	f, err := os.Open(dmatPath)
	if err != nil {
		return err
	}
	dm, err := phydist.ReadPhylip(f, taxa, func(label string) bool {
		_, ok := ts.Lookup(label)
		return ok
	})
	f.Close()
	if err != nil {
		return err
	}

	log.Info("Merging constraint trees",
		"tree1_leaves", t1.CountLeaves(),
		"tree2_leaves", t2.CountLeaves(),
		"matrix_taxa", dm.Len())

	merged, err := phymerge.Merge(log, dm, t1, t2)
	if err != nil {
		return err
	}

	out := phynewick.Write(merged) + "\n"
	if outPath == "" {
		_, err = os.Stdout.WriteString(out)
		return err
	}
	return os.WriteFile(outPath, []byte(out), 0o644)
}

func readTree(path string, ts *phytree.TaxonSet) (*phytree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := phynewick.Parse(string(data), ts)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}
