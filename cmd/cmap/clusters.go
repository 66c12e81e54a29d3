package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrew-torda/cmap/structure"
)

var minCluster int

var clustersCmd = &cobra.Command{
	Use:   "clusters file",
	Short: "Print groups of mers joined by contacts",
	Long: `Print the connected components of the contact map, one per line,
in order of their first mer. Mers with no contacts are left out unless --min is 1.`,
	Args: cobra.ExactArgs(1),
	RunE: runClusters,
}

var pathCmd = &cobra.Command{
	Use:   "path file from to",
	Short: "Print the chain of contacts joining two mers",
	Long: `Print the mers on the cheapest route between two mers through the
contact map. Certain contacts cost 1 and uncertain ones 2.`,
	Example: "  cmap path 1abc.pdb A12 B40",
	Args:    cobra.ExactArgs(3),
	RunE:    runPath,
}

func init() {
	clustersCmd.Flags().IntVar(&minCluster, "min", 2, "smallest cluster to print")
	rootCmd.AddCommand(clustersCmd, pathCmd)
}

// names turns inds into PDB ids joined by spaces.
func names(conv *structure.Converter, inds []int) (string, error) {
	ss := make([]string, len(inds))
	for i, ind := range inds {
		p, err := conv.PdbID(ind)
		if err != nil {
			return "", err
		}
		ss[i] = p.String()
	}
	return strings.Join(ss, " "), nil
}

func runClusters(cmd *cobra.Command, args []string) error {
	ses, err := load(args[0])
	if err != nil {
		return err
	}
	defer ses.Close()
	clusters, err := ses.m.Clusters(minCluster)
	if err != nil {
		return err
	}
	conv := ses.s.Converter()
	for i, c := range clusters {
		s, err := names(conv, c)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%d\t%s\n", i+1, len(c), s)
	}
	return nil
}

func runPath(cmd *cobra.Command, args []string) error {
	ses, err := load(args[0])
	if err != nil {
		return err
	}
	defer ses.Close()
	inds, cost, err := ses.m.Path(args[1], args[2])
	if err != nil {
		return err
	}
	if inds == nil {
		return fmt.Errorf("no path from %s to %s", args[1], args[2])
	}
	s, err := names(ses.s.Converter(), inds)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%g\t%s\n", cost, s)
	return err
}
