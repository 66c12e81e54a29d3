package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score file mer [mer]",
	Short: "Print the contact score of a pair or the contacts of one mer",
	Long: `With two mers, print their score and the part of the criterion that
decided it. With one mer, print each of its contacts.`,
	Example: "  cmap score -e 'ca | ion' 1abc.pdb A12 B101",
	Args:    cobra.RangeArgs(2, 3),
	RunE:    runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	ses, err := load(args[0])
	if err != nil {
		return err
	}
	defer ses.Close()
	out := cmd.OutOrStdout()
	if len(args) == 2 {
		cs, err := ses.m.Contacts(args[1])
		if err != nil {
			return err
		}
		conv := ses.s.Converter()
		for _, c := range cs {
			p, err := conv.PdbID(c.Ind2)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\t%s\t%d\n", args[1], p, c.Score)
		}
		return nil
	}
	sc, err := ses.m.Score(args[1], args[2])
	if err != nil {
		return err
	}
	why, err := ses.m.ValidatingCriterion(args[1], args[2])
	if err != nil {
		return err
	}
	if why == nil {
		_, err = fmt.Fprintf(out, "%d\n", sc)
		return err
	}
	_, err = fmt.Fprintf(out, "%d\t%s\n", sc, why)
	return err
}
