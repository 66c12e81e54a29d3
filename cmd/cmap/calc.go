package main

import (
	"github.com/spf13/cobra"
)

var calcOut string

var calcCmd = &cobra.Command{
	Use:     "calc file",
	Short:   "Write the contacts of a structure",
	Example: "  cmap calc -e 'ca & cbx' -o 1abc.cmap 1abc.pdb",
	Args:    cobra.ExactArgs(1),
	RunE:    runCalc,
}

func init() {
	calcCmd.Flags().StringVarP(&calcOut, "out", "o", "", "output file instead of stdout")
	rootCmd.AddCommand(calcCmd)
}

func runCalc(cmd *cobra.Command, args []string) error {
	ses, err := load(args[0])
	if err != nil {
		return err
	}
	defer ses.Close()
	w, err := outFile(cmd, calcOut)
	if err != nil {
		return err
	}
	return ses.m.Dump(w)
}
