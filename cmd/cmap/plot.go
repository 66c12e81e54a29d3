package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrew-torda/cmap/plot"
)

var plotOut string

var plotCmd = &cobra.Command{
	Use:     "plot file",
	Short:   "Draw the contact map as a png",
	Example: "  cmap plot --scale 4 -o 1abc.png 1abc.pdb",
	Args:    cobra.ExactArgs(1),
	RunE:    runPlot,
}

func init() {
	f := plotCmd.Flags()
	f.StringVarP(&plotOut, "out", "o", "", "output file instead of stdout")
	f.Int("scale", 2, "pixels per mer")
	mustBind("plot.scale", f.Lookup("scale"))
	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, args []string) (err error) {
	ses, err := load(args[0])
	if err != nil {
		return err
	}
	defer ses.Close()
	opt := plot.Options{Scale: ses.cfg.Plot.Scale}
	if ses.cfg.Plot.Title {
		opt.Title = fmt.Sprintf("%s   %s", ses.s.Name(), ses.m.Criterion())
	}
	w, err := outFile(cmd, plotOut)
	if err != nil {
		return err
	}
	defer func() {
		if e := w.Close(); err == nil {
			err = e
		}
	}()
	return plot.WritePNG(w, ses.m, opt)
}
