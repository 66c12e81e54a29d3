package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/andrew-torda/cmap/cmap"
	"github.com/andrew-torda/cmap/config"
	"github.com/andrew-torda/cmap/pdb"
	"github.com/andrew-torda/cmap/structure"
)

var (
	v       = viper.New()
	cfgFile string
	frame   int
	fetch   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:          "cmap",
	Short:        "Contact maps of macromolecular structures",
	Version:      "0.1.0",
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "settings file")
	pf.StringP("expr", "e", "", "contact criterion expression")
	pf.String("log", "", "log to stdout, stderr or a file")
	pf.Int("site", 0, fmt.Sprintf("download site, 0 to %d", pdb.NSites-1))
	pf.IntVar(&frame, "frame", 0, "model to use in a multi-model file")
	pf.BoolVar(&fetch, "fetch", false, "download the structure by its PDB code")

	mustBind("criterion", pf.Lookup("expr"))
	mustBind("log", pf.Lookup("log"))
	mustBind("site", pf.Lookup("site"))
}

func mustBind(key string, f *pflag.Flag) {
	if err := v.BindPFlag(key, f); err != nil {
		log.Fatalf("binding %s: %v", key, err)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

// session is what each subcommand starts from.
type session struct {
	cfg    config.Config
	logger *log.Logger
	logf   io.Closer
	s      *structure.Structure
	m      *cmap.Map
}

// Close closes the log file, if there is one.
func (ses *session) Close() error { return ses.logf.Close() }

// load reads settings and the structure named by arg and attaches a map
// with the configured criterion. The caller closes the session.
func load(arg string) (*session, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}
	logger, logf, err := config.LogWhere(cfg.Log)
	if err != nil {
		return nil, err
	}
	ses, err := readStructure(arg, cfg, logger)
	if err != nil {
		logf.Close()
		return nil, err
	}
	ses.logf = logf
	return ses, nil
}

func readStructure(arg string, cfg config.Config, logger *log.Logger) (*session, error) {
	crit, err := cfg.NewCriterion()
	if err != nil {
		return nil, err
	}
	var s *structure.Structure
	if fetch {
		s, err = pdb.Fetch(arg, cfg.Site, logger)
	} else {
		s, err = pdb.ReadFile(arg, logger)
	}
	if err != nil {
		return nil, err
	}
	if frame != 0 {
		if err := s.SetFrame(frame); err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name(), err)
		}
	}
	m := cmap.Set(s, crit).WithLogger(logger)
	logger.Printf("%s: %d mers, criterion %s", s.Name(), s.Len(), crit)
	return &session{cfg: cfg, logger: logger, s: s, m: m}, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// outFile opens fname for writing, or gives back stdout if there is no
// name. Closing stdout does nothing.
func outFile(cmd *cobra.Command, fname string) (io.WriteCloser, error) {
	if fname == "" || fname == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(fname)
}
