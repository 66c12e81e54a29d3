// Package config is for settings that are unmarshalled by viper from a
// settings file, the environment (CMAP_...) and command line flags.
package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/andrew-torda/cmap/contact"
)

// CutoffConfig overrides the threshold and margin of a criterion.
type CutoffConfig struct {
	Threshold float32 `mapstructure:"threshold"`
	Margin    float32 `mapstructure:"margin"`
}

// PlotConfig is for pictures of contact maps.
type PlotConfig struct {
	// pixels per mer
	Scale int `mapstructure:"scale"`
	// write the structure name and criterion above the map
	Title bool `mapstructure:"title"`
}

// Config is the root-level settings struct.
type Config struct {
	// criterion expression, like "ca & cbx | ion"
	Criterion string `mapstructure:"criterion"`
	// per leaf overrides, keyed by leaf name (rc, ca, cbx, ion, ring)
	Cutoffs map[string]CutoffConfig `mapstructure:"cutoffs"`
	// largest angle between ring planes in degrees, zero for no check
	RingMaxAngle float32 `mapstructure:"ring-max-angle"`
	// where log output goes: "" for nowhere, "stdout", "stderr" or a file name
	Log string `mapstructure:"log"`
	// which server to download from
	Site int `mapstructure:"site"`
	Plot PlotConfig `mapstructure:"plot"`
}

// SetDefaults puts the defaults into v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("criterion", "default")
	v.SetDefault("cutoffs", map[string]CutoffConfig{})
	v.SetDefault("ring-max-angle", 0)
	v.SetDefault("log", "")
	v.SetDefault("site", 0)
	v.SetDefault("plot.scale", 2)
	v.SetDefault("plot.title", true)
}

// Load reads settings. If fname is not empty, it is a settings file in
// any format viper knows. Environment variables like CMAP_CRITERION
// win over the file, and flags bound to v win over both.
func Load(v *viper.Viper, fname string) (Config, error) {
	var c Config
	SetDefaults(v)
	v.SetEnvPrefix("cmap")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if fname != "" {
		v.SetConfigFile(fname)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("reading settings %s: %w", fname, err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unable to decode settings: %w", err)
	}
	if c.Plot.Scale < 1 {
		return c, fmt.Errorf("plot scale %d must be at least 1", c.Plot.Scale)
	}
	return c, nil
}

// Parser returns a criterion parser with the configured cutoffs.
func (c Config) Parser() *contact.Parser {
	p := &contact.Parser{Cutoffs: make(map[string]contact.Cutoff), RingMaxAngle: c.RingMaxAngle}
	for name, cut := range c.Cutoffs {
		p.Cutoffs[strings.ToLower(name)] = contact.Cutoff{Threshold: cut.Threshold, Margin: cut.Margin}
	}
	return p
}

// NewCriterion parses the configured criterion expression.
func (c Config) NewCriterion() (contact.Criterion, error) {
	return c.Parser().Parse(c.Criterion)
}

// LogWhere decides where to send logged output. The closer is for a
// log file and does nothing for the other destinations.
func LogWhere(outinfo string) (*log.Logger, io.Closer, error) {
	var iowriter io.Writer
	var closer io.Closer = io.NopCloser(nil)
	switch outinfo {
	case "":
		iowriter = io.Discard
	case "stdout":
		iowriter = os.Stdout
	case "stderr":
		iowriter = os.Stderr
	default:
		fp, err := os.OpenFile(outinfo, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, err
		}
		iowriter, closer = fp, fp
	}
	return log.New(iowriter, "", log.Lshortfile), closer, nil
}
