package commands

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/gitp4setup/internal/config"
)

// CLI definition: two positionals plus flags; there are no subcommands.
type CLI struct {
	Client      string           `arg:"" name:"P4CLIENT" help:"Name of the Perforce client (eg. dev-mystream-myname-myhost)"`
	Depot       string           `arg:"" name:"P4DEPOT" help:"Perforce depot or stream path (eg. //depot-foo/dev-mystream)"`
	Update      bool             `help:"Update existing local Git repository and Perforce workspace."`
	Verbose     bool             `short:"v" help:"Increase verbosity"`
	Config      string           `short:"c" help:"Configuration file path (default: ./gitp4setup.yaml when present)" type:"path"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics for this run to the given file" type:"path"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`
}

// loadConfig loads an explicitly named config file, or the default one when present.
func (c *CLI) loadConfig() (*config.Config, string, error) {
	if c.Config != "" {
		cfg, err := config.Load(c.Config)
		return cfg, c.Config, err
	}
	cfg, err := config.LoadOrDefault(config.DefaultPath)
	return cfg, config.DefaultPath, err
}
