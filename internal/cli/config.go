package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// configFile is looked up in the working directory and provides flag
// defaults. Flags given on the command line always win.
const configFile = "deptree.toml"

// fileConfig mirrors the subset of flags that make sense as persistent
// defaults. Pointer fields distinguish "absent" from zero values.
type fileConfig struct {
	Warn     *string `toml:"warn"`
	Python   *string `toml:"python"`
	Depth    *int    `toml:"depth"`
	Encoding *string `toml:"encoding"`
	All      *bool   `toml:"all"`
	Reverse  *bool   `toml:"reverse"`
	License  *bool   `toml:"license"`
	Packages *string `toml:"packages"`
	Exclude  *string `toml:"exclude"`
}

// applyConfigDefaults overlays deptree.toml values onto o for every flag the
// user did not set explicitly. A missing file is not an error.
func applyConfigDefaults(cmd *cobra.Command, o *options, logger *charmlog.Logger) error {
	var cfg fileConfig
	meta, err := toml.DecodeFile(configFile, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", configFile, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("%s: ignoring unknown keys %v", configFile, undecoded)
	}

	flags := cmd.Flags()
	if cfg.Warn != nil && !flags.Changed("warn") {
		o.warn = *cfg.Warn
	}
	if cfg.Python != nil && !flags.Changed("python") {
		o.python = *cfg.Python
	}
	if cfg.Depth != nil && !flags.Changed("depth") {
		o.depth = *cfg.Depth
	}
	if cfg.Encoding != nil && !flags.Changed("encoding") {
		o.encoding = *cfg.Encoding
	}
	if cfg.All != nil && !flags.Changed("all") {
		o.all = *cfg.All
	}
	if cfg.Reverse != nil && !flags.Changed("reverse") {
		o.reverse = *cfg.Reverse
	}
	if cfg.License != nil && !flags.Changed("license") {
		o.license = *cfg.License
	}
	if cfg.Packages != nil && !flags.Changed("packages") {
		o.packages = *cfg.Packages
	}
	if cfg.Exclude != nil && !flags.Changed("exclude") {
		o.exclude = *cfg.Exclude
	}

	logger.Debugf("applied defaults from %s", configFile)
	return nil
}
