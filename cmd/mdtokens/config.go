package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

const configEnv = "MDTOKENS_CONFIG"

// fileConfig mirrors the command line flags. Keys use the flag names.
//
//	format = "tree"
//	block-type = "paragraph"
//	color = "off"
type fileConfig struct {
	Input     string `toml:"input"`
	Format    string `toml:"format"`
	BlockType string `toml:"block-type"`
	MaxDepth  int    `toml:"max-depth"`
	Width     int    `toml:"width"`
	Color     string `toml:"color"`
	Theme     string `toml:"theme"`
	Verbose   bool   `toml:"verbose"`
	Timeout   string `toml:"timeout"`

	meta toml.MetaData
}

func loadConfig(path string) (*fileConfig, error) {
	path = normalizePath(os.ExpandEnv(path))
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: parse config %s: %v", errUsage, path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%w: config %s: unknown keys: %s", errUsage, path, strings.Join(keys, ", "))
	}
	cfg.meta = meta
	return &cfg, nil
}

// values returns the flag values set in the file, keyed by flag name.
func (c *fileConfig) values() map[string]string {
	all := map[string]string{
		"input":      c.Input,
		"format":     c.Format,
		"block-type": c.BlockType,
		"max-depth":  strconv.Itoa(c.MaxDepth),
		"width":      strconv.Itoa(c.Width),
		"color":      c.Color,
		"theme":      c.Theme,
		"verbose":    strconv.FormatBool(c.Verbose),
		"timeout":    c.Timeout,
	}
	out := make(map[string]string, len(all))
	for key, value := range all {
		if c.meta.IsDefined(key) {
			out[key] = value
		}
	}
	return out
}

// apply copies file values into flags that were not given on the command line.
func (c *fileConfig) apply(flags *pflag.FlagSet) error {
	values := c.values()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if flags.Changed(name) {
			continue
		}
		if err := flags.Set(name, values[name]); err != nil {
			return fmt.Errorf("%w: config %s: %v", errUsage, name, err)
		}
	}
	return nil
}
