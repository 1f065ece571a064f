// Package cli holds the pieces shared by command-line tools.
package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config maps flag names to values, e.g.,
//
//	fn: list_any_value
//	c: xs
//	log.level: debug
type Config map[string]string

func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Apply sets each flag in fs named by c unless it was given on the
// command line.
func (c Config) Apply(fs *pflag.FlagSet) error {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f := fs.Lookup(name)
		if f == nil {
			return fmt.Errorf("config: unknown flag %q", name)
		}
		if f.Changed {
			continue
		}
		if err := fs.Set(name, c[name]); err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
	}
	return nil
}
