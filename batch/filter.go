package batch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"
)

// DefaultPrefix is prepended to a file name to name its reflowed copy.
const DefaultPrefix = "wrap."

// Filter decides which files of a directory are reflowed. It is plain
// configuration and can be loaded from a TOML file with LoadFilter:
//
//	prefix      = "wrap."
//	skip_hidden = true
//	keep        = ["wrap.txt"]
//	exclude     = ["*.bak", "README*"]
//	skip_binary = true
type Filter struct {
	// Prefix names outputs and marks files that are outputs already.
	Prefix string `toml:"prefix"`
	// SkipHidden skips names starting with a dot.
	SkipHidden bool `toml:"skip_hidden"`
	// Keep lists names that carry Prefix but are inputs all the same.
	Keep []string `toml:"keep"`
	// Exclude lists glob patterns of names to skip.
	Exclude []string `toml:"exclude"`
	// SkipBinary skips files whose first bytes do not look like text.
	SkipBinary bool `toml:"skip_binary"`

	excludes []glob.Glob
}

// DefaultFilter skips dot files and earlier outputs, except a file named
// exactly "wrap.txt".
func DefaultFilter() Filter {
	return Filter{
		Prefix:     DefaultPrefix,
		SkipHidden: true,
		Keep:       []string{DefaultPrefix + "txt"},
	}
}

// LoadFilter reads a TOML filter file. Keys missing from the file keep their
// DefaultFilter values; unknown keys are an error.
func LoadFilter(path string) (Filter, error) {
	f := DefaultFilter()
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return Filter{}, fmt.Errorf("load filter %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return Filter{}, fmt.Errorf("load filter %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := f.Compile(); err != nil {
		return Filter{}, fmt.Errorf("load filter %s: %w", path, err)
	}
	return f, nil
}

// Compile validates the filter and prepares its exclude patterns. Skip
// compiles lazily, but calling Compile first surfaces pattern errors early.
func (f *Filter) Compile() error {
	if f.Prefix == "" {
		return fmt.Errorf("filter: prefix must not be empty")
	}
	if strings.ContainsAny(f.Prefix, `/\`) {
		return fmt.Errorf("filter: prefix %q must not contain a path separator", f.Prefix)
	}
	excludes := make([]glob.Glob, 0, len(f.Exclude))
	for _, pattern := range f.Exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return fmt.Errorf("filter: exclude pattern %q: %w", pattern, err)
		}
		excludes = append(excludes, g)
	}
	f.excludes = excludes
	return nil
}

// Skip reports whether the file called name should be left alone, and why.
func (f *Filter) Skip(name string) (string, bool) {
	if f.excludes == nil && len(f.Exclude) > 0 {
		if err := f.Compile(); err != nil {
			return err.Error(), true
		}
	}
	if f.SkipHidden && strings.HasPrefix(name, ".") {
		return "hidden", true
	}
	if f.Prefix != "" && strings.HasPrefix(name, f.Prefix) && !f.kept(name) {
		return "output", true
	}
	for i, g := range f.excludes {
		if g.Match(name) {
			return "excluded by " + f.Exclude[i], true
		}
	}
	return "", false
}

// OutputName returns the name of the reflowed copy of name.
func (f *Filter) OutputName(name string) string {
	prefix := f.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + name
}

func (f *Filter) kept(name string) bool {
	for _, keep := range f.Keep {
		if keep == name {
			return true
		}
	}
	return false
}
