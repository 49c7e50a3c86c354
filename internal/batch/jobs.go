// Package batch converts every pattern of a TOML job file, in parallel, with
// an in-memory memo and an optional on-disk result cache.
package batch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"rxport/internal/flags"
)

// File is a parsed job file:
//
//	[defaults]
//	flags = "i"
//
//	[[pattern]]
//	name   = "Date"
//	source = '(?P<y>\d{4})-(?P<m>\d{2})'
//	flags  = "m"
type File struct {
	Path     string   `toml:"-"`
	Defaults Defaults `toml:"defaults"`
	Jobs     []Job    `toml:"pattern"`
}

// Defaults apply to every job that does not override them.
type Defaults struct {
	Flags            string `toml:"flags"`
	NormalizeNFC     bool   `toml:"nfc"`
	HoistInlineFlags bool   `toml:"hoist_inline_flags"`
}

// Job is one pattern to convert.
type Job struct {
	Name   string  `toml:"name"`
	Source string  `toml:"source"`
	Flags  *string `toml:"flags"`
}

// Letters returns the job's Python flag letters, falling back to defaults.
func (j Job) Letters(d Defaults) string {
	if j.Flags != nil {
		return *j.Flags
	}
	return d.Flags
}

// FlagSet decodes Letters.
func (j Job) FlagSet(d Defaults) flags.Set {
	return flags.Decode(j.Letters(d))
}

// LoadFile reads and validates a job file.
func LoadFile(path string) (*File, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	f.Path = path
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

// Parse decodes a job file held in memory.
func Parse(data string) (*File, error) {
	var f File
	meta, err := toml.Decode(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

var errNoJobs = errors.New("no [[pattern]] entries")

// Validate checks that every job has a unique non-empty name.
func (f *File) Validate() error {
	if len(f.Jobs) == 0 {
		return errNoJobs
	}
	seen := make(map[string]int, len(f.Jobs))
	for i, j := range f.Jobs {
		name := strings.TrimSpace(j.Name)
		if name == "" {
			return fmt.Errorf("[[pattern]] #%d: missing name", i+1)
		}
		if prev, dup := seen[name]; dup {
			return fmt.Errorf("[[pattern]] #%d: name %q already used by #%d", i+1, name, prev+1)
		}
		seen[name] = i
		f.Jobs[i].Name = name
	}
	return nil
}

// Names returns the job names in file order.
func (f *File) Names() []string {
	out := make([]string, len(f.Jobs))
	for i, j := range f.Jobs {
		out[i] = j.Name
	}
	return out
}
