package walkscan

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/unicode/norm"
)

// DefaultExclude holds the directory names excluded when none are configured.
var DefaultExclude = []string{".git"}

// ExclusionSet is a read-only set of directory base names that are never
// descended into. Names containing glob metacharacters are also matched as
// patterns against the base name.
type ExclusionSet struct {
	names    map[string]struct{}
	patterns []string
}

// NewExclusionSet builds an exclusion set, rejecting malformed patterns.
func NewExclusionSet(names ...string) (ExclusionSet, error) {
	set := ExclusionSet{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		name = norm.NFC.String(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		set.names[name] = struct{}{}
		if !hasMeta(name) {
			continue
		}
		if !doublestar.ValidatePattern(name) {
			return ExclusionSet{}, fmt.Errorf("walkscan: invalid exclude pattern %q", name)
		}
		set.patterns = append(set.patterns, name)
	}
	return set, nil
}

// MustExclusionSet is like NewExclusionSet but panics on a malformed pattern.
func MustExclusionSet(names ...string) ExclusionSet {
	set, err := NewExclusionSet(names...)
	if err != nil {
		panic(err)
	}
	return set
}

// Match reports whether the directory base name is excluded.
func (s ExclusionSet) Match(name string) bool {
	if len(s.names) == 0 {
		return false
	}
	name = norm.NFC.String(name)
	if _, ok := s.names[name]; ok {
		return true
	}
	for _, pattern := range s.patterns {
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

// Names returns the configured names in no particular order.
func (s ExclusionSet) Names() []string {
	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	return names
}

// Len returns the number of configured names.
func (s ExclusionSet) Len() int { return len(s.names) }

func hasMeta(name string) bool {
	return strings.ContainsAny(name, `*?[{\`)
}
