// Package concept holds the static domain vocabulary: canonical phrases
// mapped to catalog keys. The table is data (an embedded YAML resource),
// loaded once at process start and never mutated, so scoring stays
// deterministic and the table is safe to share across goroutines.
package concept

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed concepts.yaml
var conceptsYAML []byte

// Entry maps one canonical phrase to a catalog key. Phrases are stored
// normalized (upper-cased, trimmed). Neither phrases nor keys are
// guaranteed unique; declaration order breaks score ties.
type Entry struct {
	Phrase string `yaml:"phrase"`
	Key    string `yaml:"key"`
	Family string `yaml:"-"`
}

type family struct {
	Family  string  `yaml:"family"`
	Entries []Entry `yaml:"entries"`
}

type table struct {
	Families []family `yaml:"families"`
}

var (
	loadOnce sync.Once
	loaded   []Entry
	loadErr  error
)

// All returns every concept entry in declaration order. The returned slice
// is shared, read-only state; callers must not modify it.
func All() ([]Entry, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parse(conceptsYAML)
	})
	return loaded, loadErr
}

// parse decodes the YAML table, flattening families in order and
// normalizing phrases.
func parse(data []byte) ([]Entry, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrap(err, "concept: parse table")
	}

	var entries []Entry
	for _, f := range t.Families {
		for _, e := range f.Entries {
			e.Phrase = strings.ToUpper(strings.TrimSpace(e.Phrase))
			e.Key = strings.TrimSpace(e.Key)
			e.Family = f.Family
			if e.Phrase == "" || e.Key == "" {
				return nil, eris.Errorf("concept: family %q has an entry with empty phrase or key", f.Family)
			}
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return nil, eris.New("concept: table is empty")
	}
	return entries, nil
}

// Duplicate reports a phrase declared more than once with conflicting keys.
// Keys appear in declaration order; the first one wins at resolution time.
type Duplicate struct {
	Phrase string
	Keys   []string
}

// Duplicates returns phrases mapped to more than one distinct key, for
// data-owner review. Repeats of the same phrase+key pair are not reported.
func Duplicates() ([]Duplicate, error) {
	entries, err := All()
	if err != nil {
		return nil, err
	}

	keysByPhrase := make(map[string][]string)
	var order []string
	for _, e := range entries {
		keys := keysByPhrase[e.Phrase]
		if len(keys) == 0 {
			order = append(order, e.Phrase)
		}
		if !containsStr(keys, e.Key) {
			keysByPhrase[e.Phrase] = append(keys, e.Key)
		}
	}

	var dups []Duplicate
	for _, phrase := range order {
		if keys := keysByPhrase[phrase]; len(keys) > 1 {
			dups = append(dups, Duplicate{Phrase: phrase, Keys: keys})
		}
	}
	return dups, nil
}

func containsStr(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
