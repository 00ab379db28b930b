package depot

import (
	"errors"
	"fmt"
	"sort"
)

// Section is one entry of the fixed section schema.
type Section struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	Required    bool   `json:"required"`
}

// Schema is the ordered section catalog, as stored in depot_schema.json.
type Schema struct {
	Sections []Section `json:"sections"`
}

// Section returns the section with the given key.
func (s Schema) Section(key string) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.Key == key {
			return sec, true
		}
	}
	return Section{}, false
}

// Keys returns the section keys in schema order.
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s.Sections))
	for _, sec := range s.Sections {
		keys = append(keys, sec.Key)
	}
	return keys
}

// sorted returns a copy ordered by Order, then key.
func (s Schema) sorted() Schema {
	out := Schema{Sections: append([]Section(nil), s.Sections...)}
	sort.SliceStable(out.Sections, func(i, j int) bool {
		if out.Sections[i].Order != out.Sections[j].Order {
			return out.Sections[i].Order < out.Sections[j].Order
		}
		return out.Sections[i].Key < out.Sections[j].Key
	})
	return out
}

func (s Schema) validate() error {
	if len(s.Sections) == 0 {
		return errors.New("schema has no sections")
	}
	seen := make(map[string]bool, len(s.Sections))
	for i, sec := range s.Sections {
		if sec.Key == "" {
			return fmt.Errorf("section %d has no key", i)
		}
		if NormalizeKey(sec.Key) != sec.Key {
			return fmt.Errorf("section key %q is not normalized", sec.Key)
		}
		if seen[sec.Key] {
			return fmt.Errorf("duplicate section key %q", sec.Key)
		}
		seen[sec.Key] = true
	}
	return nil
}
