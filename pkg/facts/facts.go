package facts

import (
	"fmt"
	"sort"
)

// TagsKey holds the host's tag list
const TagsKey = "tags"

// Facts is the flat key/value description of the host
type Facts map[string]any

// Get returns the value of key
func (f Facts) Get(key string) (any, bool) {
	v, ok := f[key]
	return v, ok
}

// Tags returns the host's tags. A scalar tag value is treated as a single
// tag.
func (f Facts) Tags() []string {
	raw, ok := f[TagsKey]
	if !ok || raw == nil {
		return nil
	}

	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			tags = append(tags, fmt.Sprint(item))
		}
		return tags
	default:
		return []string{fmt.Sprint(v)}
	}
}

// HasTag reports whether tag is among the host's tags
func (f Facts) HasTag(tag string) bool {
	for _, t := range f.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}

// Keys returns the fact names in sorted order
func (f Facts) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
