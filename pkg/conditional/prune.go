package conditional

import (
	"fmt"

	"github.com/Abragus/syncsmith/pkg/errors"
	"github.com/Abragus/syncsmith/pkg/facts"
)

// Reserved mapping keys
const (
	KeyWhen = "when"
	KeyDo   = "do"
	KeySudo = "sudo"
)

// Prune returns node with every element whose condition does not hold
// removed. kept is false when node itself is dropped. The input is never
// modified.
func Prune(node any, f facts.Facts) (value any, kept bool, err error) {
	return prune(node, f, "")
}

// PruneDocument prunes a whole configuration document. A document whose
// own condition fails prunes to an empty mapping.
func PruneDocument(doc map[string]any, f facts.Facts) (map[string]any, error) {
	value, kept, err := Prune(doc, f)
	if err != nil {
		return nil, err
	}
	if !kept {
		return map[string]any{}, nil
	}
	out, ok := value.(map[string]any)
	if !ok {
		return nil, errors.New(errors.ErrConfigParse, "configuration root must be a mapping, not a control block")
	}
	return out, nil
}

func prune(node any, f facts.Facts, at string) (any, bool, error) {
	switch n := node.(type) {
	case []any:
		return pruneList(n, f, at)
	case map[string]any:
		return pruneMap(n, f, at)
	case map[any]any:
		m, err := stringKeys(n, at)
		if err != nil {
			return nil, false, err
		}
		return pruneMap(m, f, at)
	default:
		return node, true, nil
	}
}

func pruneList(list []any, f facts.Facts, at string) (any, bool, error) {
	out := make([]any, 0, len(list))
	for i, item := range list {
		value, kept, err := prune(item, f, fmt.Sprintf("%s[%d]", at, i))
		if err != nil {
			return nil, false, err
		}
		if !kept {
			continue
		}
		if members, ok := value.([]any); ok {
			out = append(out, members...)
			continue
		}
		out = append(out, value)
	}
	return out, true, nil
}

func pruneMap(m map[string]any, f facts.Facts, at string) (any, bool, error) {
	if cond, ok := m[KeyWhen]; ok {
		holds, err := evaluate(cond, f, join(at, KeyWhen))
		if err != nil {
			return nil, false, err
		}
		if !holds {
			return nil, false, nil
		}
	}

	if members, ok := m[KeyDo]; ok {
		return pruneBlock(m, members, f, join(at, KeyDo))
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		if k == KeyWhen {
			continue
		}
		value, kept, err := prune(v, f, join(at, k))
		if err != nil {
			return nil, false, err
		}
		if kept {
			out[k] = value
		}
	}
	return out, true, nil
}

// pruneBlock expands a control block into its pruned members
func pruneBlock(m map[string]any, members any, f facts.Facts, at string) (any, bool, error) {
	list, ok := members.([]any)
	if !ok {
		return nil, false, errors.Newf(errors.ErrConditionInvalid, "invalid control block at %s: expected a list, got %s", at, describe(members)).
			WithDetail("path", at)
	}

	if sudo, _ := m[KeySudo].(bool); sudo {
		inherited := make([]any, len(list))
		for i, item := range list {
			inherited[i] = withSudo(item)
		}
		list = inherited
	}

	return pruneList(list, f, at)
}

// withSudo returns a copy of a mapping member with sudo set
func withSudo(item any) any {
	var src map[string]any
	switch v := item.(type) {
	case map[string]any:
		src = v
	case map[any]any:
		m, err := stringKeys(v, "")
		if err != nil {
			return item
		}
		src = m
	default:
		return item
	}

	out := make(map[string]any, len(src)+1)
	for k, v := range src {
		out[k] = v
	}
	out[KeySudo] = true
	return out
}

func stringKeys(m map[any]any, at string) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		key, ok := k.(string)
		if !ok {
			return nil, errors.Newf(errors.ErrConfigParse, "non-string key %v at %s", k, at).
				WithDetail("path", at)
		}
		out[key] = v
	}
	return out, nil
}

func join(at, key string) string {
	if at == "" {
		return key
	}
	return at + "." + key
}
