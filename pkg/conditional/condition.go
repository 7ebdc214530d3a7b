package conditional

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/Abragus/syncsmith/pkg/errors"
	"github.com/Abragus/syncsmith/pkg/facts"
)

// Condition keywords
const (
	KeyTag    = "tag"
	KeyNot    = "not"
	KeyOr     = "or"
	KeyAny    = "any"
	KeyEither = "either"
)

// Evaluate reports whether cond holds for f. A single mapping is a group
// of its own; a list holds iff every group holds. Malformed shapes are
// reported as ErrConditionInvalid.
func Evaluate(cond any, f facts.Facts) (bool, error) {
	return evaluate(cond, f, "when")
}

func evaluate(cond any, f facts.Facts, at string) (bool, error) {
	groups, err := asGroups(cond, at)
	if err != nil {
		return false, err
	}

	for i, group := range groups {
		where := at
		if len(groups) > 1 {
			where = fmt.Sprintf("%s[%d]", at, i)
		}
		ok, err := evaluateGroup(group, f, where)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func evaluateGroup(group map[string]any, f facts.Facts, at string) (bool, error) {
	keys := make([]string, 0, len(group))
	for k := range group {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := group[key]
		where := at + "." + key

		var (
			ok  bool
			err error
		)
		switch key {
		case KeyNot:
			ok, err = evaluate(value, f, where)
			ok = !ok
		case KeyOr, KeyAny, KeyEither:
			ok, err = evaluateAny(value, f, where)
		case KeyTag:
			ok, err = evaluateTag(value, f, where)
		default:
			actual, _ := f.Get(key)
			ok = reflect.DeepEqual(actual, value)
		}
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func evaluateAny(value any, f facts.Facts, at string) (bool, error) {
	items, ok := value.([]any)
	if !ok {
		return false, invalid(at, "expected a list of conditions, got %s", describe(value))
	}
	for i, item := range items {
		ok, err := evaluate(item, f, fmt.Sprintf("%s[%d]", at, i))
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func evaluateTag(value any, f facts.Facts, at string) (bool, error) {
	switch value.(type) {
	case string, int, int64, uint64, float64, bool:
	default:
		return false, invalid(at, "expected a tag name, got %s", describe(value))
	}
	return f.HasTag(fmt.Sprint(value)), nil
}

func asGroups(cond any, at string) ([]map[string]any, error) {
	switch c := cond.(type) {
	case map[string]any:
		return []map[string]any{c}, nil
	case map[any]any:
		m, err := stringKeys(c, at)
		if err != nil {
			return nil, err
		}
		return []map[string]any{m}, nil
	case []any:
		groups := make([]map[string]any, 0, len(c))
		for i, item := range c {
			where := fmt.Sprintf("%s[%d]", at, i)
			switch g := item.(type) {
			case map[string]any:
				groups = append(groups, g)
			case map[any]any:
				m, err := stringKeys(g, where)
				if err != nil {
					return nil, err
				}
				groups = append(groups, m)
			default:
				return nil, invalid(where, "expected a condition mapping, got %s", describe(item))
			}
		}
		return groups, nil
	default:
		return nil, invalid(at, "expected a condition mapping or list, got %s", describe(cond))
	}
}

func invalid(at, format string, args ...any) error {
	return errors.Newf(errors.ErrConditionInvalid, "invalid condition at %s: %s", at, fmt.Sprintf(format, args...)).
		WithDetail("path", at)
}

func describe(v any) string {
	if v == nil {
		return "nothing"
	}
	return fmt.Sprintf("%T", v)
}
