package filesync

import (
	"io/fs"
	"os/user"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/Abragus/syncsmith/pkg/errors"
)

// ContentsSuffix marks a source whose children are synced individually
const ContentsSuffix = "/*"

// ActionSpec is the declared intent to reconcile a source onto a target
type ActionSpec struct {
	Source      string       `mapstructure:"source"`
	Target      string       `mapstructure:"target"`
	Ownership   *Ownership   `mapstructure:"ownership"`
	Permissions *fs.FileMode `mapstructure:"permissions"`
	Sudo        bool         `mapstructure:"sudo"`
	Enabled     *bool        `mapstructure:"enabled"`
}

// IsEnabled reports whether the spec should be applied. Specs are enabled
// unless they say otherwise.
func (s ActionSpec) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// ContentsMode reports whether the source names a directory's children
func (s ActionSpec) ContentsMode() bool {
	return strings.HasSuffix(s.Source, ContentsSuffix)
}

// Ownership is a resolved user:group pair. A negative id is left unchanged.
type Ownership struct {
	Spec string
	UID  int
	GID  int
}

// String returns the ownership as it was declared
func (o Ownership) String() string {
	return o.Spec
}

// ParseOwnership resolves "user:group", "user" or numeric ids. A bare user
// implies the user's primary group.
func ParseOwnership(spec string) (Ownership, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Ownership{}, errors.New(errors.ErrSpecInvalid, "empty ownership")
	}

	name, group, hasGroup := strings.Cut(spec, ":")
	own := Ownership{Spec: spec, UID: -1, GID: -1}

	if name != "" {
		if id, err := strconv.Atoi(name); err == nil {
			own.UID = id
		} else {
			u, err := user.Lookup(name)
			if err != nil {
				return Ownership{}, errors.Wrapf(err, errors.ErrSpecInvalid, "unknown user %q", name).
					WithDetail("ownership", spec)
			}
			own.UID, _ = strconv.Atoi(u.Uid)
			if !hasGroup {
				own.GID, _ = strconv.Atoi(u.Gid)
			}
		}
	}

	if group != "" {
		if id, err := strconv.Atoi(group); err == nil {
			own.GID = id
		} else {
			g, err := user.LookupGroup(group)
			if err != nil {
				return Ownership{}, errors.Wrapf(err, errors.ErrSpecInvalid, "unknown group %q", group).
					WithDetail("ownership", spec)
			}
			own.GID, _ = strconv.Atoi(g.Gid)
		}
	}

	if own.UID < 0 && own.GID < 0 {
		return Ownership{}, errors.Newf(errors.ErrSpecInvalid, "invalid ownership %q", spec)
	}
	return own, nil
}

// ParseMode parses an octal permission string such as "0644" or "0o755"
func ParseMode(s string) (fs.FileMode, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0o")
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrSpecInvalid, "invalid permissions %q", s)
	}
	return checkMode(int64(v))
}

func checkMode(v int64) (fs.FileMode, error) {
	if v < 0 || v > 0o7777 {
		return 0, errors.Newf(errors.ErrSpecInvalid, "permissions %o out of range", v)
	}
	mode := fs.FileMode(v & 0o777)
	if v&0o4000 != 0 {
		mode |= fs.ModeSetuid
	}
	if v&0o2000 != 0 {
		mode |= fs.ModeSetgid
	}
	if v&0o1000 != 0 {
		mode |= fs.ModeSticky
	}
	return mode, nil
}

// DecodeActionSpec decodes a pruned configuration mapping. Unknown keys
// such as the module name are ignored.
func DecodeActionSpec(raw map[string]any) (ActionSpec, error) {
	var spec ActionSpec
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &spec,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			fileModeHookFunc(),
			ownershipHookFunc(),
		),
	})
	if err != nil {
		return ActionSpec{}, errors.Wrap(err, errors.ErrInternal, "failed to create decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return ActionSpec{}, errors.Wrap(err, errors.ErrSpecInvalid, "invalid action")
	}

	if spec.Source == "" {
		return ActionSpec{}, errors.New(errors.ErrSpecInvalid, "action requires a source")
	}
	if spec.Target == "" {
		return ActionSpec{}, errors.New(errors.ErrSpecInvalid, "action requires a target").
			WithDetail("source", spec.Source)
	}
	return spec, nil
}

// fileModeHookFunc reads strings as octal and integers as the mode itself,
// so YAML 0644 and "644" both mean rw-r--r--
func fileModeHookFunc() mapstructure.DecodeHookFunc {
	modeType := reflect.TypeOf(fs.FileMode(0))
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != modeType {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return ParseMode(v)
		case int:
			return checkMode(int64(v))
		case int64:
			return checkMode(v)
		case uint64:
			return checkMode(int64(v))
		default:
			return data, nil
		}
	}
}

func ownershipHookFunc() mapstructure.DecodeHookFunc {
	ownType := reflect.TypeOf(Ownership{})
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != ownType || from.Kind() != reflect.String {
			return data, nil
		}
		return ParseOwnership(data.(string))
	}
}
