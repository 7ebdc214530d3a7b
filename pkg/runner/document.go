package runner

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Abragus/syncsmith/pkg/conditional"
	"github.com/Abragus/syncsmith/pkg/errors"
	"github.com/Abragus/syncsmith/pkg/facts"
	"github.com/Abragus/syncsmith/pkg/filesystem"
	"github.com/Abragus/syncsmith/pkg/logging"
	"github.com/Abragus/syncsmith/pkg/modules"
)

// ModulesKey holds the ordered module list
const ModulesKey = "modules"

// LoadDocument reads the configuration tree at path and prunes it for the
// host. A missing file is an empty configuration.
func LoadDocument(fsys filesystem.FS, path string, f facts.Facts) (map[string]any, error) {
	logger := logging.GetLogger("runner")

	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", path).Msg("Configuration file not found")
			return map[string]any{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read %s", path)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path).
			WithDetail("path", path)
	}

	doc, err := conditional.PruneDocument(raw, f)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("path", path).Msg("Configuration pruned")
	return doc, nil
}

// ModuleConfigs returns the module entries of a pruned document
func ModuleConfigs(doc map[string]any) ([]modules.Config, error) {
	raw, ok := doc[ModulesKey]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, errors.Newf(errors.ErrConfigParse, "%s must be a list", ModulesKey)
	}

	out := make([]modules.Config, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, errors.Newf(errors.ErrConfigParse, "%s[%d] must be a mapping", ModulesKey, i).
				WithDetail("index", i)
		}
		out = append(out, modules.Config(m))
	}
	return out, nil
}
