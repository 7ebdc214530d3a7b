package facts

import (
	"bytes"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Abragus/syncsmith/pkg/errors"
	"github.com/Abragus/syncsmith/pkg/filesystem"
	"github.com/Abragus/syncsmith/pkg/logging"
)

const unknown = "unknown"

// Probe supplies the host information used for auto-filled facts
type Probe struct {
	OSReleasePath string
	Hostname      func() (string, error)
	Getenv        func(string) string
}

// DefaultProbe inspects the running host
func DefaultProbe() Probe {
	return Probe{
		OSReleasePath: DefaultOSReleasePath,
		Hostname:      os.Hostname,
		Getenv:        os.Getenv,
	}
}

// Fact is a single auto-detected key and value
type Fact struct {
	Key   string
	Value any
}

// Detect returns the auto-filled facts in their canonical order
func Detect(fsys filesystem.FS, probe Probe) []Fact {
	logger := logging.GetLogger("facts")

	release := map[string]string{}
	if probe.OSReleasePath != "" {
		if f, err := fsys.Open(probe.OSReleasePath); err == nil {
			parsed, perr := ParseOSRelease(f)
			_ = f.Close()
			if perr != nil {
				logger.Debug().Err(perr).Str("path", probe.OSReleasePath).Msg("Failed to parse os-release")
			} else {
				release = parsed
			}
		} else {
			logger.Debug().Err(err).Str("path", probe.OSReleasePath).Msg("os-release not readable")
		}
	}

	host := unknown
	if probe.Hostname != nil {
		if h, err := probe.Hostname(); err == nil && h != "" {
			host = h
		}
	}

	desktop := unknown
	if probe.Getenv != nil {
		if d := strings.TrimSpace(probe.Getenv("DESKTOP_SESSION")); d != "" {
			desktop = strings.ToLower(d)
		}
	}

	return []Fact{
		{"host", host},
		{"os", valueOr(release, "ID", unknown)},
		{"os_pretty", valueOr(release, "PRETTY_NAME", "Unknown")},
		{"os_version", valueOr(release, "VERSION_ID", unknown)},
		{"desktop_environment", desktop},
		{TagsKey, []string{}},
	}
}

// Ensure loads the facts file at path, fills in any missing auto-detected
// keys and writes the result back. With reset the existing file is
// ignored. The returned bool reports whether the file was created or
// reset.
func Ensure(fsys filesystem.FS, path string, reset bool, probe Probe) (Facts, bool, error) {
	logger := logging.GetLogger("facts")

	doc, fresh, err := readDocument(fsys, path, reset)
	if err != nil {
		return nil, false, err
	}

	mapping := doc.Content[0]
	present := make(map[string]bool, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		present[mapping.Content[i].Value] = true
	}

	for _, f := range Detect(fsys, probe) {
		if present[f.Key] {
			continue
		}
		var value yaml.Node
		if err := value.Encode(f.Value); err != nil {
			return nil, false, errors.Wrapf(err, errors.ErrInternal, "failed to encode fact %s", f.Key)
		}
		if value.Kind == yaml.SequenceNode {
			value.Style = yaml.FlowStyle
		}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key},
			&value,
		)
		logger.Debug().Str("key", f.Key).Interface("value", f.Value).Msg("Filled fact")
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, false, errors.Wrap(err, errors.ErrInternal, "failed to encode environment")
	}
	if err := enc.Close(); err != nil {
		return nil, false, errors.Wrap(err, errors.ErrInternal, "failed to encode environment")
	}

	if err := fsys.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return nil, false, errors.Wrapf(err, errors.ErrFileWrite, "failed to write environment file %s", path).
			WithDetail("path", path)
	}

	facts := Facts{}
	if err := doc.Decode(&facts); err != nil {
		return nil, false, errors.Wrap(err, errors.ErrConfigParse, "failed to decode environment")
	}

	logger.Info().Str("path", path).Bool("fresh", fresh).Int("facts", len(facts)).Msg("Environment loaded")
	return facts, fresh, nil
}

// Load reads the facts file without modifying it
func Load(fsys filesystem.FS, path string) (Facts, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "environment file not found: %s", path).
			WithDetail("path", path)
	}
	facts := Facts{}
	if err := yaml.Unmarshal(data, &facts); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse environment file %s", path)
	}
	return facts, nil
}

func readDocument(fsys filesystem.FS, path string, reset bool) (*yaml.Node, bool, error) {
	empty := &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
	}
	if reset {
		return empty, true, nil
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, true, nil
		}
		return nil, false, errors.Wrapf(err, errors.ErrFileAccess, "failed to read environment file %s", path)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, false, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse environment file %s", path).
			WithDetail("path", path)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return empty, false, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		doc.Content[0] = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		return &doc, false, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, false, errors.Newf(errors.ErrConfigParse, "environment file %s must contain a mapping", path).
			WithDetail("path", path)
	}
	return &doc, false, nil
}

func valueOr(m map[string]string, key, fallback string) string {
	if v, ok := m[key]; ok && v != "" {
		return v
	}
	return fallback
}
