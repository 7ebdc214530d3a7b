package config

import (
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/Abragus/syncsmith/pkg/errors"
)

// Marshal renders settings as TOML. The root is omitted since it is
// derived at load time.
func Marshal(s *Settings) ([]byte, error) {
	out := *s
	out.Root = ""
	data, err := toml.Marshal(out)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to marshal settings")
	}
	return data, nil
}

// GenerateConfigContent returns the effective settings as a syncsmith.toml
// with every value commented out, ready to be edited.
func GenerateConfigContent(s *Settings) (string, error) {
	data, err := Marshal(s)
	if err != nil {
		return "", err
	}
	header := "# syncsmith settings\n# Uncomment and edit values to override the defaults.\n\n"
	return header + commentOutConfigValues(string(data)), nil
}

// commentOutConfigValues comments out every assignment, keeping blank
// lines, comments and section headers
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			result = append(result, line)
		case strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}
