package facts

import (
	"bufio"
	"io"
	"strings"
)

// DefaultOSReleasePath is the standard location of os-release
const DefaultOSReleasePath = "/etc/os-release"

// ParseOSRelease reads KEY=value pairs. Blank lines and comments are
// skipped and surrounding quotes are removed.
func ParseOSRelease(r io.Reader) (map[string]string, error) {
	data := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, _ := strings.Cut(line, "=")
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"`)
		value = strings.Trim(value, `'`)
		data[strings.TrimSpace(key)] = value
	}
	return data, scanner.Err()
}
