package config

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/forgehq/forge/internal/ports"
	apperrors "github.com/forgehq/forge/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// extractLine pulls the 1-based line number yaml.v3 embeds in its own error
// text (e.g. "yaml: line 7: did not find expected key"). Absent a match, 0.
func extractLine(err error) int {
	if err == nil {
		return 0
	}
	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}
	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}

// fileDefaults is the shape of an optional forge.yaml: a flat map of
// parameter name to default value, read as strings and coerced later by
// Binder.Bind.
type fileDefaults struct {
	Parameters map[string]string `yaml:"parameters"`
}

// LoadDefaults reads the optional forge.yaml parameter-defaults file at path.
// A missing file is not an error: it simply yields no defaults, since the
// file itself is optional.
func LoadDefaults(logger ports.Logger, path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.NewParseError(path, extractLine(err), err)
	}

	var parsed fileDefaults
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, apperrors.NewParseError(path, extractLine(err), err)
	}

	if logger != nil {
		logger.Debug(context.Background(), "loaded parameter defaults", "path", path, "count", len(parsed.Parameters))
	}

	return parsed.Parameters, nil
}
