package compaction

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/design-compactor/backend/internal/models"
)

// ParseCompactionRules parses a YAML rules file of heuristic overrides.
// Fields not present in the file keep their reference defaults.
func ParseCompactionRules(filePath string) (*models.CompactionRules, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseCompactionRulesFromReader(file)
}

// ParseCompactionRulesFromReader parses rules from an io.Reader.
func ParseCompactionRulesFromReader(r io.Reader) (*models.CompactionRules, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	rules := models.DefaultCompactionRules()
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, err
	}

	return rules, nil
}
