package categorize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ReadRuleSet reads a YAML rule file.
func ReadRuleSet(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("reading rules: %w", err)
	}
	var set RuleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return RuleSet{}, fmt.Errorf("parsing rules %s: %w", path, err)
	}
	return set, nil
}

// WriteRuleSet writes a rule set as YAML, creating parent directories.
func WriteRuleSet(path string, set RuleSet) error {
	data, err := yaml.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating rules dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}

// Load builds a registry from a rule file. With includeDefaults the file is
// merged over DefaultRuleSet. A missing file with includeDefaults yields the defaults.
func Load(path string, includeDefaults bool) (*Rules, error) {
	base := RuleSet{}
	if includeDefaults {
		base = DefaultRuleSet()
	}
	if path == "" {
		return NewRules(base)
	}

	set, err := ReadRuleSet(path)
	if err != nil {
		if includeDefaults && errors.Is(err, fs.ErrNotExist) {
			return NewRules(base)
		}
		return nil, err
	}
	return NewRules(Merge(base, set))
}
