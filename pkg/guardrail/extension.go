package guardrail

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/parcel/pkg/domain"
)

// RuleSpec is the file form of a rule extension. A spec naming a built-in
// check adds patterns to it; any other name defines a new check.
type RuleSpec struct {
	Check     string   `yaml:"check" json:"check"`
	Mode      Mode     `yaml:"mode" json:"mode"`
	Patterns  []string `yaml:"patterns" json:"patterns"`
	Message   string   `yaml:"message" json:"message"`
	MinLength int      `yaml:"min_length" json:"min_length"`
	Limit     int      `yaml:"limit" json:"limit"`
	Tasks     []string `yaml:"tasks" json:"tasks"`
}

// ExtensionFile is the structure of a policy extension file.
type ExtensionFile struct {
	Rules []RuleSpec `yaml:"rules" json:"rules"`
}

// Extensions is a compiled, validated set of rule extensions.
type Extensions struct {
	rules []compiledSpec
}

type compiledSpec struct {
	spec     RuleSpec
	patterns []*regexp.Regexp
	tasks    []domain.TaskKind
}

// Len returns the number of rule specs.
func (e *Extensions) Len() int {
	if e == nil {
		return 0
	}
	return len(e.rules)
}

// LoadExtensions reads a YAML or JSON policy extension file.
func LoadExtensions(path string) (*Extensions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var file ExtensionFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}
	return CompileExtensions(file)
}

// CompileExtensions validates and compiles rule specs.
func CompileExtensions(file ExtensionFile) (*Extensions, error) {
	builtin := make(map[CheckID]bool)
	for _, r := range DefaultRules() {
		builtin[r.Check] = true
	}

	ext := &Extensions{}
	for i, spec := range file.Rules {
		if spec.Check == "" {
			return nil, fmt.Errorf("rule %d: check name is required", i)
		}
		if len(spec.Patterns) == 0 {
			return nil, fmt.Errorf("rule %q: at least one pattern is required", spec.Check)
		}
		if !builtin[CheckID(spec.Check)] {
			switch spec.Mode {
			case ModeForbid, ModeRequire:
			case "":
				spec.Mode = ModeForbid
			default:
				return nil, fmt.Errorf("rule %q: mode %q is not supported for custom checks", spec.Check, spec.Mode)
			}
			if spec.Message == "" {
				return nil, fmt.Errorf("rule %q: message is required", spec.Check)
			}
		}

		c := compiledSpec{spec: spec}
		for _, expr := range spec.Patterns {
			re, err := regexp.Compile(`(?i)` + expr)
			if err != nil {
				return nil, fmt.Errorf("rule %q: %w", spec.Check, err)
			}
			c.patterns = append(c.patterns, re)
		}
		for _, t := range spec.Tasks {
			kind, err := domain.ParseTaskKind(t)
			if err != nil {
				return nil, fmt.Errorf("rule %q: %w", spec.Check, err)
			}
			c.tasks = append(c.tasks, kind)
		}
		ext.rules = append(ext.rules, c)
	}
	return ext, nil
}

func (p *Pipeline) extend(ext *Extensions) {
	for _, c := range ext.rules {
		id := CheckID(c.spec.Check)
		if i, ok := p.index[id]; ok {
			r := p.rules[i]
			r.Patterns = append(append([]*regexp.Regexp(nil), r.Patterns...), c.patterns...)
			p.rules[i] = r
		} else {
			p.add(Rule{
				Check:     id,
				Mode:      c.spec.Mode,
				Patterns:  c.patterns,
				MinLength: c.spec.MinLength,
				Message:   c.spec.Message,
			})
		}
		for _, task := range c.tasks {
			if task == domain.TaskFinalRecommendation || containsCheck(p.tasks[task], id) {
				continue
			}
			p.tasks[task] = append(p.tasks[task], id)
		}
	}
}

func containsCheck(list []CheckID, id CheckID) bool {
	for _, c := range list {
		if c == id {
			return true
		}
	}
	return false
}
