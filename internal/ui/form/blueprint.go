package form

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/raphi011/curator/internal/config"
)

// Blueprint IDs shipped with curator.
const (
	CreateReleaseBranch = "create_release_branch"
	MergeReleaseBranch  = "merge_release_branch"
	CreateTag           = "create_tag"
)

//go:embed blueprints/*.yaml
var blueprints embed.FS

// Blueprint describes a form.
type Blueprint struct {
	ID     string      `yaml:"id"`
	Title  string      `yaml:"title"`
	Submit string      `yaml:"submit"`
	Fields []FieldSpec `yaml:"fields"`
}

// FieldSpec describes one field. Default and Placeholder may contain
// {name} placeholders filled from Env.Vars.
type FieldSpec struct {
	Key         string `yaml:"key"`
	Label       string `yaml:"label"`
	Kind        string `yaml:"kind"` // "text" or "choice"
	Default     string `yaml:"default"`
	Placeholder string `yaml:"placeholder"`
	Required    bool   `yaml:"required"`
	Validate    string `yaml:"validate"` // name in Env.Validators
	Options     string `yaml:"options"`  // name in Env.Options, choice fields only
	NoSpaces    bool   `yaml:"no_spaces"`
}

// Env supplies the runtime values a blueprint refers to.
type Env struct {
	Vars       map[string]string
	Options    map[string][]string
	Validators map[string]func(string) error
}

// LoadBlueprint reads the embedded blueprint id.
func LoadBlueprint(id string) (Blueprint, error) {
	data, err := blueprints.ReadFile("blueprints/" + id + ".yaml")
	if err != nil {
		return Blueprint{}, fmt.Errorf("unknown form %q", id)
	}
	return ParseBlueprint(data)
}

// ParseBlueprint decodes and checks a YAML blueprint.
func ParseBlueprint(data []byte) (Blueprint, error) {
	var bp Blueprint
	if err := yaml.Unmarshal(data, &bp); err != nil {
		return Blueprint{}, fmt.Errorf("failed to parse form blueprint: %w", err)
	}
	if bp.ID == "" {
		return Blueprint{}, fmt.Errorf("form blueprint: id is required")
	}
	seen := make(map[string]bool, len(bp.Fields))
	for i, fs := range bp.Fields {
		if fs.Key == "" {
			return Blueprint{}, fmt.Errorf("form %s: field %d has no key", bp.ID, i)
		}
		if seen[fs.Key] {
			return Blueprint{}, fmt.Errorf("form %s: duplicate field %q", bp.ID, fs.Key)
		}
		seen[fs.Key] = true
		if fs.Kind != "text" && fs.Kind != "choice" {
			return Blueprint{}, fmt.Errorf("form %s: field %q has unknown kind %q", bp.ID, fs.Key, fs.Kind)
		}
	}
	return bp, nil
}

// Build creates the form described by bp.
func (bp Blueprint) Build(env Env) (*Form, error) {
	fields := make([]Field, 0, len(bp.Fields))
	for _, fs := range bp.Fields {
		label := fs.Label
		if label == "" {
			label = fs.Key
		}

		switch fs.Kind {
		case "text":
			f := NewTextField(fs.Key, label, config.Expand(fs.Placeholder, env.Vars))
			if fs.Required {
				f.Required()
			}
			if fs.NoSpaces {
				f.NoSpaces()
			}
			if fs.Validate != "" {
				fn, ok := env.Validators[fs.Validate]
				if !ok {
					return nil, fmt.Errorf("form %s: unknown validator %q", bp.ID, fs.Validate)
				}
				f.WithValidator(fn)
			}
			if fs.Default != "" {
				f.SetValue(expandKnown(fs.Default, env.Vars))
			}
			fields = append(fields, f)

		case "choice":
			options, ok := env.Options[fs.Options]
			if !ok {
				return nil, fmt.Errorf("form %s: unknown option source %q", bp.ID, fs.Options)
			}
			f := NewChoiceField(fs.Key, label, options)
			if fs.Required {
				f.Required()
			}
			if fs.Default != "" {
				f.Select(expandKnown(fs.Default, env.Vars))
			}
			fields = append(fields, f)
		}
	}
	return New(bp.ID, bp.Title, bp.Submit, fields...), nil
}

// expandKnown expands vars in s, returning "" when a placeholder stays
// unresolved so a missing value never pre-fills a literal "{name}".
func expandKnown(s string, vars map[string]string) string {
	out := config.Expand(s, vars)
	if out == s && len(s) > 1 && s[0] == '{' {
		return ""
	}
	return out
}

// Open loads and builds an embedded blueprint in one step.
func Open(id string, env Env) (*Form, error) {
	bp, err := LoadBlueprint(id)
	if err != nil {
		return nil, err
	}
	return bp.Build(env)
}
