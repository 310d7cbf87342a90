package cmd

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/boolexpr/booleano-go/pkg/datatype"
	"github.com/boolexpr/booleano-go/pkg/jsoncontext"
	"github.com/boolexpr/booleano-go/pkg/scope"
)

// VariableConfig declares one bound variable: the name it is exposed
// under, the single datatype tag it reads as, and the gjson path into
// the evaluation context document it reads from.
type VariableConfig struct {
	Name      string            `yaml:"name"`
	Type      string            `yaml:"type"`
	Path      string            `yaml:"path"`
	Localised map[string]string `yaml:"localised,omitempty"`
}

// Config is the YAML document --vars points at (goccy/go-yaml, the same
// decoder the teacher's fmt/config tooling uses for structured files).
type Config struct {
	Variables []VariableConfig `yaml:"variables"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fail("reading variable config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fail("parsing variable config %s: %w", path, err)
	}
	return &cfg, nil
}

func tagFor(typeName string) (datatype.Tag, error) {
	switch typeName {
	case "boolean":
		return datatype.Boolean, nil
	case "number":
		return datatype.Number, nil
	case "string":
		return datatype.String, nil
	case "set":
		return datatype.Set, nil
	default:
		return 0, fail("unknown variable type %q (want boolean, number, string, or set)", typeName)
	}
}

// buildNamespace turns a Config into a root scope.Namespace whose
// bindings are jsoncontext.Variable instances, one per declared
// variable, each reading the JSON document supplied to the evaluator at
// its configured path.
func buildNamespace(cfg *Config) (*scope.Namespace, error) {
	root := scope.NewNamespace("root", nil)
	for _, v := range cfg.Variables {
		tag, err := tagFor(v.Type)
		if err != nil {
			return nil, err
		}
		operand := jsoncontext.NewVariable(v.Path, datatype.Tags(tag), tag)
		binding, err := scope.NewVariableBinding(v.Name, operand, v.Localised)
		if err != nil {
			return nil, fail("variable %q: %w", v.Name, err)
		}
		if err := root.AddBinding(binding); err != nil {
			return nil, err
		}
	}
	return root, nil
}
