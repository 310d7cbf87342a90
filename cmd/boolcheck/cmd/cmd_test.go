package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/boolexpr/booleano-go/pkg/datatype"
	"github.com/boolexpr/booleano-go/pkg/ident"
	"github.com/boolexpr/booleano-go/pkg/jsoncontext"
)

func writeTempConfig(t *testing.T, yamlBody string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "vars.yaml")
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTagForKnownTypes(t *testing.T) {
	tests := map[string]datatype.Tag{
		"boolean": datatype.Boolean,
		"number":  datatype.Number,
		"string":  datatype.String,
		"set":     datatype.Set,
	}
	for name, want := range tests {
		got, err := tagFor(name)
		if err != nil {
			t.Fatalf("tagFor(%q) error: %v", name, err)
		}
		if got != want {
			t.Errorf("tagFor(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestTagForUnknownType(t *testing.T) {
	if _, err := tagFor("frobnicate"); err == nil {
		t.Fatal("expected an error for an unknown variable type")
	}
}

func TestLoadConfigParsesVariables(t *testing.T) {
	path := writeTempConfig(t, `
variables:
  - name: active
    type: boolean
    path: user.active
  - name: age
    type: number
    path: user.age
    localised:
      es: edad
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Variables) != 2 {
		t.Fatalf("got %d variables, want 2", len(cfg.Variables))
	}
	if cfg.Variables[1].Localised["es"] != "edad" {
		t.Fatalf("got %+v", cfg.Variables[1])
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestBuildNamespaceRegistersVariables(t *testing.T) {
	cfg := &Config{Variables: []VariableConfig{
		{Name: "active", Type: "boolean", Path: "user.active"},
		{Name: "age", Type: "number", Path: "user.age"},
	}}
	root, err := buildNamespace(cfg)
	if err != nil {
		t.Fatal(err)
	}
	table := root.AsSymbolTable(ident.Locale{})
	if _, err := table.Resolve(nil, "active"); err != nil {
		t.Fatalf("expected 'active' to resolve, got %v", err)
	}
	if _, err := table.Resolve(nil, "age"); err != nil {
		t.Fatalf("expected 'age' to resolve, got %v", err)
	}
}

func TestBuildNamespaceRejectsUnknownType(t *testing.T) {
	cfg := &Config{Variables: []VariableConfig{{Name: "x", Type: "bogus", Path: "x"}}}
	if _, err := buildNamespace(cfg); err == nil {
		t.Fatal("expected an error for an unknown variable type")
	}
}

func TestBuildNamespaceRejectsDuplicateName(t *testing.T) {
	cfg := &Config{Variables: []VariableConfig{
		{Name: "x", Type: "number", Path: "a"},
		{Name: "x", Type: "number", Path: "b"},
	}}
	if _, err := buildNamespace(cfg); err == nil {
		t.Fatal("expected an error for a duplicate variable name")
	}
}

func TestReadContextDocInlineJSON(t *testing.T) {
	got, err := readContextDoc(`{"a": 1}`)
	if err != nil {
		t.Fatal(err)
	}
	if got != `{"a": 1}` {
		t.Fatalf("got %q", got)
	}
}

func TestReadContextDocFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ctx.json")
	if err := os.WriteFile(path, []byte(`{"a": 2}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := readContextDoc(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != `{"a": 2}` {
		t.Fatalf("got %q", got)
	}
}

func TestRunParseProducesNoError(t *testing.T) {
	if err := runParse(nil, []string{"a & b"}); err != nil {
		t.Fatal(err)
	}
}

func TestRunConvertProducesNoError(t *testing.T) {
	if err := runConvert(nil, []string{`name == "Ada"`}); err != nil {
		t.Fatal(err)
	}
}

func TestRunEvalTruePathDoesNotExit(t *testing.T) {
	varsPath := writeTempConfig(t, `
variables:
  - name: active
    type: boolean
    path: user.active
`)
	evalVarsFile = varsPath
	evalContextJSON = `{"user": {"active": true}}`
	evalLocale = ""
	evalSet = nil
	if err := runEval(nil, []string{"active"}); err != nil {
		t.Fatal(err)
	}
}

func TestRunEvalSetFlagOverridesContext(t *testing.T) {
	varsPath := writeTempConfig(t, `
variables:
  - name: age
    type: number
    path: user.age
`)
	evalVarsFile = varsPath
	evalContextJSON = `{"user": {"age": 10}}`
	evalLocale = ""
	evalSet = []string{"user.age=42"}
	if err := runEval(nil, []string{"age > 18"}); err != nil {
		t.Fatal(err)
	}
	evalSet = nil
}

func TestApplySetFlagRejectsMalformedAssignment(t *testing.T) {
	ctx := jsoncontext.New(`{}`)
	if _, err := applySetFlag(ctx, "no-equals-sign"); err == nil {
		t.Fatal("expected an error for an assignment with no '='")
	}
}

func TestApplySetFlagFallsBackToStringValue(t *testing.T) {
	ctx := jsoncontext.New(`{}`)
	patched, err := applySetFlag(ctx, "name=Ada")
	if err != nil {
		t.Fatal(err)
	}
	v := jsoncontext.NewVariable("name", datatype.Tags(datatype.String), datatype.String)
	got, err := v.ReadAsString(patched)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Ada" {
		t.Fatalf("got %q, want %q", got, "Ada")
	}
}
