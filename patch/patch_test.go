package patch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vorburger/pom-manipulation-ext/docio"
	"github.com/vorburger/pom-manipulation-ext/opspec"
	"github.com/vorburger/pom-manipulation-ext/pomerrors"
)

func strp(s string) *string { return &s }

func registryDoc() map[string]any {
	return map[string]any{
		"repository": map[string]any{
			"url": "https://repo.maven.apache.org/maven2/",
		},
		"plugins": []any{
			map[string]any{"name": "alpha", "description": "plugin alpha"},
			map[string]any{"name": "beta", "description": "plugin beta"},
		},
	}
}

func TestApplyReplace(t *testing.T) {
	doc := registryDoc()
	op := opspec.Operation{
		Target: "registry.json",
		Path:   "$.repository.url",
		Value:  strp("https://maven.repository.redhat.com/ga/"),
	}

	if err := Apply(doc, op); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	got := doc["repository"].(map[string]any)["url"]
	if got != "https://maven.repository.redhat.com/ga/" {
		t.Errorf("url = %v, want redirected repository", got)
	}
}

func TestApplyReplaceRecursivePath(t *testing.T) {
	doc := registryDoc()
	op := opspec.Operation{
		Target: "registry.json",
		Path:   "$..plugins[0].description",
		Value:  strp("replaced"),
	}

	if err := Apply(doc, op); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	plugins := doc["plugins"].([]any)
	if plugins[0].(map[string]any)["description"] != "replaced" {
		t.Errorf("first plugin description not replaced: %v", plugins[0])
	}
	if plugins[1].(map[string]any)["description"] != "plugin beta" {
		t.Errorf("second plugin should be untouched: %v", plugins[1])
	}
}

func TestApplyRemove(t *testing.T) {
	doc := registryDoc()
	op := opspec.Operation{
		Target: "registry.json",
		Path:   "$.plugins[0]",
		Value:  nil,
	}

	if err := Apply(doc, op); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	plugins := doc["plugins"].([]any)
	if len(plugins) != 1 {
		t.Fatalf("len(plugins) = %d, want 1", len(plugins))
	}
	if plugins[0].(map[string]any)["name"] != "beta" {
		t.Errorf("remaining plugin = %v, want beta", plugins[0])
	}
}

func TestApplyPathNotFound(t *testing.T) {
	doc := registryDoc()
	op := opspec.Operation{
		Target: "registry.json",
		Path:   "$.I.really.do.not.exist.repository.url",
		Value:  strp("https://maven.repository.redhat.com/ga/"),
	}

	err := Apply(doc, op)
	if err == nil {
		t.Fatal("Apply() expected error for unresolvable path")
	}

	var pnf *pomerrors.PathNotFoundError
	if !errors.As(err, &pnf) {
		t.Fatalf("error type = %T, want *pomerrors.PathNotFoundError", err)
	}
	if pnf.Path != op.Path {
		t.Errorf("Path = %q, want %q", pnf.Path, op.Path)
	}
	if pnf.Target != "registry.json" {
		t.Errorf("Target = %q, want registry.json", pnf.Target)
	}
	if !errors.Is(err, pomerrors.ErrPathNotFound) {
		t.Error("errors.Is(err, ErrPathNotFound) = false")
	}

	// Failure must leave the document untouched.
	if doc["repository"].(map[string]any)["url"] != "https://repo.maven.apache.org/maven2/" {
		t.Error("document was modified by a failing operation")
	}
	if _, exists := doc["I"]; exists {
		t.Error("intermediate nodes were created")
	}
}

func TestApplyNeverCreatesKeys(t *testing.T) {
	doc := registryDoc()
	op := opspec.Operation{
		Target: "registry.json",
		Path:   "$.repository.mirrorUrl",
		Value:  strp("https://mirror.example.org/"),
	}

	if err := Apply(doc, op); err == nil {
		t.Fatal("Apply() expected error for missing leaf key")
	}
	if _, exists := doc["repository"].(map[string]any)["mirrorUrl"]; exists {
		t.Error("missing key was created")
	}
}

func TestApplyInvalidPath(t *testing.T) {
	doc := registryDoc()
	op := opspec.Operation{
		Target: "registry.json",
		Path:   "no-dollar",
		Value:  strp("x"),
	}
	err := Apply(doc, op)
	if err == nil {
		t.Fatal("Apply() expected error for invalid path syntax")
	}
	if !errors.Is(err, pomerrors.ErrMalformedOperation) {
		t.Errorf("err = %v, want ErrMalformedOperation", err)
	}
	var opErr *pomerrors.MalformedOperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("err = %T, want *MalformedOperationError", err)
	}
	if !strings.Contains(opErr.Message, "no-dollar") {
		t.Errorf("Message = %q, should name the bad path", opErr.Message)
	}
}

func TestApplyTrailingRecursivePath(t *testing.T) {
	doc := registryDoc()
	op := opspec.Operation{
		Target: "registry.json",
		Path:   "$..url",
		Value:  strp("https://maven.repository.redhat.com/ga/"),
	}

	if err := Apply(doc, op); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	got := doc["repository"].(map[string]any)["url"]
	if got != "https://maven.repository.redhat.com/ga/" {
		t.Errorf("url = %v, want redirected repository", got)
	}
}

func TestApplyRemoveWildcard(t *testing.T) {
	doc := registryDoc()
	op := opspec.Operation{
		Target: "registry.json",
		Path:   "$.plugins[*]",
	}

	if err := Apply(doc, op); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	plugins := doc["plugins"].([]any)
	if len(plugins) != 1 {
		t.Fatalf("len(plugins) = %d, want 1", len(plugins))
	}
	if plugins[0].(map[string]any)["name"] != "beta" {
		t.Errorf("remaining plugin = %v, want beta", plugins[0])
	}
}

func TestApplyAll(t *testing.T) {
	t.Run("applies in declaration order", func(t *testing.T) {
		doc := registryDoc()
		ops := []opspec.Operation{
			{Target: "r.json", Path: "$.repository.url", Value: strp("first")},
			{Target: "r.json", Path: "$.repository.url", Value: strp("second")},
		}

		result, err := ApplyAll(doc, ops)
		if err != nil {
			t.Fatalf("ApplyAll() error: %v", err)
		}
		if result.Applied != 2 {
			t.Errorf("Applied = %d, want 2", result.Applied)
		}
		if doc["repository"].(map[string]any)["url"] != "second" {
			t.Error("later operation should win")
		}
		if result.Changes[0].Operation != "replace" || result.Changes[1].Index != 1 {
			t.Errorf("unexpected change records: %+v", result.Changes)
		}
	})

	t.Run("fail-fast without rollback", func(t *testing.T) {
		doc := registryDoc()
		ops := []opspec.Operation{
			{Target: "r.json", Path: "$.repository.url", Value: strp("applied")},
			{Target: "r.json", Path: "$.missing.node", Value: strp("x")},
			{Target: "r.json", Path: "$.plugins[0].name", Value: strp("never")},
		}

		result, err := ApplyAll(doc, ops)
		if err == nil {
			t.Fatal("ApplyAll() expected error")
		}
		if result.Applied != 1 {
			t.Errorf("Applied = %d, want 1", result.Applied)
		}
		// First op stays applied, third never runs.
		if doc["repository"].(map[string]any)["url"] != "applied" {
			t.Error("first operation was rolled back")
		}
		if doc["plugins"].([]any)[0].(map[string]any)["name"] != "alpha" {
			t.Error("operation after the failure was applied")
		}
	})

	t.Run("empty operations", func(t *testing.T) {
		result, err := ApplyAll(registryDoc(), nil)
		if err != nil {
			t.Fatalf("ApplyAll() error: %v", err)
		}
		if result.Applied != 0 || len(result.Changes) != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
	})
}

func TestApplyWithOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")
	content := `{"repository": {"url": "https://repo.maven.apache.org/maven2/"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("from file with raw spec", func(t *testing.T) {
		spec := opspec.Escape(path) + ":$.repository.url:https\\://maven.repository.redhat.com/ga/"
		result, doc, err := ApplyWithOptions(
			WithDocumentFilePath(path),
			WithOperationSpec(spec),
		)
		if err != nil {
			t.Fatalf("ApplyWithOptions() error: %v", err)
		}
		if result.Applied != 1 {
			t.Errorf("Applied = %d, want 1", result.Applied)
		}

		out, err := docio.Marshal(doc)
		if err != nil {
			t.Fatalf("Marshal() error: %v", err)
		}
		if !strings.Contains(string(out), "https://maven.repository.redhat.com/ga/") {
			t.Errorf("serialized document missing replacement: %s", out)
		}
	})

	t.Run("rejects conflicting sources", func(t *testing.T) {
		_, _, err := ApplyWithOptions(
			WithDocumentFilePath(path),
			WithDocument(&docio.Document{}),
			WithOperations([]opspec.Operation{{Target: "t", Path: "$.a"}}),
		)
		if err == nil {
			t.Fatal("expected error for two document sources")
		}
	})

	t.Run("rejects missing sources", func(t *testing.T) {
		if _, _, err := ApplyWithOptions(); err == nil {
			t.Fatal("expected error for no sources")
		}
	})
}

func TestDryRunWithOptions(t *testing.T) {
	doc, err := docio.LoadBytes("registry.json", []byte(`{"repository": {"url": "https://repo.maven.apache.org/maven2/"}}`))
	if err != nil {
		t.Fatal(err)
	}

	ops := []opspec.Operation{
		{Target: "registry.json", Path: "$.repository.url", Value: strp("x")},
		{Target: "registry.json", Path: "$.missing", Value: nil},
	}

	result, err := DryRunWithOptions(
		WithDocument(doc),
		WithOperations(ops),
	)
	if err != nil {
		t.Fatalf("DryRunWithOptions() error: %v", err)
	}
	if result.WouldApply != 1 || result.WouldFail != 1 {
		t.Errorf("WouldApply = %d, WouldFail = %d, want 1 and 1", result.WouldApply, result.WouldFail)
	}
	if result.Changes[0].Operation != "replace" || result.Changes[1].Operation != "remove" {
		t.Errorf("unexpected operations: %+v", result.Changes)
	}

	// Preview must not mutate.
	if doc.Data.(map[string]any)["repository"].(map[string]any)["url"] != "https://repo.maven.apache.org/maven2/" {
		t.Error("dry run modified the document")
	}
}

// TestDryRunAgreesWithApply checks that a path the preview reports as found
// also applies, including trailing recursive and wildcard forms.
func TestDryRunAgreesWithApply(t *testing.T) {
	paths := []string{"$..url", "$.repository.*", "$.plugins[*]"}

	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			doc := registryDoc()
			op := opspec.Operation{Target: "registry.json", Path: p, Value: strp("x")}

			preview, err := DryRunWithOptions(
				WithDocument(&docio.Document{SourcePath: "registry.json", SourceFormat: docio.FormatJSON, Data: doc}),
				WithOperations([]opspec.Operation{op}),
			)
			if err != nil {
				t.Fatalf("DryRunWithOptions() error: %v", err)
			}
			if !preview.Changes[0].Found {
				t.Fatalf("preview did not resolve %s", p)
			}

			if err := Apply(doc, op); err != nil {
				t.Errorf("Apply() failed for previewed path %s: %v", p, err)
			}
		})
	}
}
