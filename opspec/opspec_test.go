package opspec

import (
	"errors"
	"testing"

	"github.com/vorburger/pom-manipulation-ext/pomerrors"
)

// TestParse tests the operation spec tokenizer.
func TestParse(t *testing.T) {
	t.Run("single operation", func(t *testing.T) {
		ops, err := Parse("package.json:$.repository.url:https://maven.repository.redhat.com/ga/")
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if len(ops) != 1 {
			t.Fatalf("len(ops) = %d, want 1", len(ops))
		}
		if ops[0].Target != "package.json" {
			t.Errorf("Target = %q, want %q", ops[0].Target, "package.json")
		}
		if ops[0].Path != "$.repository.url" {
			t.Errorf("Path = %q, want %q", ops[0].Path, "$.repository.url")
		}
		if !ops[0].HasValue() || *ops[0].Value != "https://maven.repository.redhat.com/ga/" {
			t.Errorf("Value = %v, want replacement URL", ops[0].Value)
		}
	})

	t.Run("multiple operations keep declaration order", func(t *testing.T) {
		ops, err := Parse("a.json:$.x:1,b.json:$.y:2,a.json:$.z:3")
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if len(ops) != 3 {
			t.Fatalf("len(ops) = %d, want 3", len(ops))
		}
		wantTargets := []string{"a.json", "b.json", "a.json"}
		for i, want := range wantTargets {
			if ops[i].Target != want {
				t.Errorf("ops[%d].Target = %q, want %q", i, ops[i].Target, want)
			}
		}
	})

	t.Run("empty spec yields no operations", func(t *testing.T) {
		ops, err := Parse("")
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if len(ops) != 0 {
			t.Errorf("len(ops) = %d, want 0", len(ops))
		}
	})

	t.Run("empty value field", func(t *testing.T) {
		ops, err := Parse("a.json:$.x:")
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if !ops[0].HasValue() || *ops[0].Value != "" {
			t.Errorf("Value = %v, want empty string", ops[0].Value)
		}
	})

	t.Run("trailing record delimiter tolerated", func(t *testing.T) {
		ops, err := Parse("a.json:$.x:1,")
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if len(ops) != 1 {
			t.Errorf("len(ops) = %d, want 1", len(ops))
		}
	})

	t.Run("whitespace preserved verbatim", func(t *testing.T) {
		ops, err := Parse("a.json: $.x : padded value ")
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if ops[0].Path != " $.x " {
			t.Errorf("Path = %q, want %q", ops[0].Path, " $.x ")
		}
		if *ops[0].Value != " padded value " {
			t.Errorf("Value = %q, want %q", *ops[0].Value, " padded value ")
		}
	})
}

// TestParseEscaping tests escape resolution inside fields.
func TestParseEscaping(t *testing.T) {
	t.Run("escaped delimiters become literals", func(t *testing.T) {
		ops, err := Parse(`a.json:$.x:a\:b\,c`)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if *ops[0].Value != "a:b,c" {
			t.Errorf("Value = %q, want %q", *ops[0].Value, "a:b,c")
		}
	})

	t.Run("doubled escape is a literal backslash", func(t *testing.T) {
		ops, err := Parse(`a.json:$.x:c\\d`)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if *ops[0].Value != `c\d` {
			t.Errorf("Value = %q, want %q", *ops[0].Value, `c\d`)
		}
	})

	t.Run("escaping arbitrary characters denotes them literally", func(t *testing.T) {
		ops, err := Parse(`a.json:$.x:\h\i`)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if *ops[0].Value != "hi" {
			t.Errorf("Value = %q, want %q", *ops[0].Value, "hi")
		}
	})

	t.Run("fully escaped spec with embedded delimiters", func(t *testing.T) {
		spec := `amg-plugin-registry.json:$xpath-with\:and\,:replace with space and ` +
			`\,\:controlling\:access_to_resources_outside_of_an_originating_domain\,and_to_this_domain.`
		ops, err := Parse(spec)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if len(ops) != 1 {
			t.Fatalf("len(ops) = %d, want 1", len(ops))
		}
		if ops[0].Path != "$xpath-with:and," {
			t.Errorf("Path = %q, want %q", ops[0].Path, "$xpath-with:and,")
		}
		want := "replace with space and ,:controlling:access_to_resources_outside_of_an_originating_domain,and_to_this_domain."
		if *ops[0].Value != want {
			t.Errorf("Value = %q, want %q", *ops[0].Value, want)
		}
	})

	t.Run("round trip through Escape", func(t *testing.T) {
		ops, err := Parse(`a.json:$.x:a\:b`)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if *ops[0].Value != "a:b" {
			t.Fatalf("Value = %q, want %q", *ops[0].Value, "a:b")
		}

		reparsed, err := Parse(ops[0].String())
		if err != nil {
			t.Fatalf("reparse error: %v", err)
		}
		if *reparsed[0].Value != "a:b" {
			t.Errorf("reparsed Value = %q, want %q", *reparsed[0].Value, "a:b")
		}
		if reparsed[0].Target != ops[0].Target || reparsed[0].Path != ops[0].Path {
			t.Errorf("reparsed operation differs: %+v vs %+v", reparsed[0], ops[0])
		}
	})
}

// TestParseMalformed tests the rejection paths.
func TestParseMalformed(t *testing.T) {
	t.Run("unescaped delimiter in value breaks field count", func(t *testing.T) {
		_, err := Parse("amg-plugin-registry.json:$..plugins[0].description:CORS,and:controlling")
		if err == nil {
			t.Fatal("expected error for unescaped comma inside value")
		}
		if !errors.Is(err, pomerrors.ErrMalformedOperation) {
			t.Errorf("error should match ErrMalformedOperation, got %v", err)
		}
		var opErr *pomerrors.MalformedOperationError
		if !errors.As(err, &opErr) {
			t.Fatalf("error should be MalformedOperationError, got %T", err)
		}
		if opErr.Spec != "and:controlling" {
			t.Errorf("Spec = %q, want offending record %q", opErr.Spec, "and:controlling")
		}
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := Parse("a.json")
		if !errors.Is(err, pomerrors.ErrMalformedOperation) {
			t.Errorf("expected ErrMalformedOperation, got %v", err)
		}
	})

	t.Run("too many fields", func(t *testing.T) {
		_, err := Parse("a.json:$.x:va:lue")
		if !errors.Is(err, pomerrors.ErrMalformedOperation) {
			t.Errorf("expected ErrMalformedOperation, got %v", err)
		}
	})

	t.Run("dangling escape at end of input", func(t *testing.T) {
		_, err := Parse(`a.json:$.x:value\`)
		if !errors.Is(err, pomerrors.ErrMalformedOperation) {
			t.Errorf("expected ErrMalformedOperation, got %v", err)
		}
		var opErr *pomerrors.MalformedOperationError
		if errors.As(err, &opErr) && opErr.Message == "" {
			t.Error("expected a message describing the dangling escape")
		}
	})

	t.Run("empty record between delimiters", func(t *testing.T) {
		_, err := Parse("a.json:$.x:1,,b.json:$.y:2")
		if !errors.Is(err, pomerrors.ErrMalformedOperation) {
			t.Errorf("expected ErrMalformedOperation, got %v", err)
		}
	})

	t.Run("empty target", func(t *testing.T) {
		_, err := Parse(":$.x:1")
		if !errors.Is(err, pomerrors.ErrMalformedOperation) {
			t.Errorf("expected ErrMalformedOperation, got %v", err)
		}
	})

	t.Run("nothing after failing record is parsed", func(t *testing.T) {
		ops, err := Parse("bad,a.json:$.x:1")
		if err == nil {
			t.Fatal("expected error for malformed first record")
		}
		if ops != nil {
			t.Errorf("expected no partial results, got %v", ops)
		}
	})
}
