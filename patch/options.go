package patch

import (
	"fmt"

	pomext "github.com/vorburger/pom-manipulation-ext"
	"github.com/vorburger/pom-manipulation-ext/docio"
	"github.com/vorburger/pom-manipulation-ext/internal/jsonpath"
	"github.com/vorburger/pom-manipulation-ext/opspec"
)

// Option is a function that configures a patch application operation.
type Option func(*applyConfig) error

// applyConfig holds configuration for a patch application operation.
type applyConfig struct {
	// Input source for the document (exactly one must be set)
	docFilePath *string
	docLoaded   *docio.Document

	// Input source for operations (exactly one must be set)
	opSpec *string
	ops    []opspec.Operation

	logger pomext.Logger
}

// WithDocumentFilePath specifies a file path as the document input source.
func WithDocumentFilePath(path string) Option {
	return func(cfg *applyConfig) error {
		if path == "" {
			return fmt.Errorf("document path cannot be empty")
		}
		cfg.docFilePath = &path
		return nil
	}
}

// WithDocument specifies an already-loaded document as the input source.
func WithDocument(doc *docio.Document) Option {
	return func(cfg *applyConfig) error {
		if doc == nil {
			return fmt.Errorf("document cannot be nil")
		}
		cfg.docLoaded = doc
		return nil
	}
}

// WithOperationSpec specifies a raw operation spec string to parse and apply.
func WithOperationSpec(spec string) Option {
	return func(cfg *applyConfig) error {
		if spec == "" {
			return fmt.Errorf("operation spec cannot be empty")
		}
		cfg.opSpec = &spec
		return nil
	}
}

// WithOperations specifies already-parsed operations to apply.
func WithOperations(ops []opspec.Operation) Option {
	return func(cfg *applyConfig) error {
		if len(ops) == 0 {
			return fmt.Errorf("operations cannot be empty")
		}
		cfg.ops = ops
		return nil
	}
}

// WithLogger sets the logger used while applying operations.
// Defaults to a no-op logger.
func WithLogger(logger pomext.Logger) Option {
	return func(cfg *applyConfig) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// applyOptions applies all options and returns the configuration.
func applyOptions(opts ...Option) (*applyConfig, error) {
	cfg := &applyConfig{
		logger: pomext.NopLogger{},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	// Validate exactly one document source
	docSourceCount := 0
	if cfg.docFilePath != nil {
		docSourceCount++
	}
	if cfg.docLoaded != nil {
		docSourceCount++
	}

	if docSourceCount == 0 {
		return nil, fmt.Errorf("must specify a document source (use WithDocumentFilePath or WithDocument)")
	}
	if docSourceCount > 1 {
		return nil, fmt.Errorf("must specify exactly one document source")
	}

	// Validate exactly one operations source
	opSourceCount := 0
	if cfg.opSpec != nil {
		opSourceCount++
	}
	if cfg.ops != nil {
		opSourceCount++
	}

	if opSourceCount == 0 {
		return nil, fmt.Errorf("must specify an operations source (use WithOperationSpec or WithOperations)")
	}
	if opSourceCount > 1 {
		return nil, fmt.Errorf("must specify exactly one operations source")
	}

	return cfg, nil
}

// loadInputs loads the document and operations from the configuration.
func loadInputs(cfg *applyConfig) (*docio.Document, []opspec.Operation, error) {
	var doc *docio.Document
	var ops []opspec.Operation
	var err error

	if cfg.docFilePath != nil {
		doc, err = docio.Load(*cfg.docFilePath)
		if err != nil {
			return nil, nil, err
		}
	} else {
		doc = cfg.docLoaded
	}

	if cfg.opSpec != nil {
		ops, err = opspec.Parse(*cfg.opSpec)
		if err != nil {
			return nil, nil, err
		}
	} else {
		ops = cfg.ops
	}

	return doc, ops, nil
}

// ApplyWithOptions applies operations to a document using functional options.
//
// The returned document carries the mutated tree; pass it to docio.Save to
// persist the result.
//
// Example:
//
//	result, doc, err := patch.ApplyWithOptions(
//	    patch.WithDocumentFilePath("registry.json"),
//	    patch.WithOperationSpec("registry.json:$.repository.url:https://maven.repository.redhat.com/ga/"),
//	)
func ApplyWithOptions(opts ...Option) (*Result, *docio.Document, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("patch: invalid options: %w", err)
	}

	doc, ops, err := loadInputs(cfg)
	if err != nil {
		return nil, nil, err
	}

	log := cfg.logger.With("document", doc.SourcePath)
	log.Debug("applying operations", "count", len(ops))

	result, err := ApplyAll(doc.Data, ops)
	if err != nil {
		log.Error("operation failed", "applied", result.Applied, "error", err)
		return result, doc, err
	}

	log.Info("operations applied", "applied", result.Applied)
	return result, doc, nil
}

// ProposedChange describes what one operation would do without doing it.
type ProposedChange struct {
	Index     int    `json:"index" yaml:"index"`
	Target    string `json:"target" yaml:"target"`
	Path      string `json:"path" yaml:"path"`
	Operation string `json:"operation" yaml:"operation"`
	// Found reports whether the path currently resolves in the document.
	Found bool `json:"found" yaml:"found"`
}

// DryRunResult collects the outcome of a DryRunWithOptions preview.
type DryRunResult struct {
	Changes    []ProposedChange `json:"changes" yaml:"changes"`
	WouldApply int              `json:"wouldApply" yaml:"wouldApply"`
	WouldFail  int              `json:"wouldFail" yaml:"wouldFail"`
}

// DryRunWithOptions previews operations against a document without
// modifying it. Unlike ApplyAll it evaluates every operation, so a preview
// shows all unresolvable paths at once.
func DryRunWithOptions(opts ...Option) (*DryRunResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("patch: invalid options: %w", err)
	}

	doc, ops, err := loadInputs(cfg)
	if err != nil {
		return nil, err
	}

	result := &DryRunResult{}
	for i, op := range ops {
		change := ProposedChange{
			Index:     i,
			Target:    op.Target,
			Path:      op.Path,
			Operation: operationName(op),
		}
		path, err := jsonpath.Parse(op.Path)
		if err == nil {
			_, change.Found = path.First(doc.Data)
		}
		if change.Found {
			result.WouldApply++
		} else {
			result.WouldFail++
		}
		result.Changes = append(result.Changes, change)
	}

	return result, nil
}
