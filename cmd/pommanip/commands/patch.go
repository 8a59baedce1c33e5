package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vorburger/pom-manipulation-ext/docio"
	"github.com/vorburger/pom-manipulation-ext/opspec"
	"github.com/vorburger/pom-manipulation-ext/patch"
	"github.com/vorburger/pom-manipulation-ext/report"
	"github.com/vorburger/pom-manipulation-ext/state"
)

// PatchFlags contains flags for the patch command
type PatchFlags struct {
	Spec       string
	Properties string
	Defines    defineFlag
	DryRun     bool
	Format     string
	Verbosity  int
}

// SetupPatchFlags creates and configures a FlagSet for the patch command.
// Returns the FlagSet and a PatchFlags struct with bound flag variables.
func SetupPatchFlags() (*flag.FlagSet, *PatchFlags) {
	fs := flag.NewFlagSet("patch", flag.ContinueOnError)
	flags := &PatchFlags{}

	fs.StringVar(&flags.Spec, "spec", "", "operation spec to apply (overrides the jsonUpdate property)")
	fs.StringVar(&flags.Properties, "properties", "", "YAML properties file supplying the jsonUpdate spec")
	fs.Var(&flags.Defines, "D", "property override as key=value (repeatable)")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "preview which paths resolve without writing any file")
	fs.StringVar(&flags.Format, "format", report.FormatText, "output format: text, json, or yaml")
	fs.IntVar(&flags.Verbosity, "verbosity", 0, "log verbosity (0=warn, 1=info, 2=debug)")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: pommanip patch [flags] [<dir>]\n\n")
		Writef(output, "Apply an operation spec to its target documents.\n")
		Writef(output, "Each operation's target names a JSON or YAML file, resolved against <dir>\n")
		Writef(output, "(default: the current directory). Files are rewritten in place in their\n")
		Writef(output, "source format.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  pommanip patch --spec 'registry.json:$.repository.url:https\\://maven.repository.redhat.com/ga/' ./conf\n")
		Writef(output, "  pommanip patch --properties build.yaml --dry-run\n")
		Writef(output, "  pommanip patch -D 'jsonUpdate=a.json:$.x:1' --format json\n")
	}

	return fs, flags
}

// HandlePatch executes the patch command
func HandlePatch(args []string) error {
	fs, flags := SetupPatchFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	SetupLogger(flags.Verbosity)

	if err := report.ValidateFormat(flags.Format); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("patch command takes at most one directory argument")
	}
	baseDir := "."
	if fs.NArg() == 1 {
		baseDir = fs.Arg(0)
	}

	ops, err := patchOperations(flags)
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		Writef(os.Stderr, "No operations to apply.\n")
		return nil
	}

	log := EngineLogger("patch")

	combined := &patch.Result{}
	for _, group := range groupByTarget(ops) {
		docPath := filepath.Join(baseDir, group.target)

		if flags.DryRun {
			preview, err := patch.DryRunWithOptions(
				patch.WithDocumentFilePath(docPath),
				patch.WithOperations(group.ops),
				patch.WithLogger(log),
			)
			if err != nil {
				return err
			}
			for _, change := range preview.Changes {
				if !change.Found {
					log.Warn("path would not resolve", "target", change.Target, "path", change.Path)
					continue
				}
				combined.Changes = append(combined.Changes, patch.ChangeRecord{
					Index:     len(combined.Changes),
					Target:    change.Target,
					Path:      change.Path,
					Operation: change.Operation,
				})
				combined.Applied++
			}
			continue
		}

		result, doc, err := patch.ApplyWithOptions(
			patch.WithDocumentFilePath(docPath),
			patch.WithOperations(group.ops),
			patch.WithLogger(log),
		)
		if err != nil {
			return err
		}
		if err := docio.Save(doc, doc.SourcePath); err != nil {
			return err
		}
		for _, change := range result.Changes {
			change.Index = len(combined.Changes)
			combined.Changes = append(combined.Changes, change)
		}
		combined.Applied += result.Applied
	}

	return OutputReport(report.Build(nil, nil, combined), flags.Format)
}

// patchOperations resolves the operation list from the -spec flag or the
// jsonUpdate property.
func patchOperations(flags *PatchFlags) ([]opspec.Operation, error) {
	if flags.Spec != "" {
		return opspec.Parse(flags.Spec)
	}

	props, err := LoadProperties(flags.Properties, flags.Defines)
	if err != nil {
		return nil, err
	}
	jsonState, err := state.NewJSONState(props)
	if err != nil {
		return nil, err
	}
	return jsonState.Operations, nil
}

// targetGroup is a target document with its operations in declaration order.
type targetGroup struct {
	target string
	ops    []opspec.Operation
}

// groupByTarget splits operations per target file, preserving both the
// per-target operation order and the order targets first appear.
func groupByTarget(ops []opspec.Operation) []targetGroup {
	index := make(map[string]int)
	var groups []targetGroup
	for _, op := range ops {
		i, ok := index[op.Target]
		if !ok {
			i = len(groups)
			index[op.Target] = i
			groups = append(groups, targetGroup{target: op.Target})
		}
		groups[i].ops = append(groups[i].ops, op)
	}
	return groups
}
