package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vorburger/pom-manipulation-ext/opspec"
	"github.com/vorburger/pom-manipulation-ext/report"
	"github.com/vorburger/pom-manipulation-ext/state"
)

// OpsFlags contains flags for the ops command
type OpsFlags struct {
	Format     string
	Properties string
	Defines    defineFlag
	Verbosity  int
}

// SetupOpsFlags creates and configures a FlagSet for the ops command.
// Returns the FlagSet and an OpsFlags struct with bound flag variables.
func SetupOpsFlags() (*flag.FlagSet, *OpsFlags) {
	fs := flag.NewFlagSet("ops", flag.ContinueOnError)
	flags := &OpsFlags{}

	fs.StringVar(&flags.Format, "format", report.FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Properties, "properties", "", "YAML properties file supplying the jsonUpdate spec")
	fs.Var(&flags.Defines, "D", "property override as key=value (repeatable)")
	fs.IntVar(&flags.Verbosity, "verbosity", 0, "log verbosity (0=warn, 1=info, 2=debug)")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: pommanip ops [flags] [<spec>|-]\n\n")
		Writef(output, "Parse and validate an operation spec without applying it.\n")
		Writef(output, "The spec is taken from the argument, stdin, or the jsonUpdate property.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  pommanip ops 'registry.json:$.repository.url:https\\://maven.repository.redhat.com/ga/'\n")
		Writef(output, "  pommanip ops --format json --properties build.yaml\n")
		Writef(output, "  echo 'a.json:$.x:1' | pommanip ops -\n")
	}

	return fs, flags
}

type opsRecord struct {
	Target    string  `json:"target" yaml:"target"`
	Path      string  `json:"path" yaml:"path"`
	Value     *string `json:"value,omitempty" yaml:"value,omitempty"`
	Operation string  `json:"operation" yaml:"operation"`
}

type opsOutput struct {
	Count      int         `json:"count" yaml:"count"`
	Operations []opsRecord `json:"operations,omitempty" yaml:"operations,omitempty"`
}

// HandleOps executes the ops command
func HandleOps(args []string) error {
	fs, flags := SetupOpsFlags()

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

	spec, err := resolveSpec(fs, flags.Properties, flags.Defines)
	if err != nil {
		return err
	}

	ops, err := opspec.Parse(spec)
	if err != nil {
		return err
	}

	output := opsOutput{Count: len(ops)}
	for _, op := range ops {
		record := opsRecord{
			Target:    op.Target,
			Path:      op.Path,
			Value:     op.Value,
			Operation: "replace",
		}
		if !op.HasValue() {
			record.Operation = "remove"
		}
		output.Operations = append(output.Operations, record)
	}

	if flags.Format == report.FormatText {
		Writef(os.Stdout, "%d operations\n", output.Count)
		for i, record := range output.Operations {
			value := "(remove)"
			if record.Value != nil {
				value = *record.Value
			}
			Writef(os.Stdout, "  [%d] %s %s %s = %s\n", i, record.Operation, record.Target, record.Path, value)
		}
		return nil
	}
	return OutputStructured(output, flags.Format)
}

// resolveSpec picks the operation spec from a positional argument, stdin,
// or the jsonUpdate property, in that order.
func resolveSpec(fs *flag.FlagSet, propsFile string, defines []string) (string, error) {
	if fs.NArg() > 1 {
		fs.Usage()
		return "", fmt.Errorf("ops command takes at most one spec argument")
	}

	if fs.NArg() == 1 {
		arg := fs.Arg(0)
		if arg != StdinFilePath {
			return arg, nil
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading spec from stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	props, err := LoadProperties(propsFile, defines)
	if err != nil {
		return "", err
	}
	spec := props.Get(state.PropJSONUpdate, "")
	if spec == "" {
		fs.Usage()
		return "", fmt.Errorf("no spec given and no jsonUpdate property set")
	}
	return spec, nil
}
