package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/vorburger/pom-manipulation-ext/align"
	"github.com/vorburger/pom-manipulation-ext/gav"
	"github.com/vorburger/pom-manipulation-ext/report"
	"github.com/vorburger/pom-manipulation-ext/state"
)

// AlignFlags contains flags for the align command
type AlignFlags struct {
	Properties string
	Defines    defineFlag
	Format     string
	Verbosity  int
}

// SetupAlignFlags creates and configures a FlagSet for the align command.
// Returns the FlagSet and an AlignFlags struct with bound flag variables.
func SetupAlignFlags() (*flag.FlagSet, *AlignFlags) {
	fs := flag.NewFlagSet("align", flag.ContinueOnError)
	flags := &AlignFlags{}

	fs.StringVar(&flags.Properties, "properties", "", "YAML properties file supplying dependencyManagement and policy flags")
	fs.Var(&flags.Defines, "D", "property override as key=value (repeatable)")
	fs.StringVar(&flags.Format, "format", report.FormatText, "output format: text, json, or yaml")
	fs.IntVar(&flags.Verbosity, "verbosity", 0, "log verbosity (0=warn, 1=info, 2=debug)")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: pommanip align [flags] <dependency>...\n\n")
		Writef(output, "Align project dependencies against the managed candidate set.\n")
		Writef(output, "Dependencies are group:artifact:version triples; the managed set comes\n")
		Writef(output, "from the dependencyManagement property.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  pommanip align -D 'dependencyManagement=org.goots:testing:1.3' org.goots:testing:1.2\n")
		Writef(output, "  pommanip align --properties build.yaml --format json junit:junit:4.1\n")
		Writef(output, "  pommanip align -D 'dependencyManagement=junit:junit:4.1.3' -D strictAlignment=true junit:junit:4.1\n")
	}

	return fs, flags
}

// HandleAlign executes the align command
func HandleAlign(args []string) error {
	fs, flags := SetupAlignFlags()

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
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("align command requires at least one dependency")
	}

	props, err := LoadProperties(flags.Properties, flags.Defines)
	if err != nil {
		return err
	}

	depState, err := state.NewDependencyState(props)
	if err != nil {
		return err
	}
	if !depState.IsEnabled() {
		return fmt.Errorf("no managed candidate set: the dependencyManagement property is empty")
	}

	deps := make([]align.Dependency, 0, fs.NArg())
	for _, arg := range fs.Args() {
		ref, err := gav.ParseRef(arg)
		if err != nil {
			return err
		}
		deps = append(deps, align.Dependency{VersionRef: ref})
	}

	log := EngineLogger("align")
	log.Debug("aligning dependencies", "count", len(deps), "managed", len(depState.DepMgmt), "strict", depState.Strict)

	result, err := depState.NewAligner().Align(deps)
	if err != nil {
		return err
	}

	session := state.NewSession(props)
	session.MergePropertyUpdates(result.PropertyUpdates)

	return OutputReport(report.Build(session, result, nil), flags.Format)
}
