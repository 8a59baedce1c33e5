package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vorburger/pom-manipulation-ext/align"
	"github.com/vorburger/pom-manipulation-ext/gav"
)

type alignCheckInput struct {
	Dependencies   []string `json:"dependencies"               jsonschema:"Project dependencies as group:artifact:version triples"`
	Managed        string   `json:"managed"                    jsonschema:"Managed candidate set as comma-separated group:artifact:version triples"`
	Strict         bool     `json:"strict,omitempty"           jsonschema:"Restrict alignment to suffix-only version changes"`
	FailOnMismatch bool     `json:"fail_on_mismatch,omitempty" jsonschema:"Treat a strict mismatch as an error instead of a warning"`
}

type alignChangeRecord struct {
	Group      string `json:"group"`
	Artifact   string `json:"artifact"`
	OldVersion string `json:"old_version"`
	NewVersion string `json:"new_version"`
}

type alignCheckOutput struct {
	Changes          []alignChangeRecord `json:"changes,omitempty"`
	UnmatchedManaged []string            `json:"unmatched_managed,omitempty"`
	Warnings         []string            `json:"warnings,omitempty"`
}

func handleAlignCheck(_ context.Context, _ *mcp.CallToolRequest, input alignCheckInput) (*mcp.CallToolResult, alignCheckOutput, error) {
	if input.Managed == "" {
		return errResult(fmt.Errorf("managed is required")), alignCheckOutput{}, nil
	}

	managed, err := gav.ParseRefs(input.Managed)
	if err != nil {
		return errResult(err), alignCheckOutput{}, nil
	}

	deps := make([]align.Dependency, 0, len(input.Dependencies))
	for _, d := range input.Dependencies {
		ref, err := gav.ParseRef(d)
		if err != nil {
			return errResult(err), alignCheckOutput{}, nil
		}
		deps = append(deps, align.Dependency{VersionRef: ref})
	}

	aligner := &align.Aligner{
		Policy: align.Policy{
			Strict:          input.Strict,
			FailOnViolation: input.FailOnMismatch,
		},
		Managed:              managed,
		OverrideDependencies: true,
		OverrideTransitive:   true,
	}

	result, err := aligner.Align(deps)
	if err != nil {
		return errResult(err), alignCheckOutput{}, nil
	}

	output := alignCheckOutput{Warnings: result.Warnings}
	for _, c := range result.Changes {
		output.Changes = append(output.Changes, alignChangeRecord{
			Group:      c.Group,
			Artifact:   c.Artifact,
			OldVersion: c.OldVersion,
			NewVersion: c.NewVersion,
		})
	}
	for _, ref := range result.UnmatchedManaged {
		output.UnmatchedManaged = append(output.UnmatchedManaged, ref.String())
	}

	return nil, output, nil
}
