package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vorburger/pom-manipulation-ext/docio"
	"github.com/vorburger/pom-manipulation-ext/patch"
)

type patchInput struct {
	Document string `json:"document"           jsonschema:"Path to the JSON or YAML document to patch"`
	Spec     string `json:"spec"               jsonschema:"The operation spec to apply"`
	DryRun   bool   `json:"dry_run,omitempty"  jsonschema:"Preview which paths resolve without modifying the file"`
	Output   string `json:"output,omitempty"   jsonschema:"Write the patched document here instead of overwriting the input"`
}

type patchToolOutput struct {
	Document string                 `json:"document"`
	Applied  int                    `json:"applied"`
	Changes  []patch.ChangeRecord   `json:"changes,omitempty"`
	Proposed []patch.ProposedChange `json:"proposed,omitempty"`
	// WrittenTo is the file the patched document was saved to.
	WrittenTo string `json:"written_to,omitempty"`
}

func handlePatch(_ context.Context, _ *mcp.CallToolRequest, input patchInput) (*mcp.CallToolResult, patchToolOutput, error) {
	if input.Document == "" {
		return errResult(fmt.Errorf("document is required")), patchToolOutput{}, nil
	}
	if input.Spec == "" {
		return errResult(fmt.Errorf("spec is required")), patchToolOutput{}, nil
	}

	output := patchToolOutput{Document: input.Document}

	if input.DryRun {
		preview, err := patch.DryRunWithOptions(
			patch.WithDocumentFilePath(input.Document),
			patch.WithOperationSpec(input.Spec),
		)
		if err != nil {
			return errResult(err), patchToolOutput{}, nil
		}
		output.Applied = preview.WouldApply
		output.Proposed = preview.Changes
		return nil, output, nil
	}

	result, doc, err := patch.ApplyWithOptions(
		patch.WithDocumentFilePath(input.Document),
		patch.WithOperationSpec(input.Spec),
	)
	if err != nil {
		return errResult(err), patchToolOutput{}, nil
	}

	dest := input.Output
	if dest == "" {
		dest = doc.SourcePath
	}
	if err := docio.Save(doc, dest); err != nil {
		return errResult(err), patchToolOutput{}, nil
	}

	output.Applied = result.Applied
	output.Changes = result.Changes
	output.WrittenTo = dest
	return nil, output, nil
}
