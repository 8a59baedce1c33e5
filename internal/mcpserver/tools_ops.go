package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vorburger/pom-manipulation-ext/opspec"
)

type parseOperationsInput struct {
	Spec string `json:"spec" jsonschema:"The operation spec string to parse"`
}

type operationRecord struct {
	Target    string  `json:"target"`
	Path      string  `json:"path"`
	Value     *string `json:"value,omitempty"`
	Operation string  `json:"operation"`
}

type parseOperationsOutput struct {
	Operations []operationRecord `json:"operations,omitempty"`
	Count      int               `json:"count"`
}

func handleParseOperations(_ context.Context, _ *mcp.CallToolRequest, input parseOperationsInput) (*mcp.CallToolResult, parseOperationsOutput, error) {
	ops, err := opspec.Parse(input.Spec)
	if err != nil {
		return errResult(err), parseOperationsOutput{}, nil
	}

	output := parseOperationsOutput{Count: len(ops)}
	for _, op := range ops {
		record := operationRecord{
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

	return nil, output, nil
}
