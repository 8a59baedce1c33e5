// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the manipulation tooling as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	pomext "github.com/vorburger/pom-manipulation-ext"
)

const serverInstructions = `pommanip MCP server: parses manipulation operation specs, patches JSON/YAML documents, and checks dependency alignment against a managed candidate set.

Operation specs are comma-separated target:path:value records; escape literal delimiters with a backslash. Managed sets are comma-separated group:artifact:version triples.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "pommanip", Version: pomext.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_operations",
		Description: "Parse a manipulation operation spec into structured operations. Each record is target:path:value with ',' separating records; backslash escapes literal delimiters. Returns the operations in declaration order, or the malformed record on failure.",
	}, handleParseOperations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "patch",
		Description: "Apply an operation spec to a JSON or YAML document file. Paths must resolve to existing nodes; nothing is created. Use dry_run=true to preview which paths resolve without modifying the file. Use output to write the result to a different file.",
	}, handlePatch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "align_check",
		Description: "Check project dependencies against a managed candidate set. Dependencies and the managed set are group:artifact:version triples. With strict=true a candidate only matches when the proposed version equals the current one or extends it with a '-' or '.' suffix.",
	}, handleAlignCheck)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
