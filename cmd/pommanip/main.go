package main

import (
	"fmt"
	"os"

	pomext "github.com/vorburger/pom-manipulation-ext"
	"github.com/vorburger/pom-manipulation-ext/cmd/pommanip/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("pommanip v%s\n", pomext.Version())
	case "help", "-h", "--help":
		printUsage()
	case "ops":
		if err := commands.HandleOps(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "patch":
		if err := commands.HandlePatch(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "align":
		if err := commands.HandleAlign(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := commands.HandleMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("pommanip - manipulate dependency alignment and JSON/YAML documents for reproducible builds")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pommanip <command> [flags] [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  ops       Parse and validate an operation spec")
	fmt.Println("  patch     Apply an operation spec to its target documents")
	fmt.Println("  align     Align dependencies against a managed candidate set")
	fmt.Println("  mcp       Serve the tools over the Model Context Protocol on stdio")
	fmt.Println("  version   Print the version")
	fmt.Println("  help      Show this help")
	fmt.Println()
	fmt.Println("Run 'pommanip <command> -h' for command-specific flags.")
	fmt.Println()
	fmt.Println("Properties:")
	fmt.Println("  Commands read build properties from --properties <file.yaml>, POMMANIP_*")
	fmt.Println("  environment variables, and repeatable -D key=value overrides, in")
	fmt.Println("  increasing precedence.")
}
