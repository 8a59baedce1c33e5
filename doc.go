// Package pomext provides build-time project manipulation driven by flat
// key/value properties.
//
// A build tool hands the library a set of user properties; the library turns
// selected properties into structured, executable edit operations against
// project documents (JSON trees and POM-like dependency lists) and into a
// dependency-alignment policy for managed versions.
//
// # Overview
//
// The library consists of these packages:
//
//   - opspec: parse the operation micro-language (target:path:value records
//     with backslash escaping) into structured operations
//   - gav: parse group:artifact:version coordinate lists
//   - align: decide whether a candidate version is compatible with a managed
//     version under strict or loose rules, and align project dependencies
//   - patch: apply operations to loaded documents by JSONPath
//   - state: immutable per-build configuration snapshots built from the raw
//     properties, plus the session that accumulates applied changes
//   - docio: load and store the JSON/YAML documents that patch operates on
//   - report: render the accumulated changes for build reporting
//   - pomerrors: structured error types shared across packages
//
// # Quick Start
//
// Parse configuration and patch a document:
//
//	import (
//		"github.com/vorburger/pom-manipulation-ext/docio"
//		"github.com/vorburger/pom-manipulation-ext/patch"
//		"github.com/vorburger/pom-manipulation-ext/state"
//	)
//
//	props := state.Properties{
//		"jsonUpdate": "package.json:$.repository.url:https://example.com/repo",
//	}
//	js, err := state.NewJSONState(props)
//	if err != nil {
//		log.Fatal(err)
//	}
//	doc, err := docio.Load("package.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if _, err := patch.ApplyAll(doc.Data, js.Operations); err != nil {
//		log.Fatal(err)
//	}
//	err = docio.Save(doc, "package.json")
//
// Check a candidate version against a managed baseline:
//
//	import "github.com/vorburger/pom-manipulation-ext/align"
//
//	align.Decide("1.1-rebuild-1", "1.1", true)  // align.Match
//	align.Decide("1.2", "1.1", true)            // align.Mismatch
//
// # Error Handling
//
// All packages surface failures as structured errors from the pomerrors
// package, usable with errors.Is and errors.As. Parser errors name the
// offending raw substring; patcher errors name the unresolved path and the
// target document, so callers can produce actionable diagnostics without
// re-parsing.
//
// # Concurrency
//
// Configuration states and sessions are built once per build pass and are not
// safe for concurrent mutation. Create separate instances for concurrent use.
//
// # Command-Line Interface
//
// In addition to the library packages, a command-line interface is provided:
//
//	# Parse and inspect an operation spec
//	pommanip ops 'file.json:$.repository.url:https://example.com/repo'
//
//	# Apply an operation spec to documents in a directory
//	pommanip patch --spec 'package.json:$.version:2.0.0' ./project
//
//	# Align dependencies against a managed candidate set
//	pommanip align -D 'dependencyManagement=org.goots:testing:1.3' org.goots:testing:1.2
//
// Install the CLI:
//
//	go install github.com/vorburger/pom-manipulation-ext/cmd/pommanip@latest
package pomext
