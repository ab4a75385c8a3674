// Package pkg provides the libraries behind crateinfo, a crates.io metadata
// client and dependency checker.
//
// # Overview
//
// The pkg directory is organized by concern:
//
//  1. [integrations] - HTTP transport and the typed crates.io client
//  2. [cargo] - Cargo.toml parsing and concurrent freshness checks
//  3. [server] - JSON HTTP API over the crates.io client
//  4. [config] - TOML configuration file and environment overrides
//  5. [errors] - Error codes shared by the CLI and the server
//
// # Architecture
//
// The typical data flow:
//
//	Cargo.toml / crate name
//	         ↓
//	    [cargo] package (select registry dependencies)
//	         ↓
//	    [crates] package (fetch metadata, pick latest version)
//	         ↓
//	    CLI table, TUI browser, or JSON API response
//
// # Quick Start
//
// Look up the latest usable version of a crate:
//
//	client := crates.NewClient()
//	rel, ok, err := client.LatestVersionOf(ctx, "serde")
//	if err != nil {
//	    return err
//	}
//	if !ok {
//	    fmt.Println("no such crate or no unyanked versions")
//	}
//	fmt.Println(rel.CrateID, rel.Version.Num)
//
// Check a manifest for outdated dependencies:
//
//	m, _ := cargo.ReadManifest("Cargo.toml")
//	statuses, _ := cargo.Check(ctx, client, m.Select(cargo.KindNormal), cargo.Options{
//	    Concurrency:       4,
//	    RequestsPerSecond: 1,
//	})
//
// # Main Packages
//
// [crates] - Typed crates.io client. Discriminates found, not-found and
// error bodies, and distinguishes transport failures from registry errors.
//
// [observability] - Hooks for registry HTTP traffic and crate queries. The
// CLI registers logging hooks in verbose mode.
//
// [buildinfo] - Version information and the User-Agent sent to crates.io.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include live crates.io tests
//
// [integrations]: https://pkg.go.dev/github.com/matzehuels/crateinfo/pkg/integrations
// [crates]: https://pkg.go.dev/github.com/matzehuels/crateinfo/pkg/integrations/crates
// [cargo]: https://pkg.go.dev/github.com/matzehuels/crateinfo/pkg/cargo
// [server]: https://pkg.go.dev/github.com/matzehuels/crateinfo/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/crateinfo/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/crateinfo/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/crateinfo/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/crateinfo/pkg/buildinfo
package pkg
