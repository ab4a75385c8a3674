// Package integrations provides the shared HTTP transport for package registry APIs.
//
// # Overview
//
// Registry-specific clients live in subpackages:
//
//   - [crates]: Rust crates.io
//
// # Client Pattern
//
// Registry clients embed or wrap [Client], which performs GET requests with
// default headers (crates.io, for instance, rejects requests without a
// User-Agent) and returns the status code together with the raw body:
//
//	c := integrations.NewClient(nil, map[string]string{"User-Agent": "crateinfo"})
//	resp, err := c.Fetch(ctx, "https://crates.io/api/v1/crates/serde")
//
// The transport never retries and never caches. Status codes are reported,
// not interpreted, because some registries answer "not found" with a
// structured body rather than a status.
//
// # Adding a New Registry
//
//  1. Create a subpackage: pkg/integrations/<registry>/
//  2. Define response structs matching the API schema
//  3. Implement a Client that decodes [Response.Body]
//
// [crates]: github.com/matzehuels/crateinfo/pkg/integrations/crates
package integrations
