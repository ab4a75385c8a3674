// Package crates provides a typed client for the crates.io crate metadata API.
//
// # Overview
//
// This package fetches crate metadata from crates.io (https://crates.io),
// the Rust community's package registry, and derives the latest usable
// version of a crate.
//
// # Usage
//
//	client := crates.NewClient()
//
//	details, found, err := client.FetchCrate(ctx, "serde")
//	switch {
//	case err != nil:
//	    log.Fatal(err)
//	case !found:
//	    fmt.Println("no such crate")
//	default:
//	    fmt.Println(details.Crate.Name, details.Crate.MaxVersion)
//	}
//
//	rel, ok, err := client.LatestVersionOf(ctx, "serde")
//
// # Outcomes
//
// crates.io reports a missing crate with an error body rather than relying
// on the status code alone, so [Client.FetchCrate] decides by body shape:
//
//   - a body with a "crate" object is a found crate
//   - a body with an "errors" list holding exactly one "Not Found" entry is
//     an absent crate, reported as found == false with a nil error
//   - any other "errors" list is an [*APIError] that keeps every detail
//   - everything else (network failure, invalid JSON, a body with both or
//     neither key) is a [*TransportError] wrapping the cause
//
// # Latest Version
//
// [LatestVersion] skips yanked versions and returns the first remaining
// one, trusting the registry's newest-first order. [LatestVersionByDate]
// re-derives recency from the CreatedAt timestamps for callers that prefer
// not to trust the order.
//
// # Badges
//
// Badge entries are decoded individually. Unknown badge types are kept as
// opaque [Badge] values with a nil Provider, and a recognized badge with
// malformed attributes is dropped without failing the crate.
//
// # User-Agent
//
// The client includes a User-Agent header as requested by crates.io policy.
package crates
