// Package server exposes crate lookups over HTTP.
//
// Routes:
//
//	GET /healthz                           {"status":"ok"}
//	GET /api/v1/crates/{name}              full crate metadata
//	GET /api/v1/crates/{name}/latest       latest non-yanked version
//	GET /api/v1/crates/{name}/latest?order=date
//
// Failures are reported as
//
//	{"error":{"code":"REGISTRY_ERROR","message":"...","details":["..."]},"request_id":"..."}
//
// with the status chosen by errors.HTTPStatus: 404 for a missing crate, 502
// when crates.io reports an error or answers with something unreadable, and
// 503 when crates.io cannot be reached.
package server
