// Package cargo reports how far a Cargo manifest's dependencies lag behind
// crates.io.
//
// [ReadManifest] extracts the registry dependencies of a Cargo.toml in
// document order; [Check] looks up the latest release of each one,
// concurrently and paced to respect the crates.io crawler policy:
//
//	m, err := cargo.ReadManifest("Cargo.toml")
//	if err != nil {
//	    return err
//	}
//	statuses, err := cargo.Check(ctx, client, m.Select(cargo.KindNormal), cargo.Options{})
//	for _, s := range statuses {
//	    if s.Outdated() {
//	        fmt.Println(s.Dependency.Crate, s.Dependency.Requirement, "->", s.Latest)
//	    }
//	}
//
// Path, git, workspace-inherited and alternate-registry dependencies are not
// published on crates.io and are reported in [Manifest.Skipped] instead.
package cargo
