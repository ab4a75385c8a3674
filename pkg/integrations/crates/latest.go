package crates

// Release pairs a crate's identity with one of its versions.
type Release struct {
	CrateID string  `json:"crate"`
	Version Version `json:"version"`
}

// LatestVersion returns the first non-yanked version of d, paired with the
// crate ID.
//
// It performs no sorting. crates.io documents its version list as newest
// first and LatestVersion relies on that: if the registry ever returned a
// different order, the result would be a stale version rather than an
// error. Use [LatestVersionByDate] to re-derive recency from timestamps.
//
// A nil d, an empty version list, or a list in which every version is
// yanked yields ok == false.
func LatestVersion(d *CrateDetails) (rel Release, ok bool) {
	if d == nil {
		return Release{}, false
	}
	for _, v := range d.Versions {
		if v.Yanked {
			continue
		}
		return Release{CrateID: d.Crate.ID, Version: v}, true
	}
	return Release{}, false
}

// LatestVersionByDate is the order-independent variant of [LatestVersion]:
// among the non-yanked versions it picks the one with the latest CreatedAt.
// On equal timestamps the earlier entry in the list wins.
func LatestVersionByDate(d *CrateDetails) (rel Release, ok bool) {
	if d == nil {
		return Release{}, false
	}
	var best *Version
	for i := range d.Versions {
		v := &d.Versions[i]
		if v.Yanked {
			continue
		}
		if best == nil || v.CreatedAt.After(best.CreatedAt) {
			best = v
		}
	}
	if best == nil {
		return Release{}, false
	}
	return Release{CrateID: d.Crate.ID, Version: *best}, true
}
