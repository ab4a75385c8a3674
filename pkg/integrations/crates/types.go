package crates

import "time"

// CrateDetails is the "found" shape of the crates.io crate endpoint: the
// crate record together with every published version and the keyword and
// category records the crate is tagged with.
//
// Versions is expected to arrive newest first. The client does not verify
// this; see [LatestVersion].
type CrateDetails struct {
	Crate      Crate      `json:"crate"`
	Versions   []Version  `json:"versions"`
	Keywords   []Keyword  `json:"keywords"`
	Categories []Category `json:"categories"`
}

// Crate is the canonical metadata record for one named crate.
type Crate struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CreatedAt       time.Time  `json:"created_at"`
	VersionIDs      []uint64   `json:"versions"`   // IDs of the entries in CrateDetails.Versions
	Keywords        []string   `json:"keywords"`   // Keyword IDs
	Categories      []string   `json:"categories"` // Category IDs
	Badges          Badges     `json:"badges"`
	Downloads       uint64     `json:"downloads"`
	RecentDownloads uint64     `json:"recent_downloads"`
	MaxVersion      string     `json:"max_version"`
	Description     string     `json:"description"`
	Homepage        *string    `json:"homepage"`
	Documentation   string     `json:"documentation"`
	Repository      *string    `json:"repository"`
	Links           CrateLinks `json:"links"`
	ExactMatch      bool       `json:"exact_match"`
}

// CrateLinks holds API paths related to a crate.
type CrateLinks struct {
	VersionDownloads    string  `json:"version_downloads"`
	Versions            *string `json:"versions"`
	Owners              string  `json:"owners"`
	OwnerTeam           string  `json:"owner_team"`
	OwnerUser           string  `json:"owner_user"`
	ReverseDependencies string  `json:"reverse_dependencies"`
}

// Version is one published artifact of a crate.
type Version struct {
	ID         uint64    `json:"id"`
	Crate      string    `json:"crate"`
	Num        string    `json:"num"`
	DLPath     string    `json:"dl_path"`
	ReadmePath string    `json:"readme_path"`
	UpdatedAt  time.Time `json:"updated_at"`
	CreatedAt  time.Time `json:"created_at"`
	Downloads  uint64    `json:"downloads"`

	// Features maps a feature name to the features and optional
	// dependencies it enables, in declaration order.
	Features map[string][]string `json:"features"`

	// Yanked marks a version that must not be selected as latest.
	// Yanked versions still resolve for existing lockfiles.
	Yanked    bool         `json:"yanked"`
	License   string       `json:"license"`
	Links     VersionLinks `json:"links"`
	CrateSize *uint64      `json:"crate_size"`
}

// VersionLinks holds API paths related to a version.
type VersionLinks struct {
	Dependencies     string `json:"dependencies"`
	VersionDownloads string `json:"version_downloads"`
	Authors          string `json:"authors"`
}

// Keyword is a free-form tag attached to crates.
type Keyword struct {
	ID          string    `json:"id"`
	Keyword     string    `json:"keyword"`
	CreatedAt   time.Time `json:"created_at"`
	CratesCount uint64    `json:"crates_cnt"`
}

// Category is one of the curated crates.io categories.
type Category struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	CratesCount uint64    `json:"crates_cnt"`
}
