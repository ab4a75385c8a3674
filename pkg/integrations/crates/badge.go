package crates

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Badge type discriminants as sent in the badge_type field.
const (
	BadgeAppveyor    = "appveyor"
	BadgeTravisCI    = "travis-ci"
	BadgeGitLab      = "gitlab"
	BadgeCircleCI    = "circle-ci"
	BadgeCodecov     = "codecov"
	BadgeCoveralls   = "coveralls"
	BadgeMaintenance = "maintenance"
)

var (
	errMissingBadgeType  = errors.New("missing badge_type")
	errMissingRepository = errors.New("missing repository")
	errMissingStatus     = errors.New("missing status")
)

// Badge is one CI or status badge declared by a crate. On the wire it is a
// tagged union:
//
//	{"badge_type": "travis-ci", "attributes": {"repository": "serde-rs/serde"}}
//
// Type always holds the discriminant and Attributes the raw attribute object.
// Provider holds the typed variant for recognized badge types and is nil for
// types this package does not know, so new providers on the registry side
// never break decoding.
type Badge struct {
	Type       string
	Attributes json.RawMessage
	Provider   BadgeProvider
}

// BadgeProvider is implemented by the typed badge variants:
// [*AppveyorBadge], [*TravisCIBadge], [*GitLabBadge], [*CircleCIBadge],
// [*CodecovBadge], [*CoverallsBadge] and [*MaintenanceBadge].
type BadgeProvider interface {
	BadgeType() string
	validate() error
}

// AppveyorBadge is the attribute set of an "appveyor" badge.
type AppveyorBadge struct {
	ID          *string `json:"id,omitempty"`
	Service     *string `json:"service,omitempty"`
	Repository  string  `json:"repository"`
	ProjectName *string `json:"project_name,omitempty"`
	Branch      *string `json:"branch,omitempty"`
}

// TravisCIBadge is the attribute set of a "travis-ci" badge.
type TravisCIBadge struct {
	Branch     *string `json:"branch,omitempty"`
	Repository string  `json:"repository"`
}

// GitLabBadge is the attribute set of a "gitlab" badge.
type GitLabBadge struct {
	Branch     *string `json:"branch,omitempty"`
	Repository string  `json:"repository"`
}

// CircleCIBadge is the attribute set of a "circle-ci" badge.
type CircleCIBadge struct {
	Branch     *string `json:"branch,omitempty"`
	Repository string  `json:"repository"`
}

// CodecovBadge is the attribute set of a "codecov" badge.
type CodecovBadge struct {
	Branch     *string `json:"branch,omitempty"`
	Service    *string `json:"service,omitempty"`
	Repository string  `json:"repository"`
}

// CoverallsBadge is the attribute set of a "coveralls" badge.
type CoverallsBadge struct {
	Branch     *string `json:"branch,omitempty"`
	Service    *string `json:"service,omitempty"`
	Repository string  `json:"repository"`
}

// MaintenanceBadge declares the maintenance intention of a crate
// (e.g. "actively-developed", "passively-maintained", "deprecated").
type MaintenanceBadge struct {
	Status string `json:"status"`
}

func (*AppveyorBadge) BadgeType() string    { return BadgeAppveyor }
func (*TravisCIBadge) BadgeType() string    { return BadgeTravisCI }
func (*GitLabBadge) BadgeType() string      { return BadgeGitLab }
func (*CircleCIBadge) BadgeType() string    { return BadgeCircleCI }
func (*CodecovBadge) BadgeType() string     { return BadgeCodecov }
func (*CoverallsBadge) BadgeType() string   { return BadgeCoveralls }
func (*MaintenanceBadge) BadgeType() string { return BadgeMaintenance }

func (b *AppveyorBadge) validate() error  { return requireRepository(b.Repository) }
func (b *TravisCIBadge) validate() error  { return requireRepository(b.Repository) }
func (b *GitLabBadge) validate() error    { return requireRepository(b.Repository) }
func (b *CircleCIBadge) validate() error  { return requireRepository(b.Repository) }
func (b *CodecovBadge) validate() error   { return requireRepository(b.Repository) }
func (b *CoverallsBadge) validate() error { return requireRepository(b.Repository) }

func (b *MaintenanceBadge) validate() error {
	if b.Status == "" {
		return errMissingStatus
	}
	return nil
}

func requireRepository(repo string) error {
	if repo == "" {
		return errMissingRepository
	}
	return nil
}

var badgeProviders = map[string]func() BadgeProvider{
	BadgeAppveyor:    func() BadgeProvider { return new(AppveyorBadge) },
	BadgeTravisCI:    func() BadgeProvider { return new(TravisCIBadge) },
	BadgeGitLab:      func() BadgeProvider { return new(GitLabBadge) },
	BadgeCircleCI:    func() BadgeProvider { return new(CircleCIBadge) },
	BadgeCodecov:     func() BadgeProvider { return new(CodecovBadge) },
	BadgeCoveralls:   func() BadgeProvider { return new(CoverallsBadge) },
	BadgeMaintenance: func() BadgeProvider { return new(MaintenanceBadge) },
}

type wireBadge struct {
	Type       string          `json:"badge_type"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
}

// UnmarshalJSON decodes a tagged badge. A recognized type whose attributes
// are malformed is an error; an unrecognized type is not.
func (b *Badge) UnmarshalJSON(data []byte) error {
	var w wireBadge
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Type == "" {
		return errMissingBadgeType
	}

	*b = Badge{Type: w.Type, Attributes: w.Attributes}
	newProvider, ok := badgeProviders[w.Type]
	if !ok {
		return nil
	}

	p := newProvider()
	if len(w.Attributes) > 0 {
		if err := json.Unmarshal(w.Attributes, p); err != nil {
			return fmt.Errorf("badge %s: %w", w.Type, err)
		}
	}
	if err := p.validate(); err != nil {
		return fmt.Errorf("badge %s: %w", w.Type, err)
	}
	b.Provider = p
	return nil
}

// MarshalJSON encodes the badge back into its tagged wire form.
func (b Badge) MarshalJSON() ([]byte, error) {
	w := wireBadge{Type: b.Type, Attributes: b.Attributes}
	if len(w.Attributes) == 0 && b.Provider != nil {
		attrs, err := json.Marshal(b.Provider)
		if err != nil {
			return nil, err
		}
		w.Attributes = attrs
	}
	return json.Marshal(w)
}

// Badges is the badge list of a crate.
//
// Entries are decoded one at a time: an entry that fails to decode (for
// example a travis-ci badge without a repository) is dropped on its own and
// the remaining badges and the enclosing crate still decode. A badges value
// that is not a JSON array at all is a decode error.
type Badges []Badge

// UnmarshalJSON implements per-entry tolerant decoding.
func (bs *Badges) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	if len(raws) == 0 {
		*bs = nil
		return nil
	}

	out := make(Badges, 0, len(raws))
	for _, raw := range raws {
		var b Badge
		if err := json.Unmarshal(raw, &b); err != nil {
			continue
		}
		out = append(out, b)
	}
	*bs = out
	return nil
}
