package crates

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelope is the decoded body of the crate endpoint. Exactly one of found
// and errors is set.
type envelope struct {
	found  *CrateDetails
	errors []ErrorDetail
}

// decodeEnvelope discriminates the two body shapes of the crate endpoint.
// The wire format has no tag field, so the shape is chosen by which
// top-level key is present: "crate" for a found crate, "errors" for the
// error list. A null value counts as absent. Bodies with both keys or with
// neither are rejected with ErrSchemaMismatch rather than guessed at.
func decodeEnvelope(body []byte) (envelope, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return envelope{}, fmt.Errorf("decode response: %w", err)
	}

	hasCrate := present(keys, "crate")
	hasErrors := present(keys, "errors")

	switch {
	case hasCrate && hasErrors:
		return envelope{}, fmt.Errorf("%w: both %q and %q present", ErrSchemaMismatch, "crate", "errors")

	case hasCrate:
		var d CrateDetails
		if err := json.Unmarshal(body, &d); err != nil {
			return envelope{}, fmt.Errorf("decode crate: %w", err)
		}
		return envelope{found: &d}, nil

	case hasErrors:
		var e struct {
			Errors []ErrorDetail `json:"errors"`
		}
		if err := json.Unmarshal(body, &e); err != nil {
			return envelope{}, fmt.Errorf("decode errors: %w", err)
		}
		if len(e.Errors) == 0 {
			return envelope{}, fmt.Errorf("%w: empty %q list", ErrSchemaMismatch, "errors")
		}
		return envelope{errors: e.Errors}, nil

	default:
		return envelope{}, fmt.Errorf("%w: neither %q nor %q present", ErrSchemaMismatch, "crate", "errors")
	}
}

func present(keys map[string]json.RawMessage, key string) bool {
	raw, ok := keys[key]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
