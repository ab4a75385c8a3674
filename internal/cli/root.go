package cli

import (
	"errors"
	"fmt"
	"strings"

	cerrors "github.com/matzehuels/crateinfo/pkg/errors"
	"github.com/matzehuels/crateinfo/pkg/integrations/crates"
)

// errMissing is returned by commands run with --fail-missing when the crate
// does not exist or has no usable version.
var errMissing = errors.New("crate not found")

// describeError turns a crate query failure into a short message and a list
// of detail lines for printError/printDetail.
func describeError(err error) (string, []string) {
	var apiErr *crates.APIError
	if errors.As(err, &apiErr) {
		details := make([]string, len(apiErr.Details))
		for i, d := range apiErr.Details {
			details[i] = d.Detail
		}
		return fmt.Sprintf("crates.io rejected the request for %q", apiErr.Crate), details
	}

	var transportErr *crates.TransportError
	if errors.As(err, &transportErr) {
		switch cerrors.Classify(err) {
		case cerrors.ErrCodeNetwork:
			return fmt.Sprintf("could not reach crates.io while looking up %q", transportErr.Crate), []string{transportErr.Err.Error()}
		default:
			return fmt.Sprintf("unexpected response from crates.io for %q", transportErr.Crate), []string{transportErr.Err.Error()}
		}
	}
	return err.Error(), nil
}

// FormatError renders a command failure for the terminal: an error line
// followed by indented detail lines.
func FormatError(err error) string {
	msg, details := describeError(err)
	var b strings.Builder
	b.WriteString(styleIconError.Render(iconError) + " " + msg)
	for _, d := range details {
		b.WriteString("\n  " + StyleDim.Render(d))
	}
	return b.String()
}
