package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crateinfo/pkg/integrations/crates"
)

func (c *CLI) latestCommand() *cobra.Command {
	var (
		byDate      bool
		failMissing bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "latest <crate>...",
		Short: "Print the latest non-yanked version of crates",
		Long: `Print the latest version of each crate that has not been yanked.

crates.io lists versions newest first and this order is trusted by default.
Use --by-date to pick the most recently published version instead.`,
		Example: `  crateinfo latest serde
  crateinfo latest --by-date tokio anyhow
  crateinfo latest --json serde`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := c.newClient()
			if err != nil {
				return err
			}

			selectLatest := crates.LatestVersion
			if byDate {
				selectLatest = crates.LatestVersionByDate
			}

			var missing []string
			for _, name := range args {
				details, found, err := client.FetchCrate(cmd.Context(), name)
				if err != nil {
					return err
				}
				var (
					rel crates.Release
					ok  bool
				)
				if found {
					rel, ok = selectLatest(details)
				}
				if !ok {
					missing = append(missing, name)
					if found {
						printWarning("crate %q has no non-yanked version", name)
					} else {
						printWarning("crate %q not found on crates.io", name)
					}
					continue
				}

				if asJSON {
					data, err := json.Marshal(rel)
					if err != nil {
						return err
					}
					fmt.Fprintln(output, string(data))
					continue
				}
				fmt.Fprintln(output, StyleValue.Render(rel.CrateID)+" "+StyleNumber.Render(rel.Version.Num))
			}

			if failMissing && len(missing) > 0 {
				return fmt.Errorf("%w: %v", errMissing, missing)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&byDate, "by-date", false, "select by publish date instead of registry order")
	cmd.Flags().BoolVar(&failMissing, "fail-missing", false, "exit with an error when a crate is missing or fully yanked")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print each release as a JSON object")
	return cmd
}
