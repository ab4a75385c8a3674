package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crateinfo/pkg/integrations"
	"github.com/matzehuels/crateinfo/pkg/integrations/crates"
)

func (c *CLI) infoCommand() *cobra.Command {
	var failMissing bool

	cmd := &cobra.Command{
		Use:   "info <crate>",
		Short: "Show a crate's metadata",
		Long: `Show the crates.io record of a crate: description, latest versions,
download counts, links, keywords, categories and badges.`,
		Example: `  crateinfo info serde
  crateinfo info --api-root http://localhost:8888/api/v1 my-crate`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := c.newClient()
			if err != nil {
				return err
			}
			name := args[0]

			details, found, err := client.FetchCrate(cmd.Context(), name)
			if err != nil {
				return err
			}
			if !found {
				return reportMissing(name, failMissing)
			}
			printCrate(details)
			return nil
		},
	}

	cmd.Flags().BoolVar(&failMissing, "fail-missing", false, "exit with an error when the crate does not exist")
	return cmd
}

// reportMissing prints the not-found warning. It only fails the command when
// the user asked for it.
func reportMissing(name string, fail bool) error {
	printWarning("crate %q not found on crates.io", name)
	if fail {
		return fmt.Errorf("%w: %s", errMissing, name)
	}
	return nil
}

func printCrate(d *crates.CrateDetails) {
	cr := d.Crate

	fmt.Fprintln(output, StyleTitle.Render(cr.Name)+" "+StyleHighlight.Render(cr.MaxVersion))
	if cr.Description != "" {
		printDetail("%s", cr.Description)
	}
	printNewline()

	latest, hasLatest := crates.LatestVersion(d)
	if hasLatest && latest.Version.Num != cr.MaxVersion {
		printKeyValue("Latest", latest.Version.Num)
	}
	printKeyValue("Downloads", formatCount(cr.Downloads))
	printKeyValue("Recent", formatCount(cr.RecentDownloads))
	printKeyValue("Versions", fmt.Sprintf("%d", len(d.Versions)))
	if hasLatest {
		printKeyValue("License", latest.Version.License)
	}
	printKeyValue("Created", cr.CreatedAt.Format("2006-01-02"))
	printKeyValue("Updated", cr.UpdatedAt.Format("2006-01-02"))
	printKeyLink("Homepage", cr.Homepage)
	if cr.Documentation != "" {
		printKeyLink("Docs", &cr.Documentation)
	}
	if cr.Repository != nil {
		repo := integrations.NormalizeRepoURL(*cr.Repository)
		printKeyLink("Repository", &repo)
	}

	keywords := make([]string, len(d.Keywords))
	for i, k := range d.Keywords {
		keywords[i] = k.Keyword
	}
	printKeyList("Keywords", keywords)

	categories := make([]string, len(d.Categories))
	for i, cat := range d.Categories {
		categories[i] = cat.Category
	}
	printKeyList("Categories", categories)

	if len(cr.Badges) > 0 {
		badges := make([]string, len(cr.Badges))
		for i, b := range cr.Badges {
			badges[i] = describeBadge(b)
		}
		printKeyList("Badges", badges)
	}
}

func describeBadge(b crates.Badge) string {
	switch p := b.Provider.(type) {
	case *crates.MaintenanceBadge:
		return "maintenance: " + p.Status
	case *crates.TravisCIBadge:
		return b.Type + " " + p.Repository
	case *crates.AppveyorBadge:
		return b.Type + " " + p.Repository
	case *crates.GitLabBadge:
		return b.Type + " " + p.Repository
	case *crates.CircleCIBadge:
		return b.Type + " " + p.Repository
	case *crates.CodecovBadge:
		return b.Type + " " + p.Repository
	case *crates.CoverallsBadge:
		return b.Type + " " + p.Repository
	default:
		return b.Type
	}
}
