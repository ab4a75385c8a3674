package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crateinfo/pkg/integrations/crates"
)

func (c *CLI) versionsCommand() *cobra.Command {
	var (
		all         bool
		limit       int
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "versions <crate>",
		Short: "List the published versions of a crate",
		Long: `List the published versions of a crate in registry order, newest first.
Yanked versions are hidden unless --all is given.`,
		Example: `  crateinfo versions serde
  crateinfo versions --all --limit 0 adhesion
  crateinfo versions -i tokio`,
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
				return reportMissing(name, false)
			}

			if interactive {
				_, err := tea.NewProgram(NewVersionListModel(details, all), tea.WithContext(cmd.Context())).Run()
				return err
			}
			printVersionTable(details, all, limit, time.Now())
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include yanked versions")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of versions to list (0 for all)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse versions interactively")
	return cmd
}

func printVersionTable(d *crates.CrateDetails, all bool, limit int, now time.Time) {
	var (
		rows   [][]string
		yanked []bool
		hidden int
	)
	for _, v := range d.Versions {
		if v.Yanked && !all {
			hidden++
			continue
		}
		if limit > 0 && len(rows) == limit {
			continue
		}
		rows = append(rows, versionRow(v, now))
		yanked = append(yanked, v.Yanked)
	}

	if len(rows) == 0 {
		printWarning("%s has no versions to list", d.Crate.Name)
		if hidden > 0 {
			printDetail("%d yanked versions hidden, use --all to show them", hidden)
		}
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(versionHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case yanked[row]:
				return styleYanked
			case col == 0:
				return StyleNumber
			default:
				return StyleValue
			}
		})

	fmt.Fprintln(output, StyleTitle.Render(d.Crate.Name))
	fmt.Fprintln(output, t.Render())

	shown := len(rows)
	total := len(d.Versions) - hidden
	if shown < total {
		printDetail("showing %d of %d versions, use --limit 0 to show all", shown, total)
	}
	if hidden > 0 {
		printDetail("%d yanked versions hidden, use --all to show them", hidden)
	}
}
