package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crateinfo/pkg/cargo"
)

func (c *CLI) outdatedCommand() *cobra.Command {
	var (
		dev      bool
		build    bool
		showAll  bool
		failFlag bool
	)

	cmd := &cobra.Command{
		Use:   "outdated [Cargo.toml]",
		Short: "Check a Cargo manifest for outdated dependencies",
		Long: `Look up the latest release of every crates.io dependency in a Cargo
manifest and list those whose requirement is behind it.

Lookups run concurrently but are paced (see concurrency and
requests_per_second in the config file) to respect the crates.io crawler
policy.`,
		Example: `  crateinfo outdated
  crateinfo outdated --dev --build path/to/Cargo.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			path := "Cargo.toml"
			if len(args) == 1 {
				path = args[0]
			}
			manifest, err := cargo.ReadManifest(path)
			if err != nil {
				return err
			}

			kinds := []cargo.Kind{cargo.KindNormal}
			if dev {
				kinds = append(kinds, cargo.KindDev)
			}
			if build {
				kinds = append(kinds, cargo.KindBuild)
			}
			deps := manifest.Select(kinds...)
			if len(deps) == 0 {
				printInfo("no crates.io dependencies in %s", path)
				return nil
			}

			client, cfg, err := c.newClient()
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Checking %d dependencies...", len(deps)))
			spinner.Start()
			prog := newProgress(logger)
			statuses, err := cargo.Check(ctx, client, deps, cargo.Options{
				Concurrency:       cfg.Concurrency,
				RequestsPerSecond: cfg.RequestsPerSecond,
				Logger:            logger,
				OnProgress: func(done, total int) {
					spinner.SetMessage(fmt.Sprintf("Checking dependencies... %d/%d", done, total))
				},
			})
			spinner.Stop()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Checked %d dependencies", len(deps)))

			outdated := printOutdated(manifest, statuses, showAll)
			if failFlag && outdated > 0 {
				return fmt.Errorf("%d outdated dependencies", outdated)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dev, "dev", false, "include dev-dependencies")
	cmd.Flags().BoolVar(&build, "build", false, "include build-dependencies")
	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "list up-to-date dependencies too")
	cmd.Flags().BoolVar(&failFlag, "fail-outdated", false, "exit with an error when anything is outdated")
	return cmd
}

// printOutdated renders the report and returns the number of outdated
// dependencies.
func printOutdated(m *cargo.Manifest, statuses []cargo.Status, showAll bool) int {
	var (
		rows     [][]string
		styles   []lipgloss.Style
		outdated int
		failed   []cargo.Status
	)
	for _, st := range statuses {
		d := st.Dependency
		name := d.Crate
		if d.Name != d.Crate {
			name = d.Name + " (" + d.Crate + ")"
		}
		req := d.Requirement
		if req == "" {
			req = "*"
		}

		switch {
		case st.Err != nil:
			failed = append(failed, st)
		case !st.Found:
			rows = append(rows, []string{name, req, "—", "missing"})
			styles = append(styles, StyleWarning)
		case st.Outdated():
			outdated++
			rows = append(rows, []string{name, req, st.Latest, "outdated"})
			styles = append(styles, StyleWarning)
		case showAll:
			rows = append(rows, []string{name, req, st.Latest, "ok"})
			styles = append(styles, StyleDim)
		}
	}

	title := "dependencies"
	if m.Name != "" {
		title = m.Name + " " + m.Version
	}
	fmt.Fprintln(output, StyleTitle.Render(title))

	if len(rows) > 0 {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("Crate", "Requirement", "Latest", "Status").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return styleHeader
				}
				if col == 2 {
					return StyleNumber
				}
				return styles[row]
			})
		fmt.Fprintln(output, t.Render())
	}

	for _, st := range failed {
		msg, details := describeError(st.Err)
		printError("%s", msg)
		for _, d := range details {
			printDetail("%s", d)
		}
	}

	switch {
	case outdated == 0 && len(failed) == 0:
		printSuccess("all %d dependencies are up to date", len(statuses))
	case outdated > 0:
		printWarning("%d of %d dependencies are outdated", outdated, len(statuses))
	}
	if len(m.Skipped) > 0 {
		printDetail("skipped %d non-registry dependencies", len(m.Skipped))
	}
	if outdated > 0 {
		printNextStep("Inspect one", "crateinfo versions <crate>")
	}
	return outdated
}
