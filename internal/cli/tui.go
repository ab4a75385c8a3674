package cli

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/crateinfo/pkg/integrations/crates"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// VersionListModel - Interactive version browser
// =============================================================================

// VersionListModel is the bubbletea model for browsing a crate's versions.
type VersionListModel struct {
	Crate      string
	All        []crates.Version
	ShowYanked bool
	Cursor     int
	Offset     int
	Height     int
	// Detail is true while the selected version's details are shown.
	Detail bool

	now time.Time
}

// NewVersionListModel creates a version browser for d.
func NewVersionListModel(d *crates.CrateDetails, showYanked bool) VersionListModel {
	return VersionListModel{
		Crate:      d.Crate.Name,
		All:        d.Versions,
		ShowYanked: showYanked,
		Height:     15,
		now:        time.Now(),
	}
}

// visible returns the versions currently listed.
func (m VersionListModel) visible() []crates.Version {
	if m.ShowYanked {
		return m.All
	}
	return slices.DeleteFunc(slices.Clone(m.All), func(v crates.Version) bool { return v.Yanked })
}

// Current returns the version under the cursor.
func (m VersionListModel) Current() (crates.Version, bool) {
	vs := m.visible()
	if m.Cursor < 0 || m.Cursor >= len(vs) {
		return crates.Version{}, false
	}
	return vs[m.Cursor], true
}

func (m VersionListModel) Init() tea.Cmd {
	return nil
}

func (m VersionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Detail {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "enter", "backspace":
				m.Detail = false
			}
			return m, nil
		}

		n := len(m.visible())
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "y":
			m.ShowYanked = !m.ShowYanked
			m.Cursor, m.Offset = 0, 0
		case "enter":
			if n > 0 {
				m.Detail = true
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-7, 5)
	}
	return m, nil
}

func (m VersionListModel) View() string {
	if m.Detail {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Crate))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  y toggle yanked  q quit"))
	b.WriteString("\n\n")

	vs := m.visible()
	if len(vs) == 0 {
		b.WriteString(StyleWarning.Render("no versions to show"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(vs))
	window := vs[m.Offset:end]

	rows := make([][]string, len(window))
	for i, v := range window {
		cursor := "  "
		if m.Offset+i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = append([]string{cursor}, versionRow(v, m.now)...)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(append([]string{""}, versionHeaders...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(vs) {
				return lipgloss.NewStyle()
			}
			switch {
			case vs[idx].Yanked:
				return listDimStyle
			case idx == m.Cursor:
				return listSelectedStyle
			default:
				return listNormalStyle
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(vs))))
	return b.String()
}

func (m VersionListModel) detailView() string {
	v, ok := m.Current()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Crate+" "+v.Num))
	if v.Yanked {
		b.WriteString(" " + StyleWarning.Render("(yanked)"))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("⏎/esc back  q quit"))
	b.WriteString("\n\n")

	line := func(key, value string) {
		if value == "" {
			return
		}
		b.WriteString(styleKey.Render(key) + " " + StyleValue.Render(value) + "\n")
	}
	line("Published", v.CreatedAt.Format("2006-01-02 15:04"))
	line("Downloads", formatCount(v.Downloads))
	line("License", v.License)
	if v.CrateSize != nil {
		line("Size", formatSize(*v.CrateSize))
	}
	line("Download", v.DLPath)

	if len(v.Features) > 0 {
		b.WriteString("\n" + styleHeader.Render("Features") + "\n")
		names := make([]string, 0, len(v.Features))
		for name := range v.Features {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			enables := strings.Join(v.Features[name], ", ")
			b.WriteString("  " + listNormalStyle.Render(name) + " " + listDimStyle.Render(iconArrow+" ["+enables+"]") + "\n")
		}
	}
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

var versionHeaders = []string{"Version", "Published", "Downloads", "License", "Status"}

func versionRow(v crates.Version, now time.Time) []string {
	status := ""
	if v.Yanked {
		status = "yanked"
	}
	license := v.License
	if license == "" {
		license = "—"
	}
	return []string{v.Num, formatRelativeTime(v.CreatedAt, now), formatCount(v.Downloads), license, status}
}

func formatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := now.Sub(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func formatSize(n uint64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
