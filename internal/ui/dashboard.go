package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/vidhi/internal/app"
	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/shared"
)

// dashboardView renders [app.Dashboard] as tabs over a table.
type dashboardView struct {
	machine *app.Dashboard
	table   table.Model
	width   int
}

func newDashboardView(machine *app.Dashboard) dashboardView {
	t := table.New(
		table.WithColumns(columns(100)),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#7D56F4"))
	t.SetStyles(s)

	return dashboardView{machine: machine, table: t, width: 100}
}

// columns sizes the Date, Title, Court and ID columns to fit width.
func columns(width int) []table.Column {
	title := max(width-12-28-8-10, 20)
	return []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Title", Width: title},
		{Title: "Court", Width: 28},
		{Title: "ID", Width: 8},
	}
}

func (v *dashboardView) setSize(w, h int) {
	v.width = w
	v.table.SetColumns(columns(w))
	v.table.SetHeight(max(h-16, 5))
}

// sync copies the machine's rows into the table, keeping the cursor in range.
func (v *dashboardView) sync() {
	cols := v.table.Columns()
	rows := make([]table.Row, len(v.machine.Updates))
	for i, u := range v.machine.Updates {
		rows[i] = table.Row{
			u.PublishedDate.Date(),
			shared.Truncate(u.Title, cols[1].Width),
			shared.Truncate(dash(u.CourtName), cols[2].Width),
			u.ID.String(),
		}
	}
	v.table.SetRows(rows)
	if c := v.table.Cursor(); c >= len(rows) {
		v.table.SetCursor(max(len(rows)-1, 0))
	}
}

// selected returns the update under the cursor.
func (v *dashboardView) selected() (models.Update, bool) {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.machine.Updates) {
		return models.Update{}, false
	}
	return v.machine.Updates[i], true
}

func (v *dashboardView) handleKey(ctx context.Context, msg tea.KeyMsg, keys keyMap) ([]app.Effect, tea.Cmd) {
	d := v.machine

	if d.Pending != app.ConfirmNone {
		switch {
		case key.Matches(msg, keys.yes):
			return d.Handle(ctx, app.Confirmed{}), nil
		case key.Matches(msg, keys.no):
			return d.Handle(ctx, app.Cancelled{}), nil
		}
		return nil, nil
	}

	switch {
	case key.Matches(msg, keys.next):
		return d.Handle(ctx, app.CategoryChanged{Category: d.Category.Next()}), nil
	case key.Matches(msg, keys.prev):
		return d.Handle(ctx, app.CategoryChanged{Category: d.Category.Prev()}), nil
	case key.Matches(msg, keys.tab1):
		return d.Handle(ctx, app.CategoryChanged{Category: models.CategoryHiring}), nil
	case key.Matches(msg, keys.tab2):
		return d.Handle(ctx, app.CategoryChanged{Category: models.CategoryNotice}), nil
	case key.Matches(msg, keys.tab3):
		return d.Handle(ctx, app.CategoryChanged{Category: models.CategoryBlog}), nil
	case key.Matches(msg, keys.scrape):
		return d.Handle(ctx, app.ScrapeRequested{}), nil
	case key.Matches(msg, keys.clear):
		return d.Handle(ctx, app.ClearRequested{}), nil
	case key.Matches(msg, keys.remove):
		if u, ok := v.selected(); ok && !d.Loading {
			return d.Handle(ctx, app.DeleteRequested{ID: u.ID}), nil
		}
		return nil, nil
	case key.Matches(msg, keys.dismiss):
		return d.Handle(ctx, app.Dismissed{}), nil
	case key.Matches(msg, keys.logout):
		return d.Handle(ctx, app.LogoutRequested{}), nil
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return nil, cmd
}

func (v *dashboardView) view(m *Model) string {
	d := v.machine
	var b strings.Builder

	header := styles.title.Render(app.Brand + " Dashboard")
	if d.Scraping {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", m.spinner.View()+" Scraping...")
	}
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(v.tabs())
	b.WriteString("\n\n")

	if d.Notice != "" {
		b.WriteString(styles.ok.Render(d.Notice) + "\n\n")
	}
	if d.Error != "" {
		b.WriteString(styles.err.Render(d.Error) + "\n\n")
	}
	if text := d.ConfirmText(); text != "" {
		b.WriteString(v.confirmPrompt(text))
		b.WriteString("\n\n")
	}

	switch {
	case d.Loading:
		b.WriteString(m.spinner.View() + " Loading updates...")
	case len(d.Updates) == 0:
		b.WriteString(styles.help.Render(app.EmptyText))
	default:
		b.WriteString(v.table.View())
		if u, ok := v.selected(); ok {
			b.WriteString("\n")
			b.WriteString(styles.help.Render(detail(u)))
		}
	}

	b.WriteString("\n\n")
	if d.Pending != app.ConfirmNone {
		b.WriteString(m.help.ShortHelpView(m.keys.confirmHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.dashboardHelp()))
	}
	return b.String()
}

func (v *dashboardView) tabs() string {
	var rendered []string
	for i, c := range models.Categories() {
		label := fmt.Sprintf("%d %s", i+1, c.Title())
		if c == v.machine.Category {
			rendered = append(rendered, styles.activeTab.Render(label))
		} else {
			rendered = append(rendered, styles.tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (v *dashboardView) confirmPrompt(text string) string {
	if v.machine.Pending == app.ConfirmDelete {
		if u, ok := find(v.machine.Updates, v.machine.PendingID); ok {
			text = fmt.Sprintf("%s\n%s", text, shared.Truncate(u.Title, max(v.width-8, 20)))
		}
	}
	return styles.warn.Render(text) + "  " + styles.help.Render("(y/n)")
}

func detail(u models.Update) string {
	parts := []string{}
	if u.ContentSummary != "" {
		parts = append(parts, shared.Truncate(u.ContentSummary, 120))
	}
	if u.SourceURL != "" {
		parts = append(parts, u.SourceURL)
	}
	return strings.Join(parts, "  ")
}

func find(updates []models.Update, id models.UpdateID) (models.Update, bool) {
	for _, u := range updates {
		if u.ID == id {
			return u, true
		}
	}
	return models.Update{}, false
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
