package tui

import (
	"context"
	"fmt"
	"time"

	"token-health-scan/internal/domain"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type ReportLister interface {
	ListLatestReports(ctx context.Context, limit int) ([]domain.HealthReport, error)
}

const reportLimit = 50

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

type reportsMsg struct {
	reports []domain.HealthReport
	err     error
}

// AppModel is the SSH dashboard: a live table of the latest health
// report per tracked token.
type AppModel struct {
	reports   ReportLister
	table     table.Model
	rows      []domain.HealthReport
	err       error
	refreshed time.Time
	width     int
	height    int
}

func NewAppModel(reports ReportLister) *AppModel {
	columns := []table.Column{
		{Title: "Chain", Width: 8},
		{Title: "Address", Width: 20},
		{Title: "Overall", Width: 8},
		{Title: "Conf", Width: 6},
		{Title: "Sec", Width: 5},
		{Title: "Liq", Width: 5},
		{Title: "Tok", Width: 5},
		{Title: "Com", Width: 5},
		{Title: "Dev", Width: 5},
		{Title: "Flags", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	return &AppModel{reports: reports, table: t}
}

func (m *AppModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if height > 8 {
		m.table.SetHeight(height - 6)
	}
}

func (m *AppModel) Init() tea.Cmd {
	return m.fetchReports
}

func (m *AppModel) fetchReports() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reports, err := m.reports.ListLatestReports(ctx, reportLimit)
	return reportsMsg{reports: reports, err: err}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.fetchReports
		}
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case reportsMsg:
		m.err = msg.err
		if msg.err == nil {
			m.rows = msg.reports
			m.table.SetRows(reportRows(msg.reports))
			m.refreshed = time.Now()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *AppModel) View() string {
	header := titleStyle.Render("Token Health Scan")

	status := statusStyle.Render(fmt.Sprintf("%d tokens · r refresh · q quit", len(m.rows)))
	if !m.refreshed.IsZero() {
		status = statusStyle.Render(fmt.Sprintf("%d tokens · refreshed %s · r refresh · q quit",
			len(m.rows), m.refreshed.Format("15:04:05")))
	}
	if m.err != nil {
		status = warnStyle.Render("load failed: " + m.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		baseStyle.Render(m.table.View()),
		status,
	)
}

func reportRows(reports []domain.HealthReport) []table.Row {
	rows := make([]table.Row, 0, len(reports))
	for _, report := range reports {
		rows = append(rows, table.Row{
			report.Chain,
			truncateAddress(report.Address),
			fmt.Sprintf("%d", report.Overall),
			fmt.Sprintf("%d", report.Confidence),
			scoreCell(report.Categories.Security),
			scoreCell(report.Categories.Liquidity),
			scoreCell(report.Categories.Tokenomics),
			scoreCell(report.Categories.Community),
			scoreCell(report.Categories.Development),
			flagCell(report),
		})
	}
	return rows
}

func scoreCell(score *int) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *score)
}

func flagCell(report domain.HealthReport) string {
	flags := ""
	if report.Anomaly {
		flags += "outlier "
	}
	if report.Lock.Locked {
		flags += fmt.Sprintf("lock:%dd", report.Lock.LockedDays)
	}
	return flags
}

func truncateAddress(address string) string {
	if len(address) <= 18 {
		return address
	}
	return address[:8] + ".." + address[len(address)-8:]
}
