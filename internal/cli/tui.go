package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/atlantix-eda/aeda/pkg/library"
	"github.com/atlantix-eda/aeda/pkg/pipeline"
)

var (
	tuiActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiDoneStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	tuiDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	tuiErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// ProgressModel - live view of a running job
// =============================================================================

type (
	eventMsg   pipeline.Event
	jobDoneMsg struct{}
)

// progressStages are the rows of the checklist in display order.
var progressStages = []struct {
	stage pipeline.Stage
	label string
}{
	{pipeline.StageTemplates, "Plan outputs"},
	{pipeline.StageExpanded, "Expand values"},
	{pipeline.StageSerialized, "Serialize libraries"},
	{pipeline.StageWritten, "Write files"},
}

// ProgressModel is the bubbletea model that follows a pipeline job.
type ProgressModel struct {
	Title     string
	Job       *pipeline.Job
	Last      map[pipeline.Stage]pipeline.Event
	Current   pipeline.Stage
	Failed    int
	Finished  bool
	Cancelled bool

	start time.Time
}

// NewProgressModel creates a model for job.
func NewProgressModel(title string, job *pipeline.Job) ProgressModel {
	return ProgressModel{
		Title: title,
		Job:   job,
		Last:  make(map[pipeline.Stage]pipeline.Event),
		start: time.Now(),
	}
}

// waitForEvent reads the next event. A closed channel means the job ended.
func waitForEvent(job *pipeline.Job) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-job.Events()
		if !ok {
			return jobDoneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return waitForEvent(m.Job)
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.Cancelled {
				m.Cancelled = true
				m.Job.Cancel()
			}
		}
		return m, nil
	case eventMsg:
		ev := pipeline.Event(msg)
		m.Last[ev.Stage] = ev
		m.Current = ev.Stage
		if ev.Stage == pipeline.StageWritten && ev.Err != nil {
			m.Failed++
		}
		return m, waitForEvent(m.Job)
	case jobDoneMsg:
		m.Finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n\n")

	for _, s := range progressStages {
		ev, seen := m.Last[s.stage]
		icon, style := iconPending, tuiDimStyle
		switch {
		case seen && stageComplete(ev):
			icon, style = iconSuccess, tuiDoneStyle
		case seen:
			icon, style = iconInfo, tuiActiveStyle
		}

		line := fmt.Sprintf("%s %-20s", icon, s.label)
		if seen && ev.Total > 0 {
			line += fmt.Sprintf(" %d/%d", ev.Done, ev.Total)
		}
		if seen && ev.Path != "" && !stageComplete(ev) {
			line += "  " + ev.Path
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.Failed > 0 {
		b.WriteString(tuiErrorStyle.Render(fmt.Sprintf("%d file(s) failed", m.Failed)))
		b.WriteString("\n")
	}
	switch {
	case m.Cancelled:
		b.WriteString(StyleWarning.Render("Cancelling..."))
	case m.Finished:
		b.WriteString(tuiDimStyle.Render(fmt.Sprintf("finished in %s", time.Since(m.start).Round(time.Millisecond))))
	default:
		b.WriteString(tuiDimStyle.Render("q cancel"))
	}
	b.WriteString("\n")
	return b.String()
}

// stageComplete reports whether ev is the last event of its stage.
func stageComplete(ev pipeline.Event) bool {
	if ev.Stage == pipeline.StageTemplates {
		return true
	}
	return ev.Total > 0 && ev.Done >= ev.Total
}

// =============================================================================
// Library table
// =============================================================================

// renderLibraryTable renders the manifest as a table, one row per library.
func renderLibraryTable(m *library.Manifest) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	var rows [][]string
	for _, cat := range m.CategoryNames() {
		for _, ref := range m.Refs(cat) {
			rows = append(rows, []string{cat, ref.Name, ref.Path()})
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Category", "Library", "Descriptor").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 1:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case 2:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
