// Package tui is the interactive front end: file, column and keyword
// entry, a run trigger, a results table and a term-cloud view.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/aggregate"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/cloud"
	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/match"
)

// RunRequest carries the form values for one extraction run.
type RunRequest struct {
	InputPath  string
	PatientCol string
	TextCol    string
	Keywords   string
	Output     string
	Mode       match.Mode
}

// RunOutcome is what the port hands back for display.
type RunOutcome struct {
	Keywords    []match.Keyword
	Patients    []aggregate.PatientResult
	Frequencies *aggregate.TermFrequencyTable
	SkippedRows int
	RunID       string
}

// MinerPort is the TUI-facing extraction service.
type MinerPort interface {
	Extract(req RunRequest) (RunOutcome, error)
}

const (
	fieldInput = iota
	fieldPatientCol
	fieldTextCol
	fieldKeywords
	fieldOutput
	fieldCount
)

type viewKind int

const (
	viewResults viewKind = iota
	viewCloud
)

// Model is the Bubble Tea model for the miner TUI.
type Model struct {
	service  MinerPort
	inputs   []textinput.Model
	focused  int
	mode     match.Mode
	view     viewKind
	viewport viewport.Model
	outcome  *RunOutcome
	status   string
	ready    bool
}

// New creates the TUI model with sensible field defaults.
func New(service MinerPort) Model {
	labels := []struct{ prompt, placeholder, value string }{
		{"Input CSV: ", "path/to/notes.csv", ""},
		{"Patient column: ", "", "patient_id"},
		{"Text column: ", "", "Report"},
		{"Keywords: ", "comma,separated,keywords", "bradycard,onrust,apneu,pijn,hoofdpijn"},
		{"Output CSV: ", "optional output path", ""},
	}

	inputs := make([]textinput.Model, fieldCount)
	for i, l := range labels {
		ti := textinput.New()
		ti.Prompt = l.prompt
		ti.Placeholder = l.placeholder
		ti.SetValue(l.value)
		ti.CharLimit = 0
		inputs[i] = ti
	}
	inputs[fieldInput].Focus()

	vp := viewport.New(0, 0)
	return Model{
		service:  service,
		inputs:   inputs,
		viewport: vp,
		status:   "Fill in the form, press Enter to run. Ctrl+T toggles match mode.",
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, fh := boxStyle.GetFrameSize()
		reserved := fieldCount + 4 + fh // form + header + mode + status + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-2)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderBody())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab":
			m.setFocus((m.focused + 1) % fieldCount)
			return m, nil
		case "shift+tab":
			m.setFocus((m.focused - 1 + fieldCount) % fieldCount)
			return m, nil
		case "ctrl+t":
			if m.mode == match.WholeWord {
				m.mode = match.Substring
			} else {
				m.mode = match.WholeWord
			}
			m.status = fmt.Sprintf("Match mode: %s", m.mode)
			return m, nil
		case "ctrl+w":
			if m.view == viewResults {
				m.view = viewCloud
			} else {
				m.view = viewResults
			}
			m.viewport.SetContent(m.renderBody())
			return m, nil
		case "enter":
			m.runExtraction()
			m.viewport.SetContent(m.renderBody())
			return m, nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focused].Blur()
	m.focused = i
	m.inputs[i].Focus()
}

func (m *Model) runExtraction() {
	req := RunRequest{
		InputPath:  strings.TrimSpace(m.inputs[fieldInput].Value()),
		PatientCol: strings.TrimSpace(m.inputs[fieldPatientCol].Value()),
		TextCol:    strings.TrimSpace(m.inputs[fieldTextCol].Value()),
		Keywords:   m.inputs[fieldKeywords].Value(),
		Output:     strings.TrimSpace(m.inputs[fieldOutput].Value()),
		Mode:       m.mode,
	}

	outcome, err := m.service.Extract(req)
	if err != nil {
		m.status = "Error: " + err.Error()
		return
	}
	m.outcome = &outcome
	m.status = fmt.Sprintf("Done: %d patients, %d rows skipped. Ctrl+W for the term cloud.",
		len(outcome.Patients), outcome.SkippedRows)
	if outcome.RunID != "" {
		m.status += " Run " + outcome.RunID + " saved."
	}
}

// View renders the form, body and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("EHR Free-Text Miner"))
	b.WriteString("\n")
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Match mode: %s (Ctrl+T)", m.mode)))
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	return b.String()
}

func (m Model) renderBody() string {
	if m.outcome == nil {
		return "No results yet."
	}
	if m.view == viewCloud {
		return cloud.Render(m.outcome.Frequencies, cloud.DefaultTopTerms, maxInt(20, m.viewport.Width-4))
	}
	return renderResultTable(m.outcome)
}

func renderResultTable(o *RunOutcome) string {
	var b strings.Builder
	b.WriteString("patient_id")
	for _, kw := range o.Keywords {
		b.WriteString("\t")
		b.WriteString(kw.Raw)
	}
	b.WriteString("\n")
	for _, p := range o.Patients {
		b.WriteString(p.PatientID)
		for _, f := range p.Flags {
			if f {
				b.WriteString("\t1")
			} else {
				b.WriteString("\t0")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
