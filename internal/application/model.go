// Package application is the terminal front end for labeling a workbook. It
// drives the same core.RecordEditor as the web UI, one keypress at a time.
package application

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/labeler/internal/core"
)

// tagWindow is how many tags are listed around the focused one.
const tagWindow = 10

// Options configure a Model.
type Options struct {
	FileName string       // shown in the header
	Output   string       // path the workbook is written to
	Sheet    string       // exported sheet name
	Logger   *slog.Logger // nil discards
}

// Model is the bubbletea model for one labeling session.
type Model struct {
	editor *core.RecordEditor
	keys   KeyMap
	logger *slog.Logger

	fileName string
	output   string
	sheet    string

	focus   int
	jumping bool
	jump    textinput.Model

	status    string
	statusErr bool
	dirty     bool
	width     int
}

// New creates a Model over editor.
func New(editor *core.RecordEditor, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	jump := textinput.New()
	jump.Prompt = "Go to record: "
	jump.Placeholder = fmt.Sprintf("1-%d", editor.Len())
	jump.CharLimit = 9

	return &Model{
		editor:   editor,
		keys:     DefaultKeys,
		logger:   logger,
		fileName: opts.FileName,
		output:   opts.Output,
		sheet:    opts.Sheet,
		jump:     jump,
	}
}

// Dirty reports whether labels were committed since the last write.
func (m *Model) Dirty() bool { return m.dirty }

// Editor returns the underlying editor.
func (m *Model) Editor() *core.RecordEditor { return m.editor }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.jumping {
			return m.updateJump(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.focus > 0 {
			m.focus--
		}

	case key.Matches(msg, m.keys.Down):
		if m.focus < len(core.DangerOptions)-1 {
			m.focus++
		}

	case key.Matches(msg, m.keys.Toggle):
		m.editor.ToggleTag(core.DangerOptions[m.focus])

	case key.Matches(msg, m.keys.Severity):
		score, _ := strconv.Atoi(msg.String())
		m.editor.SetSeverity(score)

	case key.Matches(msg, m.keys.SaveNext):
		m.apply(core.ActionSaveNext)

	case key.Matches(msg, m.keys.Save):
		m.apply(core.ActionSave)

	case key.Matches(msg, m.keys.Skip):
		m.apply(core.ActionSkip)

	case key.Matches(msg, m.keys.Prev):
		m.apply(core.ActionPrev)

	case key.Matches(msg, m.keys.Jump):
		m.jumping = true
		m.jump.SetValue("")
		return m, m.jump.Focus()

	case key.Matches(msg, m.keys.Write):
		m.write()
		return m, nil
	}
	return m, nil
}

func (m *Model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.endJump()
		return m, nil

	case msg.Type == tea.KeyEnter:
		raw := strings.TrimSpace(m.jump.Value())
		m.endJump()
		pos, err := strconv.Atoi(raw)
		if err != nil {
			m.setStatus(fmt.Sprintf("%q is not a record number", raw), true)
			return m, nil
		}
		out, err := m.editor.Jump(pos)
		if err != nil {
			m.setStatus(core.MapError(err).Message, true)
			return m, nil
		}
		m.logger.Debug("jumped", "from", out.From, "to", out.To)
		m.setStatus("", false)
		return m, nil
	}

	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

func (m *Model) endJump() {
	m.jumping = false
	m.jump.Blur()
}

// apply runs a transition with the editor's own draft.
func (m *Model) apply(action core.Action) {
	out, err := m.editor.Apply(action, m.editor.Buffer())
	if err != nil {
		m.logger.Info("input rejected", "action", action, "index", out.From, "error", err)
		m.setStatus(core.MapError(err).Message, true)
		return
	}
	m.logger.Debug("transition applied", "action", action, "from", out.From, "to", out.To, "committed", out.Committed)
	if out.Committed {
		m.dirty = true
	}

	switch {
	case action == core.ActionSave:
		m.setStatus("Record saved (press w to write the file)", false)
	case out.Committed:
		m.setStatus(fmt.Sprintf("Saved record %d", out.From+1), false)
	default:
		m.setStatus("", false)
	}
}

// write exports the table and writes it to the output file before the next
// key is handled, so a later write on quit always lands last.
func (m *Model) write() {
	table := m.editor.Table()
	data, err := core.Export(table, m.sheet)
	if err == nil {
		err = os.WriteFile(m.output, data, 0o644)
	}
	if err != nil {
		m.logger.Error("write failed", "output", m.output, "error", err)
		m.setStatus(fmt.Sprintf("write %s: %v", m.output, err), true)
		return
	}
	m.dirty = false
	m.logger.Info("labeled workbook written", "output", m.output, "records", table.Len())
	m.setStatus(fmt.Sprintf("Wrote %d records to %s", table.Len(), m.output), false)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// View implements tea.Model.
func (m *Model) View() string {
	rec := m.editor.Current()
	buf := m.editor.Buffer()
	table := m.editor.Table()

	var b strings.Builder

	title := titleStyle.Render("Incident labeler")
	if m.fileName != "" {
		title += "  " + subtitleStyle.Render(m.fileName)
	}
	b.WriteString(title + "\n")
	fmt.Fprintf(&b, "%s\n\n", subtitleStyle.Render(fmt.Sprintf(
		"Record %d of %d  ·  %d labeled", m.editor.Position(), m.editor.Len(), table.LabeledCount())))

	var meta strings.Builder
	for _, col := range []string{core.ColumnDescription, core.ColumnDate, core.ColumnLocation} {
		meta.WriteString(fieldLabelStyle.Render(col) + rec.FieldOr(col, "N/A") + "\n")
	}
	b.WriteString(panelStyle.Render(strings.TrimSuffix(meta.String(), "\n")) + "\n\n")

	fmt.Fprintf(&b, "%s %d/%d\n", fieldLabelStyle.Render("Tags"), len(buf.Tags), core.MaxTags)
	b.WriteString(m.renderTags(buf))

	b.WriteString("\n" + fieldLabelStyle.Render("Severity"))
	for _, opt := range core.SeverityOptions() {
		label := fmt.Sprintf("%d %s", opt.Score, opt.Label)
		if opt.Score == buf.Severity {
			b.WriteString(severityStyle.Render(label) + " ")
		} else {
			b.WriteString(helpTextStyle.Render(label) + "  ")
		}
	}
	b.WriteString("\n\n")

	if m.jumping {
		b.WriteString(m.jump.View() + "\n")
	} else if m.status != "" {
		style := successStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status) + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString(m.renderHelp())

	return appStyle.Render(b.String())
}

func (m *Model) renderTags(buf core.EditBuffer) string {
	start := max(0, m.focus-tagWindow/2)
	end := min(len(core.DangerOptions), start+tagWindow)
	start = max(0, end-tagWindow)

	var b strings.Builder
	if start > 0 {
		b.WriteString(helpTextStyle.Render("  ↑ more") + "\n")
	}
	for i := start; i < end; i++ {
		tag := core.DangerOptions[i]
		box := "[ ]"
		if pos := slices.Index(buf.Tags, tag); pos >= 0 {
			box = fmt.Sprintf("[%d]", pos+1)
		}
		line := box + " " + tag
		switch {
		case i == m.focus:
			line = focusedStyle.Render(line)
		case buf.Has(tag):
			line = selectedStyle.Render(line)
		}
		b.WriteString("  " + line + "\n")
	}
	if end < len(core.DangerOptions) {
		b.WriteString(helpTextStyle.Render("  ↓ more") + "\n")
	}
	return b.String()
}

func (m *Model) renderHelp() string {
	parts := make([]string, 0, len(m.keys.helpBindings()))
	for _, kb := range m.keys.helpBindings() {
		h := kb.Help()
		parts = append(parts, helpKeyStyle.Render(h.Key)+" "+helpTextStyle.Render(h.Desc))
	}
	help := strings.Join(parts, "  ")
	if m.width > 0 {
		help = lipgloss.NewStyle().Width(m.width - 4).Render(help)
	}
	return help
}
