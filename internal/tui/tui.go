// Package tui is the interactive chat and editor surface: prompts go to the
// assistant runtime, generated code lands in an in-memory editor buffer, and
// incremental edit batches are previewed and applied through pkg/patch.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	glam "github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	runtimepkg "github.com/pagewright/pagewright/internal/core/runtime"
	"github.com/pagewright/pagewright/internal/diff"
	"github.com/pagewright/pagewright/pkg/patch"
)

type resultMsg struct{ result runtimepkg.GenerationResult }
type errMsg struct{ err error }

type transcriptKind int

const (
	itemPlain transcriptKind = iota
	itemUser
	itemAssistantMD
)

type transcriptItem struct {
	kind transcriptKind
	text string // raw content; assistant content is markdown
}

type model struct {
	agent  *runtimepkg.Runtime
	ctx    context.Context
	cancel context.CancelFunc

	// Editor buffer the incremental batches apply to.
	buffer   string
	filename string
	language string

	// UI
	vp     viewport.Model
	ta     textarea.Model
	width  int
	height int
	ready  bool

	glam *glam.TermRenderer
	spin spinner.Model
	busy bool

	border     lipgloss.Style
	userStyle  lipgloss.Style
	errorStyle lipgloss.Style
	noteStyle  lipgloss.Style
	diffAdd    lipgloss.Style
	diffDel    lipgloss.Style

	items []transcriptItem
}

func newModel(ctx context.Context, agent *runtimepkg.Runtime, cancel context.CancelFunc) *model {
	ta := textarea.New()
	ta.Placeholder = "Describe your page… (Enter to send, Ctrl+Y to copy buffer)"
	ta.CharLimit = 0
	ta.SetHeight(3)
	ta.Focus()

	m := model{
		agent:  agent,
		ctx:    ctx,
		cancel: cancel,
		ta:     ta,
		border: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")),
	}
	sp := spinner.New()
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	m.spin = sp
	_ = m.rebuildRenderer(80)
	m.userStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("129")).
		Foreground(lipgloss.Color("252")).
		PaddingLeft(1).
		PaddingRight(1)
	m.errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	m.noteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	m.diffAdd = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	m.diffDel = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	return &m
}

func (m *model) submit(prompt string) tea.Cmd {
	agent := m.agent
	ctx := m.ctx
	req := runtimepkg.Request{
		Prompt:         prompt,
		EditorCode:     m.buffer,
		EditorFilename: m.filename,
		EditorLanguage: m.language,
	}
	return func() tea.Msg {
		result, err := agent.ProcessRequest(ctx, req)
		if err != nil {
			return errMsg{err}
		}
		return resultMsg{result}
	}
}

// renderTranscript renders all transcript items according to current width.
func (m *model) renderTranscript() string {
	var out strings.Builder
	userWidth := m.vp.Width - 4
	if userWidth < 1 {
		userWidth = 1
	}
	for _, it := range m.items {
		switch it.kind {
		case itemUser:
			block := m.userStyle.Width(userWidth).Render(it.text)
			out.WriteString(block)
			if !strings.HasSuffix(block, "\n") {
				out.WriteString("\n")
			}
		case itemAssistantMD:
			if m.glam == nil {
				out.WriteString(it.text)
			} else if rendered, err := m.glam.Render(it.text); err == nil {
				out.WriteString(rendered)
			} else {
				out.WriteString(it.text)
			}
			if !strings.HasSuffix(out.String(), "\n") {
				out.WriteString("\n")
			}
		default:
			out.WriteString(it.text)
		}
	}
	return out.String()
}

func (m *model) refresh() {
	m.vp.SetContent(m.renderTranscript())
	m.vp.GotoBottom()
}

func (m *model) recalcLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	inner := m.width - 2
	if inner < 1 {
		inner = 1
	}
	m.ta.SetWidth(inner)
	vpH := m.height - 3
	if vpH < 3 {
		vpH = 3
	}
	m.vp.Width = m.width
	m.vp.Height = vpH
	_ = m.rebuildRenderer(m.vp.Width - 2)
}

func (m *model) appendLine(s string) {
	m.items = append(m.items, transcriptItem{kind: itemPlain, text: s})
	m.refresh()
}

func (m *model) appendUserBlock(text string) {
	if n := len(m.items); n > 0 {
		last := m.items[n-1]
		if last.kind == itemPlain && !strings.HasSuffix(last.text, "\n") {
			m.items = append(m.items, transcriptItem{kind: itemPlain, text: "\n"})
		}
	}
	m.items = append(m.items, transcriptItem{kind: itemUser, text: text})
	m.refresh()
}

func (m *model) appendAssistant(markdown string) {
	if strings.TrimSpace(markdown) == "" {
		return
	}
	m.items = append(m.items, transcriptItem{kind: itemAssistantMD, text: markdown})
	m.refresh()
}

// rebuildRenderer recreates the Glamour renderer with the given wrap width.
func (m *model) rebuildRenderer(wrap int) error {
	if wrap < 10 {
		wrap = 10
	}
	r, err := glam.NewTermRenderer(
		glam.WithStylePath("dark"), // fixed style to avoid OSC queries
		glam.WithWordWrap(wrap),
	)
	if err != nil {
		return err
	}
	m.glam = r
	return nil
}

// applyUpdate previews and applies an incremental batch against the editor
// buffer, appending conflict, diff, and partial-success notes to the
// transcript.
func (m *model) applyUpdate(update *patch.UpdateBatch) {
	preview := patch.PreviewChanges(m.buffer, update.Operations)
	if len(preview.Conflicts) > 0 {
		var b strings.Builder
		b.WriteString(m.errorStyle.Render("[conflicts] ") + "batch not applied:\n")
		for _, conflict := range preview.Conflicts {
			b.WriteString("  - " + conflict + "\n")
		}
		m.appendLine(b.String())
		return
	}

	result := patch.ApplyBatch(m.buffer, *update)
	if !result.OK {
		m.appendLine(m.errorStyle.Render("[error] ") + result.ErrorMessage + "\n")
		return
	}

	before := m.buffer
	m.buffer = result.UpdatedText

	summary := patch.DescribeChanges(result.Changes)
	if len(result.Skipped) > 0 {
		summary += fmt.Sprintf(" (%d applied, %d skipped)", len(result.Changes), len(result.Skipped))
	}
	m.appendLine(m.noteStyle.Render("[edit] ") + summary + "\n")
	for _, skipped := range result.Skipped {
		m.appendLine(m.noteStyle.Render("  skipped: ") + skipped.Reason + "\n")
	}

	if patchText := diff.Unified(m.filename, m.filename, before, m.buffer); patchText != "" {
		m.appendLine(m.renderDiff(patchText))
	}
}

func (m *model) renderDiff(patchText string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(patchText, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(m.noteStyle.Render(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(m.diffAdd.Render(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(m.diffDel.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *model) handleResult(result runtimepkg.GenerationResult) {
	m.appendAssistant(result.Response)

	switch {
	case result.Update != nil:
		m.applyUpdate(result.Update)
	case result.Code != "":
		m.buffer = result.Code
		m.filename = result.Filename
		m.language = result.Language
		m.appendLine(m.noteStyle.Render("[editor] ") +
			fmt.Sprintf("buffer replaced with %s (%d bytes)\n", result.Filename, len(result.Code)))
	}
}

func (m *model) copyBuffer() {
	if m.buffer == "" {
		m.appendLine(m.noteStyle.Render("[clipboard] ") + "buffer is empty\n")
		return
	}
	if err := clipboard.WriteAll(m.buffer); err != nil {
		m.appendLine(m.errorStyle.Render("[clipboard] ") + err.Error() + "\n")
		return
	}
	m.appendLine(m.noteStyle.Render("[clipboard] ") +
		fmt.Sprintf("copied %d bytes\n", len(m.buffer)))
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spin.Tick)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Control keys are handled before the textarea sees the message so a
	// swallowed Enter (busy, or nothing typed) does not grow the input.
	if key, isKey := msg.(tea.KeyMsg); isKey {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case tea.KeyCtrlY:
			m.copyBuffer()
			return m, nil
		case tea.KeyEnter:
			prompt := strings.TrimSpace(m.ta.Value())
			if prompt == "" || m.busy {
				return m, nil
			}
			m.appendUserBlock(prompt)
			m.ta.Reset()
			m.busy = true
			return m, m.submit(prompt)
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	cmds = append(cmds, cmd)
	m.spin, cmd = m.spin.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	m.vp, cmd = m.vp.Update(msg)
	cmds = append(cmds, cmd)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		m.ready = true
		m.refresh()
		return m, nil

	case resultMsg:
		m.busy = false
		m.handleResult(msg.result)
		return m, tea.Batch(cmds...)

	case errMsg:
		m.busy = false
		m.appendLine(m.errorStyle.Render("[error] ") + msg.err.Error() + "\n")
		return m, tea.Batch(cmds...)
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if !m.ready {
		return "Initializing…"
	}
	top := m.border.Render(m.vp.View())
	inputBlock := m.ta.View()
	if m.busy {
		inputBlock = m.spin.View() + " thinking…\n" + inputBlock
	}
	bottom := m.border.Render(inputBlock)
	return top + "\n" + bottom
}

// Run launches the chat TUI against the given runtime. Returns a POSIX-style
// exit code.
func Run(ctx context.Context, agent *runtimepkg.Runtime) int {
	// Prevent OSC background color queries from contaminating stdin by
	// explicitly setting color profile and background for lipgloss/termenv.
	lipgloss.SetColorProfile(termenv.TrueColor)
	lipgloss.SetHasDarkBackground(true)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(runCtx, agent, cancel), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "tui error:", err)
		return 1
	}
	return 0
}
