// Package tui is the terminal view controller: it routes field edits to
// the workflow store, coaching requests to the coach client, and renders
// the chat transcript and audit panel.
//
// It follows The Elm Architecture as bubbletea frames it: a model, an
// Update that reacts to messages, and a View that renders state.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kaizenlab/pdca-coach/internal/coach"
	"github.com/kaizenlab/pdca-coach/internal/export"
	"github.com/kaizenlab/pdca-coach/internal/store"
	"github.com/kaizenlab/pdca-coach/internal/transcript"
	"github.com/kaizenlab/pdca-coach/internal/workflow"
)

// viewState represents which screen we're on.
type viewState int

const (
	stateHome   viewState = iota // variant picker with completion bars
	stateEditor                  // staged form plus coach sidebar
)

// Messages produced by commands. Coach replies carry displayable text in
// every case: failures arrive as content, not errors, so the thinking
// indicator is cleared on all paths.
type (
	coachReplyMsg struct{ content string }
	auditReplyMsg struct{ content string }
	exportDoneMsg struct {
		path string
		err  error
	}
)

// fieldEditor binds one schema field to its textarea.
type fieldEditor struct {
	name  string
	label string
	hint  string
	ta    textarea.Model
}

// App is the main application model.
type App struct {
	state     viewState
	store     *store.Store
	coach     *coach.Client
	log       *transcript.Log
	exportDir string

	variant     workflow.Variant
	stage       workflow.Stage
	homeChoice  int
	fields      []fieldEditor
	focus       int
	editing     bool
	quickSlots  []coach.QuickPrompt
	chat        viewport.Model
	spin        spinner.Model
	thinking    bool
	statusMsg   string
	errMsg      string
	width       int
	height      int
	chatFollows bool
}

// New creates the application model.
func New(st *store.Store, cl *coach.Client, log *transcript.Log, exportDir string) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = chatCoachStyle

	a := &App{
		state:       stateHome,
		store:       st,
		coach:       cl,
		log:         log,
		exportDir:   exportDir,
		variant:     workflow.GoalExecution,
		stage:       workflow.Plan,
		chat:        viewport.New(40, 20),
		spin:        sp,
		chatFollows: true,
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case coachReplyMsg:
		a.thinking = false
		a.log.ReplaceLast(msg.content)
		a.refreshChat()
		return a, nil

	case auditReplyMsg:
		a.thinking = false
		a.log.SetAudit(msg.content)
		return a, nil

	case exportDoneMsg:
		if msg.err != nil {
			a.errMsg = "Export failed: " + msg.err.Error()
		} else {
			a.statusMsg = "Exported to " + msg.path
			a.errMsg = ""
		}
		return a, nil

	case spinner.TickMsg:
		if !a.thinking {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.state {
	case stateHome:
		return a.handleHomeKey(msg)
	case stateEditor:
		if a.editing {
			return a.handleEditingKey(msg)
		}
		return a.handleNavKey(msg)
	}
	return a, nil
}

func (a *App) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return a, tea.Quit
	case "up", "k", "left", "h":
		a.homeChoice = 0
	case "down", "j", "right", "l":
		a.homeChoice = 1
	case "1":
		return a.openEditor(workflow.GoalExecution)
	case "2":
		return a.openEditor(workflow.ProblemResolution)
	case "enter":
		if a.homeChoice == 1 {
			return a.openEditor(workflow.ProblemResolution)
		}
		return a.openEditor(workflow.GoalExecution)
	}
	return a, nil
}

func (a *App) openEditor(v workflow.Variant) (tea.Model, tea.Cmd) {
	a.variant = v
	a.stage = workflow.Plan
	a.state = stateEditor
	a.quickSlots = coach.QuickPrompts(v)
	a.buildFields()
	a.refreshChat()
	a.statusMsg = ""
	a.errMsg = ""
	return a, nil
}

// handleNavKey handles editor keys while no field is being edited.
func (a *App) handleNavKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		a.state = stateHome
		return a, nil
	case "j", "down":
		if a.focus < len(a.fields)-1 {
			a.focus++
		}
	case "k", "up":
		if a.focus > 0 {
			a.focus--
		}
	case "h", "left":
		a.switchStage(a.stage.Prev())
	case "l", "right":
		a.switchStage(a.stage.Next())
	case "p":
		a.switchStage(workflow.Plan)
	case "d":
		a.switchStage(workflow.Do)
	case "c":
		a.switchStage(workflow.Check)
	case "a":
		a.switchStage(workflow.Act)
	case "enter", "i":
		return a, a.startEditing()
	case "1", "2", "3", "4":
		idx := int(msg.String()[0] - '1')
		if idx < len(a.quickSlots) {
			return a, a.askCoach(a.quickSlots[idx].Prompt)
		}
	case "g":
		return a, a.requestAudit()
	case "x":
		a.log.ClearAudit()
	case "e":
		return a, a.exportCmd(export.FormatJSON)
	case "E":
		return a, a.exportCmd(export.FormatCSV)
	case "R":
		if _, err := a.store.Reset(a.variant); err != nil {
			a.errMsg = "Reset failed: " + err.Error()
			return a, nil
		}
		a.buildFields()
		a.statusMsg = "Variant reset to blank"
	}
	return a, nil
}

// handleEditingKey routes keys into the focused textarea. Every change
// is written through to the store immediately.
func (a *App) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.stopEditing()
		return a, nil
	case "tab":
		a.stopEditing()
		if a.focus < len(a.fields)-1 {
			a.focus++
		} else {
			a.focus = 0
		}
		return a, a.startEditing()
	case "shift+tab":
		a.stopEditing()
		if a.focus > 0 {
			a.focus--
		} else {
			a.focus = len(a.fields) - 1
		}
		return a, a.startEditing()
	}

	f := &a.fields[a.focus]
	before := f.ta.Value()
	var cmd tea.Cmd
	f.ta, cmd = f.ta.Update(msg)

	if after := f.ta.Value(); after != before {
		if _, err := a.store.SetField(a.variant, a.stage, f.name, after); err != nil {
			a.errMsg = "Save failed: " + err.Error()
		} else {
			a.errMsg = ""
		}
	}
	return a, cmd
}

func (a *App) startEditing() tea.Cmd {
	if len(a.fields) == 0 {
		return nil
	}
	a.editing = true
	return a.fields[a.focus].ta.Focus()
}

func (a *App) stopEditing() {
	a.editing = false
	if a.focus < len(a.fields) {
		a.fields[a.focus].ta.Blur()
	}
}

func (a *App) switchStage(s workflow.Stage) {
	if s == a.stage {
		return
	}
	a.stage = s
	a.buildFields()
}

// buildFields rebuilds the textareas for the active (variant, stage)
// pair from the stored state.
func (a *App) buildFields() {
	state := a.store.State()
	names := workflow.Fields(a.variant, a.stage)

	a.fields = make([]fieldEditor, 0, len(names))
	for _, name := range names {
		ta := textarea.New()
		ta.ShowLineNumbers = false
		ta.CharLimit = 0
		ta.SetHeight(3)
		if g, ok := workflow.FieldGuidance(name); ok {
			ta.Placeholder = g.Example
		}
		ta.SetValue(state.Field(a.variant, a.stage, name))
		ta.Blur()

		hint := ""
		if g, ok := workflow.FieldGuidance(name); ok {
			hint = g.Purpose
		}
		a.fields = append(a.fields, fieldEditor{
			name:  name,
			label: workflow.FieldLabel(name),
			hint:  hint,
			ta:    ta,
		})
	}
	a.focus = 0
	a.editing = false
	a.resize()
}

// askCoach appends the user turn plus an empty coach slot and fires the
// request. Overlapping requests race to fill the same slot; the last
// reply to arrive wins.
func (a *App) askCoach(userPrompt string) tea.Cmd {
	a.log.Append(transcript.RoleUser, userPrompt)
	a.log.Append(transcript.RoleCoach, "")
	a.thinking = true
	a.refreshChat()

	cl := a.coach
	variant := a.variant
	stage := a.stage
	data := a.store.State().StageSet(variant)[stage.Key()]

	return tea.Batch(a.spin.Tick, func() tea.Msg {
		var content string
		for chunk := range cl.StreamSuggestion(context.Background(), variant, stage, data, userPrompt) {
			content += chunk
		}
		return coachReplyMsg{content: content}
	})
}

// requestAudit asks for the holistic review of the full variant record.
func (a *App) requestAudit() tea.Cmd {
	a.thinking = true

	cl := a.coach
	variant := a.variant
	snapshot := a.store.State().StageSet(variant)

	return tea.Batch(a.spin.Tick, func() tea.Msg {
		text, err := cl.AuditPDCA(context.Background(), variant, snapshot)
		if err != nil {
			return auditReplyMsg{content: "Audit cancelled: " + err.Error()}
		}
		return auditReplyMsg{content: text}
	})
}

func (a *App) exportCmd(format export.Format) tea.Cmd {
	variant := a.variant
	snapshot := a.store.State().StageSet(variant)
	dir := a.exportDir

	return func() tea.Msg {
		path, err := export.Write(dir, variant, format, snapshot, time.Now())
		return exportDoneMsg{path: path, err: err}
	}
}

func (a *App) refreshChat() {
	a.chat.SetContent(a.renderTranscript())
	if a.chatFollows {
		a.chat.GotoBottom()
	}
}

func (a *App) resize() {
	if a.width <= 0 {
		return
	}
	chatWidth := a.chatPanelWidth()
	fieldWidth := a.width - chatWidth - 8
	if fieldWidth < 20 {
		fieldWidth = 20
	}
	for i := range a.fields {
		a.fields[i].ta.SetWidth(fieldWidth)
	}

	chatHeight := a.height - 10
	if chatHeight < 5 {
		chatHeight = 5
	}
	a.chat.Width = chatWidth - 4
	a.chat.Height = chatHeight
	a.refreshChat()
}

func (a *App) chatPanelWidth() int {
	w := a.width / 3
	if w < 36 {
		w = 36
	}
	if w > 56 {
		w = 56
	}
	return w
}
