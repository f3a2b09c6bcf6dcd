// Package ui is the terminal front-end of the to-do API.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"todolist/internal/client"
	"todolist/internal/models"
	"todolist/pkg/logger"
)

// Languages offered as translation targets, in menu order.
var Languages = []string{
	"English",
	"Spanish",
	"French",
	"German",
	"Hindi",
	"Marathi",
	"Japanese",
	"Chinese (Simplified)",
	"Korean",
	"Portuguese",
}

// API is the subset of client.Client the UI drives.
type API interface {
	List(ctx context.Context) ([]models.Todo, error)
	Create(ctx context.Context, in models.TodoCreate) (*models.Todo, error)
	Complete(ctx context.Context, id int64) (*models.Todo, error)
	Delete(ctx context.Context, id int64) error
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarn
	statusError
)

type todosLoadedMsg struct {
	todos []models.Todo
	err   error
}

type actionDoneMsg struct {
	success string
	failure string
	deleted int64
	err     error
}

type translatedMsg struct {
	id       int64
	language string
	source   string
	text     string
	err      error
}

// Model is the bubbletea model for the to-do screen.
type Model struct {
	ctx   context.Context
	api   API
	today func() models.Date

	pending   []models.Todo
	completed []models.Todo
	cursor    int
	language  int

	translations *client.TranslationCache

	adding bool
	form   addForm

	busy       bool
	status     string
	statusKind statusKind

	help help.Model
}

// New returns a model that loads the list on start.
func New(ctx context.Context, api API) Model {
	return Model{
		ctx:          ctx,
		api:          api,
		today:        models.Today,
		translations: client.NewTranslationCache(),
		form:         newAddForm(),
		busy:         true,
		help:         help.New(),
	}
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, api API) error {
	_, err := tea.NewProgram(New(ctx, api), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd { return m.load() }

func (m Model) load() tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		todos, err := api.List(ctx)
		return todosLoadedMsg{todos: todos, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case todosLoadedMsg:
		m.busy = false
		if msg.err != nil {
			logger.Error(m.ctx, "Loading todos failed", "error", msg.err)
			m.setTodos(nil)
			var connErr *client.ConnectionError
			if errors.As(msg.err, &connErr) {
				m.setStatus(statusError, "Could not connect to the backend. Please ensure the API server is running.")
			} else {
				m.setStatus(statusError, fmt.Sprintf("Error fetching todos: %v", msg.err))
			}
			return m, nil
		}
		m.setTodos(msg.todos)
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			logger.Error(m.ctx, "Todo action failed", "action", msg.failure, "error", msg.err)
			m.setStatus(statusError, fmt.Sprintf("Error %s: %v", msg.failure, msg.err))
		} else {
			if msg.deleted != 0 {
				m.translations.Forget(msg.deleted)
			}
			m.setStatus(statusSuccess, msg.success)
		}
		return m, m.load()

	case translatedMsg:
		if msg.err != nil {
			logger.Error(m.ctx, "Translation failed", "id", msg.id, "language", msg.language, "error", msg.err)
			m.setStatus(statusError, fmt.Sprintf("Error translating text: %v", msg.err))
		} else {
			m.translations.Put(msg.id, msg.language, msg.source, msg.text)
			m.setStatus(statusSuccess, fmt.Sprintf("Translated to-do item %d into %s.", msg.id, msg.language))
		}
		return m, m.load()

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) && (msg.String() == "ctrl+c" || !m.adding) {
			return m, tea.Quit
		}
		if m.adding {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}

	if m.adding {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, formKeys.Cancel):
		m.adding = false
		m.form = newAddForm()
		m.setStatus(statusInfo, "")
		return m, nil
	case key.Matches(msg, formKeys.Submit):
		if m.busy {
			return m, nil
		}
		in, warning := m.form.build(m.today())
		if warning != "" {
			m.setStatus(statusWarn, warning)
			return m, nil
		}
		m.adding = false
		m.form = newAddForm()
		m.busy = true
		ctx, api := m.ctx, m.api
		return m, func() tea.Msg {
			_, err := api.Create(ctx, in)
			return actionDoneMsg{success: "To-Do item added successfully!", failure: "adding todo", err: err}
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, keys.Down):
		if m.cursor < m.rows()-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, keys.NextLang):
		m.language = (m.language + 1) % len(Languages)
		return m, nil
	case key.Matches(msg, keys.PrevLang):
		m.language = (m.language + len(Languages) - 1) % len(Languages)
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Add):
		m.adding = true
		m.form = newAddForm()
		m.setStatus(statusInfo, "")
		cmd := m.form.setFocus(fieldTitle)
		return m, cmd
	case key.Matches(msg, keys.Reload):
		m.busy = true
		return m, m.load()
	}

	todo, ok := m.selected()
	if !ok {
		return m, nil
	}
	ctx, api, id := m.ctx, m.api, todo.ID

	switch {
	case key.Matches(msg, keys.Complete):
		if todo.Completed {
			m.setStatus(statusInfo, fmt.Sprintf("To-Do item %d is already completed.", id))
			return m, nil
		}
		m.busy = true
		return m, func() tea.Msg {
			_, err := api.Complete(ctx, id)
			return actionDoneMsg{
				success: fmt.Sprintf("To-Do item %d marked as completed!", id),
				failure: "marking todo as completed",
				err:     err,
			}
		}
	case key.Matches(msg, keys.Delete):
		m.busy = true
		return m, func() tea.Msg {
			err := api.Delete(ctx, id)
			return actionDoneMsg{
				success: fmt.Sprintf("To-Do item %d deleted successfully!", id),
				failure: "deleting todo",
				deleted: id,
				err:     err,
			}
		}
	case key.Matches(msg, keys.Translate):
		if todo.Completed {
			m.setStatus(statusInfo, "Completed tasks cannot be translated.")
			return m, nil
		}
		m.busy = true
		lang := Languages[m.language]
		source := client.SourceText(todo)
		return m, func() tea.Msg {
			text, err := api.Translate(ctx, source, lang)
			return translatedMsg{id: id, language: lang, source: source, text: text, err: err}
		}
	}
	return m, nil
}

func (m *Model) setTodos(todos []models.Todo) {
	m.pending, m.completed = nil, nil
	for _, t := range todos {
		if t.Completed {
			m.completed = append(m.completed, t)
		} else {
			m.pending = append(m.pending, t)
		}
	}
	m.translations.Sync(todos)
	if m.cursor >= m.rows() {
		m.cursor = max(m.rows()-1, 0)
	}
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind, m.status = kind, text
}

func (m Model) rows() int {
	return len(m.pending) + len(m.completed)
}

// selected returns the todo under the cursor; pending rows come first.
func (m Model) selected() (models.Todo, bool) {
	switch {
	case m.cursor < len(m.pending):
		return m.pending[m.cursor], true
	case m.cursor < m.rows():
		return m.completed[m.cursor-len(m.pending)], true
	}
	return models.Todo{}, false
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Simple To-Do List"))
	b.WriteString("   " + mutedStyle.Render("Translate to:") + " " + accentStyle.Render(Languages[m.language]))
	if m.busy {
		b.WriteString("   " + mutedStyle.Render("working..."))
	}
	b.WriteString("\n\n")

	if m.adding {
		b.WriteString(m.form.view() + "\n\n")
	}

	if m.rows() == 0 && !m.busy {
		b.WriteString(mutedStyle.Render("No To-Do items yet! Press a to add one.") + "\n")
	}
	if len(m.pending) > 0 {
		b.WriteString(headerStyle.Render("Pending Tasks") + "\n")
		for i, t := range m.pending {
			b.WriteString(m.renderTodo(i, i+1, t))
		}
	}
	if len(m.completed) > 0 {
		if len(m.pending) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(headerStyle.Render("Completed Tasks") + "\n")
		for i, t := range m.completed {
			b.WriteString(m.renderTodo(len(m.pending)+i, i+1, t))
		}
	}

	if m.status != "" {
		b.WriteString("\n" + m.renderStatus() + "\n")
	}
	b.WriteString("\n")
	if m.adding {
		b.WriteString(m.help.View(formKeys))
	} else {
		b.WriteString(m.help.View(keys))
	}
	return panelStyle.Render(b.String())
}

func (m Model) renderTodo(row, number int, t models.Todo) string {
	prefix := "  "
	if row == m.cursor && !m.adding {
		prefix = selectedStyle.Render("> ")
	}

	box := pendingStyle.Render(boxUnchecked)
	text := fmt.Sprintf("%d. %s", number, t.Title)
	styleText := func(s string) string { return s }
	if t.Completed {
		box = successStyle.Render(boxChecked)
		styleText = func(s string) string { return doneStyle.Render(s) }
	}

	lines := []string{prefix + box + " " + styleText(titleStyle.Render(text))}
	indent := "       "
	if t.Description != nil && *t.Description != "" {
		lines = append(lines, indent+styleText(mutedStyle.Render(*t.Description)))
	}
	if t.Priority != nil && *t.Priority != "" {
		lines = append(lines, indent+styleText("Priority: "+*t.Priority))
	}
	if t.DueDate != nil {
		lines = append(lines, indent+styleText("Due: "+t.DueDate.String()))
	}
	lang := Languages[m.language]
	if tr, ok := m.translations.Get(t.ID, lang); ok {
		lines = append(lines, indent+styleText(accentStyle.Render("Translated ("+lang+"): ")+tr))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m Model) renderStatus() string {
	switch m.statusKind {
	case statusSuccess:
		return successStyle.Render("✔ " + m.status)
	case statusWarn:
		return warnStyle.Render("! " + m.status)
	case statusError:
		return errorStyle.Render("✖ " + m.status)
	}
	return mutedStyle.Render(m.status)
}
