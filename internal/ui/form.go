package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todolist/internal/models"
)

// Priorities offered by the add form. "None" sends no priority.
var Priorities = []string{"None", "Low", "Medium", "High"}

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldPriority
	fieldDueDate
	fieldCount
)

// addForm is the inline "Add New To-Do" form.
type addForm struct {
	title       textinput.Model
	description textinput.Model
	dueDate     textinput.Model
	priority    int
	focus       formField
}

func newAddForm() addForm {
	title := textinput.New()
	title.Prompt = "Title: "
	title.Placeholder = "What needs doing?"
	title.CharLimit = 200

	desc := textinput.New()
	desc.Prompt = "Description (optional): "
	desc.CharLimit = 500

	due := textinput.New()
	due.Prompt = "Due Date (optional): "
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = len(models.DateLayout)

	return addForm{title: title, description: desc, dueDate: due}
}

func (f *addForm) input(field formField) *textinput.Model {
	switch field {
	case fieldTitle:
		return &f.title
	case fieldDescription:
		return &f.description
	case fieldDueDate:
		return &f.dueDate
	}
	return nil
}

func (f *addForm) setFocus(field formField) tea.Cmd {
	f.title.Blur()
	f.description.Blur()
	f.dueDate.Blur()
	f.focus = (field + fieldCount) % fieldCount
	if in := f.input(f.focus); in != nil {
		return in.Focus()
	}
	return nil
}

func (f addForm) update(msg tea.Msg) (addForm, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, formKeys.Next):
			cmd := f.setFocus(f.focus + 1)
			return f, cmd
		case key.Matches(km, formKeys.Prev):
			cmd := f.setFocus(f.focus - 1)
			return f, cmd
		}
		if f.focus == fieldPriority {
			switch {
			case key.Matches(km, formKeys.Left) && f.priority > 0:
				f.priority--
			case key.Matches(km, formKeys.Right) && f.priority < len(Priorities)-1:
				f.priority++
			}
			return f, nil
		}
	}
	in := f.input(f.focus)
	if in == nil {
		return f, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return f, cmd
}

// build turns the form into a create payload. A non-empty warning means the
// form is not submittable and nothing should be sent.
func (f addForm) build(today models.Date) (models.TodoCreate, string) {
	title := strings.TrimSpace(f.title.Value())
	if title == "" {
		return models.TodoCreate{}, "Please enter a title for the To-Do item."
	}
	in := models.TodoCreate{
		Title:       title,
		Description: models.StringPtr(f.description.Value()),
	}
	if p := Priorities[f.priority]; p != "None" {
		in.Priority = &p
	}
	if raw := strings.TrimSpace(f.dueDate.Value()); raw != "" {
		due, err := models.ParseDate(raw)
		if err != nil {
			return models.TodoCreate{}, "Due date must be a valid date in YYYY-MM-DD format."
		}
		if due.Before(today) {
			return models.TodoCreate{}, "Due date cannot be in the past."
		}
		in.DueDate = &due
	}
	return in, ""
}

func (f addForm) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Add New To-Do") + "\n")
	b.WriteString(f.title.View() + "\n")
	b.WriteString(f.description.View() + "\n")

	prio := make([]string, len(Priorities))
	for i, p := range Priorities {
		if i == f.priority {
			prio[i] = selectedStyle.Render(" " + p + " ")
		} else {
			prio[i] = mutedStyle.Render(" " + p + " ")
		}
	}
	label := "Priority: "
	if f.focus == fieldPriority {
		label = accentStyle.Render("Priority: ")
	}
	b.WriteString(label + strings.Join(prio, " ") + "\n")
	b.WriteString(f.dueDate.View())
	return panelStyle.Render(b.String())
}
