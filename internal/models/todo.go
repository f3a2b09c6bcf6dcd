package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"todolist/internal/apperr"
)

// PriorityMaxLen bounds the free-form priority label.
const PriorityMaxLen = 50

// Todo represents a todo item. Absent optional fields encode as null.
type Todo struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	Priority    *string `json:"priority"`
	DueDate     *Date   `json:"due_date"`
}

// TodoCreate is the body of POST /todos.
type TodoCreate struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty" binding:"omitempty,max=50"`
	DueDate     *Date   `json:"due_date,omitempty"`
}

// Validate applies the same rules as the binding tags for callers that do not go through gin.
func (c TodoCreate) Validate() error {
	if c.Title == "" {
		return apperr.Invalid("title", "field required")
	}
	if c.Priority != nil && utf8.RuneCountInString(*c.Priority) > PriorityMaxLen {
		return apperr.Invalid("priority", "must be at most 50 characters")
	}
	return nil
}

// TodoPatch is the body of PUT /todos/{id}. Only supplied fields are written;
// a supplied null clears a nullable column.
type TodoPatch struct {
	Title       Field[string] `json:"title,omitzero"`
	Description Field[string] `json:"description,omitzero"`
	Completed   Field[bool]   `json:"completed,omitzero"`
	Priority    Field[string] `json:"priority,omitzero"`
	DueDate     Field[Date]   `json:"due_date,omitzero"`
}

// Empty reports whether no field was supplied.
func (p TodoPatch) Empty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Completed.Set && !p.Priority.Set && !p.DueDate.Set
}

// Validate rejects values the store would refuse: null or empty title, null completed,
// and over-long priority.
func (p TodoPatch) Validate() error {
	if p.Title.Set {
		if p.Title.Null {
			return apperr.Invalid("title", "must not be null")
		}
		if p.Title.Value == "" {
			return apperr.Invalid("title", "must not be empty")
		}
	}
	if p.Completed.Set && p.Completed.Null {
		return apperr.Invalid("completed", "must not be null")
	}
	if p.Priority.Set && !p.Priority.Null && utf8.RuneCountInString(p.Priority.Value) > PriorityMaxLen {
		return apperr.Invalid("priority", "must be at most 50 characters")
	}
	return nil
}

// Event actions published after a successful write.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// TodoEvent is the message payload for Kafka (created/updated/deleted).
type TodoEvent struct {
	Action     string    `json:"action"`
	ID         int64     `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TranslationRequest is the body of POST /translate.
type TranslationRequest struct {
	Text           *string `json:"text" binding:"required"`
	TargetLanguage *string `json:"target_language" binding:"required"`
}

// TranslationResponse is the result of POST /translate.
type TranslationResponse struct {
	TranslatedText string `json:"translated_text"`
}

// StringPtr returns nil for a blank string and a pointer to the trimmed value otherwise.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
