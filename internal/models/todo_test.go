package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"todolist/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoPatch_Unmarshal(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantTitle Field[string]
		wantDesc  Field[string]
		wantDone  Field[bool]
		wantDue   Field[Date]
	}{
		{
			name:     "only completed",
			body:     `{"completed": true}`,
			wantDone: Some(true),
		},
		{
			name:     "explicit null description",
			body:     `{"description": null}`,
			wantDesc: Null[string](),
		},
		{
			name:      "title and due date",
			body:      `{"title": "Buy milk", "due_date": "2030-04-05"}`,
			wantTitle: Some("Buy milk"),
			wantDue:   Some(Date{Year: 2030, Month: time.April, Day: 5}),
		},
		{
			name: "empty object",
			body: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p TodoPatch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))

			assert.Equal(t, tt.wantTitle, p.Title)
			assert.Equal(t, tt.wantDesc, p.Description)
			assert.Equal(t, tt.wantDone, p.Completed)
			assert.Equal(t, tt.wantDue, p.DueDate)
			assert.False(t, p.Priority.Set)
		})
	}
}

func TestTodoPatch_MarshalOmitsUnset(t *testing.T) {
	p := TodoPatch{Completed: Some(true), Priority: Null[string]()}

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"completed": true, "priority": null}`, string(b))
}

func TestTodoPatch_Validate(t *testing.T) {
	tests := []struct {
		name      string
		patch     TodoPatch
		wantField string
	}{
		{name: "empty patch", patch: TodoPatch{}},
		{name: "null description allowed", patch: TodoPatch{Description: Null[string]()}},
		{name: "null title", patch: TodoPatch{Title: Null[string]()}, wantField: "title"},
		{name: "empty title", patch: TodoPatch{Title: Some("")}, wantField: "title"},
		{name: "null completed", patch: TodoPatch{Completed: Null[bool]()}, wantField: "completed"},
		{name: "long priority", patch: TodoPatch{Priority: Some(strings.Repeat("p", 51))}, wantField: "priority"},
		{name: "priority at limit", patch: TodoPatch{Priority: Some(strings.Repeat("p", 50))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *apperr.ValidationError
			require.True(t, errors.As(err, &ve), "want *ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestTodoCreate_Validate(t *testing.T) {
	assert.NoError(t, TodoCreate{Title: "Buy milk"}.Validate())
	assert.Error(t, TodoCreate{}.Validate())

	long := strings.Repeat("x", 51)
	assert.Error(t, TodoCreate{Title: "t", Priority: &long}.Validate())
}

func TestTodo_MarshalNullOptionals(t *testing.T) {
	b, err := json.Marshal(Todo{ID: 1, Title: "Buy milk"})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":1,"title":"Buy milk","description":null,"completed":false,"priority":null,"due_date":null}`,
		string(b))
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)

	var scanned Date
	require.NoError(t, scanned.Scan("2024-02-29"))
	assert.Equal(t, d, scanned)
	require.NoError(t, scanned.Scan(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, d, scanned)
	require.NoError(t, scanned.Scan([]byte("2024-02-29T00:00:00Z")))
	assert.Equal(t, d, scanned)
	assert.Error(t, scanned.Scan(42))

	assert.True(t, Date{2024, 1, 1}.Before(Date{2024, 1, 2}))
	assert.False(t, Date{2024, 1, 2}.Before(Date{2024, 1, 2}))
	assert.True(t, Date{2023, 12, 31}.Before(Date{2024, 1, 1}))

	var bad Date
	assert.Error(t, json.Unmarshal([]byte(`20240229`), &bad))
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr("   "))
	require.NotNil(t, StringPtr(" High "))
	assert.Equal(t, "High", *StringPtr(" High "))
}
