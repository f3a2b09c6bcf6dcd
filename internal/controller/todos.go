package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"todolist/internal/apperr"
	"todolist/internal/models"
	"todolist/pkg/logger"
)

const welcomeMessage = "Welcome to the To-Do List API (with Persistent Database)!"

// TodoService is the entity API the handlers call.
type TodoService interface {
	ListRaw(ctx context.Context) ([]byte, error)
	GetRaw(ctx context.Context, id int64) ([]byte, error)
	Create(ctx context.Context, in models.TodoCreate) (*models.Todo, error)
	Update(ctx context.Context, id int64, patch models.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, id int64) error
	Ready(ctx context.Context) error
}

// Translator is the translation pass-through.
type Translator interface {
	Available() bool
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// Controller holds the HTTP handlers and the services they use.
type Controller struct {
	todos      TodoService
	translator Translator
}

// New creates a Controller.
func New(todos TodoService, translator Translator) *Controller {
	return &Controller{todos: todos, translator: translator}
}

// Root returns the welcome message.
func (h *Controller) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": welcomeMessage})
}

// Health returns 200 if the process is alive. Used by load balancers.
func (h *Controller) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Ready returns 200 if the store (and the cache, when enabled) is reachable.
func (h *Controller) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.todos.Ready(ctx); err != nil {
		logger.Warn(ctx, "Readiness check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": err.Error()})
		return
	}
	c.String(http.StatusOK, "OK")
}

// GetTodos returns every todo as a JSON array.
func (h *Controller) GetTodos(c *gin.Context) {
	b, err := h.todos.ListRaw(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", b)
}

// CreateTodo validates the body, stores the todo and returns it with 201.
func (h *Controller) CreateTodo(c *gin.Context) {
	var body models.TodoCreate
	if !bindJSON(c, &body) {
		return
	}
	todo, err := h.todos.Create(c.Request.Context(), body)
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, todo)
}

// GetTodo returns a single todo.
func (h *Controller) GetTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	b, err := h.todos.GetRaw(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", b)
}

// UpdateTodo applies a partial update and returns the resulting todo.
func (h *Controller) UpdateTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	var patch models.TodoPatch
	if !bindJSON(c, &patch) {
		return
	}
	todo, err := h.todos.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, todo)
}

// DeleteTodo removes a todo and returns 204.
func (h *Controller) DeleteTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	if err := h.todos.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Translate forwards text to the translation backend. Availability is checked
// before the body is read, so an unconfigured backend answers 503 for any input.
func (h *Controller) Translate(c *gin.Context) {
	if h.translator == nil || !h.translator.Available() {
		h.writeError(c, apperr.ErrTranslatorUnavailable)
		return
	}
	var body models.TranslationRequest
	if !bindJSON(c, &body) {
		return
	}
	out, err := h.translator.Translate(c.Request.Context(), *body.Text, *body.TargetLanguage)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TranslationResponse{TranslatedText: out})
}

func todoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid todo id", "details": c.Param("id")})
		return 0, false
	}
	return id, true
}

// bindJSON decodes and validates the body, answering 400 for malformed JSON and
// 422 for payloads that fail validation.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request", "details": ve.Error()})
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
	return false
}

// writeJSON encodes v exactly as the cached read path does, so a todo returned
// by a write is byte-equal to the same todo read back.
func writeJSON(c *gin.Context, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Error(c.Request.Context(), "Encoding response failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.Data(status, "application/json", b)
}

func (h *Controller) writeError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	var (
		ve *apperr.ValidationError
		se *apperr.StoreError
		ue *apperr.UpstreamError
	)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "To-Do item not found"})
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request", "details": ve.Error()})
	case errors.Is(err, apperr.ErrTranslatorUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Translation service not available. API key might be missing or invalid."})
	case errors.As(err, &ue):
		c.JSON(http.StatusInternalServerError, gin.H{"error": ue.Error()})
	case errors.As(err, &se):
		c.JSON(http.StatusInternalServerError, gin.H{"error": se.Error()})
	default:
		if isContextErr(err) {
			logger.Debug(ctx, "Request cancelled", "error", err)
		} else {
			logger.Error(ctx, "Unhandled error", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
