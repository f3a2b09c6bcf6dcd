// Package translate forwards text to a generative model with a translation instruction.
package translate

import (
	"context"
	"fmt"

	"todolist/internal/apperr"
	"todolist/internal/config"
	"todolist/pkg/logger"
)

// Generator turns a prompt into model output.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Translator is the pass-through. Without a Generator every call fails with
// apperr.ErrTranslatorUnavailable.
type Translator struct {
	gen Generator
}

// New wraps gen; gen may be nil.
func New(gen Generator) *Translator {
	return &Translator{gen: gen}
}

// FromConfig builds a Gemini-backed translator, or an unavailable one when no
// credential is configured or the client cannot be created. It never fails startup.
func FromConfig(ctx context.Context, cfg *config.Config) *Translator {
	if !cfg.TranslationEnabled() {
		logger.Warn(ctx, "GOOGLE_API_KEY not set; translation disabled")
		return New(nil)
	}
	gen, err := NewGemini(ctx, cfg.GoogleAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Error(ctx, "Error configuring Gemini client; translation disabled", "error", err)
		return New(nil)
	}
	logger.Info(ctx, "Translation enabled", "model", cfg.GeminiModel)
	return New(gen)
}

// Available reports whether a backend is configured.
func (t *Translator) Available() bool {
	return t != nil && t.gen != nil
}

// Prompt builds the instruction sent to the model.
func Prompt(text, targetLanguage string) string {
	return fmt.Sprintf("Translate the following text into %s: %s", targetLanguage, text)
}

// Translate returns the model's raw output for the translation prompt.
func (t *Translator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if !t.Available() {
		return "", apperr.ErrTranslatorUnavailable
	}
	out, err := t.gen.Generate(ctx, Prompt(text, targetLanguage))
	if err != nil {
		logger.Error(ctx, "Gemini translation error", "error", err)
		return "", &apperr.UpstreamError{Err: err}
	}
	return out, nil
}
