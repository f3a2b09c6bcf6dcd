package client

import (
	"strings"

	"todolist/internal/models"
)

// SourceText composes the string sent for translation: the title followed by
// any description, priority and due date annotations.
func SourceText(t models.Todo) string {
	var b strings.Builder
	b.WriteString(t.Title)
	if t.Description != nil && *t.Description != "" {
		b.WriteString(" (Description: " + *t.Description + ")")
	}
	if t.Priority != nil && *t.Priority != "" {
		b.WriteString(" (Priority: " + *t.Priority + ")")
	}
	if t.DueDate != nil {
		b.WriteString(" (Due Date: " + t.DueDate.String() + ")")
	}
	return b.String()
}

type translation struct {
	source string
	text   string
}

// TranslationCache remembers translations for the lifetime of one UI session,
// keyed by todo id and target language. It is not safe for concurrent use.
type TranslationCache struct {
	entries map[int64]map[string]translation
}

// NewTranslationCache returns an empty cache.
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{entries: make(map[int64]map[string]translation)}
}

// Get returns the cached translation of todo id into language.
func (c *TranslationCache) Get(id int64, language string) (string, bool) {
	tr, ok := c.entries[id][language]
	return tr.text, ok
}

// Put records a translation of source into language.
func (c *TranslationCache) Put(id int64, language, source, text string) {
	byLang, ok := c.entries[id]
	if !ok {
		byLang = make(map[string]translation)
		c.entries[id] = byLang
	}
	byLang[language] = translation{source: source, text: text}
}

// Forget drops every translation of todo id.
func (c *TranslationCache) Forget(id int64) {
	delete(c.entries, id)
}

// Sync drops translations of todos that no longer exist and of todos whose
// source text changed since the translation was fetched.
func (c *TranslationCache) Sync(todos []models.Todo) {
	current := make(map[int64]string, len(todos))
	for _, t := range todos {
		current[t.ID] = SourceText(t)
	}
	for id, byLang := range c.entries {
		src, ok := current[id]
		if !ok {
			delete(c.entries, id)
			continue
		}
		for lang, tr := range byLang {
			if tr.source != src {
				delete(byLang, lang)
			}
		}
		if len(byLang) == 0 {
			delete(c.entries, id)
		}
	}
}

// Len returns the number of cached translations.
func (c *TranslationCache) Len() int {
	n := 0
	for _, byLang := range c.entries {
		n += len(byLang)
	}
	return n
}
