// Package i18n provides translated messages for report headers, status
// labels, and reconciliation notes.
//
// Catalogs are JSON files embedded at build time. Unknown languages and
// missing keys fall back to English, and a key with no English entry
// renders as the key itself so a gap is visible rather than silent.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed messages_*.json
var catalogFS embed.FS

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "en"

// Catalog resolves message keys for one language.
type Catalog struct {
	language string
	messages map[string]string
	fallback map[string]string
}

// New loads the catalog for a language code ("en", "ru"). An unknown
// language yields the English catalog.
func New(language string) (*Catalog, error) {
	fallback, err := load(DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("load fallback catalog: %w", err)
	}
	messages := fallback
	if language != "" && language != DefaultLanguage {
		if m, err := load(language); err == nil {
			messages = m
		} else {
			language = DefaultLanguage
		}
	}
	if language == "" {
		language = DefaultLanguage
	}
	return &Catalog{language: language, messages: messages, fallback: fallback}, nil
}

// Language returns the effective language code.
func (c *Catalog) Language() string {
	return c.language
}

// Get resolves a key, substituting {name} placeholders from the trailing
// name/value pairs:
//
//	c.Get("notes.wide_search_earliest", "count", "3")
func (c *Catalog) Get(key string, kv ...string) string {
	msg, ok := c.messages[key]
	if !ok {
		msg, ok = c.fallback[key]
	}
	if !ok {
		msg = key
	}
	for i := 0; i+1 < len(kv); i += 2 {
		msg = strings.ReplaceAll(msg, "{"+kv[i]+"}", kv[i+1])
	}
	return msg
}

func load(language string) (map[string]string, error) {
	data, err := catalogFS.ReadFile("messages_" + language + ".json")
	if err != nil {
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse catalog %q: %w", language, err)
	}
	return m, nil
}
