// Package statement parses bank statement workbooks into transactions.
//
// Each bank format is a Parser registered with the Registry; the Sberbank
// xlsx export is the built-in one. Parsers also return the statement's raw
// cell text so the reporting period can be extracted from it downstream.
package statement

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmarkov/garage-rent-tracker/internal/domain/payment"
)

// ErrParse wraps any statement that cannot be read or holds no usable rows.
var ErrParse = errors.New("statement parse error")

// Parsed is a fully read statement: the incoming transactions and the raw
// text blob used for period extraction.
type Parsed struct {
	Transactions []payment.Transaction
	RawText      string
}

// Parser reads one bank's statement format.
type Parser interface {
	// Name is the source-format identifier, e.g. "sberbank".
	Name() string
	// Parse reads the statement at path.
	Parse(path string) (*Parsed, error)
	// Sniff reports whether the file looks like this parser's format.
	Sniff(path string) bool
}

// Registry holds the known statement parsers.
type Registry struct {
	parsers map[string]Parser
	order   []string
	mu      sync.RWMutex
	logger  *slog.Logger
}

// NewRegistry creates a registry with the built-in parsers registered.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{parsers: make(map[string]Parser), logger: logger}
	_ = r.Register(NewSberbankParser(logger))
	return r
}

// Register adds a parser to the registry.
func (r *Registry) Register(p Parser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.parsers[name]; exists {
		return fmt.Errorf("statement parser %s already registered", name)
	}
	r.parsers[name] = p
	r.order = append(r.order, name)
	r.logger.Debug("registered statement parser", slog.String("format", name))
	return nil
}

// Get returns a parser by format name.
func (r *Registry) Get(name string) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.parsers[name]
	if !exists {
		return nil, fmt.Errorf("statement parser %s not found", name)
	}
	return p, nil
}

// Detect returns the first registered parser whose Sniff accepts the file.
func (r *Registry) Detect(path string) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		if r.parsers[name].Sniff(path) {
			return r.parsers[name], nil
		}
	}
	return nil, fmt.Errorf("%w: no registered parser recognizes %s", ErrParse, path)
}

// List returns all registered format names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
