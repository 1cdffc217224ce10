// Package notification provides the boundary to the local notification
// mechanism: a trigger store interface, an in-memory implementation, a mock
// test double, and template rendering for reminder texts.
package notification

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrStoreUnavailable is returned when the underlying notification store
// cannot be reached. Callers treat the affected trigger as not created.
var ErrStoreUnavailable = errors.New("notification store unavailable")

// Trigger is one scheduled local notification. Triggers are never mutated;
// any change is a cancel-and-recreate.
type Trigger struct {
	ID     string    `json:"id"`
	FireAt time.Time `json:"fire_at"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
}

// TriggerStore is the interface to the OS notification mechanism. Delivery
// is best-effort; the engine never assumes a created trigger actually fired.
type TriggerStore interface {
	Create(ctx context.Context, t Trigger) error
	Cancel(ctx context.Context, ids []string) error
	PendingIDs(ctx context.Context) ([]string, error)
}

// ---------------------------------------------------------------------------
// Template Engine
// ---------------------------------------------------------------------------

// Template defines a reusable notification template.
type Template struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// TemplateEngine manages notification templates and renders them with data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine creates a TemplateEngine with the built-in templates
// pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{
		templates: make(map[string]*Template),
	}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:    "dose-reminder",
			Title: "Time for {{medication}}",
			Body:  "Your {{dose}} dose of {{medication}} is scheduled for {{time}}.",
		},
		{
			ID:    "dose-catchup",
			Title: "{{medication}} is due soon",
			Body:  "Your {{dose}} dose of {{medication}} is coming up at {{time}}.",
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// RegisterTemplate adds or replaces a template in the engine.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render looks up a template by ID and performs {{key}} replacement using the
// supplied data map. Keys present in the template but absent from data are
// left as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (title, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template %q not found", templateID)
	}

	title = t.Title
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		title = strings.ReplaceAll(title, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return title, body, nil
}

// ---------------------------------------------------------------------------
// Local Store
// ---------------------------------------------------------------------------

// LocalStore is an in-memory TriggerStore. It stands in for the platform
// notification center in a headless deployment and in tests.
type LocalStore struct {
	mu       sync.RWMutex
	triggers map[string]Trigger
}

// NewLocalStore creates an empty LocalStore.
func NewLocalStore() *LocalStore {
	return &LocalStore{triggers: make(map[string]Trigger)}
}

// Create registers a trigger. An existing trigger with the same ID is
// replaced.
func (s *LocalStore) Create(_ context.Context, t Trigger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggers[t.ID] = t
	return nil
}

// Cancel removes the triggers with the given ids. Unknown ids are ignored.
func (s *LocalStore) Cancel(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.triggers, id)
	}
	return nil
}

// PendingIDs returns the ids of all registered triggers, sorted for
// deterministic iteration.
func (s *LocalStore) PendingIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.triggers))
	for id := range s.triggers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Get returns the trigger with the given id, if present.
func (s *LocalStore) Get(id string) (Trigger, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.triggers[id]
	return t, ok
}

// Len returns the number of registered triggers.
func (s *LocalStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.triggers)
}

// ---------------------------------------------------------------------------
// Mock Store (test double)
// ---------------------------------------------------------------------------

// MockStore is a TriggerStore test double that records calls and can be
// told to fail specific trigger creations.
type MockStore struct {
	mu          sync.Mutex
	Created     []Trigger
	Cancelled   [][]string
	FailIDs     map[string]bool
	FailPending bool
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{FailIDs: make(map[string]bool)}
}

func (m *MockStore) Create(_ context.Context, t Trigger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[t.ID] {
		return ErrStoreUnavailable
	}
	m.Created = append(m.Created, t)
	return nil
}

func (m *MockStore) Cancel(_ context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cancelled = append(m.Cancelled, ids)
	return nil
}

func (m *MockStore) PendingIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPending {
		return nil, ErrStoreUnavailable
	}
	var ids []string
	cancelled := make(map[string]bool)
	for _, batch := range m.Cancelled {
		for _, id := range batch {
			cancelled[id] = true
		}
	}
	for _, t := range m.Created {
		if !cancelled[t.ID] {
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}

// CreatedIDs returns the ids of every trigger created so far.
func (m *MockStore) CreatedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.Created))
	for _, t := range m.Created {
		ids = append(ids, t.ID)
	}
	return ids
}
