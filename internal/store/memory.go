package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory keeps forms in process.
type Memory struct {
	mu    sync.RWMutex
	forms map[string]Form
	now   func() time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{forms: make(map[string]Form), now: time.Now}
}

func (m *Memory) Get(_ context.Context, id string) (Form, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	form, ok := m.forms[strings.TrimSpace(id)]
	if !ok {
		return Form{}, ErrNotFound
	}
	form.Schema = form.Schema.Clone()
	return form, nil
}

func (m *Memory) Put(_ context.Context, form Form) (Form, error) {
	prepared, err := prepare(form, m.now())
	if err != nil {
		return Form{}, err
	}
	m.mu.Lock()
	m.forms[prepared.ID] = prepared
	m.mu.Unlock()
	prepared.Schema = prepared.Schema.Clone()
	return prepared, nil
}

// List returns forms most recently updated first.
func (m *Memory) List(_ context.Context) ([]Form, error) {
	m.mu.RLock()
	out := make([]Form, 0, len(m.forms))
	for _, form := range m.forms {
		form.Schema = form.Schema.Clone()
		out = append(out, form)
	}
	m.mu.RUnlock()
	sortForms(out)
	return out, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	id = strings.TrimSpace(id)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.forms[id]; !ok {
		return ErrNotFound
	}
	delete(m.forms, id)
	return nil
}

func (m *Memory) Close() error { return nil }

func sortForms(forms []Form) {
	sort.SliceStable(forms, func(i, j int) bool {
		if forms[i].UpdatedAt.Equal(forms[j].UpdatedAt) {
			return forms[i].ID < forms[j].ID
		}
		return forms[i].UpdatedAt.After(forms[j].UpdatedAt)
	})
}
