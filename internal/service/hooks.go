package service

import (
	"context"
	"sync"

	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

// HookType represents the type of hook event.
type HookType string

const (
	// BeforeExecute runs after compilation and before the engine is called.
	// An error aborts the request.
	BeforeExecute HookType = "beforeExecute"
	// AfterExecute runs once the engine returns.
	AfterExecute HookType = "afterExecute"
)

// AllTables registers a hook for every table.
const AllTables = "*"

// HookContext contains information passed to hooks.
type HookContext struct {
	Context context.Context

	// Table is the logical table of the request.
	Table string

	// Statement is the scoped, compiled statement.
	Statement domain.Statement

	// Rows is the number of rows returned or changed (after hooks).
	Rows int64

	// Error is the engine error, if any (after hooks).
	Error error
}

// HookFunc is a function that can be registered as a hook.
type HookFunc func(hc *HookContext) error

// Hooks holds execution hooks keyed by table.
type Hooks struct {
	hooks map[string]map[HookType][]HookFunc
	mu    sync.RWMutex
}

// NewHooks creates a new Hooks instance.
func NewHooks() *Hooks {
	return &Hooks{
		hooks: make(map[string]map[HookType][]HookFunc),
	}
}

// Register registers a hook for a table and hook type.
func (h *Hooks) Register(table string, hookType HookType, fn HookFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hooks[table] == nil {
		h.hooks[table] = make(map[HookType][]HookFunc)
	}
	h.hooks[table][hookType] = append(h.hooks[table][hookType], fn)
}

// OnBeforeExecute registers a before hook.
func (h *Hooks) OnBeforeExecute(table string, fn HookFunc) {
	h.Register(table, BeforeExecute, fn)
}

// OnAfterExecute registers an after hook.
func (h *Hooks) OnAfterExecute(table string, fn HookFunc) {
	h.Register(table, AfterExecute, fn)
}

// Execute runs the AllTables hooks and then the table's own hooks, stopping
// at the first error. A nil Hooks runs nothing.
func (h *Hooks) Execute(hc *HookContext, hookType HookType) error {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	fns := make([]HookFunc, 0, len(h.hooks[AllTables][hookType])+len(h.hooks[hc.Table][hookType]))
	fns = append(fns, h.hooks[AllTables][hookType]...)
	if hc.Table != AllTables {
		fns = append(fns, h.hooks[hc.Table][hookType]...)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		if err := fn(hc); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes all hooks.
func (h *Hooks) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = make(map[string]map[HookType][]HookFunc)
}

// ClearTable removes all hooks for a specific table.
func (h *Hooks) ClearTable(table string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.hooks, table)
}
