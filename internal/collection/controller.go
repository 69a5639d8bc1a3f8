package collection

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrNoSelection is returned by Update and Remove when no row is selected.
var ErrNoSelection = errors.New("no entity selected")

// DefaultPageSize matches the service's web front end.
const DefaultPageSize = 5

// Entity is any record the controller can manage. IDs are server-assigned.
type Entity interface {
	EntityID() int64
}

// Source performs the remote round-trips for one entity kind.
type Source[E Entity] interface {
	List(ctx context.Context) ([]E, error)
	Create(ctx context.Context, entity E) (*E, error)
	Update(ctx context.Context, id int64, entity E) (*E, error)
	Delete(ctx context.Context, id int64) error
}

// Config assembles a Controller.
type Config[E Entity] struct {
	Source Source[E]

	// SearchFields returns the values the free-text term is matched against.
	SearchFields func(E) []string

	// Category returns the value compared against an exact category
	// constraint. Nil disables category filtering for this entity kind.
	Category func(E) string

	// PageSize overrides DefaultPageSize when positive.
	PageSize int
}

// Controller owns the in-memory collection for one list screen: the full set
// in server order, the current filter, the current page, and the single
// selection. The visible subset is derived on every read, never stored.
//
// The full set is only ever replaced wholesale (on load) or element-swapped
// from the server's returned representation (after a mutation). There is no
// version check: a stale update silently overwrites a concurrent change.
type Controller[E Entity] struct {
	mu       sync.RWMutex
	source   Source[E]
	fields   func(E) []string
	category func(E) string
	pageSize int

	fullSet    []E
	loaded     bool
	term       string
	categoryEq string
	page       int
	selected   int64
	hasSelect  bool
}

// New builds a Controller from cfg.
func New[E Entity](cfg Config[E]) *Controller[E] {
	size := cfg.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Controller[E]{
		source:   cfg.Source,
		fields:   cfg.SearchFields,
		category: cfg.Category,
		pageSize: size,
		page:     1,
	}
}

// Load fetches the full collection, replacing whatever was held before.
// On failure the previous set is discarded and the error is returned; the
// caller decides whether to re-trigger. Load never retries.
func (c *Controller[E]) Load(ctx context.Context) error {
	items, err := c.source.List(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.fullSet = nil
		c.loaded = false
		return err
	}
	c.fullSet = items
	c.loaded = true
	c.page = 1
	c.hasSelect = false
	return nil
}

// Loaded reports whether a collection has been fetched successfully.
func (c *Controller[E]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// SetFilter replaces the filter criteria, resets the page to 1, and clears
// the selection.
func (c *Controller[E]) SetFilter(term, category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.term = term
	c.categoryEq = category
	c.page = 1
	c.hasSelect = false
}

// Filter returns the current criteria.
func (c *Controller[E]) Filter() (term, category string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.term, c.categoryEq
}

// Select toggles the selection: selecting the already-selected ID clears it,
// selecting another ID replaces it.
func (c *Controller[E]) Select(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasSelect && c.selected == id {
		c.hasSelect = false
		return
	}
	c.selected = id
	c.hasSelect = true
}

// Selected returns the selected entity, if any and still present in the set.
func (c *Controller[E]) Selected() (E, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var zero E
	if !c.hasSelect {
		return zero, false
	}
	for _, item := range c.fullSet {
		if item.EntityID() == c.selected {
			return item, true
		}
	}
	return zero, false
}

// Create submits a validated payload. On success the server's returned entity
// is appended to the full set and the selection is cleared; on failure the
// set is untouched.
func (c *Controller[E]) Create(ctx context.Context, payload E) (*E, error) {
	created, err := c.source.Create(ctx, payload)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fullSet = append(c.fullSet, *created)
	c.hasSelect = false
	return created, nil
}

// Update submits a validated payload for the selected entity. On success the
// selected element is replaced by the server's returned representation and
// the selection is cleared; on failure the set is untouched.
func (c *Controller[E]) Update(ctx context.Context, payload E) (*E, error) {
	c.mu.RLock()
	if !c.hasSelect {
		c.mu.RUnlock()
		return nil, ErrNoSelection
	}
	id := c.selected
	c.mu.RUnlock()

	updated, err := c.source.Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.fullSet {
		if item.EntityID() == id {
			c.fullSet[i] = *updated
			break
		}
	}
	c.hasSelect = false
	return updated, nil
}

// Remove deletes the selected entity. Confirmation happens before the call,
// in the UI. On success the entity leaves the full set and the selection is
// cleared.
func (c *Controller[E]) Remove(ctx context.Context) error {
	c.mu.RLock()
	if !c.hasSelect {
		c.mu.RUnlock()
		return ErrNoSelection
	}
	id := c.selected
	c.mu.RUnlock()

	if err := c.source.Delete(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.fullSet[:0]
	for _, item := range c.fullSet {
		if item.EntityID() != id {
			kept = append(kept, item)
		}
	}
	c.fullSet = kept
	c.hasSelect = false
	return nil
}

// SetPage moves to page n, clamped to the valid range for the current
// visible subset.
func (c *Controller[E]) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	last := c.pageCountLocked()
	if n < 1 {
		n = 1
	}
	if n > last {
		n = last
	}
	c.page = n
}

// Page returns the current 1-based page number.
func (c *Controller[E]) Page() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	// A shrinking visible subset can leave the stored page past the end.
	last := c.pageCountLocked()
	if c.page > last {
		return last
	}
	return c.page
}

// PageCount returns the number of pages in the visible subset, at least 1.
func (c *Controller[E]) PageCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pageCountLocked()
}

// PageSize returns the configured page size.
func (c *Controller[E]) PageSize() int {
	return c.pageSize
}

// VisiblePage returns the current page of the filtered subset.
func (c *Controller[E]) VisiblePage() []E {
	c.mu.RLock()
	defer c.mu.RUnlock()
	visible := c.visibleLocked()
	page := c.page
	if last := c.pageCountLocked(); page > last {
		page = last
	}
	start := (page - 1) * c.pageSize
	if start >= len(visible) {
		return nil
	}
	end := start + c.pageSize
	if end > len(visible) {
		end = len(visible)
	}
	out := make([]E, end-start)
	copy(out, visible[start:end])
	return out
}

// Visible returns the whole filtered subset in set order.
func (c *Controller[E]) Visible() []E {
	c.mu.RLock()
	defer c.mu.RUnlock()
	visible := c.visibleLocked()
	out := make([]E, len(visible))
	copy(out, visible)
	return out
}

// TotalVisible returns the size of the filtered subset.
func (c *Controller[E]) TotalVisible() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.visibleLocked())
}

// Total returns the size of the full set. A zero Total with a zero
// TotalVisible means the collection is empty; a non-zero Total with a zero
// TotalVisible means nothing matches the filter. Both are valid states.
func (c *Controller[E]) Total() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.fullSet)
}

func (c *Controller[E]) pageCountLocked() int {
	n := len(c.visibleLocked())
	if n == 0 {
		return 1
	}
	return (n + c.pageSize - 1) / c.pageSize
}

func (c *Controller[E]) visibleLocked() []E {
	term := strings.ToLower(strings.TrimSpace(c.term))
	if term == "" && c.categoryEq == "" {
		return c.fullSet
	}
	var out []E
	for _, item := range c.fullSet {
		if c.categoryEq != "" && (c.category == nil || c.category(item) != c.categoryEq) {
			continue
		}
		if term != "" && !c.matchesTerm(item, term) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (c *Controller[E]) matchesTerm(item E, lowered string) bool {
	for _, field := range c.fields(item) {
		if strings.Contains(strings.ToLower(field), lowered) {
			return true
		}
	}
	return false
}
