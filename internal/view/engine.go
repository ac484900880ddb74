package view

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/merchkit/storefront/internal/store"
)

// SortKey enumerates the supported sort orders.
type SortKey string

const (
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
)

// ParseSortKey validates a raw sort value.
func ParseSortKey(raw string) (SortKey, bool) {
	switch SortKey(raw) {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return SortKey(raw), true
	}
	return "", false
}

// AllCategories is the sentinel category meaning "no category filter".
const AllCategories = "All"

// Status is the view validity state.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusErrored Status = "errored"
)

// ViewState is the aggregate filter/sort/search/pagination selection.
// It is owned exclusively by the Engine; the catalog store never reads it.
type ViewState struct {
	Category string          `json:"category"`
	Search   string          `json:"search"`
	Sort     SortKey         `json:"sort"`
	PriceMin decimal.Decimal `json:"priceMin"`
	PriceMax decimal.Decimal `json:"priceMax"`
	Page     int             `json:"page"`
}

// Engine derives displayable catalog views from (store snapshot, ViewState).
// It holds the mutable view state and the slider extremes from the last
// price-bounds derivation. The engine itself is not safe for concurrent
// use; the catalog service is its single owner and serializes access.
type Engine struct {
	pageSize    int
	sectionSize int

	state    ViewState
	boundMin decimal.Decimal
	boundMax decimal.Decimal
	status   Status

	collator *collate.Collator
}

// NewEngine constructs an Engine in the loading state. seedSearch is the
// initial search text handed in from the navigational layer; it may be
// empty.
func NewEngine(pageSize, sectionSize int, seedSearch string) *Engine {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if sectionSize <= 0 {
		sectionSize = DefaultSectionSize
	}
	return &Engine{
		pageSize:    pageSize,
		sectionSize: sectionSize,
		state: ViewState{
			Category: AllCategories,
			Search:   seedSearch,
			Sort:     SortPriceAsc,
			PriceMin: DefaultPriceMin,
			PriceMax: DefaultPriceMax,
			Page:     1,
		},
		boundMin: DefaultPriceMin,
		boundMax: DefaultPriceMax,
		status:   StatusLoading,
		collator: collate.New(language.English),
	}
}

// Default sizing for the all-products grid and the home-page sections.
const (
	DefaultPageSize    = 8
	DefaultSectionSize = 8
)

// State returns a copy of the current view state.
func (e *Engine) State() ViewState { return e.state }

// Status returns the current view validity state.
func (e *Engine) Status() Status { return e.status }

// BeginFetch moves the engine into the loading state for a new fetch.
// From Errored the only legal transition is via Retry, so an errored
// engine stays errored here.
func (e *Engine) BeginFetch() {
	if e.status != StatusErrored {
		e.status = StatusLoading
	}
}

// Retry transitions Errored to Loading. It reports false when the engine
// is not errored, in which case nothing changes.
func (e *Engine) Retry() bool {
	if e.status != StatusErrored {
		return false
	}
	e.status = StatusLoading
	return true
}

// FinishLoad records the outcome of a fetch.
func (e *Engine) FinishLoad(err error) {
	if err != nil {
		e.status = StatusErrored
		return
	}
	e.status = StatusReady
}

// StateChange carries the view-state fields a caller wants to change.
// Nil fields are left untouched.
type StateChange struct {
	Category *string
	Search   *string
	Sort     *SortKey
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
	Page     *int
}

// Apply is the single update entry point for the view state. Any change to
// category, search, sort or price bounds narrows or reorders the filtered
// set and therefore resets the page to 1; an explicit page request is
// honored only on its own and is clamped to the filtered page count,
// saturating at the boundaries instead of wrapping or failing.
//
// Mutations are accepted in every status; while Errored or Loading the
// store is empty, so derivations render the empty state until data lands.
func (e *Engine) Apply(ch StateChange, snap store.Snapshot) {
	changed := false

	if ch.Category != nil {
		name := strings.TrimSpace(*ch.Category)
		if name == "" {
			name = AllCategories
		}
		if !strings.EqualFold(name, e.state.Category) {
			e.state.Category = name
			changed = true
		}
	}
	if ch.Search != nil && *ch.Search != e.state.Search {
		e.state.Search = *ch.Search
		changed = true
	}
	if ch.Sort != nil && *ch.Sort != e.state.Sort {
		e.state.Sort = *ch.Sort
		changed = true
	}
	if ch.PriceMin != nil && !ch.PriceMin.Equal(e.state.PriceMin) {
		e.state.PriceMin = *ch.PriceMin
		changed = true
	}
	if ch.PriceMax != nil && !ch.PriceMax.Equal(e.state.PriceMax) {
		e.state.PriceMax = *ch.PriceMax
		changed = true
	}

	if changed {
		e.state.Page = 1
		return
	}

	if ch.Page != nil {
		count := PageCount(len(e.filter(snap)), e.pageSize)
		page := *ch.Page
		if page < 1 {
			page = 1
		} else if page > count {
			page = count
		}
		e.state.Page = page
	}
}

// SelectCategory applies a category-banner click: it sets the category
// filter exactly like Apply would. The accompanying scroll to the
// all-products section is a display-layer effect triggered off the change.
func (e *Engine) SelectCategory(name string, snap store.Snapshot) {
	e.Apply(StateChange{Category: &name}, snap)
}

// ResetFilters restores the category sentinel and sets the active price
// bounds back to the slider extremes from the latest bounds derivation.
func (e *Engine) ResetFilters() {
	e.state.Category = AllCategories
	e.state.PriceMin = e.boundMin
	e.state.PriceMax = e.boundMax
	e.state.Page = 1
}

// RederiveBounds recomputes the slider extremes over the full product set
// and resets the active bounds to them. Called whenever the store's
// product set changes; the filtered set changes with it, so the page also
// resets.
func (e *Engine) RederiveBounds(snap store.Snapshot) {
	e.boundMin, e.boundMax = PriceBounds(snap.Products)
	e.state.PriceMin = e.boundMin
	e.state.PriceMax = e.boundMax
	e.state.Page = 1
}
