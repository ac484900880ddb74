package view

import (
	"sort"
	"strings"

	"github.com/merchkit/storefront/internal/models"
	"github.com/merchkit/storefront/internal/store"
)

// View is the displayable result of one derivation.
type View struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`

	State ViewState `json:"state"`

	// ShowAllOnly signals the display layer to suppress the home-page
	// sections and show only the flat all-products list. Set while a
	// search is active.
	ShowAllOnly bool          `json:"showAllOnly"`
	Home        []HomeSection `json:"home,omitempty"`

	Products   []models.Product `json:"products"`
	Page       PageInfo         `json:"page"`
	PriceRange PriceRange       `json:"priceRange"`
}

// PageInfo is the pagination metadata for the all-products list.
type PageInfo struct {
	Current    int   `json:"current"`
	Size       int   `json:"size"`
	TotalItems int   `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
	Window     []int `json:"window"`
}

// PriceRange is the slider extremes derived over the full product set.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Derive computes the full view for the current snapshot and view state.
// It is a pure function of its inputs: no I/O, no state mutation, and the
// same pair always yields the same output.
func (e *Engine) Derive(snap store.Snapshot) View {
	filtered := e.filter(snap)
	e.sortProducts(filtered)

	total := len(filtered)
	count := PageCount(total, e.pageSize)
	page := e.state.Page
	if page < 1 {
		page = 1
	} else if page > count {
		page = count
	}

	start := (page - 1) * e.pageSize
	end := start + e.pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	searchActive := strings.TrimSpace(e.state.Search) != ""
	var home []HomeSection
	if !searchActive {
		home = e.homeSections(snap)
	}

	errMsg := ""
	if snap.Err != nil {
		errMsg = snap.Err.Error()
	}

	boundMin, _ := e.boundMin.Float64()
	boundMax, _ := e.boundMax.Float64()

	return View{
		Status:      e.status,
		Error:       errMsg,
		State:       e.state,
		ShowAllOnly: searchActive,
		Home:        home,
		Products:    filtered[start:end],
		Page: PageInfo{
			Current:    page,
			Size:       e.pageSize,
			TotalItems: total,
			TotalPages: count,
			Window:     PageWindow(page, count),
		},
		PriceRange: PriceRange{Min: boundMin, Max: boundMax},
	}
}

// filter runs the category, search and price stages in order. Each stage
// narrows the candidate set before the next, and the sort that follows is
// bounded by the already-filtered count.
func (e *Engine) filter(snap store.Snapshot) []models.Product {
	query := strings.ToLower(strings.TrimSpace(e.state.Search))
	byCategory := !strings.EqualFold(e.state.Category, AllCategories)

	out := make([]models.Product, 0, len(snap.Products))
	for _, p := range snap.Products {
		name, known := snap.CategoryName(p.CategoryID)

		// A product whose category lookup fails matches no named filter
		// but still shows up under "All".
		if byCategory && (!known || !strings.EqualFold(name, e.state.Category)) {
			continue
		}
		if query != "" && !matchesQuery(p, name, query) {
			continue
		}
		price := p.SalePriceValue()
		if price.Cmp(e.state.PriceMin) < 0 || price.Cmp(e.state.PriceMax) > 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}

// matchesQuery reports whether the lower-cased query appears in the product
// name, resolved category name, description or brand. Plain substring
// containment, no ranking.
func matchesQuery(p models.Product, categoryName, query string) bool {
	for _, field := range [...]string{p.Name, categoryName, p.Description, p.Brand} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// sortProducts orders the filtered set in place. The sort is stable so the
// store's original order is preserved among equal keys. An unknown sort
// key leaves the original order untouched.
func (e *Engine) sortProducts(products []models.Product) {
	switch e.state.Sort {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].SalePriceValue().Cmp(products[j].SalePriceValue()) < 0
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].SalePriceValue().Cmp(products[j].SalePriceValue()) > 0
		})
	case SortNameAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return e.collator.CompareString(products[i].Name, products[j].Name) < 0
		})
	case SortNameDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return e.collator.CompareString(products[i].Name, products[j].Name) > 0
		})
	}
}
