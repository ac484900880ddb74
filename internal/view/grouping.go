package view

import (
	"strings"

	"github.com/merchkit/storefront/internal/models"
	"github.com/merchkit/storefront/internal/store"
)

// HomeSection is one category banner block on the home page.
type HomeSection struct {
	Category models.Category  `json:"category"`
	Products []models.Product `json:"products"`
}

// homeSections groups products under their category banners for the home
// page. Visible categories are walked in their given order and each keeps
// its first up-to-sectionSize products in the store's original product
// order; no sort or price filtering applies here. Categories with no
// products are omitted, as are hidden ones. A selected category narrows
// the sections to that category alone, matching the all-products filter.
func (e *Engine) homeSections(snap store.Snapshot) []HomeSection {
	byCategory := !strings.EqualFold(e.state.Category, AllCategories)

	sections := make([]HomeSection, 0, len(snap.Categories))
	for _, c := range snap.Categories {
		if !c.Visible() {
			continue
		}
		if byCategory && !strings.EqualFold(c.Name, e.state.Category) {
			continue
		}
		var picked []models.Product
		for _, p := range snap.Products {
			if p.CategoryID != c.ID {
				continue
			}
			picked = append(picked, p)
			if len(picked) == e.sectionSize {
				break
			}
		}
		if len(picked) == 0 {
			continue
		}
		sections = append(sections, HomeSection{Category: c, Products: picked})
	}
	return sections
}
