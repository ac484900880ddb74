package store

import (
	"sync"

	"github.com/merchkit/storefront/internal/models"
)

// CatalogStore holds the latest catalog snapshot fetched from the commerce
// API and exposes it read-only. It does no filtering itself; the view
// engine derives everything from Snapshot.
type CatalogStore struct {
	mu         sync.RWMutex
	products   []models.Product
	categories []models.Category
	namesByID  map[string]string
	loadErr    error
}

// New returns an empty CatalogStore.
func New() *CatalogStore {
	return &CatalogStore{namesByID: map[string]string{}}
}

// Load replaces the stored products and categories wholesale, rebuilds the
// category name index and clears any previous load error. Both inputs are
// applied together; there is never a state with products from one fetch and
// categories from another.
func (s *CatalogStore) Load(products []models.Product, categories []models.Category) {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]models.Product(nil), products...)
	s.categories = append([]models.Category(nil), categories...)
	s.namesByID = names
	s.loadErr = nil
}

// LoadFailed empties the catalog and records the failure reason. Used when
// the fetch collaborator reports an error so the store never holds a
// half-applied update.
func (s *CatalogStore) LoadFailed(reason error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
	s.categories = nil
	s.namesByID = map[string]string{}
	s.loadErr = reason
}

// CategoryName resolves a product's category identifier to the category
// name. ok is false when the category is unknown, e.g. deleted upstream.
func (s *CatalogStore) CategoryName(categoryID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.namesByID[categoryID]
	return name, ok
}

// Err returns the last recorded load failure, or nil.
func (s *CatalogStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Snapshot is an immutable view of the store handed to derivations.
type Snapshot struct {
	Products   []models.Product
	Categories []models.Category
	Err        error

	namesByID map[string]string
}

// Snapshot returns the current catalog state. The returned slices must not
// be mutated by callers; derivations always build new slices.
func (s *CatalogStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Products:   s.products,
		Categories: s.categories,
		Err:        s.loadErr,
		namesByID:  s.namesByID,
	}
}

// CategoryName resolves a category id within this snapshot.
func (sn Snapshot) CategoryName(categoryID string) (string, bool) {
	name, ok := sn.namesByID[categoryID]
	return name, ok
}
