package services

import (
	"tienda/internal/backend"
	"tienda/internal/domain"
)

// CatalogService is a browsing passthrough; the backend owns the catalog.
type CatalogService struct {
	Backend *backend.Client
}

func NewCatalogService(api *backend.Client) *CatalogService {
	return &CatalogService{Backend: api}
}

func (s *CatalogService) Product(id string) (domain.Product, error) {
	return s.Backend.Product(id)
}

func (s *CatalogService) Search(query, category string, page int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	return s.Backend.Products(query, category, page)
}

func (s *CatalogService) Categories() ([]domain.Category, error) {
	return s.Backend.Categories()
}
