package services

import (
	"signcraft/internal/domain"
	"signcraft/internal/repos"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *CatalogService) ListProducts(categoryID string) ([]domain.Product, error) {
	if categoryID != "" {
		return s.Prods.ListByCategory(categoryID)
	}
	return s.Prods.ListActive()
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

func (s *CatalogService) TopSellers() ([]domain.Product, error) {
	return s.Prods.TopSellers()
}

func (s *CatalogService) Search(q string) ([]domain.Product, error) {
	return s.Prods.Search(q)
}
