package services

import (
	"tienda/internal/session"
	"tienda/internal/store"
)

type WishlistService struct {
	Repo    *store.WishlistRepo
	Catalog *CatalogService
}

func NewWishlistService(repo *store.WishlistRepo, catalog *CatalogService) *WishlistService {
	return &WishlistService{Repo: repo, Catalog: catalog}
}

func (s *WishlistService) Save(sess *session.Session, productID string) error {
	p, err := s.Catalog.Product(productID)
	if err != nil {
		sess.NotifyError("Error al guardar en favoritos")
		return err
	}
	if err := s.Repo.Add(sess.SID, p); err != nil {
		return err
	}
	sess.Notify("info", p.Name+" guardado en favoritos")
	return nil
}

func (s *WishlistService) Unsave(sess *session.Session, productID string) error {
	return s.Repo.Remove(sess.SID, productID)
}

func (s *WishlistService) List(sess *session.Session) ([]store.WishlistRow, error) {
	return s.Repo.List(sess.SID)
}
