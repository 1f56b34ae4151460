package store

import (
	"github.com/jmoiron/sqlx"

	"tienda/internal/domain"
)

type WishlistRow struct {
	ProductID string `db:"product_id"`
	Name      string `db:"name"`
	Price     int64  `db:"price"`
	ImageURL  string `db:"image_url"`
	CreatedAt string `db:"created_at"`
}

type WishlistRepo struct{ db *sqlx.DB }

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) Add(sessionID string, p domain.Product) error {
	_, err := r.db.Exec(`
		INSERT INTO wishlist_items(session_id, product_id, name, price, image_url)
		VALUES(?,?,?,?,?)
		ON CONFLICT(session_id, product_id) DO NOTHING
	`, sessionID, p.ID, p.Name, p.Price, p.ImageURL)
	return err
}

func (r *WishlistRepo) Remove(sessionID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM wishlist_items WHERE session_id = ? AND product_id = ?`,
		sessionID, productID)
	return err
}

func (r *WishlistRepo) List(sessionID string) ([]WishlistRow, error) {
	rows := []WishlistRow{}
	err := r.db.Select(&rows, `
		SELECT product_id, name, price, COALESCE(image_url,'') AS image_url, created_at
		FROM wishlist_items WHERE session_id = ? ORDER BY created_at DESC
	`, sessionID)
	return rows, err
}
