package store

import (
	"github.com/jmoiron/sqlx"

	"tienda/internal/domain"
)

type OrderLogRow struct {
	ID         string `db:"id"`
	Status     string `db:"status"`
	Total      int64  `db:"total"`
	CouponCode string `db:"coupon_code"`
	CreatedAt  string `db:"created_at"`
}

// OrderLogRepo records orders placed from this device. The backend owns the
// order; this is a local mirror for confirmation pages and offline history.
type OrderLogRepo struct{ db *sqlx.DB }

func NewOrderLogRepo(db *sqlx.DB) *OrderLogRepo { return &OrderLogRepo{db: db} }

func (r *OrderLogRepo) Record(sessionID string, o domain.Order) error {
	_, err := r.db.Exec(`
		INSERT INTO order_log(id, session_id, status, total, coupon_code)
		VALUES(?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET status = excluded.status, total = excluded.total
	`, o.ID, sessionID, o.Status, o.Total, o.CouponCode)
	return err
}

func (r *OrderLogRepo) ListBySession(sessionID string) ([]OrderLogRow, error) {
	rows := []OrderLogRow{}
	err := r.db.Select(&rows, `
		SELECT id, status, total, COALESCE(coupon_code,'') AS coupon_code, created_at
		FROM order_log WHERE session_id = ? ORDER BY created_at DESC
	`, sessionID)
	return rows, err
}
