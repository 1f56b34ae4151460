package services

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"tienda/internal/backend"
	"tienda/internal/domain"
	"tienda/internal/session"
	"tienda/internal/store"
)

// CartService owns the session's cart. Guests mutate the device-local copy;
// authenticated sessions mutate the server cart and treat the local view as
// a read-through mirror of the server response. Every mutating operation
// takes the session's single-flight gate, so overlapping mutations from the
// same shopper serialize instead of racing.
type CartService struct {
	Backend *backend.Client
	Guest   *store.GuestCartRepo
	TaxRate decimal.Decimal
	Ship    ShippingTable
}

func NewCartService(api *backend.Client, guest *store.GuestCartRepo, taxRate decimal.Decimal, ship ShippingTable) *CartService {
	return &CartService{Backend: api, Guest: guest, TaxRate: taxRate, Ship: ship}
}

type CartView struct {
	Items  []domain.LineItem `json:"items"`
	Coupon *domain.Coupon    `json:"coupon,omitempty"`
	Totals domain.Totals     `json:"totals"`
}

// View returns the current cart with derived totals. Totals are recomputed
// on every call, never cached.
func (s *CartService) View(sess *session.Session) (CartView, error) {
	items, err := s.items(sess)
	if err != nil {
		return CartView{Items: []domain.LineItem{}}, err
	}
	if items == nil {
		items = []domain.LineItem{}
	}
	coupon := sess.Coupon()
	return CartView{
		Items:  items,
		Coupon: coupon,
		Totals: ComputeTotals(items, coupon, s.TaxRate, s.Ship),
	}, nil
}

func (s *CartService) items(sess *session.Session) ([]domain.LineItem, error) {
	if sess.Authenticated() {
		cart, err := s.Backend.FetchCart(sess.Token())
		if err != nil {
			return nil, err
		}
		return cart.Items, nil
	}
	return s.Guest.Load(sess.SID)
}

// Add puts quantity units of a (product, variant) pair in the cart. A line
// already covering the pair absorbs the quantity instead of duplicating.
func (s *CartService) Add(sess *session.Session, productID string, quantity int, variantID string) error {
	if quantity < 1 {
		return validation("La cantidad debe ser al menos 1")
	}

	product, err := s.Backend.Product(productID)
	if err != nil {
		sess.NotifyError("Error al agregar al carrito")
		return err
	}
	variant, err := resolveVariant(product, variantID)
	if err != nil {
		return err
	}
	if exceedsStock(product, quantity) {
		return validation(stockMessage(product))
	}

	done := sess.BeginMutation()
	defer done()

	if sess.Authenticated() {
		// No optimistic mutation: on failure the mirror stays at its
		// last-known-good server state.
		if err := s.Backend.AddItem(sess.Token(), productID, quantity, variantID); err != nil {
			sess.NotifyError("Error al agregar al carrito")
			return err
		}
		sess.Notify("info", product.Name+" agregado al carrito")
		return nil
	}

	items, err := s.Guest.Load(sess.SID)
	if err != nil {
		sess.NotifyError("Error al agregar al carrito")
		return err
	}
	merged := false
	for i := range items {
		if items[i].SameLine(productID, variant) {
			if exceedsStock(product, items[i].Quantity+quantity) {
				return validation(stockMessage(product))
			}
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, domain.LineItem{
			ID:        guestLineID(),
			Product:   product,
			Variant:   variant,
			Quantity:  quantity,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	if err := s.Guest.Save(sess.SID, items); err != nil {
		sess.NotifyError("Error al agregar al carrito")
		return err
	}
	sess.Notify("info", product.Name+" agregado al carrito")
	return nil
}

// UpdateQuantity sets a line's quantity in place; zero or less removes the
// line entirely.
func (s *CartService) UpdateQuantity(sess *session.Session, lineID string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(sess, lineID)
	}

	done := sess.BeginMutation()
	defer done()

	if sess.Authenticated() {
		if err := s.Backend.UpdateItem(sess.Token(), lineID, quantity); err != nil {
			sess.NotifyError("Error al actualizar el carrito")
			return err
		}
		sess.Notify("info", "Cantidad actualizada")
		return nil
	}

	items, err := s.Guest.Load(sess.SID)
	if err != nil {
		sess.NotifyError("Error al actualizar el carrito")
		return err
	}
	found := false
	for i := range items {
		if items[i].ID == lineID {
			if exceedsStock(items[i].Product, quantity) {
				return validation(stockMessage(items[i].Product))
			}
			items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return validation("El producto no está en el carrito")
	}
	if err := s.Guest.Save(sess.SID, items); err != nil {
		sess.NotifyError("Error al actualizar el carrito")
		return err
	}
	sess.Notify("info", "Cantidad actualizada")
	return nil
}

// Remove drops a line from the cart.
func (s *CartService) Remove(sess *session.Session, lineID string) error {
	done := sess.BeginMutation()
	defer done()

	if sess.Authenticated() {
		if err := s.Backend.RemoveItem(sess.Token(), lineID); err != nil {
			sess.NotifyError("Error al eliminar del carrito")
			return err
		}
		sess.Notify("info", "Producto eliminado del carrito")
		return nil
	}

	items, err := s.Guest.Load(sess.SID)
	if err != nil {
		sess.NotifyError("Error al eliminar del carrito")
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID != lineID {
			kept = append(kept, it)
		}
	}
	if err := s.Guest.Save(sess.SID, kept); err != nil {
		sess.NotifyError("Error al eliminar del carrito")
		return err
	}
	sess.Notify("info", "Producto eliminado del carrito")
	return nil
}

// Clear empties the cart. The remote clear is best-effort; the local reset
// always happens, a backend outage must not leave the shopper unable to
// empty their cart.
func (s *CartService) Clear(sess *session.Session) error {
	done := sess.BeginMutation()
	defer done()
	s.clearLocked(sess)
	sess.Notify("info", "Carrito vaciado")
	return nil
}

func (s *CartService) clearLocked(sess *session.Session) {
	if sess.Authenticated() {
		if err := s.Backend.ClearCart(sess.Token()); err != nil {
			sess.NotifyError("No se pudo vaciar el carrito en el servidor")
		}
	}
	_ = s.Guest.Clear(sess.SID)
}

// ReconcileGuestCart replays the device-held lines into the server cart,
// once, at the guest-to-authenticated transition. Replays are sequential and
// independent: one failed line is reported and skipped, the rest continue.
// Only confirmed lines leave local storage; failed lines stay behind so a
// later session load can try them again.
func (s *CartService) ReconcileGuestCart(sess *session.Session) error {
	done := sess.BeginMutation()
	defer done()

	items, err := s.Guest.Load(sess.SID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	token := sess.Token()
	var unconfirmed []domain.LineItem
	for _, it := range items {
		variantID := ""
		if it.Variant != nil {
			variantID = it.Variant.ID
		}
		if err := s.Backend.AddItem(token, it.Product.ID, it.Quantity, variantID); err != nil {
			sess.NotifyError("No se pudo sincronizar " + it.Product.Name)
			unconfirmed = append(unconfirmed, it)
		}
	}

	if len(unconfirmed) == 0 {
		_ = s.Guest.Clear(sess.SID)
		sess.Notify("info", "Carrito sincronizado")
		return nil
	}
	_ = s.Guest.Save(sess.SID, unconfirmed)
	return fmt.Errorf("cart reconcile: %d of %d lines not confirmed", len(unconfirmed), len(items))
}

func resolveVariant(p domain.Product, variantID string) (*domain.Variant, error) {
	if variantID == "" {
		return nil, nil
	}
	for _, v := range p.Variants {
		if v.ID == variantID {
			vv := v
			return &vv, nil
		}
	}
	return nil, validation("Variante no disponible")
}

// exceedsStock enforces the stock ceiling from the product snapshot. A nil
// stock means the backend sent no figure and stays authoritative; a known
// zero is out of stock and rejects any quantity.
func exceedsStock(p domain.Product, quantity int) bool {
	return p.Stock != nil && quantity > *p.Stock
}

func stockMessage(p domain.Product) string {
	if p.Stock != nil && *p.Stock == 0 {
		return "Producto agotado"
	}
	return fmt.Sprintf("Solo hay %d unidades disponibles", *p.Stock)
}

var guestLineSeq atomic.Int64

// guestLineID builds a timestamp-based id for a device-held line. The
// counter suffix keeps two adds in the same nanosecond distinct.
func guestLineID() string {
	return "g" + strconv.FormatInt(time.Now().UnixNano(), 10) +
		"-" + strconv.FormatInt(guestLineSeq.Add(1), 10)
}
