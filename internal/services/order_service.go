package services

import (
	"github.com/shopspring/decimal"

	"tienda/internal/backend"
	"tienda/internal/domain"
	"tienda/internal/session"
	"tienda/internal/store"
)

type OrderService struct {
	Backend *backend.Client
	Cart    *CartService
	Log     *store.OrderLogRepo
	TaxRate decimal.Decimal
	Ship    ShippingTable
}

func NewOrderService(api *backend.Client, cart *CartService, log *store.OrderLogRepo, taxRate decimal.Decimal, ship ShippingTable) *OrderService {
	return &OrderService{Backend: api, Cart: cart, Log: log, TaxRate: taxRate, Ship: ship}
}

// Place turns the authenticated session's server cart into an order. The
// active coupon code rides along for the backend to honor or reject. On
// success the cart and coupon are cleared; the order also lands in the local
// log for the confirmation page. Returns the backend's order plus the
// client-side totals so callers can audit a mismatch.
func (s *OrderService) Place(sess *session.Session, shippingAddress, paymentMethod string) (domain.Order, domain.Totals, error) {
	if !sess.Authenticated() {
		return domain.Order{}, domain.Totals{}, ErrLoginRequired
	}
	if shippingAddress == "" {
		return domain.Order{}, domain.Totals{}, validation("Dirección de envío requerida")
	}
	if paymentMethod == "" {
		return domain.Order{}, domain.Totals{}, validation("Método de pago requerido")
	}

	done := sess.BeginMutation()
	defer done()

	cart, err := s.Backend.FetchCart(sess.Token())
	if err != nil {
		sess.NotifyError("Error al crear el pedido")
		return domain.Order{}, domain.Totals{}, err
	}
	if len(cart.Items) == 0 {
		return domain.Order{}, domain.Totals{}, validation("El carrito está vacío")
	}

	coupon := sess.Coupon()
	totals := ComputeTotals(cart.Items, coupon, s.TaxRate, s.Ship)

	req := backend.OrderRequest{
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
	}
	if coupon != nil {
		req.CouponCode = coupon.Code
	}
	for _, it := range cart.Items {
		req.Items = append(req.Items, domain.OrderItem{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Quantity:  it.Quantity,
			Price:     it.Product.Price,
		})
	}

	order, err := s.Backend.CreateOrder(sess.Token(), req)
	if err != nil {
		sess.NotifyError("Error al crear el pedido")
		return domain.Order{}, domain.Totals{}, err
	}

	_ = s.Log.Record(sess.SID, order)
	s.Cart.clearLocked(sess)
	sess.SetCoupon(nil)
	sess.Notify("info", "¡Pedido creado exitosamente!")
	return order, totals, nil
}

// History lists the shopper's orders, falling back to the local order log
// when the backend is unreachable.
func (s *OrderService) History(sess *session.Session) ([]domain.Order, error) {
	if !sess.Authenticated() {
		return nil, ErrLoginRequired
	}
	orders, err := s.Backend.Orders(sess.Token())
	if err == nil {
		return orders, nil
	}
	rows, lerr := s.Log.ListBySession(sess.SID)
	if lerr != nil || len(rows) == 0 {
		return nil, err
	}
	sess.NotifyError("Mostrando pedidos guardados localmente")
	out := make([]domain.Order, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Order{
			ID: r.ID, Status: r.Status, Total: r.Total,
			CouponCode: r.CouponCode, CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

func (s *OrderService) Get(sess *session.Session, id string) (domain.Order, error) {
	if !sess.Authenticated() {
		return domain.Order{}, ErrLoginRequired
	}
	return s.Backend.Order(sess.Token(), id)
}
