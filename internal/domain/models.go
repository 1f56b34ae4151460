package domain

// All monetary amounts are integer currency units (zero-decimal COP).

type Variant struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Product is a catalog snapshot. Stock is nil when the backend sent no stock
// figure; a present zero means the product is out of stock.
type Product struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Price    int64     `json:"price"`
	Stock    *int      `json:"stock,omitempty"`
	ImageURL string    `json:"image_url,omitempty"`
	Variants []Variant `json:"variants,omitempty"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// LineItem is one (product, variant, quantity) entry in a cart. Guest line
// ids are client-generated timestamp values; server line ids are issued by
// the backend. The two id spaces never mix: a guest id is dead once the line
// has been reconciled into the server cart.
type LineItem struct {
	ID        string   `json:"id"`
	Product   Product  `json:"product"`
	Variant   *Variant `json:"variant,omitempty"`
	Quantity  int      `json:"quantity"`
	CreatedAt string   `json:"created_at,omitempty"`
}

// Subtotal is snapshot price times quantity.
func (li LineItem) Subtotal() int64 {
	return li.Product.Price * int64(li.Quantity)
}

// SameLine reports whether a line covers the given (product, variant) pair.
func (li LineItem) SameLine(productID string, variant *Variant) bool {
	if li.Product.ID != productID {
		return false
	}
	if li.Variant == nil || variant == nil {
		return li.Variant == nil && variant == nil
	}
	return li.Variant.ID == variant.ID
}

type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFixed      CouponType = "fixed"
	CouponShipping   CouponType = "shipping"
)

// Coupon is a transient discount rule. At most one is active per session and
// it is never persisted.
type Coupon struct {
	Code        string     `json:"code"`
	Type        CouponType `json:"type"`
	Value       int64      `json:"value"`
	Description string     `json:"description,omitempty"`
}

// Totals is derived from cart state on every read, never stored.
type Totals struct {
	Subtotal   int64 `json:"subtotal"`
	Discount   int64 `json:"discount"`
	Tax        int64 `json:"tax"`
	Shipping   int64 `json:"shipping"`
	GrandTotal int64 `json:"grand_total"`
}

type Cart struct {
	ID    string     `json:"id,omitempty"`
	Items []LineItem `json:"items"`
}

type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

type Order struct {
	ID              string      `json:"id"`
	Status          string      `json:"status"`
	Total           int64       `json:"total"`
	ShippingAddress string      `json:"shipping_address,omitempty"`
	PaymentMethod   string      `json:"payment_method,omitempty"`
	CouponCode      string      `json:"coupon_code,omitempty"`
	Items           []OrderItem `json:"items,omitempty"`
	CreatedAt       string      `json:"created_at,omitempty"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Notification is a user-visible message queued on the session; failures of
// mutating cart operations surface here instead of failing the request.
type Notification struct {
	Level   string `json:"level"` // info | error
	Message string `json:"message"`
}
