package backend

import "tienda/internal/domain"

// Wire-side shapes. The backend serializes products inconsistently (name vs
// title, images as a list of objects vs a bare url), so every optional field
// and fallback chain is resolved here, once, in normalize.

type rawImage struct {
	ImageURL string `json:"image_url"`
	URL      string `json:"url"`
}

type rawVariant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size string `json:"size"`
}

type rawProduct struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Title    string       `json:"title"`
	Price    int64        `json:"price"`
	Stock    *int         `json:"stock"`
	Image    string       `json:"image"`
	Images   []rawImage   `json:"images"`
	Variants []rawVariant `json:"variants"`
}

func (r rawProduct) normalize() domain.Product {
	name := r.Name
	if name == "" {
		name = r.Title
	}
	img := r.Image
	if img == "" && len(r.Images) > 0 {
		img = r.Images[0].ImageURL
		if img == "" {
			img = r.Images[0].URL
		}
	}
	var variants []domain.Variant
	for _, v := range r.Variants {
		vn := v.Name
		if vn == "" {
			vn = v.Size
		}
		variants = append(variants, domain.Variant{ID: v.ID, Name: vn})
	}
	return domain.Product{
		ID:       r.ID,
		Name:     name,
		Price:    r.Price,
		Stock:    r.Stock,
		ImageURL: img,
		Variants: variants,
	}
}

type rawCategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

func (r rawCategory) normalize() domain.Category {
	name := r.Name
	if name == "" {
		name = r.Title
	}
	return domain.Category{ID: r.ID, Name: name, Slug: r.Slug}
}

type rawLineItem struct {
	ID       string      `json:"id"`
	Product  rawProduct  `json:"product"`
	Variant  *rawVariant `json:"variant"`
	Quantity int         `json:"quantity"`
	Created  string      `json:"created_at"`
}

type rawCart struct {
	ID    string        `json:"id"`
	Items []rawLineItem `json:"items"`
}

func (r rawCart) normalize() domain.Cart {
	items := make([]domain.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		li := domain.LineItem{
			ID:        it.ID,
			Product:   it.Product.normalize(),
			Quantity:  it.Quantity,
			CreatedAt: it.Created,
		}
		if it.Variant != nil {
			vn := it.Variant.Name
			if vn == "" {
				vn = it.Variant.Size
			}
			li.Variant = &domain.Variant{ID: it.Variant.ID, Name: vn}
		}
		items = append(items, li)
	}
	return domain.Cart{ID: r.ID, Items: items}
}

type rawOrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

type rawOrder struct {
	ID              string         `json:"id"`
	Status          string         `json:"status"`
	Total           int64          `json:"total"`
	ShippingAddress string         `json:"shipping_address"`
	PaymentMethod   string         `json:"payment_method"`
	CouponCode      string         `json:"coupon_code"`
	Items           []rawOrderItem `json:"items"`
	CreatedAt       string         `json:"created_at"`
}

func (r rawOrder) normalize() domain.Order {
	items := make([]domain.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return domain.Order{
		ID:              r.ID,
		Status:          r.Status,
		Total:           r.Total,
		ShippingAddress: r.ShippingAddress,
		PaymentMethod:   r.PaymentMethod,
		CouponCode:      r.CouponCode,
		Items:           items,
		CreatedAt:       r.CreatedAt,
	}
}

type rawUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r rawUser) normalize() domain.User {
	name := r.Name
	if name == "" {
		name = r.FirstName
		if r.LastName != "" {
			if name != "" {
				name += " "
			}
			name += r.LastName
		}
	}
	return domain.User{ID: r.ID, Email: r.Email, Name: name}
}
