// Package backend is the client for the storefront's REST backend. It is the
// only place raw wire payloads are decoded; everything past this boundary
// works with strict domain types.
package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tienda/internal/domain"
)

// ErrNotFound marks a 404 from the backend (e.g. no server cart yet).
var ErrNotFound = errors.New("backend: not found")

// StatusError is a non-2xx backend response with a decoded message, when the
// backend supplied one.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend: status %d", e.Status)
}

type Client struct {
	base string
	http *http.Client
}

// New builds a client with a bounded per-request timeout. Calls never hang
// past the deadline; a timeout surfaces like any other transport error.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(method, path, token string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Message: decodeMessage(resp.Body)}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("backend: decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

// decodeMessage pulls a human-readable message out of an error payload.
// The backend is inconsistent about the field name.
func decodeMessage(r io.Reader) string {
	var raw struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return ""
	}
	for _, s := range []string{raw.Detail, raw.Message, raw.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// FetchCart returns the authoritative server cart. A backend 404 maps to an
// empty cart: a user who never added anything has no cart row yet.
func (c *Client) FetchCart(token string) (domain.Cart, error) {
	var raw rawCart
	if err := c.do(http.MethodGet, "/cart/", token, nil, &raw); err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.Cart{}, nil
		}
		return domain.Cart{}, err
	}
	return raw.normalize(), nil
}

func (c *Client) AddItem(token, productID string, quantity int, variantID string) error {
	body := map[string]any{"product_id": productID, "quantity": quantity}
	if variantID != "" {
		body["variant_id"] = variantID
	}
	return c.do(http.MethodPost, "/cart/add_item/", token, body, nil)
}

func (c *Client) UpdateItem(token, itemID string, quantity int) error {
	body := map[string]any{"item_id": itemID, "quantity": quantity}
	return c.do(http.MethodPatch, "/cart/update_item/", token, body, nil)
}

func (c *Client) RemoveItem(token, itemID string) error {
	body := map[string]any{"item_id": itemID}
	return c.do(http.MethodDelete, "/cart/remove_item/", token, body, nil)
}

func (c *Client) ClearCart(token string) error {
	return c.do(http.MethodDelete, "/cart/clear/", token, nil, nil)
}

type OrderRequest struct {
	Items           []domain.OrderItem `json:"items"`
	ShippingAddress string             `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
	CouponCode      string             `json:"coupon_code,omitempty"`
}

func (c *Client) CreateOrder(token string, req OrderRequest) (domain.Order, error) {
	var raw rawOrder
	if err := c.do(http.MethodPost, "/orders/", token, req, &raw); err != nil {
		return domain.Order{}, err
	}
	return raw.normalize(), nil
}

func (c *Client) Orders(token string) ([]domain.Order, error) {
	var raws []rawOrder
	if err := c.do(http.MethodGet, "/orders/", token, nil, &raws); err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(raws))
	for _, r := range raws {
		out = append(out, r.normalize())
	}
	return out, nil
}

func (c *Client) Order(token, id string) (domain.Order, error) {
	var raw rawOrder
	if err := c.do(http.MethodGet, "/orders/"+id+"/", token, nil, &raw); err != nil {
		return domain.Order{}, err
	}
	return raw.normalize(), nil
}

func (c *Client) Product(id string) (domain.Product, error) {
	var raw rawProduct
	if err := c.do(http.MethodGet, "/products/"+id+"/", "", nil, &raw); err != nil {
		return domain.Product{}, err
	}
	return raw.normalize(), nil
}

// Products lists a catalog page, optionally filtered by a free-text query
// and a category slug; paging is the backend's business.
func (c *Client) Products(query, category string, page int) ([]domain.Product, error) {
	path := fmt.Sprintf("/products/?page=%d", page)
	if query != "" {
		path += "&search=" + url.QueryEscape(query)
	}
	if category != "" {
		path += "&category=" + url.QueryEscape(category)
	}
	var raw struct {
		Results []rawProduct `json:"results"`
	}
	if err := c.do(http.MethodGet, path, "", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(raw.Results))
	for _, r := range raw.Results {
		out = append(out, r.normalize())
	}
	return out, nil
}

// Categories lists the catalog's category tree (flat on the wire).
func (c *Client) Categories() ([]domain.Category, error) {
	var raws []rawCategory
	if err := c.do(http.MethodGet, "/categories/", "", nil, &raws); err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(raws))
	for _, r := range raws {
		out = append(out, r.normalize())
	}
	return out, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(email, password string) (string, domain.User, error) {
	body := map[string]string{"email": email, "password": password}
	var raw struct {
		Access string  `json:"access"`
		Token  string  `json:"token"`
		User   rawUser `json:"user"`
	}
	if err := c.do(http.MethodPost, "/auth/login/", "", body, &raw); err != nil {
		return "", domain.User{}, err
	}
	token := raw.Access
	if token == "" {
		token = raw.Token
	}
	return token, raw.User.normalize(), nil
}

// Register creates an account and, like Login, yields an access token for
// the fresh user.
func (c *Client) Register(email, password, name string) (string, domain.User, error) {
	body := map[string]string{"email": email, "password": password}
	if name != "" {
		body["name"] = name
	}
	var raw struct {
		Access string  `json:"access"`
		Token  string  `json:"token"`
		User   rawUser `json:"user"`
	}
	if err := c.do(http.MethodPost, "/auth/register/", "", body, &raw); err != nil {
		return "", domain.User{}, err
	}
	token := raw.Access
	if token == "" {
		token = raw.Token
	}
	return token, raw.User.normalize(), nil
}
