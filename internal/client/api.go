package client

import (
	"context"
	"net/http"
	"net/url"
)

// Products lists the catalog.
func (c *Client) Products(ctx context.Context, f ProductFilter) (*ProductList, error) {
	var resp ProductList
	if err := c.get(ctx, "/api/products", f.Query(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchProducts matches q against name, brand and description.
func (c *Client) SearchProducts(ctx context.Context, q string) ([]Product, error) {
	var resp []Product
	if err := c.get(ctx, "/api/products/search", url.Values{"q": {q}}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	var resp Product
	if err := c.get(ctx, "/api/products/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	var resp Product
	if err := c.post(ctx, "/api/products", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error) {
	var resp Product
	if err := c.put(ctx, "/api/products/"+url.PathEscape(id), in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/products/"+url.PathEscape(id))
}

// MyOrders returns the current user's orders, newest first.
func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	var resp []Order
	if err := c.get(ctx, "/api/orders/user-orders", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) CreateOrder(ctx context.Context, in CreateOrderRequest) (*Order, error) {
	var resp Order
	if err := c.post(ctx, "/api/orders", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Orders lists every order. Admin only.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var resp []Order
	if err := c.get(ctx, "/api/orders", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) SetOrderStatus(ctx context.Context, id, status string) (*Order, error) {
	var resp Order
	body := map[string]string{"status": status}
	if err := c.patch(ctx, "/api/orders/"+url.PathEscape(id)+"/status", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendContact posts a contact form message.
func (c *Client) SendContact(ctx context.Context, in ContactRequest) error {
	return c.post(ctx, "/api/contact", in, nil)
}

// Users lists every account. Admin only.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var resp []User
	if err := c.get(ctx, "/api/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, in UserUpdate) (*User, error) {
	var resp User
	if err := c.patch(ctx, "/api/users/"+url.PathEscape(id), in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/users/"+url.PathEscape(id))
}

// Export downloads an admin export ("products.xlsx" or "orders.csv").
func (c *Client) Export(ctx context.Context, name string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/export/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Del(headerAccept)
	return c.Do(req)
}
