package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// User is an account as listed by the API.
type User struct {
	ID          string     `json:"id"`
	Nom         string     `json:"nom"`
	Prenom      string     `json:"prenom"`
	Email       string     `json:"email"`
	Telephone   string     `json:"telephone,omitempty"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

type Media struct {
	ID    string `json:"id,omitempty"`
	URL   string `json:"url"`
	Type  string `json:"type"`
	Alt   string `json:"alt,omitempty"`
	Order int    `json:"order"`
}

type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory,omitempty"`
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Features    []string `json:"features"`
	InStock     bool     `json:"inStock"`
	Media       []Media  `json:"media"`
}

// ProductInput creates or replaces a product. Media are stored in slice order.
type ProductInput struct {
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory,omitempty"`
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Features    []string `json:"features"`
	InStock     bool     `json:"inStock"`
	Media       []Media  `json:"media"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type ProductList struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// ProductFilter narrows a catalog listing. Zero fields are not sent.
type ProductFilter struct {
	Category    string
	Type        string
	SubCategory string
	Brand       string
	Search      string
	Page        int
	Limit       int
}

// Query encodes the filter as URL parameters.
func (f ProductFilter) Query() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("category", f.Category)
	set("type", f.Type)
	set("subCategory", f.SubCategory)
	set("brand", f.Brand)
	set("search", f.Search)
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

type OrderItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Product   Product `json:"product"`
}

type Order struct {
	ID           string      `json:"id"`
	UserID       string      `json:"userId"`
	Status       string      `json:"status"`
	Total        float64     `json:"total"`
	Items        []OrderItem `json:"items"`
	DateCreation time.Time   `json:"dateCreation"`
	User         *User       `json:"user,omitempty"`
}

type OrderLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest places an order, or a quote request when Devis is set.
type CreateOrderRequest struct {
	Items []OrderLine `json:"items"`
	Devis bool        `json:"devis"`
}

// ContactSender describes who wrote a contact message.
type ContactSender struct {
	ID        string `json:"id,omitempty"`
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom,omitempty"`
	Email     string `json:"email"`
	Telephone string `json:"telephone,omitempty"`
}

type ContactRequest struct {
	Message string        `json:"message"`
	User    ContactSender `json:"user"`
	IsGuest bool          `json:"isGuest"`
}

// UserUpdate changes an account. Nil fields are left untouched.
type UserUpdate struct {
	Nom       *string `json:"nom,omitempty"`
	Prenom    *string `json:"prenom,omitempty"`
	Email     *string `json:"email,omitempty"`
	Telephone *string `json:"telephone,omitempty"`
	Role      *string `json:"role,omitempty"`
	Password  *string `json:"password,omitempty"`
}

func decodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
