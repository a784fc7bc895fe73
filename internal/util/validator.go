package util

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/models"
)

// ValidatePrice checks a catalog price (non-negative, under the ceiling).
func ValidatePrice(price float64) error {
	if price < 0 {
		return fmt.Errorf("price must not be negative, got %f", price)
	}
	if price >= 10000000 {
		return fmt.Errorf("price too large, got %f", price)
	}
	return nil
}

// ValidateQuantity checks an order line quantity.
func ValidateQuantity(q int) error {
	if q <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", q)
	}
	if q > 1000 {
		return fmt.Errorf("quantity too large, got %d", q)
	}
	return nil
}

// ValidateOrderStatus checks s against the known order statuses.
func ValidateOrderStatus(s string) error {
	if !slices.Contains(models.OrderStatuses, s) {
		return fmt.Errorf("unknown order status %q", s)
	}
	return nil
}

// ValidateEmail accepts a bare address ("a@b.com"), not a display-name form.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email %q", email)
	}
	return nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsStrongPassword: 8-64 characters with upper case, lower case and digit.
func IsStrongPassword(pwd string) bool {
	if len(pwd) < 8 || len(pwd) > 64 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}
