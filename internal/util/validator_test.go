package util

import (
	"testing"
)

func TestValidatePrice(t *testing.T) {
	for _, p := range []float64{0, 0.01, 1250.5, 9999999.99} {
		if err := ValidatePrice(p); err != nil {
			t.Errorf("ValidatePrice(%f) error = %v, want nil", p, err)
		}
	}
	for _, p := range []float64{-0.01, -100, 10000000, 100000000} {
		if err := ValidatePrice(p); err == nil {
			t.Errorf("ValidatePrice(%f) error = nil, want error", p)
		}
	}
}

func TestValidateQuantity(t *testing.T) {
	if err := ValidateQuantity(1); err != nil {
		t.Errorf("ValidateQuantity(1) error = %v", err)
	}
	for _, q := range []int{0, -1, 1001} {
		if err := ValidateQuantity(q); err == nil {
			t.Errorf("ValidateQuantity(%d) error = nil, want error", q)
		}
	}
}

func TestValidateOrderStatus(t *testing.T) {
	for _, s := range []string{"EN_ATTENTE", "CONFIRMEE", "EN_COURS", "LIVREE", "ANNULEE", "DEVIS"} {
		if err := ValidateOrderStatus(s); err != nil {
			t.Errorf("ValidateOrderStatus(%q) error = %v", s, err)
		}
	}
	for _, s := range []string{"", "en_attente", "SHIPPED"} {
		if err := ValidateOrderStatus(s); err == nil {
			t.Errorf("ValidateOrderStatus(%q) error = nil, want error", s)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	for _, e := range []string{"a@b.com", "contact@elite-medicale.tn"} {
		if err := ValidateEmail(e); err != nil {
			t.Errorf("ValidateEmail(%q) error = %v", e, err)
		}
	}
	for _, e := range []string{"", "pas-un-email", "Bob <bob@b.com>"} {
		if err := ValidateEmail(e); err == nil {
			t.Errorf("ValidateEmail(%q) error = nil, want error", e)
		}
	}
}

func TestIsStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Abcdefg1":  true,
		"abcdefg1":  false,
		"ABCDEFG1":  false,
		"Abcdefgh":  false,
		"Ab1":       false,
		"Secure123": true,
	}
	for pwd, want := range cases {
		if got := IsStrongPassword(pwd); got != want {
			t.Errorf("IsStrongPassword(%q) = %v, want %v", pwd, got, want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Admin@Elite.TN "); got != "admin@elite.tn" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}
