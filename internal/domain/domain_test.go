package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Gelo & Carvão", "gelo & carvao"},
		{"  CERVEJA Lager ", "cerveja lager"},
		{"Energético", "energetico"},
		{"água tônica", "agua tonica"},
		{"", ""},
	}

	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestContainsAny(t *testing.T) {
	t.Run("matches accented keyword against plain text", func(t *testing.T) {
		if !ContainsAny("energetico monster", []string{"energético"}) {
			t.Error("expected match")
		}
	})

	t.Run("substring matching is intentional", func(t *testing.T) {
		if !ContainsAny("Gelox Descartável 500g", []string{"gelo"}) {
			t.Error("expected 'gelo' to match inside 'gelox'")
		}
	})

	t.Run("no match", func(t *testing.T) {
		if ContainsAny("carvão 3kg", []string{"cerveja", "vodka"}) {
			t.Error("unexpected match")
		}
	})
}

func TestClassifyPayment(t *testing.T) {
	cases := []struct {
		method string
		want   PaymentKind
	}{
		{"Pix", PaymentPix},
		{"pagamento via PIX", PaymentPix},
		{"Dinheiro", PaymentCash},
		{"cash", PaymentCash},
		{"Cartão de Crédito", PaymentCard},
		{"cartao debito", PaymentCard},
		{"cheque", PaymentOther},
		{"", PaymentOther},
	}

	for _, c := range cases {
		if got := ClassifyPayment(c.method); got != c.want {
			t.Errorf("ClassifyPayment(%q) = %q, want %q", c.method, got, c.want)
		}
	}
}

func TestCouponDiscountOn(t *testing.T) {
	subtotal := decimal.NewFromFloat(200)

	percent := Coupon{Type: CouponPercent, Value: decimal.NewFromInt(10)}
	if got := percent.DiscountOn(subtotal); !got.Equal(decimal.NewFromInt(20)) {
		t.Errorf("percent discount = %s, want 20", got)
	}

	fixed := Coupon{Type: CouponFixed, Value: decimal.NewFromInt(15)}
	if got := fixed.DiscountOn(subtotal); !got.Equal(decimal.NewFromInt(15)) {
		t.Errorf("fixed discount = %s, want 15", got)
	}
}

func TestCouponExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	if !(Coupon{EndDate: &past}).Expired(now) {
		t.Error("coupon with past end date should be expired")
	}
	if (Coupon{EndDate: &future}).Expired(now) {
		t.Error("coupon with future end date should not be expired")
	}
	if (Coupon{}).Expired(now) {
		t.Error("coupon without end date should never expire")
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusPreparing, OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled} {
		if !ValidStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if ValidStatus("shipped") {
		t.Error("expected 'shipped' to be invalid")
	}
}
