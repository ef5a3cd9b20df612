package enums

import "fmt"

// PaymentMethod covers the checkout options the storefront exposes. UPI is a
// simulated payment; COD is cash on delivery.
type PaymentMethod string

const (
	PaymentMethodUPI PaymentMethod = "UPI"
	PaymentMethodCOD PaymentMethod = "COD"
)

func (p PaymentMethod) String() string {
	return string(p)
}

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentMethodUPI, PaymentMethodCOD:
		return true
	}
	return false
}

// ParsePaymentMethod validates a wire value into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	p := PaymentMethod(value)
	if !p.Valid() {
		return "", fmt.Errorf("unknown payment method %q", value)
	}
	return p, nil
}
