package enums

import "fmt"

// PaymentMode selects how a customer settles an order.
type PaymentMode string

const (
	PaymentModeCOD    PaymentMode = "COD"
	PaymentModeOnline PaymentMode = "ONLINE"
)

// String implements fmt.Stringer.
func (p PaymentMode) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMode.
func (p PaymentMode) IsValid() bool {
	return p == PaymentModeCOD || p == PaymentModeOnline
}

// ParsePaymentMode converts raw input into a PaymentMode. Empty input
// defaults to COD, matching the storefront's behavior.
func ParsePaymentMode(value string) (PaymentMode, error) {
	switch value {
	case "":
		return PaymentModeCOD, nil
	case string(PaymentModeCOD):
		return PaymentModeCOD, nil
	case string(PaymentModeOnline):
		return PaymentModeOnline, nil
	}
	return "", fmt.Errorf("invalid payment mode %q", value)
}
