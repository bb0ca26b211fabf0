package enums

import "fmt"

// DeliveryMethod says whether an order ships to the customer or is picked up.
type DeliveryMethod string

const (
	DeliveryMethodHome   DeliveryMethod = "domicilio"
	DeliveryMethodPickup DeliveryMethod = "recogida"
)

var validDeliveryMethods = []DeliveryMethod{
	DeliveryMethodHome,
	DeliveryMethodPickup,
}

// String implements fmt.Stringer.
func (d DeliveryMethod) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryMethod.
func (d DeliveryMethod) IsValid() bool {
	for _, candidate := range validDeliveryMethods {
		if candidate == d {
			return true
		}
	}
	return false
}

// RequiresAddress is true for methods that ship to the customer.
func (d DeliveryMethod) RequiresAddress() bool {
	return d == DeliveryMethodHome
}

// ParseDeliveryMethod converts raw input into a DeliveryMethod.
func ParseDeliveryMethod(value string) (DeliveryMethod, error) {
	for _, candidate := range validDeliveryMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery method %q", value)
}
