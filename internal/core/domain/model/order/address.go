package order

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/customer"
	"storefront/internal/pkg/errs"
)

// Contact identifies who placed the order. Guest orders carry only this.
type Contact struct {
	Email string
	Name  string
	Phone string
}

// NewContact normalizes the email with customer.NormalizeEmail and trims the
// rest.
func NewContact(email, name, phone string) (Contact, error) {
	normalized, err := customer.NormalizeEmail(email)
	if err != nil {
		return Contact{}, err
	}
	return Contact{
		Email: normalized,
		Name:  strings.TrimSpace(name),
		Phone: strings.TrimSpace(phone),
	}, nil
}

// ShippingAddress is owned by exactly one order and has no lifecycle of its own.
type ShippingAddress struct {
	Name       string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

// NewShippingAddress trims every field and upper-cases the country. Line1,
// city, postal code and country are required.
func NewShippingAddress(a ShippingAddress) (ShippingAddress, error) {
	a = ShippingAddress{
		Name:       strings.TrimSpace(a.Name),
		Line1:      strings.TrimSpace(a.Line1),
		Line2:      strings.TrimSpace(a.Line2),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.ToUpper(strings.TrimSpace(a.Country)),
		Phone:      strings.TrimSpace(a.Phone),
	}

	var missing []error
	for _, field := range []struct{ name, value string }{
		{"address line1", a.Line1},
		{"address city", a.City},
		{"address postal code", a.PostalCode},
		{"address country", a.Country},
	} {
		if field.value == "" {
			missing = append(missing, errs.NewValueIsRequiredError(field.name))
		}
	}
	if err := errors.Join(missing...); err != nil {
		return ShippingAddress{}, err
	}
	return a, nil
}
