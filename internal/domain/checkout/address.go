// internal/domain/checkout/address.go
package checkout

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/your-org/marketplace-storefront/internal/domain/order"
)

var (
	nameRegex  = regexp.MustCompile(`^[a-zA-Z ]{2,}$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)
	zipRegex   = regexp.MustCompile(`^[0-9]{5,6}$`)
	phoneRegex = regexp.MustCompile(`^[0-9]{10}$`)
)

// ValidationError reports every address field that failed validation,
// keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid address fields: %s", strings.Join(names, ", "))
}

// ValidateAddress checks every field of a delivery address and collects all
// failures rather than stopping at the first one.
func ValidateAddress(addr *order.DeliveryAddress) error {
	fields := make(map[string]string)

	if !nameRegex.MatchString(strings.TrimSpace(addr.FirstName)) {
		fields["first_name"] = "must be at least 2 letters"
	}
	if !nameRegex.MatchString(strings.TrimSpace(addr.LastName)) {
		fields["last_name"] = "must be at least 2 letters"
	}
	if !emailRegex.MatchString(strings.TrimSpace(addr.Email)) {
		fields["email"] = "must be a valid email address"
	}
	if len(strings.TrimSpace(addr.Street)) < 5 {
		fields["street"] = "must be at least 5 characters"
	}
	if !nameRegex.MatchString(strings.TrimSpace(addr.City)) {
		fields["city"] = "must be at least 2 letters"
	}
	if !nameRegex.MatchString(strings.TrimSpace(addr.State)) {
		fields["state"] = "must be at least 2 letters"
	}
	if !nameRegex.MatchString(strings.TrimSpace(addr.District)) {
		fields["district"] = "must be at least 2 letters"
	}
	if !zipRegex.MatchString(strings.TrimSpace(addr.Zipcode)) {
		fields["zipcode"] = "must be 5 or 6 digits"
	}
	phone := strings.ReplaceAll(addr.Phone, " ", "")
	phone = strings.ReplaceAll(phone, "\t", "")
	if !phoneRegex.MatchString(phone) {
		fields["phone"] = "must be exactly 10 digits"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
