package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultCountry is used when an address is created without a country
const DefaultCountry = "United States"

// Address is an immutable postal address value object.
// Street, city, state and zip code are required; country defaults to DefaultCountry.
type Address struct {
	street  string
	city    string
	state   string
	zipCode string
	country string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithCountry sets the country for the address. Blank values keep the default
func WithCountry(country string) AddressOption {
	return func(a *Address) {
		if c := strings.TrimSpace(country); c != "" {
			a.country = c
		}
	}
}

// NewAddress creates a new Address with the required fields
func NewAddress(street, city, state, zipCode string, opts ...AddressOption) (Address, error) {
	addr := Address{
		street:  strings.TrimSpace(street),
		city:    strings.TrimSpace(city),
		state:   strings.TrimSpace(state),
		zipCode: strings.TrimSpace(zipCode),
		country: DefaultCountry,
	}
	for _, opt := range opts {
		opt(&addr)
	}
	if err := addr.validate(); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(street, city, state, zipCode string, opts ...AddressOption) Address {
	addr, err := NewAddress(street, city, state, zipCode, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

// ReconstructAddress rebuilds an Address from stored fields without validation,
// so a partially filled legacy row still loads. A blank country falls back to
// DefaultCountry.
func ReconstructAddress(street, city, state, zipCode, country string) Address {
	country = strings.TrimSpace(country)
	if country == "" {
		country = DefaultCountry
	}
	return Address{
		street:  street,
		city:    city,
		state:   state,
		zipCode: zipCode,
		country: country,
	}
}

func (a Address) validate() error {
	var missing []string
	if a.street == "" {
		missing = append(missing, "Street is required")
	}
	if a.city == "" {
		missing = append(missing, "City is required")
	}
	if a.state == "" {
		missing = append(missing, "State is required")
	}
	if a.zipCode == "" {
		missing = append(missing, "Zip code is required")
	}
	if len(missing) > 0 {
		return errors.New(strings.Join(missing, ", "))
	}
	if len(a.street) > 200 {
		return fmt.Errorf("street cannot exceed 200 characters")
	}
	if len(a.country) > 100 {
		return fmt.Errorf("country cannot exceed 100 characters")
	}
	return nil
}

// Street returns the street line
func (a Address) Street() string { return a.street }

// City returns the city
func (a Address) City() string { return a.city }

// State returns the state or province
func (a Address) State() string { return a.state }

// ZipCode returns the postal code
func (a Address) ZipCode() string { return a.zipCode }

// Country returns the country
func (a Address) Country() string { return a.country }

// IsEmpty returns true if no field is set
func (a Address) IsEmpty() bool {
	return a.street == "" && a.city == "" && a.state == "" && a.zipCode == ""
}

// String returns a single-line representation
func (a Address) String() string {
	if a.IsEmpty() {
		return ""
	}
	return fmt.Sprintf("%s, %s, %s %s, %s", a.street, a.city, a.state, a.zipCode, a.country)
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a == other
}

// AddressDTO is the wire and storage shape of an Address
type AddressDTO struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// ToDTO converts Address to AddressDTO
func (a Address) ToDTO() AddressDTO {
	return AddressDTO{
		Street:  a.street,
		City:    a.city,
		State:   a.state,
		ZipCode: a.zipCode,
		Country: a.country,
	}
}

// ToAddress validates the DTO and converts it to an Address
func (d AddressDTO) ToAddress() (Address, error) {
	return NewAddress(d.Street, d.City, d.State, d.ZipCode, WithCountry(d.Country))
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.ToDTO())
}

// UnmarshalJSON implements json.Unmarshaler. Stored documents are not re-validated.
func (a *Address) UnmarshalJSON(data []byte) error {
	var v AddressDTO
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = ReconstructAddress(v.Street, v.City, v.State, v.ZipCode, v.Country)
	return nil
}

// Value implements driver.Valuer so an Address can be stored in a JSON column
func (a Address) Value() (driver.Value, error) {
	b, err := a.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON columns
func (a *Address) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Address{}
		return nil
	case []byte:
		return a.UnmarshalJSON(v)
	case string:
		return a.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into Address", src)
	}
}
