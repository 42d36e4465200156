package identity

import (
	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// AddressType labels a saved address
type AddressType string

const (
	AddressTypeHome  AddressType = "home"
	AddressTypeWork  AddressType = "work"
	AddressTypeOther AddressType = "other"
)

// IsValid checks if the address type is known
func (t AddressType) IsValid() bool {
	return t == AddressTypeHome || t == AddressTypeWork || t == AddressTypeOther
}

// UserAddress is a saved address in a user's address book
type UserAddress struct {
	ID        uuid.UUID
	Type      AddressType
	Address   valueobject.Address
	IsDefault bool
}

// NewUserAddress creates an address book entry. An empty type becomes home.
func NewUserAddress(addrType AddressType, addr valueobject.Address, isDefault bool) (UserAddress, error) {
	if addrType == "" {
		addrType = AddressTypeHome
	}
	if !addrType.IsValid() {
		return UserAddress{}, shared.NewDomainError("VALIDATION_ERROR", "`"+string(addrType)+"` is not a valid address type")
	}
	return UserAddress{ID: uuid.New(), Type: addrType, Address: addr, IsDefault: isDefault}, nil
}

// AddressPatch carries optional address changes. Empty strings keep the current value.
type AddressPatch struct {
	Type      AddressType
	Street    string
	City      string
	State     string
	ZipCode   string
	Country   string
	IsDefault bool
}

var errAddressNotFound = shared.NewDomainError("NOT_FOUND", "Address not found")

// AddAddress appends an address. The first address, or one flagged default,
// becomes the only default.
func (u *User) AddAddress(addr UserAddress) {
	if len(u.Addresses) == 0 || addr.IsDefault {
		u.clearDefault()
		addr.IsDefault = true
	}
	u.Addresses = append(u.Addresses, addr)
	u.Touch()
}

// UpdateAddress patches the address with id
func (u *User) UpdateAddress(id uuid.UUID, patch AddressPatch) error {
	idx := u.addressIndex(id)
	if idx < 0 {
		return errAddressNotFound
	}
	cur := u.Addresses[idx]

	dto := cur.Address.ToDTO()
	if patch.Street != "" {
		dto.Street = patch.Street
	}
	if patch.City != "" {
		dto.City = patch.City
	}
	if patch.State != "" {
		dto.State = patch.State
	}
	if patch.ZipCode != "" {
		dto.ZipCode = patch.ZipCode
	}
	if patch.Country != "" {
		dto.Country = patch.Country
	}
	addr, err := dto.ToAddress()
	if err != nil {
		return err
	}
	if patch.Type != "" {
		if !patch.Type.IsValid() {
			return shared.NewDomainError("VALIDATION_ERROR", "`"+string(patch.Type)+"` is not a valid address type")
		}
		cur.Type = patch.Type
	}
	cur.Address = addr

	if patch.IsDefault {
		u.clearDefault()
		cur.IsDefault = true
	}
	u.Addresses[idx] = cur
	u.Touch()
	return nil
}

// RemoveAddress deletes the address with id. When the default is removed the
// first remaining address is promoted.
func (u *User) RemoveAddress(id uuid.UUID) error {
	idx := u.addressIndex(id)
	if idx < 0 {
		return errAddressNotFound
	}
	u.Addresses = append(u.Addresses[:idx], u.Addresses[idx+1:]...)
	u.ensureDefault()
	u.Touch()
	return nil
}

// ReplaceAddresses swaps the whole address book, keeping exactly one default
func (u *User) ReplaceAddresses(addrs []UserAddress) {
	out := make([]UserAddress, 0, len(addrs))
	seenDefault := false
	for _, a := range addrs {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		if a.IsDefault {
			if seenDefault {
				a.IsDefault = false
			}
			seenDefault = true
		}
		out = append(out, a)
	}
	u.Addresses = out
	u.ensureDefault()
}

// DefaultAddress returns the default address, if any
func (u *User) DefaultAddress() (UserAddress, bool) {
	for _, a := range u.Addresses {
		if a.IsDefault {
			return a, true
		}
	}
	return UserAddress{}, false
}

func (u *User) addressIndex(id uuid.UUID) int {
	for i, a := range u.Addresses {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (u *User) clearDefault() {
	for i := range u.Addresses {
		u.Addresses[i].IsDefault = false
	}
}

func (u *User) ensureDefault() {
	if len(u.Addresses) == 0 {
		return
	}
	if _, ok := u.DefaultAddress(); !ok {
		u.Addresses[0].IsDefault = true
	}
}
