package identity

import (
	"testing"

	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T) *User {
	u, err := NewUser("Jane Doe", "  Jane@Example.COM ", "secret1")
	require.NoError(t, err)
	return u
}

func testAddr(t *testing.T, street string, isDefault bool) UserAddress {
	a, err := NewUserAddress("", valueobject.MustNewAddress(street, "Austin", "TX", "73301"), isDefault)
	require.NoError(t, err)
	return a
}

// ============================================
// User Tests
// ============================================

func TestNewUser(t *testing.T) {
	t.Run("normalizes and hashes", func(t *testing.T) {
		u := createTestUser(t)
		assert.Equal(t, "jane@example.com", u.Email)
		assert.Equal(t, RoleCustomer, u.Role)
		assert.NotEqual(t, "secret1", u.PasswordHash)
		assert.True(t, u.VerifyPassword("secret1"))
		assert.False(t, u.VerifyPassword("secret2"))
		assert.Len(t, u.GetDomainEvents(), 1)
	})

	t.Run("joins validation messages", func(t *testing.T) {
		_, err := NewUser("", "not-an-email", "123")
		require.Error(t, err)
		assert.Equal(t, "Name is required, Please provide a valid email, Password must be at least 6 characters", err.Error())
		assert.ErrorIs(t, err, shared.NewDomainError("VALIDATION_ERROR", ""))
	})

	t.Run("rejects long name", func(t *testing.T) {
		_, err := NewUser("abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz", "a@b.co", "secret1")
		require.Error(t, err)
		assert.Equal(t, "Name cannot be more than 50 characters", err.Error())
	})
}

func TestUser_SetRole(t *testing.T) {
	u := createTestUser(t)
	require.NoError(t, u.SetRole(RoleAdmin))
	assert.True(t, u.IsAdmin())
	assert.Error(t, u.SetRole("root"))
	assert.True(t, u.IsAdmin())
}

func TestUser_UpdateProfile(t *testing.T) {
	u := createTestUser(t)
	name, phone := "Jane Q. Doe", "555-0100"
	require.NoError(t, u.UpdateProfile(ProfileUpdate{Name: &name, Phone: &phone}))
	assert.Equal(t, "Jane Q. Doe", u.Name)
	assert.Equal(t, "555-0100", u.Phone)

	empty := ""
	require.NoError(t, u.UpdateProfile(ProfileUpdate{Name: &empty}))
	assert.Equal(t, "Jane Q. Doe", u.Name)
}

func TestUser_Wishlist(t *testing.T) {
	u := createTestUser(t)
	p := uuid.New()

	require.NoError(t, u.AddToWishlist(p))
	err := u.AddToWishlist(p)
	require.Error(t, err)
	assert.Equal(t, "Product already in wishlist", err.Error())
	assert.Len(t, u.Wishlist, 1)

	u.RemoveFromWishlist(uuid.New())
	assert.Len(t, u.Wishlist, 1)
	u.RemoveFromWishlist(p)
	assert.Empty(t, u.Wishlist)
}

// ============================================
// Address book Tests
// ============================================

func TestUser_AddAddress(t *testing.T) {
	u := createTestUser(t)

	first := testAddr(t, "1 First St", false)
	u.AddAddress(first)
	assert.True(t, u.Addresses[0].IsDefault, "first address becomes default")

	u.AddAddress(testAddr(t, "2 Second St", false))
	assert.False(t, u.Addresses[1].IsDefault)

	u.AddAddress(testAddr(t, "3 Third St", true))
	defaults := 0
	for _, a := range u.Addresses {
		if a.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
	assert.True(t, u.Addresses[2].IsDefault)
}

func TestUser_UpdateAddress(t *testing.T) {
	u := createTestUser(t)
	u.AddAddress(testAddr(t, "1 First St", false))
	second := testAddr(t, "2 Second St", false)
	u.AddAddress(second)

	require.NoError(t, u.UpdateAddress(second.ID, AddressPatch{City: "Dallas", Type: AddressTypeWork, IsDefault: true}))
	assert.Equal(t, "Dallas", u.Addresses[1].Address.City())
	assert.Equal(t, "2 Second St", u.Addresses[1].Address.Street())
	assert.Equal(t, AddressTypeWork, u.Addresses[1].Type)
	assert.True(t, u.Addresses[1].IsDefault)
	assert.False(t, u.Addresses[0].IsDefault)

	err := u.UpdateAddress(uuid.New(), AddressPatch{City: "Nowhere"})
	require.Error(t, err)
	assert.Equal(t, "Address not found", err.Error())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUser_RemoveAddress(t *testing.T) {
	u := createTestUser(t)
	first := testAddr(t, "1 First St", false)
	u.AddAddress(first)
	u.AddAddress(testAddr(t, "2 Second St", false))
	u.AddAddress(testAddr(t, "3 Third St", false))

	require.NoError(t, u.RemoveAddress(first.ID))
	require.Len(t, u.Addresses, 2)
	assert.True(t, u.Addresses[0].IsDefault, "first remaining address is promoted")
	assert.Equal(t, "2 Second St", u.Addresses[0].Address.Street())

	assert.ErrorIs(t, u.RemoveAddress(first.ID), shared.ErrNotFound)
}

func TestUser_ReplaceAddresses(t *testing.T) {
	u := createTestUser(t)
	a := testAddr(t, "1 First St", true)
	b := testAddr(t, "2 Second St", true)
	u.ReplaceAddresses([]UserAddress{a, b})
	assert.True(t, u.Addresses[0].IsDefault)
	assert.False(t, u.Addresses[1].IsDefault)

	u.ReplaceAddresses([]UserAddress{{Type: AddressTypeOther, Address: a.Address}})
	assert.True(t, u.Addresses[0].IsDefault)
	assert.NotEqual(t, uuid.Nil, u.Addresses[0].ID)
}

func TestNewUserAddress(t *testing.T) {
	a, err := NewUserAddress("", valueobject.MustNewAddress("1 St", "X", "Y", "1"), false)
	require.NoError(t, err)
	assert.Equal(t, AddressTypeHome, a.Type)

	_, err = NewUserAddress("villa", valueobject.MustNewAddress("1 St", "X", "Y", "1"), false)
	assert.Error(t, err)
}
