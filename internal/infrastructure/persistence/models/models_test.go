package models

import (
	"testing"
	"time"

	"github.com/dripnest/storefront/internal/domain/identity"
	"github.com/dripnest/storefront/internal/domain/shared/valueobject"
	"github.com/dripnest/storefront/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUserAddressModel_TableName(t *testing.T) {
	model := UserAddressModel{}
	assert.Equal(t, "user_addresses", model.TableName())
}

func TestUserAddressModel_ToDomain(t *testing.T) {
	model := &UserAddressModel{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Type:      string(identity.AddressTypeWork),
		Street:    "5 Dock Rd",
		City:      "Portland",
		State:     "OR",
		ZipCode:   "97201",
		Country:   "Canada",
		IsDefault: true,
	}

	got := model.ToDomain()

	assert.Equal(t, model.ID, got.ID)
	assert.Equal(t, identity.AddressTypeWork, got.Type)
	assert.True(t, got.IsDefault)
	assert.Equal(t, "5 Dock Rd", got.Address.Street())
	assert.Equal(t, "97201", got.Address.ZipCode())
	assert.Equal(t, "Canada", got.Address.Country())
}

func TestUserAddressModel_ToDomain_LegacyRow(t *testing.T) {
	model := &UserAddressModel{
		ID:     uuid.New(),
		Type:   string(identity.AddressTypeHome),
		Street: "5 Dock Rd",
		City:   "Portland",
	}

	got := model.ToDomain()

	assert.Equal(t, "Portland", got.Address.City())
	assert.Empty(t, got.Address.ZipCode())
	assert.Equal(t, valueobject.DefaultCountry, got.Address.Country())
}

func TestOrderModel_Version(t *testing.T) {
	now := time.Now()
	model := &OrderModel{
		AggregateModel: AggregateModel{
			BaseModel: BaseModel{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			Version: 4,
		},
		UserID:        uuid.New(),
		OrderNumber:   "ORD-1",
		PaymentType:   string(trade.PaymentTypeStripe),
		PaymentStatus: string(trade.PaymentStatusPending),
		Status:        string(trade.OrderStatusPending),
		Subtotal:      decimal.NewFromInt(20),
		Total:         decimal.NewFromInt(20),
	}

	order := model.ToDomain()
	assert.Equal(t, model.ID, order.ID)
	assert.Equal(t, 4, order.GetVersion())

	order.IncrementVersion()
	back := OrderModelFromDomain(order)
	assert.Equal(t, 5, back.Version)
	assert.Equal(t, model.ID, back.ID)
}
