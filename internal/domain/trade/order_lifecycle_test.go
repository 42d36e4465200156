package trade

import (
	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Order lifecycle", func() {
	var order *Order

	BeforeEach(func() {
		var err error
		order, err = NewOrder(NewOrderInput{
			UserID:          uuid.New(),
			Items:           []OrderItem{testItem(30, 2)},
			ShippingAddress: testAddress(),
			BillingAddress:  testAddress(),
			PaymentMethod:   PaymentMethod{Type: PaymentTypeStripe, ID: "pi_abc"},
			ShippingCost:    decimal.NewFromInt(7),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts pending and unpaid", func() {
		Expect(order.Status).To(Equal(OrderStatusPending))
		Expect(order.IsPaid).To(BeFalse())
		Expect(order.Total.String()).To(Equal("67"))
	})

	Context("when paid and fulfilled", func() {
		BeforeEach(func() {
			order.MarkPaid(PaymentResult{ID: "pi_abc", Status: "succeeded"})
			Expect(order.UpdateStatus(StatusUpdate{Status: OrderStatusProcessing})).To(Succeed())
			Expect(order.UpdateStatus(StatusUpdate{Status: OrderStatusShipped, TrackingNumber: "TRK1"})).To(Succeed())
			Expect(order.UpdateStatus(StatusUpdate{Status: OrderStatusDelivered})).To(Succeed())
		})

		It("is paid and delivered", func() {
			Expect(order.IsPaid).To(BeTrue())
			Expect(order.PaidAt).NotTo(BeNil())
			Expect(order.IsDelivered).To(BeTrue())
			Expect(order.DeliveredAt).NotTo(BeNil())
		})

		It("can no longer be cancelled by the customer", func() {
			Expect(order.Cancel()).To(MatchError("Order cannot be cancelled at this stage"))
		})

		It("can be refunded once and then is final", func() {
			Expect(order.MarkRefunded()).To(Succeed())
			Expect(order.Status).To(Equal(OrderStatusRefunded))
			err := order.UpdateStatus(StatusUpdate{Status: OrderStatusShipped})
			Expect(err).To(MatchError(shared.ErrInvalidState))
		})

		It("keeps the total consistent", func() {
			Expect(order.Total.Equal(order.Subtotal.Add(order.Tax).Add(order.ShippingCost))).To(BeTrue())
		})
	})

	Context("when cancelled while pending", func() {
		BeforeEach(func() {
			Expect(order.Cancel()).To(Succeed())
		})

		It("records the cancellation lines for stock restoration", func() {
			var cancelled *OrderCancelledEvent
			for _, e := range order.GetDomainEvents() {
				if c, ok := e.(*OrderCancelledEvent); ok {
					cancelled = c
				}
			}
			Expect(cancelled).NotTo(BeNil())
			Expect(cancelled.Lines).To(HaveLen(1))
			Expect(cancelled.Lines[0].Quantity).To(Equal(2))
		})

		It("rejects further transitions", func() {
			Expect(order.UpdateStatus(StatusUpdate{Status: OrderStatusProcessing})).NotTo(Succeed())
		})
	})
})
