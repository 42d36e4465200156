package trade

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestTradeLifecycle(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Order Lifecycle Suite")
}
