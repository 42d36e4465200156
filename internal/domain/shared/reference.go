package shared

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// ReferencePrefix prefixes every generated SKU and order number
const ReferencePrefix = "DN"

const base36Upper = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateReference builds "DN-<last tsDigits of unix millis>-<randLen base36 chars>".
// Product SKUs use (6, 3) and order numbers use (8, 4).
func GenerateReference(now time.Time, tsDigits, randLen int) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > tsDigits {
		ms = ms[len(ms)-tsDigits:]
	}

	var sb strings.Builder
	sb.Grow(len(ReferencePrefix) + 2 + len(ms) + randLen)
	sb.WriteString(ReferencePrefix)
	sb.WriteByte('-')
	sb.WriteString(ms)
	sb.WriteByte('-')
	for i := 0; i < randLen; i++ {
		sb.WriteByte(base36Upper[rand.IntN(len(base36Upper))])
	}
	return sb.String()
}
