package catalog

import (
	"strings"
	"time"

	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/google/uuid"
)

// Review is a customer rating embedded in a Product
type Review struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	UserID    uuid.UUID
	UserName  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// NewReview validates and creates a review
func NewReview(productID, userID uuid.UUID, userName string, rating int, comment string) (*Review, error) {
	comment = strings.TrimSpace(comment)

	var errs shared.ValidationErrors
	errs.Check(rating < MinRating, "Rating must be at least 1")
	errs.Check(rating > MaxRating, "Rating cannot exceed 5")
	errs.Check(len([]rune(comment)) > MaxReviewComment, "Review comment cannot exceed 500 characters")
	if err := errs.Err(); err != nil {
		return nil, err
	}

	return &Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		UserName:  userName,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}, nil
}
