package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Purchase struct {
	gorm.Model
	UserID   uint    `json:"userId" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID uint    `json:"courseId" gorm:"uniqueIndex:idx_user_course;index;not null"`
	Course   *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

type StripeCustomer struct {
	gorm.Model
	UserID           uint   `json:"userId" gorm:"uniqueIndex;not null"`
	StripeCustomerID string `json:"stripeCustomerId" gorm:"uniqueIndex;not null"`
}

// CheckoutStatus defines the lifecycle of a checkout session
type CheckoutStatus string

const (
	CheckoutStatusPending   CheckoutStatus = "PENDING"
	CheckoutStatusCompleted CheckoutStatus = "COMPLETED"
	CheckoutStatusExpired   CheckoutStatus = "EXPIRED"
)

// CheckoutSession mirrors a Stripe Checkout Session created for a course.
type CheckoutSession struct {
	gorm.Model
	SessionID   string         `json:"sessionId" gorm:"type:varchar(255);uniqueIndex;not null"`
	UserID      uint           `json:"userId" gorm:"index;not null"`
	CourseID    uint           `json:"courseId" gorm:"index;not null"`
	AmountCents int64          `json:"amountCents"`
	Currency    string         `json:"currency" gorm:"type:varchar(10)"`
	Status      CheckoutStatus `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`
	CompletedAt *time.Time     `json:"completedAt"`
}

// PaymentEvent stores every verified webhook event as received.
type PaymentEvent struct {
	gorm.Model
	EventID   string         `json:"eventId" gorm:"type:varchar(255);uniqueIndex;not null"`
	EventType string         `json:"eventType" gorm:"type:varchar(100);index"`
	Payload   datatypes.JSON `json:"payload"`
}
