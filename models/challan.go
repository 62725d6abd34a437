package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentStatus is the state of a challan's payment
type PaymentStatus string

// PaymentMethod is how a challan is (to be) paid
type PaymentMethod string

const (
	// PaymentPending is the status every challan is issued with
	PaymentPending PaymentStatus = "Pending"
	// PaymentPaid is set by the payment flow
	PaymentPaid PaymentStatus = "Paid"

	PaymentUPI        PaymentMethod = "UPI"
	PaymentCard       PaymentMethod = "Card"
	PaymentNetbanking PaymentMethod = "Netbanking"
)

// Challan holds the structure for the challans collection in mongo
type Challan struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	User          primitive.ObjectID `json:"user" bson:"user"`
	Instance      primitive.ObjectID `json:"instance" bson:"instance"`
	Date          time.Time          `json:"date" bson:"date"`
	Amount        int                `json:"amount" bson:"amount"`
	PaymentStatus PaymentStatus      `json:"paymentStatus" bson:"paymentStatus"`
	PaymentMethod PaymentMethod      `json:"paymentMethod" bson:"paymentMethod"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// ChallansResponse lists a rider's challans. The list is keyed "instances"
// for compatibility with existing clients.
type ChallansResponse struct {
	Status   string    `json:"status"`
	Challans []Challan `json:"instances"`
}
