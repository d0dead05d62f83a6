package models

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentSucceeded PaymentStatus = "SUCCEEDED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
	PaymentCanceled  PaymentStatus = "CANCELED"
)

type Payment struct {
	ID                    int64         `json:"id"`
	Amount                float64       `json:"amount"`
	Currency              string        `json:"currency"`
	Status                PaymentStatus `json:"status"`
	PaymentDate           time.Time     `json:"paymentDate"`
	RefundAmount          *float64      `json:"refundAmount,omitempty"`
	RefundDate            *time.Time    `json:"refundDate,omitempty"`
	RefundReason          string        `json:"refundReason,omitempty"`
	User                  UserRef       `json:"user"`
	Course                CourseRef     `json:"course"`
	StripePaymentIntentID string        `json:"stripePaymentIntentId,omitempty"`
	IsSuccessful          bool          `json:"isSuccessful"`
	IsRefunded            bool          `json:"isRefunded"`
	IsFailed              bool          `json:"isFailed"`
	NetAmount             float64       `json:"netAmount"`
}

type PaymentIntent struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}
