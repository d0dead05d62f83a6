package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/segmentio/ksuid"

	"edumaster/web/internal/apiclient"
	"edumaster/web/internal/models"
)

type PaymentService struct {
	client Doer
}

func NewPaymentService(client Doer) *PaymentService {
	return &PaymentService{client: client}
}

func (s *PaymentService) ListByUser(ctx context.Context, userID int64, page, size int) (models.Page[models.Payment], error) {
	if size <= 0 {
		size = 10
	}
	var out models.Page[models.Payment]
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/payments/user/" + id(userID),
		Query:  pageQuery(page, size),
	}, &out)
	return out, err
}

func (s *PaymentService) CreateIntent(ctx context.Context, userID, courseID int64) (models.PaymentIntent, error) {
	var out models.PaymentIntent
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/payments/create-intent",
		Query:  url.Values{"userId": {id(userID)}, "courseId": {id(courseID)}},
	}, &out)
	return out, err
}

// Confirm tags each submission with a fresh idempotency key so a resubmitted
// form can be recognized by the backend.
func (s *PaymentService) Confirm(ctx context.Context, paymentIntentID, paymentMethodID string) (models.Payment, error) {
	var out models.Payment
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/payments/confirm",
		Query:  url.Values{"paymentIntentId": {paymentIntentID}, "paymentMethodId": {paymentMethodID}},
		Header: http.Header{apiclient.IdempotencyKeyHeader: {ksuid.New().String()}},
	}, &out)
	return out, err
}

func (s *PaymentService) Refund(ctx context.Context, paymentID int64, amount float64, reason string) (models.Payment, error) {
	var out models.Payment
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/payments/" + id(paymentID) + "/refund",
		Query: url.Values{
			"refundAmount": {strconv.FormatFloat(amount, 'f', 2, 64)},
			"reason":       {reason},
		},
	}, &out)
	return out, err
}
