package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"edumaster/web/internal/apiclient"
	"edumaster/web/internal/models"
)

type PaymentAPI interface {
	ListByUser(ctx context.Context, userID int64, page, size int) (models.Page[models.Payment], error)
	Confirm(ctx context.Context, paymentIntentID, paymentMethodID string) (models.Payment, error)
}

type Payments struct {
	mu    sync.RWMutex
	state Collection[models.Payment]
	api   PaymentAPI
	log   zerolog.Logger
}

func NewPayments(api PaymentAPI, log zerolog.Logger) *Payments {
	return &Payments{api: api, log: log.With().Str("slice", "payments").Logger()}
}

func (p *Payments) State() Collection[models.Payment] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.clone()
}

func (p *Payments) Fetch(ctx context.Context, userID int64, page, size int) error {
	p.mu.Lock()
	p.state.begin()
	p.mu.Unlock()

	result, err := p.api.ListByUser(ctx, userID, page, size)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state.fail(apiclient.MessageOf(err, "Failed to fetch payments"))
		p.log.Warn().Err(err).Int64("user_id", userID).Msg("fetch payments failed")
		return err
	}
	p.state.replace(result)
	return nil
}

func (p *Payments) Confirm(ctx context.Context, paymentIntentID, paymentMethodID string) (models.Payment, error) {
	p.mu.Lock()
	p.state.begin()
	p.mu.Unlock()

	payment, err := p.api.Confirm(ctx, paymentIntentID, paymentMethodID)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state.fail(apiclient.MessageOf(err, "Payment confirmation failed"))
		p.log.Warn().Err(err).Str("intent", paymentIntentID).Msg("confirm payment failed")
		return models.Payment{}, err
	}
	p.state.push(payment)
	return payment, nil
}

func (p *Payments) ClearError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Error = ""
}
