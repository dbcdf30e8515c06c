// Package payment simulates the mobile-money and card gateway used at checkout.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"sync"
	"time"

	"github.com/router-for-me/WiFiVoucher/internal/models"
	log "github.com/sirupsen/logrus"
)

const (
	// Currency is the only currency the gateway settles in.
	Currency = "TZS"

	DefaultDelay       = 2 * time.Second
	DefaultSuccessRate = 0.9

	messageSuccess = "Payment processed successfully"
	messageFailure = "Payment failed. Please try again."
)

// ErrUnsupportedMethod is returned for anything other than mpesa or card.
var ErrUnsupportedMethod = errors.New("payment: unsupported method")

var phonePattern = regexp.MustCompile(`^(\+?254|0)[17]\d{8}$`)

// Request describes a single charge.
type Request struct {
	Amount      float64
	Method      string
	PhoneNumber string
	Reference   string
}

// Result is the gateway outcome. A declined charge is not an error.
type Result struct {
	Success       bool
	TransactionID string
	Message       string
	Currency      string
}

// Gateway charges a customer.
type Gateway interface {
	Process(ctx context.Context, req Request) (Result, error)
}

// ValidMethod reports whether method is accepted at checkout.
func ValidMethod(method string) bool {
	switch method {
	case string(models.PaymentMethodMpesa), string(models.PaymentMethodCard):
		return true
	default:
		return false
	}
}

// ValidatePhoneNumber reports whether phone is a Kenyan mobile number in
// 07xx, 01xx, 254xx or +254xx form.
func ValidatePhoneNumber(phone string) bool {
	return phonePattern.MatchString(phone)
}

// Stub approves a fixed fraction of charges after a simulated delay.
type Stub struct {
	Delay       time.Duration
	SuccessRate float64
	Now         func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewStub builds a Stub; a nil rng is seeded from the clock.
func NewStub(delay time.Duration, successRate float64, rng *rand.Rand) *Stub {
	if delay < 0 {
		delay = 0
	}
	if successRate <= 0 || successRate > 1 {
		successRate = DefaultSuccessRate
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Stub{Delay: delay, SuccessRate: successRate, Now: time.Now, rng: rng}
}

// Process waits for the configured delay, then approves or declines.
func (s *Stub) Process(ctx context.Context, req Request) (Result, error) {
	if !ValidMethod(req.Method) {
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, req.Method)
	}
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}

	s.mu.Lock()
	roll := s.rng.Float64()
	s.mu.Unlock()

	if roll >= s.SuccessRate {
		log.WithFields(log.Fields{"reference": req.Reference, "method": req.Method}).Info("payment declined")
		return Result{Success: false, Message: messageFailure, Currency: Currency}, nil
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return Result{
		Success:       true,
		TransactionID: fmt.Sprintf("TXN%d", now().UnixMilli()),
		Message:       messageSuccess,
		Currency:      Currency,
	}, nil
}
