package econnect

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jmehdipour/econnect-gateway/internal/soap"
)

var ErrCircuitOpen = errors.New("econnect: circuit open")

type state int

const (
	closed state = iota
	open
	halfOpen
)

// MicroBreaker opens after failThreshold consecutive transport failures and
// lets a single probe through once openFor has elapsed.
type MicroBreaker struct {
	mu               sync.Mutex
	st               state
	consecutiveFails int
	failThreshold    int
	openFor          time.Duration
	nextTryAt        time.Time
	probeInFlight    bool
	now              func() time.Time
}

func NewMicroBreaker(threshold int, openFor time.Duration) *MicroBreaker {
	if threshold <= 0 {
		threshold = 3
	}
	if openFor <= 0 {
		openFor = 15 * time.Second
	}
	return &MicroBreaker{failThreshold: threshold, openFor: openFor, now: time.Now}
}

func (b *MicroBreaker) TryAcquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.st {
	case open:
		if b.now().After(b.nextTryAt) && !b.probeInFlight {
			b.st = halfOpen
			b.probeInFlight = true
			return true
		}
		return false
	case halfOpen:
		if !b.probeInFlight {
			b.probeInFlight = true
			return true
		}
		return false
	default:
		return true
	}
}

func (b *MicroBreaker) OnSuccess() {
	b.mu.Lock()
	b.consecutiveFails = 0
	b.st = closed
	b.probeInFlight = false
	b.mu.Unlock()
}

func (b *MicroBreaker) OnFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.st == halfOpen {
		b.st = open
		b.nextTryAt = b.now().Add(b.openFor)
		b.probeInFlight = false
		return
	}

	b.consecutiveFails++
	if b.consecutiveFails >= b.failThreshold {
		b.st = open
		b.nextTryAt = b.now().Add(b.openFor)
	}
}

// Release frees a half-open probe slot without recording an outcome.
func (b *MicroBreaker) Release() {
	b.mu.Lock()
	b.probeInFlight = false
	b.mu.Unlock()
}

type breakerTransport struct {
	next Transport
	br   *MicroBreaker
}

// Call counts only transport failures. A SOAP fault proves the service is
// up, so it closes the breaker like a success does.
func (t *breakerTransport) Call(ctx context.Context, operation string, params soap.Params) (soap.Object, error) {
	if !t.br.TryAcquire() {
		return nil, ErrCircuitOpen
	}

	obj, err := t.next.Call(ctx, operation, params)

	var fault *soap.Fault
	switch {
	case err == nil, errors.As(err, &fault):
		t.br.OnSuccess()
	case errors.Is(err, context.Canceled):
		// caller gave up; says nothing about the remote
		t.br.Release()
	default:
		t.br.OnFailure()
	}

	return obj, err
}
