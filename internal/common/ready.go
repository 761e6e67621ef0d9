package common

import (
	"context"
	"errors"
	"sync"
)

var ErrNotReady = errors.New("services not ready")

// Readiness is resolved once when startup finishes. Callers block in Wait
// instead of polling.
type Readiness struct {
	once     sync.Once
	done     chan struct{}
	services *Services
	err      error
}

func NewReadiness() *Readiness {
	return &Readiness{done: make(chan struct{})}
}

// Resolve records the startup outcome. Only the first call has any effect.
func (r *Readiness) Resolve(services *Services, err error) {
	r.once.Do(func() {
		r.services = services
		r.err = err
		close(r.done)
	})
}

// Wait blocks until Resolve is called or ctx is done.
func (r *Readiness) Wait(ctx context.Context) (*Services, error) {
	select {
	case <-r.done:
		return r.services, r.err
	case <-ctx.Done():
		return nil, ErrNotReady
	}
}

// Done is closed once startup has an outcome.
func (r *Readiness) Done() <-chan struct{} {
	return r.done
}

// Ready reports whether startup finished successfully, without blocking.
func (r *Readiness) Ready() bool {
	select {
	case <-r.done:
		return r.err == nil
	default:
		return false
	}
}
