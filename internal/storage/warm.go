package storage

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// DefaultWarmTTL is how long a priming fetch keeps the upstream considered
// warm. Within the window a fresh visit skips both the splash screen and the
// promotional popup.
const DefaultWarmTTL = 15 * time.Minute

// Status describes what the entry route should show for this visit.
type Status struct {
	Warm      bool `json:"warm"`
	Splash    bool `json:"splash"`
	Promotion bool `json:"promotion"`
}

// Warmer decides whether the splash screen and promotional popup run on a
// visit, based on the age of the last priming fetch.
type Warmer struct {
	store  *Local
	ttl    time.Duration
	prime  func(ctx context.Context) error
	logger *zap.Logger
	now    func() time.Time
}

// NewWarmer wires the warm-window check. prime is the catalog priming fetch
// issued on a cold visit.
func NewWarmer(store *Local, ttl time.Duration, prime func(ctx context.Context) error, logger *zap.Logger) *Warmer {
	if ttl <= 0 {
		ttl = DefaultWarmTTL
	}
	return &Warmer{
		store:  store,
		ttl:    ttl,
		prime:  prime,
		logger: logger,
		now:    time.Now,
	}
}

// Check runs the visit bookkeeping. A warm timestamp younger than the TTL
// skips the splash and clears the promotion flag. Otherwise the priming fetch
// runs, the promotion arms on success, and the warm timestamp is stamped
// either way.
func (w *Warmer) Check(ctx context.Context) Status {
	if w.stillWarm() {
		if err := w.store.Set(KeyPromotion, "N"); err != nil {
			w.logger.Warn("persist promotion flag failed", zap.Error(err))
		}
		return Status{Warm: true}
	}

	status := Status{Splash: true}
	if err := w.prime(ctx); err != nil {
		w.logger.Warn("catalog priming fetch failed", zap.Error(err))
	} else {
		status.Promotion = true
		if err := w.store.Set(KeyPromotion, "Y"); err != nil {
			w.logger.Warn("persist promotion flag failed", zap.Error(err))
		}
	}

	stamp := strconv.FormatInt(w.now().UnixMilli(), 10)
	if err := w.store.Set(KeyWarmedAt, stamp); err != nil {
		w.logger.Warn("persist warm timestamp failed", zap.Error(err))
	}
	return status
}

func (w *Warmer) stillWarm() bool {
	raw, ok, err := w.store.Get(KeyWarmedAt)
	if err != nil || !ok {
		return false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	return w.now().Sub(time.UnixMilli(ms)) < w.ttl
}

// PromotionActive reports whether the promotional popup should show.
func (w *Warmer) PromotionActive() bool {
	v, ok, err := w.store.Get(KeyPromotion)
	return err == nil && ok && v == "Y"
}

// DismissPromotion records that the visitor closed the popup.
func (w *Warmer) DismissPromotion() error {
	return w.store.Set(KeyPromotion, "N")
}
