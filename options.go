package checkoutkit

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultLookupDelay   = time.Second
	defaultLookupTimeout = 10 * time.Second
)

type config struct {
	lookupDelay       time.Duration
	lookupTimeout     time.Duration
	enabledBrands     []CardBrand
	onBrandDetected   func(BINInfo)
	onEditableChanged func(editable bool)
	applePay          ApplePayAuthorizer
	savedCardsTitle   string
	otherMethodsTitle string
	logger            zerolog.Logger
}

func defaultFormConfig() config {
	return config{
		lookupDelay:       defaultLookupDelay,
		lookupTimeout:     defaultLookupTimeout,
		savedCardsTitle:   "Saved cards",
		otherMethodsTitle: "Other payment methods",
		logger:            zerolog.Nop(),
	}
}

// Option customizes form-level components.
type Option func(*config)

// WithLookupDelay sets the minimum interval between BIN lookups for one
// card-number field. Keystrokes inside the window are coalesced.
func WithLookupDelay(delay time.Duration) Option {
	if delay <= 0 {
		panic("checkoutkit: lookup delay must be positive")
	}
	return func(cfg *config) {
		cfg.lookupDelay = delay
	}
}

// WithLookupTimeout bounds a single BIN lookup round trip.
func WithLookupTimeout(timeout time.Duration) Option {
	if timeout <= 0 {
		panic("checkoutkit: lookup timeout must be positive")
	}
	return func(cfg *config) {
		cfg.lookupTimeout = timeout
	}
}

// WithEnabledBrands restricts which card brands the merchant accepts. Brands
// outside the list surface as [CardBrandUnknown]. An empty list accepts all.
func WithEnabledBrands(brands ...CardBrand) Option {
	return func(cfg *config) {
		cfg.enabledBrands = brands
	}
}

// WithBrandObserver registers the callback receiving BIN lookup results, e.g.
// to swap the brand logo next to the card-number field.
func WithBrandObserver(fn func(BINInfo)) Option {
	return func(cfg *config) {
		cfg.onBrandDetected = fn
	}
}

// WithEditModeObserver registers the callback toggling the host's edit-mode
// affordance when list editability flips.
func WithEditModeObserver(fn func(editable bool)) Option {
	return func(cfg *config) {
		cfg.onEditableChanged = fn
	}
}

// WithApplePayAuthorizer wires the host's platform layer that drives the
// system payment sheet.
func WithApplePayAuthorizer(authorizer ApplePayAuthorizer) Option {
	return func(cfg *config) {
		cfg.applePay = authorizer
	}
}

// WithSectionTitles overrides the payment-method section headers, typically
// with localized strings from the host.
func WithSectionTitles(savedCards, otherMethods string) Option {
	return func(cfg *config) {
		if savedCards != "" {
			cfg.savedCardsTitle = savedCards
		}
		if otherMethods != "" {
			cfg.otherMethodsTitle = otherMethods
		}
	}
}

// WithLogger wires structured debug logging. Components stay silent without it.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}
