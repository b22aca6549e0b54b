package checkoutkit

import (
	"context"
	"strings"
	"sync"

	"github.com/altpay/checkoutkit/throttle"
)

// binLength is how many leading digits identify the issuer.
const binLength = 6

// CardFormController drives a card-entry form. It owns one throttler per
// card-number field, so a burst of keystrokes produces at most one BIN lookup
// per window, carrying only the most recent leading digits. Lookup results
// for digits the user has since changed are dropped.
type CardFormController struct {
	cfg       config
	resolver  BINResolver
	tokenizer Tokenizer
	throttler *throttle.Throttler

	mu         sync.Mutex
	card       CardDetails
	bin        string
	generation uint64
	brand      CardBrand
}

// NewCardFormController builds a controller for one card-entry form.
func NewCardFormController(resolver BINResolver, tokenizer Tokenizer, opts ...Option) (*CardFormController, error) {
	if resolver == nil {
		panic("checkoutkit: BIN resolver is required")
	}
	if tokenizer == nil {
		panic("checkoutkit: tokenizer is required")
	}
	cfg := defaultFormConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	throttler, err := throttle.New(cfg.lookupDelay)
	if err != nil {
		return nil, NewInvalidConfigurationError(err.Error())
	}
	return &CardFormController{
		cfg:       cfg,
		resolver:  resolver,
		tokenizer: tokenizer,
		throttler: throttler,
		brand:     CardBrandUnknown,
	}, nil
}

// SetCardNumber feeds the current card-number field value, typically once per
// keystroke. When the leading digits change a throttled BIN lookup is
// scheduled; while the number is shorter than a BIN the brand resets to
// unknown immediately.
func (c *CardFormController) SetCardNumber(number string) {
	digits := digitsOnly(number)

	c.mu.Lock()
	c.card.Number = digits
	bin := ""
	if len(digits) >= binLength {
		bin = digits[:binLength]
	}
	if bin == c.bin {
		c.mu.Unlock()
		return
	}
	c.bin = bin
	c.generation++
	generation := c.generation
	if bin == "" {
		c.brand = CardBrandUnknown
	}
	c.mu.Unlock()

	if bin == "" {
		c.notifyBrand(BINInfo{Brand: CardBrandUnknown})
		return
	}
	c.throttler.Throttle(func() {
		c.lookup(generation, bin)
	})
}

// SetExpiry feeds the expiry field, zero-padded MM and four-digit YYYY.
func (c *CardFormController) SetExpiry(month, year string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.card.ExpMonth = strings.TrimSpace(month)
	c.card.ExpYear = strings.TrimSpace(year)
}

// SetCVV feeds the verification-code field.
func (c *CardFormController) SetCVV(cvv string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.card.CVV = digitsOnly(cvv)
}

// SetHolder feeds the cardholder-name field.
func (c *CardFormController) SetHolder(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.card.HolderName = strings.TrimSpace(name)
}

// SetEmail feeds the optional receipt-email field.
func (c *CardFormController) SetEmail(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	email = strings.TrimSpace(email)
	if email == "" {
		c.card.Email = nil
		return
	}
	c.card.Email = &email
}

// Brand returns the brand detected for the current leading digits, filtered
// by the merchant's enabled brands.
func (c *CardFormController) Brand() CardBrand {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.brand
}

// Details returns a copy of the current form state.
func (c *CardFormController) Details() CardDetails {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.card
}

// Submit validates the form and exchanges it for a gateway token.
func (c *CardFormController) Submit(ctx context.Context) (*CardToken, error) {
	c.mu.Lock()
	card := c.card
	c.mu.Unlock()
	if err := card.Validate(); err != nil {
		return nil, err
	}
	return c.tokenizer.Tokenize(ctx, card)
}

// Close releases the controller. Pending lookups never fire afterwards.
func (c *CardFormController) Close() {
	c.throttler.Stop()
}

// lookup runs on the throttler's timer goroutine.
func (c *CardFormController) lookup(generation uint64, bin string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.lookupTimeout)
	defer cancel()

	info, err := c.resolver.ResolveBIN(ctx, bin)
	if err != nil {
		c.cfg.logger.Debug().Str("bin", bin).Err(err).Msg("bin lookup failed")
		return
	}
	resolved := *info
	resolved.Brand = c.filterBrand(resolved.Brand)

	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		return
	}
	c.brand = resolved.Brand
	c.mu.Unlock()

	c.notifyBrand(resolved)
}

func (c *CardFormController) notifyBrand(info BINInfo) {
	if c.cfg.onBrandDetected != nil {
		c.cfg.onBrandDetected(info)
	}
}

func (c *CardFormController) filterBrand(brand CardBrand) CardBrand {
	if len(c.cfg.enabledBrands) == 0 {
		return brand
	}
	for _, enabled := range c.cfg.enabledBrands {
		if enabled == brand {
			return brand
		}
	}
	return CardBrandUnknown
}

func digitsOnly(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
