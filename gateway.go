package checkoutkit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/altpay/checkoutkit/signature"
)

const (
	binLookupPath    = "/v1/bins"
	merchantKeyPath  = "/v1/merchant/key"
	tokenizePath     = "/v1/tokens"
	chargePath       = "/v1/charges"
	defaultUserAgent = "checkoutkit/1.0"
)

// BINResolver answers card-brand lookups keyed by the leading card digits.
type BINResolver interface {
	ResolveBIN(ctx context.Context, bin string) (*BINInfo, error)
}

// Tokenizer exchanges raw card details for a reusable gateway token.
type Tokenizer interface {
	Tokenize(ctx context.Context, card CardDetails) (*CardToken, error)
}

type clientConfig struct {
	timeout   time.Duration
	signer    signature.Signer
	logger    zerolog.Logger
	userAgent string
	clock     func() time.Time
}

// ClientOption customizes a [Client].
type ClientOption func(*clientConfig)

// WithGatewayTimeout bounds every gateway round trip.
func WithGatewayTimeout(timeout time.Duration) ClientOption {
	if timeout <= 0 {
		panic("checkoutkit: gateway timeout must be positive")
	}
	return func(cfg *clientConfig) {
		cfg.timeout = timeout
	}
}

// WithSigner enables detached HMAC signing of body-bearing requests.
func WithSigner(signer signature.Signer) ClientOption {
	return func(cfg *clientConfig) {
		cfg.signer = signer
	}
}

// WithClientLogger wires structured debug logging of gateway traffic. The
// client stays silent without it.
func WithClientLogger(logger zerolog.Logger) ClientOption {
	return func(cfg *clientConfig) {
		cfg.logger = logger
	}
}

// WithClientUserAgent overrides the default User-Agent header.
func WithClientUserAgent(userAgent string) ClientOption {
	return func(cfg *clientConfig) {
		cfg.userAgent = userAgent
	}
}

// clientWithClock provides deterministic time in tests.
func clientWithClock(fn func() time.Time) ClientOption {
	return func(cfg *clientConfig) {
		cfg.clock = fn
	}
}

// Client is the SDK's HTTP edge: BIN lookups, merchant key retrieval, card
// tokenization, and bank-transfer charges. It implements [BINResolver] and
// [Tokenizer].
type Client struct {
	http      *resty.Client
	clientKey string
	signer    signature.Signer
	log       zerolog.Logger
	userAgent string
	clock     func() time.Time
}

// NewClient builds a gateway client authenticated by the merchant's
// publishable client key.
func NewClient(baseURL, clientKey string, opts ...ClientOption) *Client {
	if baseURL == "" {
		panic("checkoutkit: gateway base URL is required")
	}
	if clientKey == "" {
		panic("checkoutkit: client key is required")
	}
	cfg := clientConfig{
		timeout:   15 * time.Second,
		logger:    zerolog.Nop(),
		userAgent: defaultUserAgent,
		clock:     time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(cfg.timeout).
		SetHeader("Accept", "application/json")
	return &Client{
		http:      cli,
		clientKey: clientKey,
		signer:    cfg.signer,
		log:       cfg.logger,
		userAgent: cfg.userAgent,
		clock:     cfg.clock,
	}
}

// ResolveBIN implements [BINResolver].
func (c *Client) ResolveBIN(ctx context.Context, bin string) (*BINInfo, error) {
	if len(bin) < binLength {
		return nil, NewLookupFailedError(fmt.Sprintf("bin requires at least %d digits", binLength))
	}
	req, meta := c.newRequest(ctx, false)
	var out BINInfo
	path := binLookupPath + "/" + url.PathEscape(bin)
	resp, err := req.SetResult(&out).Get(path)
	if err != nil {
		return nil, NewLookupFailedError(fmt.Sprintf("bin lookup: %s", err))
	}
	c.logResponse(meta, http.MethodGet, path, resp)
	if resp.IsError() {
		return nil, c.decodeError(resp, LookupFailed)
	}
	if out.Brand == "" {
		out.Brand = CardBrandUnknown
	}
	if out.BIN == "" {
		out.BIN = bin
	}
	return &out, nil
}

// FetchMerchantKey retrieves the merchant key bound to the client key.
func (c *Client) FetchMerchantKey(ctx context.Context) (*MerchantKey, error) {
	req, meta := c.newRequest(ctx, false)
	var out MerchantKey
	resp, err := req.SetResult(&out).Get(merchantKeyPath)
	if err != nil {
		return nil, NewProcessingError(fmt.Sprintf("merchant key: %s", err))
	}
	c.logResponse(meta, http.MethodGet, merchantKeyPath, resp)
	if resp.IsError() {
		return nil, c.decodeError(resp, MissingCredentials)
	}
	return &out, nil
}

// Tokenize implements [Tokenizer]. Card details are validated locally before
// any network traffic.
func (c *Client) Tokenize(ctx context.Context, card CardDetails) (*CardToken, error) {
	if err := card.Validate(); err != nil {
		return nil, err
	}
	req, meta := c.newRequest(ctx, true)
	if err := c.signBody(ctx, req, http.MethodPost, tokenizePath, card); err != nil {
		return nil, NewTokenizationFailedError(fmt.Sprintf("sign request: %s", err))
	}
	var out CardToken
	resp, err := req.SetResult(&out).Post(tokenizePath)
	if err != nil {
		return nil, NewTokenizationFailedError(fmt.Sprintf("tokenize: %s", err))
	}
	c.logResponse(meta, http.MethodPost, tokenizePath, resp)
	if resp.IsError() {
		return nil, c.decodeError(resp, TokenizationFailed)
	}
	return &out, nil
}

type bankTransferChargeRequest struct {
	PaymentType string               `json:"payment_type"`
	Provider    BankTransferProvider `json:"provider"`
	DokuTransferDetails
}

// ChargeBankTransfer opens a Doku bank-transfer charge and returns the
// virtual-account instructions shown to the payer.
func (c *Client) ChargeBankTransfer(ctx context.Context, details DokuTransferDetails) (*BankTransferInstructions, error) {
	if err := details.Validate(); err != nil {
		return nil, err
	}
	body := bankTransferChargeRequest{
		PaymentType:         "bank_transfer",
		Provider:            BankTransferProviderDoku,
		DokuTransferDetails: details,
	}
	req, meta := c.newRequest(ctx, true)
	if err := c.signBody(ctx, req, http.MethodPost, chargePath, body); err != nil {
		return nil, newError(ProcessingError, ChargeFailed, fmt.Sprintf("sign request: %s", err))
	}
	var out BankTransferInstructions
	resp, err := req.SetResult(&out).Post(chargePath)
	if err != nil {
		return nil, newError(ProcessingError, ChargeFailed, fmt.Sprintf("bank transfer charge: %s", err))
	}
	c.logResponse(meta, http.MethodPost, chargePath, resp)
	if resp.IsError() {
		return nil, c.decodeError(resp, ChargeFailed)
	}
	return &out, nil
}

// newRequest prepares a request carrying the standard header set. Context
// overrides win; blanks are filled with generated values. Mutating requests
// get an idempotency key.
func (c *Client) newRequest(ctx context.Context, mutating bool) (*resty.Request, RequestMetadata) {
	var meta RequestMetadata
	if override := RequestMetadataFromContext(ctx); override != nil {
		meta = *override
	}
	if meta.RequestID == "" {
		meta.RequestID = uuid.NewString()
	}
	if meta.UserAgent == "" {
		meta.UserAgent = c.userAgent
	}
	if mutating && meta.IdempotencyKey == "" {
		meta.IdempotencyKey = uuid.NewString()
	}
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Client-Key", c.clientKey)
	for key, value := range meta.headers() {
		req.SetHeader(key, value)
	}
	return req, meta
}

// signBody attaches the body plus Signature and Timestamp headers when a
// signer is configured.
func (c *Client) signBody(ctx context.Context, req *resty.Request, method, path string, body any) error {
	req.SetBody(body)
	if c.signer == nil {
		return nil
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	canonical, err := signature.CanonicalizeJSONBody(raw)
	if err != nil {
		return err
	}
	ts := c.clock()
	sig, err := c.signer.Sign(ctx, signature.Material{
		Timestamp:     ts,
		CanonicalBody: canonical,
		Method:        method,
		Path:          path,
	})
	if err != nil {
		return err
	}
	req.SetHeader("Signature", sig)
	req.SetHeader("Timestamp", signature.FormatTimestamp(ts))
	return nil
}

// decodeError maps a non-2xx gateway response to the typed error taxonomy,
// falling back to the given code when the body carries no structured payload.
func (c *Client) decodeError(resp *resty.Response, fallback ErrorCode) error {
	var payload Error
	if err := json.Unmarshal(resp.Body(), &payload); err == nil && payload.Type != "" {
		payload.status = resp.StatusCode()
		payload.retryAfter = retryAfterFromHeader(resp.Header().Get("Retry-After"))
		return &payload
	}
	return NewHTTPError(resp.StatusCode(), ProcessingError, fallback, fmt.Sprintf("gateway returned %s", resp.Status()))
}

func (c *Client) logResponse(meta RequestMetadata, method, path string, resp *resty.Response) {
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", meta.RequestID).
		Int("status", resp.StatusCode()).
		Dur("elapsed", resp.Time()).
		Msg("gateway round trip")
}

func retryAfterFromHeader(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
