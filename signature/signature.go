// Package signature produces the detached HMAC signatures attached to every
// body-bearing gateway request. Signing covers the request timestamp and the
// canonical-JSON form of the body so the gateway can verify payloads
// independently of field order or whitespace.
package signature

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	canonicaljson "github.com/gibson042/canonicaljson-go"
)

// Material captures the inputs covered by a request signature.
type Material struct {
	Timestamp     time.Time
	CanonicalBody []byte
	Method        string
	Path          string
}

// Signer produces the Signature header value for an outgoing request.
type Signer interface {
	Sign(ctx context.Context, material Material) (string, error)
}

// SignerFunc lifts bare functions into [Signer].
type SignerFunc func(ctx context.Context, material Material) (string, error)

// Sign delegates to the wrapped function.
func (f SignerFunc) Sign(ctx context.Context, material Material) (string, error) {
	return f(ctx, material)
}

// HMACSigner signs requests by taking the base64url-encoded HMAC-SHA256 of
// `RFC3339(timestamp) + "." + canonicalJSON`.
type HMACSigner struct {
	Key []byte
}

// Sign implements [Signer].
func (s HMACSigner) Sign(_ context.Context, material Material) (string, error) {
	if len(s.Key) == 0 {
		return "", errors.New("signature: HMACSigner requires a non-empty key")
	}
	signingInput := BuildSigningPayload(material.Timestamp, material.CanonicalBody)
	mac := hmac.New(sha256.New, s.Key)
	if _, err := mac.Write(signingInput); err != nil {
		return "", fmt.Errorf("signature: compute signature: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Verify recomputes the expected signature and compares it in constant time.
// Hosts use it to check signed callbacks coming back from the gateway.
func (s HMACSigner) Verify(ctx context.Context, material Material, signature string) error {
	expected, err := s.Sign(ctx, material)
	if err != nil {
		return err
	}
	decoded, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("signature: decode signature: %w", err)
	}
	want, err := base64.RawURLEncoding.DecodeString(expected)
	if err != nil {
		return fmt.Errorf("signature: decode expected signature: %w", err)
	}
	if !hmac.Equal(decoded, want) {
		return errors.New("signature: invalid signature")
	}
	return nil
}

// CanonicalizeJSONBody normalizes arbitrary JSON into canonical form for signing.
func CanonicalizeJSONBody(raw []byte) ([]byte, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []byte("null"), nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("signature: multiple JSON documents in body")
	}
	return canonicaljson.Marshal(payload)
}

// ParseTimestamp accepts Timestamp header values in RFC3339 or RFC3339Nano format.
func ParseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("signature: empty timestamp")
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, value)
}

// FormatTimestamp renders the Timestamp header value for an outgoing request.
func FormatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339Nano)
}

// BuildSigningPayload constructs the canonical string that is HMAC-signed.
func BuildSigningPayload(ts time.Time, canonicalBody []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(ts.UTC().Format(time.RFC3339Nano))
	buf.WriteByte('.')
	buf.Write(canonicalBody)
	return buf.Bytes()
}
