package signature

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"
	"time"
)

func TestHMACSignerMatchesFixture(t *testing.T) {
	t.Parallel()

	key := []byte("secret")
	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	canonical, err := CanonicalizeJSONBody([]byte(`{"card_number":"4111111111111111","exp_month":"12"}`))
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}

	got, err := HMACSigner{Key: key}.Sign(context.Background(), Material{
		Timestamp:     ts,
		CanonicalBody: canonical,
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	mac := hmac.New(sha256.New, key)
	mac.Write(BuildSigningPayload(ts, canonical))
	want := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if got != want {
		t.Fatalf("unexpected signature %q, want %q", got, want)
	}
}

func TestHMACSignerRequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := (HMACSigner{}).Sign(context.Background(), Material{Timestamp: time.Now()}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestHMACSignerVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer := HMACSigner{Key: []byte("secret")}
	material := Material{
		Timestamp:     time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		CanonicalBody: []byte(`{"status":"settled"}`),
	}
	sig, err := signer.Sign(context.Background(), material)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if err := signer.Verify(context.Background(), material, sig); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := signer.Verify(context.Background(), material, "Ym9ndXM"); err == nil {
		t.Fatal("expected verification failure for bogus signature")
	}
}

func TestCanonicalizeJSONBodyNormalizesKeyOrder(t *testing.T) {
	t.Parallel()

	first, err := CanonicalizeJSONBody([]byte(`{"b":1,"a":2}`))
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	second, err := CanonicalizeJSONBody([]byte(`{ "a": 2, "b": 1 }`))
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("canonical forms differ: %s vs %s", first, second)
	}
}

func TestCanonicalizeJSONBodyRejectsTrailingDocuments(t *testing.T) {
	t.Parallel()

	if _, err := CanonicalizeJSONBody([]byte(`{}{}`)); err == nil {
		t.Fatal("expected error for multiple JSON documents")
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		value   string
		wantErr bool
	}{
		"rfc3339":      {value: "2025-01-01T12:00:00Z"},
		"rfc3339 nano": {value: "2025-01-01T12:00:00.123456789Z"},
		"empty":        {value: "", wantErr: true},
		"garbage":      {value: "yesterday", wantErr: true},
	}
	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseTimestamp(tc.value)
			if tc.wantErr != (err != nil) {
				t.Fatalf("unexpected error state: %v", err)
			}
		})
	}
}
