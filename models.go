package checkoutkit

import (
	"encoding/json"
	"time"

	"github.com/oapi-codegen/runtime"
)

// CardBrand identifies a card network for logo display.
type CardBrand string

// Defines values for CardBrand.
const (
	CardBrandVisa       CardBrand = "visa"
	CardBrandMastercard CardBrand = "mastercard"
	CardBrandAmex       CardBrand = "amex"
	CardBrandJCB        CardBrand = "jcb"
	CardBrandUnknown    CardBrand = "unknown"
)

// PaymentMethodType labels the variant stored in a [PaymentMethod] union.
type PaymentMethodType string

// Defines values for PaymentMethodType.
const (
	PaymentMethodTypeSavedCard    PaymentMethodType = "saved_card"
	PaymentMethodTypeBankTransfer PaymentMethodType = "bank_transfer"
	PaymentMethodTypeApplePay     PaymentMethodType = "apple_pay"
)

// BankTransferProvider identifies the bank-transfer acquirer.
type BankTransferProvider string

// Defines values for BankTransferProvider.
const (
	BankTransferProviderDoku BankTransferProvider = "doku"
)

// CardDetails captures the raw card-entry form state submitted for
// tokenization.
type CardDetails struct {
	// Full primary account number as typed, digits only.
	Number string `json:"number" validate:"required,numeric,min=12,max=19,luhn"`
	// Expiry month, zero-padded.
	ExpMonth string `json:"exp_month" validate:"required,len=2,numeric"`
	// Expiry year, four digits.
	ExpYear string `json:"exp_year" validate:"required,len=4,numeric"`
	// Card verification value.
	CVV string `json:"cvv" validate:"required,numeric,min=3,max=4"`
	// Cardholder name as embossed.
	HolderName string `json:"holder_name" validate:"required"`
	// Receipt email, optional.
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

// BIN returns the leading digits used for brand lookups, or an empty string
// while the number is still too short.
func (c CardDetails) BIN() string {
	if len(c.Number) < binLength {
		return ""
	}
	return c.Number[:binLength]
}

// BINInfo is the card metadata returned by a BIN lookup.
type BINInfo struct {
	BIN         string    `json:"bin"`
	Brand       CardBrand `json:"brand"`
	BankName    *string   `json:"bank_name,omitempty"`
	CountryCode *string   `json:"country_code,omitempty"`
	CardType    *string   `json:"card_type,omitempty"` // credit, debit, prepaid
}

// CardToken is emitted by the gateway after tokenizing card details.
type CardToken struct {
	// Unique token identifier tok_….
	ID string `json:"id"`
	// Brand resolved by the gateway.
	Brand CardBrand `json:"brand"`
	// Masked number for display, e.g. "411111******1111".
	MaskedNumber string `json:"masked_number"`
	// Time formatted as an RFC 3339 string.
	Created time.Time `json:"created"`
}

// MerchantKey is the publishable credential retrieved before any charge.
type MerchantKey struct {
	ClientKey  string    `json:"client_key"`
	MerchantID string    `json:"merchant_id"`
	Created    time.Time `json:"created"`
}

// DokuTransferDetails captures the Doku bank-transfer form state.
type DokuTransferDetails struct {
	CustomerName string `json:"customer_name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	// Amount in the currency's minor unit.
	Amount   int64  `json:"amount" validate:"required,gt=0"`
	Currency string `json:"currency" validate:"required,currency"`
}

// BankTransferInstructions is returned after a bank-transfer charge and is
// shown to the payer.
type BankTransferInstructions struct {
	VirtualAccountNumber string    `json:"virtual_account_number"`
	BankCode             string    `json:"bank_code"`
	ExpiresAt            time.Time `json:"expires_at"`
}

// SavedCardMethod is a previously tokenized card offered for reuse.
type SavedCardMethod struct {
	ID           string            `json:"id"`
	Type         PaymentMethodType `json:"type"`
	TokenID      string            `json:"token_id"`
	MaskedNumber string            `json:"masked_number"`
	Brand        CardBrand         `json:"brand"`
}

// BankTransferMethod offers a bank-transfer flow such as Doku.
type BankTransferMethod struct {
	ID          string               `json:"id"`
	Type        PaymentMethodType    `json:"type"`
	Provider    BankTransferProvider `json:"provider"`
	DisplayName string               `json:"display_name"`
}

// ApplePayMethod offers the system payment sheet.
type ApplePayMethod struct {
	ID                 string            `json:"id"`
	Type               PaymentMethodType `json:"type"`
	MerchantIdentifier string            `json:"merchant_identifier"`
}

// PaymentMethod is the union of method variants shown in the payment list.
type PaymentMethod struct {
	union json.RawMessage
}

// DiffID implements listkit.Item: methods are matched across snapshots by
// their stable id.
func (t PaymentMethod) DiffID() string {
	var probe struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(t.union, &probe)
	return probe.ID
}

// MethodType reports which variant the union holds.
func (t PaymentMethod) MethodType() PaymentMethodType {
	var probe struct {
		Type PaymentMethodType `json:"type"`
	}
	_ = json.Unmarshal(t.union, &probe)
	return probe.Type
}

// AsSavedCardMethod returns the union data inside the PaymentMethod as a SavedCardMethod
func (t PaymentMethod) AsSavedCardMethod() (SavedCardMethod, error) {
	var body SavedCardMethod
	err := json.Unmarshal(t.union, &body)
	return body, err
}

// FromSavedCardMethod overwrites any union data inside the PaymentMethod as the provided SavedCardMethod
func (t *PaymentMethod) FromSavedCardMethod(v SavedCardMethod) error {
	v.Type = PaymentMethodTypeSavedCard
	b, err := json.Marshal(v)
	t.union = b
	return err
}

// MergeSavedCardMethod performs a merge with any union data inside the PaymentMethod, using the provided SavedCardMethod
func (t *PaymentMethod) MergeSavedCardMethod(v SavedCardMethod) error {
	v.Type = PaymentMethodTypeSavedCard
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	merged, err := runtime.JSONMerge(t.union, b)
	t.union = merged
	return err
}

// AsBankTransferMethod returns the union data inside the PaymentMethod as a BankTransferMethod
func (t PaymentMethod) AsBankTransferMethod() (BankTransferMethod, error) {
	var body BankTransferMethod
	err := json.Unmarshal(t.union, &body)
	return body, err
}

// FromBankTransferMethod overwrites any union data inside the PaymentMethod as the provided BankTransferMethod
func (t *PaymentMethod) FromBankTransferMethod(v BankTransferMethod) error {
	v.Type = PaymentMethodTypeBankTransfer
	b, err := json.Marshal(v)
	t.union = b
	return err
}

// MergeBankTransferMethod performs a merge with any union data inside the PaymentMethod, using the provided BankTransferMethod
func (t *PaymentMethod) MergeBankTransferMethod(v BankTransferMethod) error {
	v.Type = PaymentMethodTypeBankTransfer
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	merged, err := runtime.JSONMerge(t.union, b)
	t.union = merged
	return err
}

// AsApplePayMethod returns the union data inside the PaymentMethod as an ApplePayMethod
func (t PaymentMethod) AsApplePayMethod() (ApplePayMethod, error) {
	var body ApplePayMethod
	err := json.Unmarshal(t.union, &body)
	return body, err
}

// FromApplePayMethod overwrites any union data inside the PaymentMethod as the provided ApplePayMethod
func (t *PaymentMethod) FromApplePayMethod(v ApplePayMethod) error {
	v.Type = PaymentMethodTypeApplePay
	b, err := json.Marshal(v)
	t.union = b
	return err
}

// MergeApplePayMethod performs a merge with any union data inside the PaymentMethod, using the provided ApplePayMethod
func (t *PaymentMethod) MergeApplePayMethod(v ApplePayMethod) error {
	v.Type = PaymentMethodTypeApplePay
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	merged, err := runtime.JSONMerge(t.union, b)
	t.union = merged
	return err
}

// MarshalJSON serializes the underlying union for PaymentMethod.
func (t PaymentMethod) MarshalJSON() ([]byte, error) {
	b, err := t.union.MarshalJSON()
	return b, err
}

// UnmarshalJSON loads union data for PaymentMethod.
func (t *PaymentMethod) UnmarshalJSON(b []byte) error {
	err := t.union.UnmarshalJSON(b)
	return err
}
