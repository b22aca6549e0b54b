// Package checkoutkit is the toolkit-independent core of a mobile payment
// checkout SDK. It drives card-entry, Apple Pay, and Doku bank-transfer forms
// without prescribing how they are rendered.
//
// # Card entry
//
// Use [NewCardFormController] with a [BINResolver] and [Tokenizer] (usually a
// [Client]) to manage a card-number field. Keystrokes fed through
// [CardFormController.SetCardNumber] are collapsed by a leading-edge throttler
// so the BIN-lookup service sees at most one request per window, and the
// detected card brand is delivered to the host's brand observer.
//
// # Payment method list
//
// [PaymentMethodList] adapts a catalog of [PaymentMethod] values to the
// sectioned list reconciler in [github.com/altpay/checkoutkit/listkit]. Every
// reload or row deletion yields a minimal diff transaction the host applies
// as one animated update, and an edit-mode observer fires when the last
// deletable section disappears.
//
// # Gateway
//
// [Client] is the SDK's single HTTP edge: BIN lookups, merchant key
// retrieval, card tokenization, and Doku bank-transfer charges. Requests
// carry unique request IDs and, when a signer is configured, detached HMAC
// signatures over the canonical JSON body.
package checkoutkit
