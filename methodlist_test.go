package checkoutkit

import (
	"context"
	"errors"
	"testing"

	"github.com/altpay/checkoutkit/listkit"
)

func savedCard(id, masked string) PaymentMethod {
	var m PaymentMethod
	if err := m.FromSavedCardMethod(SavedCardMethod{
		ID:           id,
		TokenID:      "tok_" + id,
		MaskedNumber: masked,
		Brand:        CardBrandVisa,
	}); err != nil {
		panic(err)
	}
	return m
}

func dokuMethod() PaymentMethod {
	var m PaymentMethod
	if err := m.FromBankTransferMethod(BankTransferMethod{
		ID:          "doku",
		Provider:    BankTransferProviderDoku,
		DisplayName: "Doku bank transfer",
	}); err != nil {
		panic(err)
	}
	return m
}

func applePayMethod() PaymentMethod {
	var m PaymentMethod
	if err := m.FromApplePayMethod(ApplePayMethod{
		ID:                 "apple_pay",
		MerchantIdentifier: "merchant.com.example",
	}); err != nil {
		panic(err)
	}
	return m
}

func TestSetMethodsBuildsSections(t *testing.T) {
	t.Parallel()

	list := NewPaymentMethodList()
	tx := list.SetMethods(
		[]PaymentMethod{savedCard("card_1", "411111******1111"), savedCard("card_2", "511111******1118")},
		[]PaymentMethod{dokuMethod(), applePayMethod()},
	)

	if got := list.NumberOfSections(); got != 2 {
		t.Fatalf("expected 2 sections, got %d", got)
	}
	if got := list.RowCount(0); got != 2 {
		t.Fatalf("expected 2 saved cards, got %d", got)
	}
	if got := list.RowCount(1); got != 2 {
		t.Fatalf("expected 2 other methods, got %d", got)
	}
	if len(tx.SectionsInserted) != 2 {
		t.Fatalf("unexpected transaction %+v", tx)
	}
	if !list.Editable() {
		t.Fatal("saved cards section must make the list editable")
	}

	header, ok := list.SectionHeader(0)
	if !ok || header.EditingStyle != listkit.EditingStyleDelete {
		t.Fatalf("unexpected saved-cards header %+v", header)
	}
	method, ok := list.MethodAt(1, 0)
	if !ok || method.MethodType() != PaymentMethodTypeBankTransfer {
		t.Fatalf("unexpected method at (1,0): %+v", method)
	}
}

func TestSetMethodsWithoutSavedCards(t *testing.T) {
	t.Parallel()

	list := NewPaymentMethodList()
	list.SetMethods(nil, []PaymentMethod{dokuMethod()})

	if got := list.NumberOfSections(); got != 1 {
		t.Fatalf("expected the empty saved-cards section to be dropped, got %d sections", got)
	}
	if list.Editable() {
		t.Fatal("list without saved cards must not be editable")
	}
}

func TestRemoveLastSavedCardDisablesEditMode(t *testing.T) {
	t.Parallel()

	var transitions []bool
	list := NewPaymentMethodList(WithEditModeObserver(func(editable bool) {
		transitions = append(transitions, editable)
	}))
	list.SetMethods([]PaymentMethod{savedCard("card_1", "411111******1111")}, []PaymentMethod{dokuMethod()})

	tx, err := list.RemoveMethod(0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tx.SectionsDeleted) != 1 || tx.SectionsDeleted[0] != 0 {
		t.Fatalf("expected the drained saved-cards section to be deleted, got %+v", tx)
	}
	if list.Editable() {
		t.Fatal("expected edit mode to be off")
	}
	want := []bool{true, false}
	if len(transitions) != 2 || transitions[0] != want[0] || transitions[1] != want[1] {
		t.Fatalf("unexpected editability transitions %v", transitions)
	}
}

func TestRemoveMethodOutOfRange(t *testing.T) {
	t.Parallel()

	list := NewPaymentMethodList()
	list.SetMethods(nil, []PaymentMethod{dokuMethod()})

	if _, err := list.RemoveMethod(4, 0); !errors.Is(err, listkit.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestLoadingMarkersAreRenderingHints(t *testing.T) {
	t.Parallel()

	card := savedCard("card_1", "411111******1111")
	list := NewPaymentMethodList()
	list.SetMethods([]PaymentMethod{card}, nil)

	list.BeginLoading(card)
	if !list.IsLoading(card) {
		t.Fatal("expected card to be loading")
	}
	list.EndLoading()
	if list.IsLoading(card) {
		t.Fatal("EndLoading must clear markers")
	}
}

func TestAuthorizeApplePayRequiresAuthorizer(t *testing.T) {
	t.Parallel()

	list := NewPaymentMethodList()
	_, err := list.AuthorizeApplePay(context.Background(), 1000, "usd")
	var httpErr *Error
	if !errors.As(err, &httpErr) || httpErr.Code != NotConfigured {
		t.Fatalf("expected not_configured error, got %v", err)
	}
}

type stubApplePay struct {
	authorize func(ctx context.Context, amount int64, currency string) (string, error)
}

func (s *stubApplePay) AuthorizePayment(ctx context.Context, amount int64, currency string) (string, error) {
	return s.authorize(ctx, amount, currency)
}

func TestAuthorizeApplePayDelegates(t *testing.T) {
	t.Parallel()

	list := NewPaymentMethodList(WithApplePayAuthorizer(&stubApplePay{
		authorize: func(_ context.Context, amount int64, currency string) (string, error) {
			if amount != 150000 || currency != "idr" {
				t.Fatalf("unexpected authorization request %d %s", amount, currency)
			}
			return "ap_token", nil
		},
	}))

	token, err := list.AuthorizeApplePay(context.Background(), 150000, "idr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "ap_token" {
		t.Fatalf("unexpected token %q", token)
	}
}
