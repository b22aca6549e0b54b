package checkoutkit

import (
	"context"

	"github.com/altpay/checkoutkit/listkit"
)

// Section IDs used by [PaymentMethodList].
const (
	SavedCardsSectionID   = "saved_cards"
	OtherMethodsSectionID = "other_methods"
)

// ApplePayAuthorizer is implemented by the host's platform layer that drives
// the system payment sheet and returns an opaque payment token.
type ApplePayAuthorizer interface {
	AuthorizePayment(ctx context.Context, amount int64, currency string) (string, error)
}

// PaymentMethodList adapts the payment-method catalog to the sectioned list
// reconciler: saved cards land in a deletable section, remaining methods in a
// read-only one. Every mutation returns the diff transaction the host applies
// as one animated update.
//
// Like the reconciler it wraps, a PaymentMethodList is confined to the host's
// event goroutine.
type PaymentMethodList struct {
	cfg config
	rec *listkit.Reconciler
}

// NewPaymentMethodList builds an empty payment-method list.
func NewPaymentMethodList(opts ...Option) *PaymentMethodList {
	cfg := defaultFormConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	l := &PaymentMethodList{cfg: cfg}
	l.rec = listkit.NewReconciler(listkit.WithEditableObserver(func(editable bool) {
		l.cfg.logger.Debug().Bool("editable", editable).Msg("payment list editability changed")
		if l.cfg.onEditableChanged != nil {
			l.cfg.onEditableChanged(editable)
		}
	}))
	return l
}

// SetMethods replaces the whole catalog. Empty sections are never shown, so a
// merchant without saved cards simply gets no deletable section.
func (l *PaymentMethodList) SetMethods(savedCards, otherMethods []PaymentMethod) listkit.Transaction {
	sections := []listkit.Section{
		{
			ID:     SavedCardsSectionID,
			Header: &listkit.Header{Title: l.cfg.savedCardsTitle, EditingStyle: listkit.EditingStyleDelete},
			Items:  methodItems(savedCards),
		},
		{
			ID:     OtherMethodsSectionID,
			Header: &listkit.Header{Title: l.cfg.otherMethodsTitle, EditingStyle: listkit.EditingStyleNone},
			Items:  methodItems(otherMethods),
		},
	}
	return l.rec.Reload(sections)
}

// RemoveMethod deletes the method at the given position, e.g. after the user
// swipes a saved card away. The index must come from a currently rendered
// row; out-of-range indices return listkit.ErrIndexOutOfRange.
func (l *PaymentMethodList) RemoveMethod(section, row int) (listkit.Transaction, error) {
	return l.rec.DeleteItem(section, row)
}

// NumberOfSections returns the committed section count.
func (l *PaymentMethodList) NumberOfSections() int {
	return l.rec.NumberOfSections()
}

// RowCount returns the number of methods in the given section.
func (l *PaymentMethodList) RowCount(section int) int {
	return l.rec.RowCount(section)
}

// MethodAt returns the method rendered at the given position.
func (l *PaymentMethodList) MethodAt(section, row int) (PaymentMethod, bool) {
	item, ok := l.rec.ItemAt(section, row)
	if !ok {
		return PaymentMethod{}, false
	}
	method, ok := item.(PaymentMethod)
	return method, ok
}

// SectionHeader returns the header for the given section index.
func (l *PaymentMethodList) SectionHeader(section int) (listkit.Header, bool) {
	s, ok := l.rec.SectionAt(section)
	if !ok || s.Header == nil {
		return listkit.Header{}, false
	}
	return *s.Header, true
}

// Editable reports whether any rendered section allows row deletion.
func (l *PaymentMethodList) Editable() bool {
	return l.rec.Editable()
}

// BeginLoading marks a method's row as busy, e.g. while a charge is in
// flight. Purely a rendering hint; no transaction is produced.
func (l *PaymentMethodList) BeginLoading(method PaymentMethod) {
	l.rec.StartLoading(method)
}

// EndLoading clears all busy markers.
func (l *PaymentMethodList) EndLoading() {
	l.rec.StopLoading()
}

// IsLoading reports whether the method's row is marked busy.
func (l *PaymentMethodList) IsLoading(method PaymentMethod) bool {
	return l.rec.IsLoading(method)
}

// AuthorizeApplePay runs the system payment sheet via the configured
// authorizer and returns its opaque token.
func (l *PaymentMethodList) AuthorizeApplePay(ctx context.Context, amount int64, currency string) (string, error) {
	if l.cfg.applePay == nil {
		return "", newError(InvalidRequest, NotConfigured, "apple pay authorizer is not configured")
	}
	return l.cfg.applePay.AuthorizePayment(ctx, amount, currency)
}

func methodItems(methods []PaymentMethod) []listkit.Item {
	items := make([]listkit.Item, 0, len(methods))
	for _, m := range methods {
		items = append(items, m)
	}
	return items
}
