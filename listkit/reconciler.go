package listkit

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange reports a DeleteItem call referencing a row outside the
// committed list.
var ErrIndexOutOfRange = errors.New("listkit: index out of range")

// Reconciler owns the committed list of sections and its diffable snapshot,
// keeping the two in lock step through every mutation. All reads by the
// presentation layer go through its query surface.
//
// A Reconciler is not safe for concurrent use: it is a UI-model object with
// single-writer semantics, confined to the host's event goroutine.
type Reconciler struct {
	sections []Section
	snap     snapshot
	loading  map[string]struct{}
	editable bool

	onEditableChanged func(editable bool)
}

// ReconcilerOption customizes a [Reconciler].
type ReconcilerOption func(*Reconciler)

// WithEditableObserver registers a callback invoked whenever the editability
// of the list flips, so the host can enter or leave its edit-mode affordance.
func WithEditableObserver(fn func(editable bool)) ReconcilerOption {
	return func(r *Reconciler) {
		r.onEditableChanged = fn
	}
}

// NewReconciler builds an empty [Reconciler].
func NewReconciler(opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{loading: make(map[string]struct{})}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Reload replaces the entire committed list. Incoming sections with no items
// are dropped; the survivors, in the order given, become the new state. The
// reconciler takes ownership of the passed sections and item slices.
//
// Row identities must be unique within one call; duplicates leave the diff
// result undefined.
func (r *Reconciler) Reload(sections []Section) Transaction {
	prev := r.snap
	r.sections = pruneEmpty(sections)
	r.snap = snapshotOf(r.sections)
	tx := diff(prev, r.snap)
	r.refreshEditable()
	return tx
}

// DeleteItem removes one row, pruning its section from the committed list if
// the deletion drains it. The whole mutation is surfaced as a single
// transaction. Out-of-range indices return [ErrIndexOutOfRange].
func (r *Reconciler) DeleteItem(section, row int) (Transaction, error) {
	if section < 0 || section >= len(r.sections) {
		return Transaction{}, fmt.Errorf("%w: section %d of %d", ErrIndexOutOfRange, section, len(r.sections))
	}
	items := r.sections[section].Items
	if row < 0 || row >= len(items) {
		return Transaction{}, fmt.Errorf("%w: row %d of %d in section %d", ErrIndexOutOfRange, row, len(items), section)
	}

	prev := r.snap
	r.sections[section].Items = append(items[:row:row], items[row+1:]...)
	r.sections = pruneEmpty(r.sections)
	r.snap = snapshotOf(r.sections)
	tx := diff(prev, r.snap)
	r.refreshEditable()
	return tx, nil
}

// NumberOfSections returns the committed section count.
func (r *Reconciler) NumberOfSections() int {
	return len(r.sections)
}

// RowCount returns the number of rows in the given section, or zero when the
// index is out of range.
func (r *Reconciler) RowCount(section int) int {
	if section < 0 || section >= len(r.sections) {
		return 0
	}
	return len(r.sections[section].Items)
}

// ItemAt returns the row at the given position.
func (r *Reconciler) ItemAt(section, row int) (Item, bool) {
	if section < 0 || section >= len(r.sections) {
		return nil, false
	}
	items := r.sections[section].Items
	if row < 0 || row >= len(items) {
		return nil, false
	}
	return items[row], true
}

// SectionAt returns the committed section at the given index.
func (r *Reconciler) SectionAt(section int) (Section, bool) {
	if section < 0 || section >= len(r.sections) {
		return Section{}, false
	}
	return r.sections[section], true
}

// Editable reports whether at least one committed section allows row
// deletion.
func (r *Reconciler) Editable() bool {
	return r.editable
}

// StartLoading marks a row as loading. The marker is a rendering side channel
// keyed by row identity; it never participates in diffing.
func (r *Reconciler) StartLoading(item Item) {
	if item == nil {
		return
	}
	r.loading[item.DiffID()] = struct{}{}
}

// StopLoading clears all loading markers.
func (r *Reconciler) StopLoading() {
	clear(r.loading)
}

// IsLoading reports whether the row carries a loading marker.
func (r *Reconciler) IsLoading(item Item) bool {
	if item == nil {
		return false
	}
	_, ok := r.loading[item.DiffID()]
	return ok
}

// refreshEditable re-evaluates the editability predicate after a mutation and
// notifies the observer on flips.
func (r *Reconciler) refreshEditable() {
	editable := false
	for _, s := range r.sections {
		if s.editable() {
			editable = true
			break
		}
	}
	if editable == r.editable {
		return
	}
	r.editable = editable
	if r.onEditableChanged != nil {
		r.onEditableChanged(editable)
	}
}

// pruneEmpty is the single funnel enforcing the "no empty committed section"
// invariant.
func pruneEmpty(sections []Section) []Section {
	kept := make([]Section, 0, len(sections))
	for _, s := range sections {
		if len(s.Items) == 0 {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}
