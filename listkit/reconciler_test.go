package listkit

import (
	"errors"
	"testing"
)

type row string

func (r row) DiffID() string { return string(r) }

func editableSection(id string, items ...Item) Section {
	return Section{
		ID:     id,
		Header: &Header{Title: id, EditingStyle: EditingStyleDelete},
		Items:  items,
	}
}

func readOnlySection(id string, items ...Item) Section {
	return Section{
		ID:     id,
		Header: &Header{Title: id, EditingStyle: EditingStyleNone},
		Items:  items,
	}
}

func TestReloadDropsEmptySections(t *testing.T) {
	t.Parallel()

	r := NewReconciler()
	tx := r.Reload([]Section{
		readOnlySection("promos"),
		readOnlySection("methods", row("card"), row("bank_transfer")),
	})

	if got := r.NumberOfSections(); got != 1 {
		t.Fatalf("expected 1 committed section, got %d", got)
	}
	if got := r.RowCount(0); got != 2 {
		t.Fatalf("expected 2 rows in section 0, got %d", got)
	}
	if len(tx.SectionsInserted) != 1 || tx.SectionsInserted[0] != 0 {
		t.Fatalf("unexpected section inserts %v", tx.SectionsInserted)
	}
	if len(tx.ItemsInserted) != 0 {
		t.Fatalf("rows of an inserted section must not be reported individually: %v", tx.ItemsInserted)
	}
	if section, ok := r.SectionAt(0); !ok || section.ID != "methods" {
		t.Fatalf("expected surviving section to be methods, got %+v", section)
	}
}

func TestReloadIsIdempotent(t *testing.T) {
	t.Parallel()

	build := func() []Section {
		return []Section{
			editableSection("saved_cards", row("tok_1"), row("tok_2")),
			readOnlySection("methods", row("bank_transfer")),
		}
	}

	r := NewReconciler()
	r.Reload(build())
	tx := r.Reload(build())
	if !tx.Empty() {
		t.Fatalf("expected empty transaction for identical reload, got %+v", tx)
	}
}

func TestDeleteItemRemovesRow(t *testing.T) {
	t.Parallel()

	r := NewReconciler()
	r.Reload([]Section{editableSection("saved_cards", row("tok_1"), row("tok_2"), row("tok_3"))})

	tx, err := r.DeleteItem(0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tx.ItemsDeleted) != 1 || tx.ItemsDeleted[0] != (IndexPath{Section: 0, Row: 1}) {
		t.Fatalf("unexpected item deletes %v", tx.ItemsDeleted)
	}
	if len(tx.SectionsDeleted) != 0 {
		t.Fatalf("section must survive, got deletes %v", tx.SectionsDeleted)
	}
	if got := r.RowCount(0); got != 2 {
		t.Fatalf("expected 2 rows after deletion, got %d", got)
	}
	if item, ok := r.ItemAt(0, 1); !ok || item.DiffID() != "tok_3" {
		t.Fatalf("expected tok_3 at row 1, got %v", item)
	}
}

func TestDeleteItemDrainsSection(t *testing.T) {
	t.Parallel()

	var transitions []bool
	r := NewReconciler(WithEditableObserver(func(editable bool) {
		transitions = append(transitions, editable)
	}))
	r.Reload([]Section{editableSection("saved_cards", row("tok_1"))})

	if !r.Editable() {
		t.Fatal("expected list to be editable after reload")
	}

	tx, err := r.DeleteItem(0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.NumberOfSections(); got != 0 {
		t.Fatalf("expected drained section to be pruned, got %d sections", got)
	}
	if len(tx.SectionsDeleted) != 1 || tx.SectionsDeleted[0] != 0 {
		t.Fatalf("unexpected section deletes %v", tx.SectionsDeleted)
	}
	if len(tx.ItemsDeleted) != 0 {
		t.Fatalf("row of a deleted section must not be reported individually: %v", tx.ItemsDeleted)
	}
	if r.Editable() {
		t.Fatal("expected list to stop being editable")
	}
	want := []bool{true, false}
	if len(transitions) != len(want) || transitions[0] != want[0] || transitions[1] != want[1] {
		t.Fatalf("unexpected editability transitions %v", transitions)
	}
}

func TestDeleteItemOutOfRange(t *testing.T) {
	t.Parallel()

	r := NewReconciler()
	r.Reload([]Section{editableSection("saved_cards", row("tok_1"))})

	tests := map[string]struct {
		section int
		row     int
	}{
		"negative section": {section: -1, row: 0},
		"section too high": {section: 3, row: 0},
		"negative row":     {section: 0, row: -1},
		"row too high":     {section: 0, row: 5},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := r.DeleteItem(tc.section, tc.row)
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
			}
		})
	}
	if got := r.RowCount(0); got != 1 {
		t.Fatalf("failed deletions must not mutate state, got %d rows", got)
	}
}

func TestEditabilityIgnoresHeaderlessSections(t *testing.T) {
	t.Parallel()

	r := NewReconciler()
	r.Reload([]Section{
		{ID: "bare", Items: []Item{row("a")}},
		readOnlySection("methods", row("b")),
	})
	if r.Editable() {
		t.Fatal("expected list without delete-style headers to be non-editable")
	}
}

func TestLoadingMarkers(t *testing.T) {
	t.Parallel()

	r := NewReconciler()
	r.Reload([]Section{editableSection("saved_cards", row("tok_1"), row("tok_2"))})

	r.StartLoading(row("tok_1"))
	if !r.IsLoading(row("tok_1")) {
		t.Fatal("expected tok_1 to be loading")
	}
	if r.IsLoading(row("tok_2")) {
		t.Fatal("tok_2 must not be loading")
	}

	r.StopLoading()
	if r.IsLoading(row("tok_1")) {
		t.Fatal("StopLoading must clear all markers")
	}
}

func TestQueriesOutOfRange(t *testing.T) {
	t.Parallel()

	r := NewReconciler()
	r.Reload([]Section{readOnlySection("methods", row("card"))})

	if got := r.RowCount(9); got != 0 {
		t.Fatalf("expected 0 rows for unknown section, got %d", got)
	}
	if _, ok := r.ItemAt(0, 9); ok {
		t.Fatal("expected no item for out-of-range row")
	}
	if _, ok := r.SectionAt(-1); ok {
		t.Fatal("expected no section for negative index")
	}
}
