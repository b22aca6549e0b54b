// Package listkit keeps an ordered list of sectioned items synchronized with
// a diff engine. Hosts feed it full reloads or single-row deletions and apply
// the returned [Transaction], a minimal set of insert/delete/move operations,
// to their rendering layer as one animated update.
package listkit

// EditingStyle declares how rows under a section header may be edited.
type EditingStyle string

const (
	EditingStyleNone   EditingStyle = "none"
	EditingStyleDelete EditingStyle = "delete"
)

// Item is an identity-bearing row value. DiffID must be stable across
// snapshots and unique within one reload; the diff engine matches rows by it,
// not by position.
type Item interface {
	DiffID() string
}

// Header describes a section header. Its editing style determines whether the
// section's rows may be deleted.
type Header struct {
	Title        string
	EditingStyle EditingStyle
}

// Section is an ordered, named group of items. Sections with no items are
// never committed to the list.
type Section struct {
	ID     string
	Header *Header
	Items  []Item
}

func (s Section) editable() bool {
	if s.Header == nil {
		return false
	}
	style := s.Header.EditingStyle
	return style != "" && style != EditingStyleNone
}
