package listkit

// IndexPath addresses a row by section index and row index within the section.
type IndexPath struct {
	Section int
	Row     int
}

// SectionMove relocates a whole section. From is an index into the previous
// state, To into the new state.
type SectionMove struct {
	From int
	To   int
}

// ItemMove relocates a single row, within a section or across sections.
type ItemMove struct {
	From IndexPath
	To   IndexPath
}

// Transaction is the edit script turning the previous committed state into
// the new one. Deletions are expressed in the coordinates of the previous
// state, insertions in the new state, moves from previous to new. Rows
// belonging to inserted or deleted sections are covered by the section
// operation and not repeated as row operations.
type Transaction struct {
	SectionsInserted []int
	SectionsDeleted  []int
	SectionsMoved    []SectionMove
	ItemsInserted    []IndexPath
	ItemsDeleted     []IndexPath
	ItemsMoved       []ItemMove
}

// Empty reports whether applying the transaction would change nothing.
func (t Transaction) Empty() bool {
	return len(t.SectionsInserted) == 0 &&
		len(t.SectionsDeleted) == 0 &&
		len(t.SectionsMoved) == 0 &&
		len(t.ItemsInserted) == 0 &&
		len(t.ItemsDeleted) == 0 &&
		len(t.ItemsMoved) == 0
}

// snapshot is the diffable mirror of the committed sections: ordered section
// identities, each with its ordered row identities. It is rebuilt in lock
// step with every mutation so the diff always runs against what the host last
// applied.
type snapshot struct {
	sections []snapshotSection
}

type snapshotSection struct {
	id    string
	items []string
}

func snapshotOf(sections []Section) snapshot {
	snap := snapshot{sections: make([]snapshotSection, 0, len(sections))}
	for _, s := range sections {
		ss := snapshotSection{id: s.ID, items: make([]string, 0, len(s.Items))}
		for _, item := range s.Items {
			ss.items = append(ss.items, item.DiffID())
		}
		snap.sections = append(snap.sections, ss)
	}
	return snap
}
