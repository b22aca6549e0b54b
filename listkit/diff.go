package listkit

// diff computes the minimal edit script between two snapshots. Sections are
// matched by their ID, rows by their DiffID; positions only determine move
// coordinates. Identical snapshots produce an empty transaction.
func diff(prev, next snapshot) Transaction {
	var tx Transaction

	prevSections := make(map[string]int, len(prev.sections))
	for i, s := range prev.sections {
		prevSections[s.id] = i
	}
	nextSections := make(map[string]int, len(next.sections))
	for i, s := range next.sections {
		nextSections[s.id] = i
	}

	for i, s := range prev.sections {
		if _, ok := nextSections[s.id]; !ok {
			tx.SectionsDeleted = append(tx.SectionsDeleted, i)
		}
	}

	// Surviving sections, in new order; a section not on the longest
	// increasing subsequence of old indices has changed relative order and
	// is reported as a move.
	var commonNew []int
	for i, s := range next.sections {
		if _, ok := prevSections[s.id]; !ok {
			tx.SectionsInserted = append(tx.SectionsInserted, i)
			continue
		}
		commonNew = append(commonNew, i)
	}
	oldOrder := make([]int, len(commonNew))
	for i, ni := range commonNew {
		oldOrder[i] = prevSections[next.sections[ni].id]
	}
	stationary := longestIncreasing(oldOrder)
	for i, ni := range commonNew {
		if _, ok := stationary[i]; !ok {
			tx.SectionsMoved = append(tx.SectionsMoved, SectionMove{From: oldOrder[i], To: ni})
		}
	}

	type rowRef struct {
		path      IndexPath
		sectionID string
	}
	prevRows := make(map[string]rowRef)
	for si, s := range prev.sections {
		for ri, id := range s.items {
			prevRows[id] = rowRef{path: IndexPath{Section: si, Row: ri}, sectionID: s.id}
		}
	}
	nextRows := make(map[string]rowRef)
	for si, s := range next.sections {
		for ri, id := range s.items {
			nextRows[id] = rowRef{path: IndexPath{Section: si, Row: ri}, sectionID: s.id}
		}
	}

	// Row deletions in old coordinates; rows inside a deleted section are
	// carried by the section delete.
	for _, s := range prev.sections {
		if _, survives := nextSections[s.id]; !survives {
			continue
		}
		for _, id := range s.items {
			if _, ok := nextRows[id]; !ok {
				tx.ItemsDeleted = append(tx.ItemsDeleted, prevRows[id].path)
			}
		}
	}

	for si, s := range next.sections {
		oldSection, existed := prevSections[s.id]
		var stableOld, stableNew []int
		for ri, id := range s.items {
			old, ok := prevRows[id]
			if !ok {
				if existed {
					tx.ItemsInserted = append(tx.ItemsInserted, IndexPath{Section: si, Row: ri})
				}
				continue
			}
			_, sourceSurvives := nextSections[old.sectionID]
			if !existed || !sourceSurvives {
				// A row crossing a section insert or delete cannot be a move:
				// the section operation already carries one side of it. Only
				// the half touching a surviving section is reported.
				if !existed && sourceSurvives {
					tx.ItemsDeleted = append(tx.ItemsDeleted, old.path)
				}
				if existed && !sourceSurvives {
					tx.ItemsInserted = append(tx.ItemsInserted, IndexPath{Section: si, Row: ri})
				}
				continue
			}
			if old.sectionID != s.id {
				tx.ItemsMoved = append(tx.ItemsMoved, ItemMove{
					From: old.path,
					To:   IndexPath{Section: si, Row: ri},
				})
				continue
			}
			stableOld = append(stableOld, old.path.Row)
			stableNew = append(stableNew, ri)
		}
		// Rows that stayed in their section: relative reorders become moves.
		keptRows := longestIncreasing(stableOld)
		for i := range stableOld {
			if _, ok := keptRows[i]; ok {
				continue
			}
			tx.ItemsMoved = append(tx.ItemsMoved, ItemMove{
				From: IndexPath{Section: oldSection, Row: stableOld[i]},
				To:   IndexPath{Section: si, Row: stableNew[i]},
			})
		}
	}

	return tx
}

// longestIncreasing returns the index set of one longest strictly increasing
// subsequence of seq.
func longestIncreasing(seq []int) map[int]struct{} {
	kept := make(map[int]struct{}, len(seq))
	if len(seq) == 0 {
		return kept
	}
	tails := make([]int, 0, len(seq)) // indices into seq
	prev := make([]int, len(seq))
	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[i] = tails[lo-1]
		} else {
			prev[i] = -1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}
	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		kept[i] = struct{}{}
	}
	return kept
}
