package memory

import "time"

// catalogLess orders catalog entries by category, then name, then insertion.
func catalogLess(catA, nameA string, seqA int64, catB, nameB string, seqB int64) bool {
	if catA != catB {
		return catA < catB
	}
	if nameA != nameB {
		return nameA < nameB
	}
	return seqA < seqB
}

// newestFirst orders by creation time descending, later inserts first on ties.
func newestFirst(a time.Time, seqA int64, b time.Time, seqB int64) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return seqA > seqB
}
