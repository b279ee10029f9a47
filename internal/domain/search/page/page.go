// Package page emulates offset pagination on top of a top-K search by
// over-fetching and slicing.
package page

import "math"

// DefaultFetchCap bounds how many hits a single request may pull from the engine.
const DefaultFetchCap = 1000

// FetchPlan says how many hits to fetch and which of them to return.
type FetchPlan struct {
	StartRecord    int
	MaximumRecords int
	FetchCount     int
	SliceStart     int
	SliceEnd       int
}

// Plan computes the fetch strategy for a 1-based startRecord and a page size.
// startRecord < 1 becomes 1 and maximumRecords < 0 becomes 0. A non-positive
// fetchCap selects DefaultFetchCap.
func Plan(startRecord, maximumRecords, fetchCap int) FetchPlan {
	if startRecord < 1 {
		startRecord = 1
	}
	if maximumRecords < 0 {
		maximumRecords = 0
	}
	if fetchCap <= 0 {
		fetchCap = DefaultFetchCap
	}

	offset := startRecord - 1
	// Saturate instead of wrapping for startRecord near MaxInt.
	end := offset + min(maximumRecords, math.MaxInt-offset)

	return FetchPlan{
		StartRecord:    startRecord,
		MaximumRecords: maximumRecords,
		FetchCount:     min(end, fetchCap),
		SliceStart:     offset,
		SliceEnd:       end,
	}
}

// CountOnly reports whether the request needs only the hit count.
// The top-K search must not be issued in that case.
func (p FetchPlan) CountOnly() bool { return p.MaximumRecords == 0 }

// Window is the slice of fetched hits returned to the client.
// 0 <= Start <= End <= Total and End-Start <= the page size.
type Window struct {
	Total int
	Start int
	End   int
}

// Len returns the number of records in the window.
func (w Window) Len() int { return w.End - w.Start }

// Window clamps the planned slice to the hits actually returned by the engine.
func (p FetchPlan) Window(returned, total int) Window {
	returned = max(0, min(returned, total))
	start := min(p.SliceStart, returned)
	end := max(start, min(p.SliceEnd, returned))
	return Window{Total: total, Start: start, End: end}
}

// Position returns the 1-based result-set position of the i-th windowed hit.
func (p FetchPlan) Position(i int) int { return p.StartRecord + i }

// NextRecordPosition returns the position of the following page and whether
// one should be advertised: only when startRecord+maximumRecords <= total.
func NextRecordPosition(startRecord, maximumRecords, total int) (int, bool) {
	if maximumRecords <= 0 || startRecord < 1 || startRecord > total-maximumRecords {
		return 0, false
	}
	return startRecord + maximumRecords, true
}
