package history

import (
	"sort"

	"github.com/gabrielflorianoo/VoiceCalc/internal/store"
)

// DefaultRecent is how many recent records a group summary shows.
const DefaultRecent = 3

// Group summarizes the purchases made at a single location.
type Group struct {
	Location   string
	LastAmount float64
	TotalSpent float64
	Count      int
	// Records are ordered oldest first.
	Records []store.Purchase
}

// RecentRecord is a purchase flagged against the group's latest amount.
type RecentRecord struct {
	store.Purchase
	AboveLast bool
}

// GroupByLocation buckets purchases by exact location. Groups are ordered by
// their most recent purchase, newest first.
func GroupByLocation(records []store.Purchase) []Group {
	sorted := make([]store.Purchase, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	index := make(map[string]int)
	var groups []Group
	for _, rec := range sorted {
		i, ok := index[rec.Location]
		if !ok {
			i = len(groups)
			index[rec.Location] = i
			groups = append(groups, Group{Location: rec.Location})
		}
		g := &groups[i]
		g.LastAmount = rec.Amount
		g.TotalSpent += rec.Amount
		g.Count++
		g.Records = append(g.Records, rec)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].latest() > groups[j].latest()
	})
	return groups
}

func (g Group) latest() int64 {
	if len(g.Records) == 0 {
		return 0
	}
	return g.Records[len(g.Records)-1].Timestamp
}

// Recent returns up to n records newest first. A non-positive n selects
// DefaultRecent.
func (g Group) Recent(n int) []RecentRecord {
	if n <= 0 {
		n = DefaultRecent
	}
	out := make([]RecentRecord, 0, n)
	for i := len(g.Records) - 1; i >= 0 && len(out) < n; i-- {
		rec := g.Records[i]
		out = append(out, RecentRecord{Purchase: rec, AboveLast: rec.Amount > g.LastAmount})
	}
	return out
}
