package engine

import (
	"sort"
	"time"
)

// sortOpportunities orders the list by one key, stably, so equal-key entries
// keep their relative order. Unknown sortBy values fall back to profit.
func sortOpportunities(ops []Opportunity, sortBy, sortDir string) {
	desc := sortDir != SortAsc
	less := func(a, b Opportunity) bool {
		switch sortBy {
		case SortByDate:
			return commenceOrZero(a).Before(commenceOrZero(b))
		case SortByLeague:
			return a.League < b.League
		case SortByEvent:
			return a.Event < b.Event
		default:
			return a.Margin < b.Margin
		}
	}
	sort.SliceStable(ops, func(i, j int) bool {
		if desc {
			return less(ops[j], ops[i])
		}
		return less(ops[i], ops[j])
	})
}

// sortMiddles orders candidates by gap width descending, then commence time
// descending. Middles are never paginated.
func sortMiddles(middles []Middle) {
	sort.SliceStable(middles, func(i, j int) bool {
		if middles[i].Width != middles[j].Width {
			return middles[i].Width > middles[j].Width
		}
		ti, tj := time.Time{}, time.Time{}
		if middles[i].CommenceTime != nil {
			ti = *middles[i].CommenceTime
		}
		if middles[j].CommenceTime != nil {
			tj = *middles[j].CommenceTime
		}
		return ti.After(tj)
	})
}

// paginate applies offset (page-1)*limit and returns up to limit items.
// limit <= 0 returns the whole list. A page past the end is an empty page,
// not an error.
func paginate(ops []Opportunity, page, limit int) []Opportunity {
	if limit <= 0 {
		return ops
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(ops) {
		return []Opportunity{}
	}
	end := start + limit
	if end > len(ops) {
		end = len(ops)
	}
	return ops[start:end]
}

func commenceOrZero(op Opportunity) time.Time {
	if op.CommenceTime == nil {
		return time.Time{}
	}
	return *op.CommenceTime
}
