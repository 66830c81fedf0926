package calendar

import (
	"sort"
	"time"
)

// GroupByMonth groups events by the Bangkok-local day of month they occupy
// within the target month. An event spanning several days appears under every
// in-month day of its inclusive span, once per day; days outside the target
// month contribute nothing. Each day's list comes back sorted (see SortDay).
func GroupByMonth(events []Event, year, month int) map[int][]Event {
	days := make(map[int][]Event)
	for _, ev := range events {
		start, end, ok := span(ev)
		if !ok {
			continue
		}
		cur := start.In(bangkok)
		last := end.In(bangkok)
		for !afterDay(cur, last) {
			if cur.Year() == year && int(cur.Month()) == month {
				days[cur.Day()] = append(days[cur.Day()], ev)
			}
			cur = cur.AddDate(0, 0, 1)
		}
	}
	for d := range days {
		SortDay(days[d])
	}
	return days
}

// EventsOnDay returns the events whose [start_at, end_at] interval overlaps
// the given Bangkok calendar day at all, inclusive on both ends, so events
// crossing midnight still surface. The result comes back sorted.
func EventsOnDay(events []Event, year, month, day int) []Event {
	dayStart := time.Date(year, time.Month(month), day, 0, 0, 0, 0, bangkok)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)

	out := make([]Event, 0)
	for _, ev := range events {
		start, end, ok := span(ev)
		if !ok {
			continue
		}
		if !end.Before(dayStart) && !start.After(dayEnd) {
			out = append(out, ev)
		}
	}
	SortDay(out)
	return out
}

// SortDay orders a day's events in place: classes before activities, then by
// ascending start instant. Events with an unparseable start sort after all
// valid ones and keep their relative order among themselves.
func SortDay(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		ak, bk := kindRank(a.Kind), kindRank(b.Kind)
		if ak != bk {
			return ak < bk
		}
		at, aerr := ParseInstant(a.StartAt)
		bt, berr := ParseInstant(b.StartAt)
		if aerr != nil {
			return false
		}
		if berr != nil {
			return true
		}
		return at.Before(bt)
	})
}

func kindRank(kind string) int {
	if kind == KindClass {
		return 0
	}
	return 1
}

// span resolves an event's [start, end] instants; an unparseable or inverted
// end collapses onto the start.
func span(ev Event) (start, end time.Time, ok bool) {
	start, err := ParseInstant(ev.StartAt)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err = ParseInstant(ev.EndAt)
	if err != nil || end.Before(start) {
		end = start
	}
	return start, end, true
}

// afterDay reports whether a falls on a later calendar day than b.
func afterDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}
