package calendar

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tupine/lifegear/core"
)

// bangkok is the fixed display zone; the campus expresses all wall-clock times in ICT.
var bangkok = time.FixedZone("+07:00", 7*60*60)

// full date-time without a Z suffix or UTC offset, "T" or space separated
var noOffsetRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(\.\d+)?$`)

// Adapt converts a raw calendar payload into normalized events.
// Records missing required fields or carrying unparseable dates are silently
// excluded; Adapt always returns a list, possibly empty.
func Adapt(p Payload) []Event {
	out := make([]Event, 0, len(p.Classes)+len(p.Activities))
	for _, c := range p.Classes {
		if ev, ok := adaptClass(c, p.Date); ok {
			out = append(out, ev)
		}
	}
	for i, a := range p.Activities {
		if ev, ok := adaptActivity(a, i); ok {
			out = append(out, ev)
		}
	}
	return out
}

func adaptClass(c RawClassSession, rootYmd string) (Event, bool) {
	baseYmd := c.ClassDate
	if baseYmd == "" {
		baseYmd = rootYmd
	}
	y, m, d, ok := ymdFromUTC(baseYmd)
	if !ok {
		return Event{}, false
	}
	if c.StartTime == "" || c.EndTime == "" {
		return Event{}, false
	}

	code := c.ClassCode
	if code == "" {
		code = "NA"
	}
	title := c.ClassName
	switch {
	case c.ClassCode != "" && c.ClassName != "":
		title = fmt.Sprintf("[%s] %s", c.ClassCode, c.ClassName)
	case title == "":
		title = "Class"
	}

	return Event{
		ID:      fmt.Sprintf("class-%s-%04d%02d%02d-%s", code, y, m, d, c.StartTime),
		Title:   title,
		Kind:    KindClass,
		StartAt: buildLocalISO(y, m, d, c.StartTime),
		EndAt:   buildLocalISO(y, m, d, c.EndTime),
	}, true
}

func adaptActivity(a RawActivity, idx int) (Event, bool) {
	if a.StartAt == "" || a.EndAt == "" {
		return Event{}, false
	}

	title := core.CleanString(a.Title)
	if title == "" {
		title = "Activity"
	}

	id := pickUUID(a)
	if id == "" {
		id = fallbackID(idx, a)
	}

	return Event{
		ID:      id,
		Title:   title,
		Kind:    KindActivity,
		StartAt: EnsureOffset(a.StartAt),
		EndAt:   EnsureOffset(a.EndAt),
	}, true
}

// pickUUID prefers activity_id over id; either must be a valid UUID.
func pickUUID(a RawActivity) string {
	for _, cand := range []string{a.ActivityID, a.ID} {
		if cand == "" {
			continue
		}
		if _, err := uuid.Parse(cand); err == nil {
			return cand
		}
	}
	return ""
}

// fallbackID derives a session-stable id for activities that carry no UUID.
func fallbackID(idx int, a RawActivity) string {
	title := a.Title
	if title == "" {
		title = "activity"
	}
	// truncate on rune boundaries so Thai titles survive a JSON round trip
	if r := []rune(title); len(r) > 24 {
		title = string(r[:24])
	}
	var ms int64
	if t, err := ParseInstant(a.StartAt); err == nil {
		ms = t.UnixNano() / int64(time.Millisecond)
	}
	return fmt.Sprintf("tmp-%d-%s-%d", idx, title, ms)
}

// ymdFromUTC extracts the UTC year/month/day from either a bare date or a
// full ISO datetime.
func ymdFromUTC(s string) (y, m, d int, ok bool) {
	s = core.CleanString(s)
	if s == "" {
		return 0, 0, 0, false
	}
	if !strings.ContainsAny(s, "T ") {
		s += "T00:00:00Z"
	}
	t, err := ParseInstant(s)
	if err != nil {
		return 0, 0, 0, false
	}
	t = t.UTC()
	return t.Year(), int(t.Month()), t.Day(), true
}

func buildLocalISO(y, m, d int, hm string) string {
	if len(hm) == 5 { // HH:MM
		hm += ":00"
	}
	return fmt.Sprintf("%04d-%02d-%02dT%s+07:00", y, m, d, hm)
}

// EnsureOffset appends the Bangkok offset to timestamps that carry neither a
// UTC offset nor a Z suffix; anything else passes through unchanged.
func EnsureOffset(iso string) string {
	if noOffsetRegex.MatchString(iso) {
		return strings.Replace(iso, " ", "T", 1) + "+07:00"
	}
	return iso
}

// ParseInstant parses an ISO-8601 timestamp, treating offset-less values as
// Bangkok wall-clock time.
func ParseInstant(iso string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, EnsureOffset(core.CleanString(iso)))
}
