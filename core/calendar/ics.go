package calendar

import (
	"time"

	ics "github.com/arran4/golang-ical"
)

// BuildICS renders events as an iCalendar document for "add to calendar"
// exports. Events with an unparseable start are skipped, same silent-drop
// rule as the adapter.
func BuildICS(prodName string, events []Event) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//" + prodName + "//EN")

	stamp := time.Now().UTC()
	for _, ev := range events {
		start, end, ok := span(ev)
		if !ok {
			continue
		}
		ve := cal.AddEvent(ev.ID)
		ve.SetDtStampTime(stamp)
		ve.SetStartAt(start)
		ve.SetEndAt(end)
		ve.SetSummary(ev.Title)
		ve.SetProperty(ics.ComponentPropertyCategories, ev.Kind)
	}
	return cal.Serialize()
}
