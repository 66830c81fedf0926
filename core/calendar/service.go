package calendar

import (
	"context"
	"fmt"
)

type (
	// Client fetches raw calendar payloads from the campus API.
	Client interface {
		MonthlyCalendar(ctx context.Context, token, firstOfMonth string) (Payload, error)
		DailyCalendar(ctx context.Context, token, date string) (Payload, error)
	}

	// Ledger exposes the ids a session has moved to its recycle bin.
	Ledger interface {
		IDs(sessionID string) []string
	}

	Service struct {
		client Client
		ledger Ledger
	}
)

func NewService(client Client, ledger Ledger) *Service {
	return &Service{client: client, ledger: ledger}
}

// Monthly returns the month's visible events grouped by Bangkok-local day.
func (svc *Service) Monthly(ctx context.Context, sessionID, token string, year, month int) (map[int][]Event, error) {
	events, err := svc.MonthlyEvents(ctx, sessionID, token, year, month)
	if err != nil {
		return nil, err
	}
	return GroupByMonth(events, year, month), nil
}

// MonthlyEvents returns the month's visible events ungrouped (ICS export).
func (svc *Service) MonthlyEvents(ctx context.Context, sessionID, token string, year, month int) ([]Event, error) {
	payload, err := svc.client.MonthlyCalendar(ctx, token, fmt.Sprintf("%04d-%02d-01", year, month))
	if err != nil {
		return nil, err
	}
	return svc.visible(sessionID, Adapt(payload)), nil
}

// Daily returns the visible events overlapping the given Bangkok calendar day.
func (svc *Service) Daily(ctx context.Context, sessionID, token string, year, month, day int) ([]Event, error) {
	payload, err := svc.client.DailyCalendar(ctx, token, fmt.Sprintf("%04d-%02d-%02d", year, month, day))
	if err != nil {
		return nil, err
	}
	return EventsOnDay(svc.visible(sessionID, Adapt(payload)), year, month, day), nil
}

// visible drops events the session's bin currently hides.
func (svc *Service) visible(sessionID string, events []Event) []Event {
	removed := svc.ledger.IDs(sessionID)
	if len(removed) == 0 {
		return events
	}
	hidden := make(map[string]struct{}, len(removed))
	for _, id := range removed {
		hidden[id] = struct{}{}
	}
	out := events[:0]
	for _, ev := range events {
		if _, ok := hidden[ev.ID]; !ok {
			out = append(out, ev)
		}
	}
	return out
}
