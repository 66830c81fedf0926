package calendar

// Event kinds
const (
	KindClass    = "class"
	KindActivity = "activity"
)

type (
	// RawClassSession is a scheduled class meeting as the campus API sends it:
	// a calendar date plus Bangkok wall-clock times, no explicit offset.
	RawClassSession struct {
		ClassDate string `json:"class_date"`
		ClassCode string `json:"class_code"`
		ClassName string `json:"class_name"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}

	// RawActivity is a campus activity as the campus API sends it. Timestamps
	// may or may not carry a UTC offset; ActivityID/ID may or may not be set.
	RawActivity struct {
		ID         string `json:"id,omitempty"`
		ActivityID string `json:"activity_id,omitempty"`
		Title      string `json:"title"`
		StartAt    string `json:"start_at"`
		EndAt      string `json:"end_at"`
	}

	// Payload is the calendar response shape shared by the monthly and daily
	// campus endpoints. Date is only present on daily responses.
	Payload struct {
		Date       string            `json:"date,omitempty"`
		Classes    []RawClassSession `json:"classes"`
		Activities []RawActivity     `json:"activities"`
	}

	// Event is the normalized calendar entry: StartAt and EndAt always carry
	// an explicit offset (+07:00 when the source omitted one).
	Event struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		StartAt string `json:"start_at"`
		EndAt   string `json:"end_at"`
		Kind    string `json:"kind"`
	}
)
