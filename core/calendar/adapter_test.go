package calendar

import (
	"encoding/json"
	"reflect"
	"testing"
	"unicode/utf8"
)

func TestAdaptClassSessions(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		want    []Event
	}{
		{
			name: "bare date",
			payload: Payload{Classes: []RawClassSession{
				{ClassDate: "2025-06-02", ClassCode: "CN210", ClassName: "Computer Networks", StartTime: "09:00", EndTime: "12:00"},
			}},
			want: []Event{{
				ID:      "class-CN210-20250602-09:00",
				Title:   "[CN210] Computer Networks",
				Kind:    KindClass,
				StartAt: "2025-06-02T09:00:00+07:00",
				EndAt:   "2025-06-02T12:00:00+07:00",
			}},
		},
		{
			name: "full ISO date",
			payload: Payload{Classes: []RawClassSession{
				{ClassDate: "2025-06-02T00:00:00Z", ClassCode: "MA111", ClassName: "Calculus", StartTime: "13:30", EndTime: "16:30"},
			}},
			want: []Event{{
				ID:      "class-MA111-20250602-13:30",
				Title:   "[MA111] Calculus",
				Kind:    KindClass,
				StartAt: "2025-06-02T13:30:00+07:00",
				EndAt:   "2025-06-02T16:30:00+07:00",
			}},
		},
		{
			name: "root date fallback",
			payload: Payload{
				Date: "2025-06-03",
				Classes: []RawClassSession{
					{ClassCode: "ST202", ClassName: "Statistics", StartTime: "08:00", EndTime: "10:00"},
				},
			},
			want: []Event{{
				ID:      "class-ST202-20250603-08:00",
				Title:   "[ST202] Statistics",
				Kind:    KindClass,
				StartAt: "2025-06-03T08:00:00+07:00",
				EndAt:   "2025-06-03T10:00:00+07:00",
			}},
		},
		{
			name: "name only",
			payload: Payload{Classes: []RawClassSession{
				{ClassDate: "2025-06-02", ClassName: "Seminar", StartTime: "10:00", EndTime: "11:00"},
			}},
			want: []Event{{
				ID:      "class-NA-20250602-10:00",
				Title:   "Seminar",
				Kind:    KindClass,
				StartAt: "2025-06-02T10:00:00+07:00",
				EndAt:   "2025-06-02T11:00:00+07:00",
			}},
		},
		{
			name: "unparseable date dropped",
			payload: Payload{Classes: []RawClassSession{
				{ClassDate: "not-a-date", ClassCode: "CN210", ClassName: "Networks", StartTime: "09:00", EndTime: "12:00"},
			}},
			want: []Event{},
		},
		{
			name: "missing times dropped",
			payload: Payload{Classes: []RawClassSession{
				{ClassDate: "2025-06-02", ClassCode: "CN210", ClassName: "Networks", StartTime: "09:00"},
			}},
			want: []Event{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Adapt(tt.payload); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Adapt() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAdaptActivities(t *testing.T) {
	id := "6f1c1cb0-4b1f-47e8-9d4e-7a2c3b1d5e6f"

	tests := []struct {
		name    string
		payload Payload
		want    []Event
	}{
		{
			name: "uuid id with offset",
			payload: Payload{Activities: []RawActivity{
				{ID: id, Title: "Firstmeet TU-PINE", StartAt: "2025-06-01T16:30:00+07:00", EndAt: "2025-06-01T18:00:00+07:00"},
			}},
			want: []Event{{
				ID:      id,
				Title:   "Firstmeet TU-PINE",
				Kind:    KindActivity,
				StartAt: "2025-06-01T16:30:00+07:00",
				EndAt:   "2025-06-01T18:00:00+07:00",
			}},
		},
		{
			name: "activity_id preferred over id",
			payload: Payload{Activities: []RawActivity{
				{ID: "not-a-uuid", ActivityID: id, Title: "Hackathon", StartAt: "2025-06-01T10:00:00Z", EndAt: "2025-06-01T12:00:00Z"},
			}},
			want: []Event{{
				ID:      id,
				Title:   "Hackathon",
				Kind:    KindActivity,
				StartAt: "2025-06-01T10:00:00Z",
				EndAt:   "2025-06-01T12:00:00Z",
			}},
		},
		{
			name: "missing offset gets +07:00",
			payload: Payload{Activities: []RawActivity{
				{ID: id, Title: "Music Night", StartAt: "2025-06-01T10:00:00", EndAt: "2025-06-01T12:00:00"},
			}},
			want: []Event{{
				ID:      id,
				Title:   "Music Night",
				Kind:    KindActivity,
				StartAt: "2025-06-01T10:00:00+07:00",
				EndAt:   "2025-06-01T12:00:00+07:00",
			}},
		},
		{
			name: "no uuid falls back to derived id",
			payload: Payload{Activities: []RawActivity{
				{Title: "Movie Night", StartAt: "2025-06-01T18:30:00+07:00", EndAt: "2025-06-01T21:00:00+07:00"},
			}},
			want: []Event{{
				ID:      "tmp-0-Movie Night-1748777400000",
				Title:   "Movie Night",
				Kind:    KindActivity,
				StartAt: "2025-06-01T18:30:00+07:00",
				EndAt:   "2025-06-01T21:00:00+07:00",
			}},
		},
		{
			name: "missing end_at dropped",
			payload: Payload{Activities: []RawActivity{
				{ID: id, Title: "Broken", StartAt: "2025-06-01T10:00:00Z"},
			}},
			want: []Event{},
		},
		{
			name: "missing start_at dropped",
			payload: Payload{Activities: []RawActivity{
				{ID: id, Title: "Broken", EndAt: "2025-06-01T12:00:00Z"},
			}},
			want: []Event{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Adapt(tt.payload); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Adapt() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAdaptThaiFallbackID(t *testing.T) {
	title := "กิจกรรมรับน้องใหม่ประจำปีการศึกษา 2568"
	got := Adapt(Payload{Activities: []RawActivity{
		{Title: title, StartAt: "2025-06-01T18:30:00+07:00", EndAt: "2025-06-01T21:00:00+07:00"},
	}})
	if len(got) != 1 {
		t.Fatalf("Adapt() = %+v, want one event", got)
	}

	id := got[0].ID
	if !utf8.ValidString(id) {
		t.Fatalf("Adapt() id %q is not valid UTF-8", id)
	}
	if want := "tmp-0-" + string([]rune(title)[:24]) + "-1748777400000"; id != want {
		t.Errorf("Adapt() id = %q, want %q", id, want)
	}

	// the id must survive JSON encoding byte-identical, or the client can
	// never hand it back to the removal ledger
	b, err := json.Marshal(got[0])
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var back Event
	if err = json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back.ID != id {
		t.Errorf("id after JSON round trip = %q, want %q", back.ID, id)
	}
}

func TestAdaptCounts(t *testing.T) {
	payload := Payload{
		Classes: []RawClassSession{
			{ClassDate: "2025-06-02", ClassCode: "CN210", ClassName: "Networks", StartTime: "09:00", EndTime: "12:00"},
			{ClassDate: "garbage", ClassCode: "XX000", ClassName: "Dropped", StartTime: "09:00", EndTime: "12:00"},
		},
		Activities: []RawActivity{
			{Title: "Kept", StartAt: "2025-06-01T10:00:00Z", EndAt: "2025-06-01T12:00:00Z"},
			{Title: "Dropped", StartAt: "2025-06-01T10:00:00Z"},
		},
	}

	got := Adapt(payload)
	if len(got) != 2 {
		t.Errorf("Adapt() returned %d events, want 2", len(got))
	}
}

func TestAdaptIdempotence(t *testing.T) {
	payload := Payload{
		Classes: []RawClassSession{
			{ClassDate: "2025-06-02", ClassCode: "CN210", ClassName: "Networks", StartTime: "09:00", EndTime: "12:00"},
		},
		Activities: []RawActivity{
			{Title: "Firstmeet", StartAt: "2025-06-01T16:30:00", EndAt: "2025-06-01T18:00:00"},
		},
	}

	first := Adapt(payload)
	second := Adapt(payload)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Adapt() not idempotent:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestEnsureOffset(t *testing.T) {
	tests := []struct {
		name string
		iso  string
		want string
	}{
		{name: "no offset", iso: "2025-06-01T10:00:00", want: "2025-06-01T10:00:00+07:00"},
		{name: "space separated", iso: "2025-06-01 10:00:00", want: "2025-06-01T10:00:00+07:00"},
		{name: "zulu untouched", iso: "2025-06-01T10:00:00Z", want: "2025-06-01T10:00:00Z"},
		{name: "offset untouched", iso: "2025-06-01T10:00:00+09:00", want: "2025-06-01T10:00:00+09:00"},
		{name: "bare date untouched", iso: "2025-06-01", want: "2025-06-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnsureOffset(tt.iso); got != tt.want {
				t.Errorf("EnsureOffset(%q) = %q, want %q", tt.iso, got, tt.want)
			}
		})
	}
}
