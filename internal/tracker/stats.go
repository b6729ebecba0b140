package tracker

import (
	"fmt"
	"math"
	"sort"
	"time"

	"hotel-ops-backend/internal/model"
)

// Window limits records by how long ago they started.
type Window string

const (
	WindowDay     Window = "1d"
	WindowWeek    Window = "7d"
	WindowMonth   Window = "30d"
	WindowQuarter Window = "90d"
	WindowAll     Window = "all"
)

// DefaultWindow is used when no window is requested.
const DefaultWindow = WindowWeek

// ParseWindow accepts the empty string as DefaultWindow.
func ParseWindow(s string) (Window, error) {
	switch w := Window(s); w {
	case "":
		return DefaultWindow, nil
	case WindowDay, WindowWeek, WindowMonth, WindowQuarter, WindowAll:
		return w, nil
	}
	return "", fmt.Errorf("unknown range %q", s)
}

func (w Window) days() (int, bool) {
	switch w {
	case WindowDay:
		return 1, true
	case WindowWeek:
		return 7, true
	case WindowMonth:
		return 30, true
	case WindowQuarter:
		return 90, true
	}
	return 0, false
}

// Contains reports whether a session starting at start falls inside the window.
func (w Window) Contains(start, now time.Time) bool {
	days, bounded := w.days()
	if !bounded {
		return true
	}
	return now.Sub(start) <= time.Duration(days)*24*time.Hour
}

// Filter selects records for reporting. An empty HousekeeperID means everyone.
type Filter struct {
	HousekeeperID string
	Window        Window
}

// FilterRecords keeps the records matching f, preserving order.
func FilterRecords(records []model.CleaningRecord, f Filter, now time.Time) []model.CleaningRecord {
	out := make([]model.CleaningRecord, 0, len(records))
	for _, r := range records {
		if f.HousekeeperID != "" && r.HousekeeperID != f.HousekeeperID {
			continue
		}
		if f.Window != "" && !f.Window.Contains(r.StartTime, now) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Stats summarises completed sessions.
type Stats struct {
	AverageTime      int     `json:"averageTime"`
	TotalCleanings   int     `json:"totalCleanings"`
	OnTimeCleanings  int     `json:"onTimeCleanings"`
	DelayedCleanings int     `json:"delayedCleanings"`
	QualityScore     float64 `json:"qualityScore"`
}

// Summarize averages completed records with a recorded duration. A missing
// quality rating counts as zero.
func Summarize(records []model.CleaningRecord) Stats {
	var (
		s       Stats
		total   int
		ratings int
	)
	for _, r := range records {
		if r.Status != model.CleaningCompleted || r.Duration == nil {
			continue
		}
		s.TotalCleanings++
		total += *r.Duration
		if IsOnTime(*r.Duration) {
			s.OnTimeCleanings++
		}
		if r.QualityRating != nil {
			ratings += *r.QualityRating
		}
	}
	if s.TotalCleanings == 0 {
		return Stats{}
	}
	s.DelayedCleanings = s.TotalCleanings - s.OnTimeCleanings
	s.AverageTime = int(math.Round(float64(total) / float64(s.TotalCleanings)))
	s.QualityScore = math.Round(float64(ratings)/float64(s.TotalCleanings)*10) / 10
	return s
}

// Performance is one housekeeper's share of the records.
type Performance struct {
	HousekeeperID   string  `json:"housekeeperId"`
	HousekeeperName string  `json:"housekeeperName"`
	AverageTime     int     `json:"averageTime"`
	TotalCleanings  int     `json:"totalCleanings"`
	QualityScore    float64 `json:"qualityScore"`
}

// ByHousekeeper reports every listed housekeeper, busiest first. Records of
// housekeepers not in the list are ignored.
func ByHousekeeper(records []model.CleaningRecord, housekeepers []Housekeeper) []Performance {
	grouped := make(map[string][]model.CleaningRecord, len(housekeepers))
	for _, r := range records {
		grouped[r.HousekeeperID] = append(grouped[r.HousekeeperID], r)
	}

	out := make([]Performance, 0, len(housekeepers))
	for _, hk := range housekeepers {
		s := Summarize(grouped[hk.ID])
		out = append(out, Performance{
			HousekeeperID:   hk.ID,
			HousekeeperName: hk.Name,
			AverageTime:     s.AverageTime,
			TotalCleanings:  s.TotalCleanings,
			QualityScore:    s.QualityScore,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalCleanings > out[j].TotalCleanings })
	return out
}

// Recent returns up to n completed records, latest end time first.
func Recent(records []model.CleaningRecord, n int) []model.CleaningRecord {
	out := make([]model.CleaningRecord, 0, len(records))
	for _, r := range records {
		if r.Status == model.CleaningCompleted && r.EndTime != nil {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EndTime.After(*out[j].EndTime) })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// RoomSnapshot is computed from the rooms' mirrored cleaning fields.
type RoomSnapshot struct {
	CurrentlyCleaning int `json:"currentlyCleaning"`
	AverageDuration   int `json:"averageDuration"`
	OnTime            int `json:"onTime"`
	Delayed           int `json:"delayed"`
}

// RoomStats counts rooms being cleaned and classifies the last closed
// session of every other room.
func RoomStats(rooms []model.Room) RoomSnapshot {
	var (
		snap  RoomSnapshot
		total int
		n     int
	)
	for _, r := range rooms {
		if r.Status == model.RoomCleaning {
			snap.CurrentlyCleaning++
			continue
		}
		if r.CleaningDuration == nil {
			continue
		}
		n++
		total += *r.CleaningDuration
		if IsOnTime(*r.CleaningDuration) {
			snap.OnTime++
		} else {
			snap.Delayed++
		}
	}
	if n > 0 {
		snap.AverageDuration = int(math.Round(float64(total) / float64(n)))
	}
	return snap
}
