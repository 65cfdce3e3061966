package calendar

import (
	"time"

	"backend-nexus/internal/post"
)

// Cell is one slot in the month grid. Day 0 marks the leading/trailing
// padding that squares the grid off to whole weeks.
type Cell struct {
	Day   int         `json:"day"`
	Posts []post.Post `json:"posts,omitempty"`
}

type Grid struct {
	Year        int        `json:"year"`
	Month       time.Month `json:"month"`
	DaysInMonth int        `json:"days_in_month"`
	Cells       []Cell     `json:"cells"`
}

// Project maps a month and a set of posts onto a fixed grid of day cells.
// The grid starts on Sunday, opens with weekday(1st) empty cells and pads
// the last week to a multiple of seven. Posts land on the day of their
// scheduled_at, or created_at for drafts, evaluated in loc. Deterministic
// and side-effect free.
func Project(year int, month time.Month, loc *time.Location, posts []post.Post) Grid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	firstWeekday := int(first.Weekday())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	totalCells := (firstWeekday + daysInMonth + 6) / 7 * 7

	byDay := make(map[int][]post.Post)
	for _, p := range posts {
		at := effectiveTime(p).In(loc)
		if at.Year() == year && at.Month() == month {
			byDay[at.Day()] = append(byDay[at.Day()], p)
		}
	}

	cells := make([]Cell, totalCells)
	for d := 1; d <= daysInMonth; d++ {
		cells[firstWeekday+d-1] = Cell{Day: d, Posts: byDay[d]}
	}

	return Grid{
		Year:        year,
		Month:       month,
		DaysInMonth: daysInMonth,
		Cells:       cells,
	}
}

func effectiveTime(p post.Post) time.Time {
	if p.ScheduledAt != nil {
		return *p.ScheduledAt
	}
	return p.CreatedAt
}

// DefaultScheduleAt computes the scheduling instant pre-filled when a day
// cell is clicked. Branches:
//   - clicked day with its noon still ahead: noon that day
//   - today with noon passed: now+1h, re-stamped onto the clicked day
//   - past day (re-stamp still behind now): the plain now+1h instant
func DefaultScheduleAt(year int, month time.Month, day int, now time.Time) time.Time {
	loc := now.Location()

	at := time.Date(year, month, day, 12, 0, 0, 0, loc)
	if at.After(now) {
		return at
	}

	at = now.Add(time.Hour)
	restamped := time.Date(year, month, day, at.Hour(), at.Minute(), at.Second(), at.Nanosecond(), loc)
	if restamped.After(now) {
		return restamped
	}
	return at
}
