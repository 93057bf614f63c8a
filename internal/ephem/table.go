package ephem

import (
	"fmt"
	"time"
)

// PageRow is one hourly line of an almanac daily page.
type PageRow struct {
	UT     time.Time
	GHADeg float64
	DecDeg float64
	SDDeg  float64
	HPDeg  float64
}

// Page is a daily almanac page for one body: hourly GHA and declination
// for a UT date.
type Page struct {
	Body string
	Date time.Time
	Rows []PageRow
}

// DailyPage builds an hourly almanac page for a body on the UT date of
// the given time.
func DailyPage(p Provider, body string, date time.Time) (Page, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	entry, ok := Resolve(body)
	if !ok {
		return Page{}, &NotFoundError{Body: body}
	}

	page := Page{Body: entry.Name, Date: day}
	for h := 0; h < 24; h++ {
		ut := day.Add(time.Duration(h) * time.Hour)
		eq, err := p.Equatorial(body, ut)
		if err != nil {
			return Page{}, fmt.Errorf("almanac page for %s at %02d:00: %w", entry.Name, h, err)
		}
		page.Rows = append(page.Rows, PageRow{
			UT:     ut,
			GHADeg: eq.GHADeg,
			DecDeg: eq.DecDeg,
			SDDeg:  eq.SDDeg,
			HPDeg:  eq.HPDeg,
		})
	}
	return page, nil
}
