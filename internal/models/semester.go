package models

import (
	"fmt"
	"strings"
)

// Season is the academic season of a semester.
type Season string

const (
	SeasonSpring Season = "SPRING"
	SeasonSummer Season = "SUMMER"
	SeasonFall   Season = "FALL"
	SeasonWinter Season = "WINTER"
)

var seasonDisplayNames = map[Season]string{
	SeasonSpring: "Spring",
	SeasonSummer: "Summer",
	SeasonFall:   "Fall",
	SeasonWinter: "Winter",
}

// DisplayName returns the human readable season name.
func (s Season) DisplayName() string {
	if name, ok := seasonDisplayNames[s]; ok {
		return name
	}
	return string(s)
}

// Valid reports whether s is one of the known seasons.
func (s Season) Valid() bool {
	_, ok := seasonDisplayNames[s]
	return ok
}

// ParseSeason accepts either the stored name ("FALL") or the display name ("Fall").
func ParseSeason(raw string) (Season, error) {
	s := Season(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown season %q", raw)
	}
	return s, nil
}

// Semester is a value: two semesters are equal iff season and year match.
// The zero value means "no semester assigned".
type Semester struct {
	Season Season `json:"season"`
	Year   int    `json:"year"`
}

// IsZero reports whether no semester is set.
func (s Semester) IsZero() bool {
	return s.Season == "" && s.Year == 0
}

func (s Semester) String() string {
	if s.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %d", s.Season.DisplayName(), s.Year)
}
