// Package timepattern records which task texts a user enters at which times.
package timepattern

import (
	"fmt"

	"github.com/sandeepkv93/taskbrain/internal/model"
)

type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodEvening   Period = "evening"
	PeriodNight     Period = "night"
)

// PeriodOf maps an hour to its coarse day period.
func PeriodOf(hour int) Period {
	switch {
	case hour >= 6 && hour < 12:
		return PeriodMorning
	case hour >= 12 && hour < 17:
		return PeriodAfternoon
	case hour >= 17 && hour < 21:
		return PeriodEvening
	default:
		return PeriodNight
	}
}

func DayHourKey(day, hour int) string {
	return fmt.Sprintf("day_%d_hour_%d", day, hour)
}

// Patterns maps a time key to the texts seen under it, in arrival order.
type Patterns map[string][]string

// Record appends rec under its exact day/hour key and its period key.
func (p Patterns) Record(rec model.TaskRecord) {
	dh := DayHourKey(rec.DayOfWeek, rec.HourOfDay)
	p[dh] = append(p[dh], rec.Text)
	period := string(PeriodOf(rec.HourOfDay))
	p[period] = append(p[period], rec.Text)
}

func (p Patterns) Clone() Patterns {
	out := make(Patterns, len(p))
	for k, v := range p {
		out[k] = append([]string(nil), v...)
	}
	return out
}
