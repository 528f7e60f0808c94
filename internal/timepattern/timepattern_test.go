package timepattern

import (
	"testing"
	"time"

	"github.com/sandeepkv93/taskbrain/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodBoundaries(t *testing.T) {
	cases := map[int]Period{
		0: PeriodNight, 5: PeriodNight,
		6: PeriodMorning, 9: PeriodMorning, 11: PeriodMorning,
		12: PeriodAfternoon, 16: PeriodAfternoon,
		17: PeriodEvening, 20: PeriodEvening,
		21: PeriodNight, 23: PeriodNight,
	}
	for hour, want := range cases {
		assert.Equal(t, want, PeriodOf(hour), "hour %d", hour)
	}
}

func TestRecordAppendsBothKeys(t *testing.T) {
	p := Patterns{}
	// Tuesday 09:15.
	ts := time.Date(2026, 2, 10, 9, 15, 0, 0, time.UTC)
	p.Record(model.NewTaskRecord("standup notes", ts))
	p.Record(model.NewTaskRecord("standup notes", ts.Add(10*time.Minute)))

	require.Len(t, p, 2)
	assert.Equal(t, []string{"standup notes", "standup notes"}, p["day_1_hour_9"])
	assert.Equal(t, []string{"standup notes", "standup notes"}, p["morning"])
}

func TestCloneIsIndependent(t *testing.T) {
	p := Patterns{}
	p.Record(model.NewTaskRecord("a", time.Date(2026, 2, 9, 22, 0, 0, 0, time.UTC)))
	c := p.Clone()
	c["night"] = append(c["night"], "b")
	assert.Len(t, p["night"], 1)
	assert.Len(t, c["night"], 2)
}
