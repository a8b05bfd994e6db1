package OKR

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyResultProgressClamping(t *testing.T) {
	cases := []struct {
		name    string
		current float64
		target  float64
		want    float64
	}{
		{"halfway", 5, 10, 0.5},
		{"complete", 10, 10, 1.0},
		{"overshoot clamps to one", 15, 10, 1.0},
		{"negative clamps to zero", -5, 10, 0.0},
		{"zero target with positive current", 5, 0, 1.0},
		{"zero target with zero current", 0, 0, 1.0},
		{"zero target with negative current", -1, 0, 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kr := &KeyResult{Name: "kr", Current: tc.current, Target: tc.target}
			got := kr.Progress()
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestObjectiveProgressAggregate(t *testing.T) {
	obj := NewObjective("Sales", "Double leads")
	obj.KRs = []*KeyResult{
		{Name: "a", Current: 2, Target: 10},
		{Name: "b", Current: 8, Target: 10},
	}
	assert.InDelta(t, 0.5, obj.Progress(), 1e-9)
}

func TestObjectiveProgressNoKRs(t *testing.T) {
	obj := NewObjective("Sales", "Double leads")
	assert.Equal(t, 0.0, obj.Progress())
}

func TestNewEntitiesHaveDefaults(t *testing.T) {
	kr := NewKeyResult("New KR")
	assert.NotEmpty(t, kr.ID)
	assert.Equal(t, 1.0, kr.Target)
	assert.Equal(t, 0.0, kr.Current)

	task := NewTask()
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, StatusNotStarted, task.Status)

	obj := NewObjective("", "Anything")
	assert.Equal(t, DefaultDepartment, obj.Department)
}

func TestParseTaskStatus(t *testing.T) {
	assert.Equal(t, StatusDone, ParseTaskStatus("Done"))
	assert.Equal(t, StatusPaused, ParseTaskStatus("Paused"))
	assert.Equal(t, StatusNotStarted, ParseTaskStatus(""))
	assert.Equal(t, StatusNotStarted, ParseTaskStatus("Concluído"))
}

func TestStatusMetaLookup(t *testing.T) {
	assert.Equal(t, "green", StatusDone.Meta().Color)
	assert.Equal(t, "red", StatusNotStarted.Meta().Color)
	// unknown statuses fall back instead of panicking
	assert.Equal(t, "red", TaskStatus("bogus").Meta().Color)
}

func TestDeadlineBucketing(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		deadline string
		want     DeadlineBucket
	}{
		{"", DeadlineNone},
		{"not a date", DeadlineNone},
		{"2026-03-01", DeadlineOverdue},
		{"2026-03-12", DeadlineDueSoon},
		{"2026-06-01", DeadlineOnTrack},
	}
	for _, tc := range cases {
		task := &Task{Deadline: tc.deadline}
		assert.Equal(t, tc.want, task.DeadlineStatus(now), "deadline %q", tc.deadline)
	}
}
