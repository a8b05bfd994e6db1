package OKR

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the closed set of task states.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "Not Started"
	StatusInProgress TaskStatus = "In Progress"
	StatusPaused     TaskStatus = "Paused"
	StatusDone       TaskStatus = "Done"
)

// StatusMeta carries display metadata for a status. Kept out of the mapping
// logic so the UI vocabulary can change without touching persistence.
type StatusMeta struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var statusMetaTable = map[TaskStatus]StatusMeta{
	StatusNotStarted: {Label: "Not Started", Color: "red"},
	StatusInProgress: {Label: "In Progress", Color: "yellow"},
	StatusPaused:     {Label: "Paused", Color: "yellow"},
	StatusDone:       {Label: "Done", Color: "green"},
}

// Meta returns the display metadata for s, falling back to Not Started.
func (s TaskStatus) Meta() StatusMeta {
	if m, ok := statusMetaTable[s]; ok {
		return m
	}
	return statusMetaTable[StatusNotStarted]
}

// ParseTaskStatus folds arbitrary stored strings into the closed enum.
// Unknown and legacy values load as Not Started.
func ParseTaskStatus(s string) TaskStatus {
	switch TaskStatus(s) {
	case StatusNotStarted, StatusInProgress, StatusPaused, StatusDone:
		return TaskStatus(s)
	}
	return StatusNotStarted
}

// DeadlineBucket classifies a task deadline relative to now.
type DeadlineBucket string

const (
	DeadlineNone    DeadlineBucket = "none"
	DeadlineOverdue DeadlineBucket = "overdue"
	DeadlineDueSoon DeadlineBucket = "due_soon"
	DeadlineOnTrack DeadlineBucket = "on_track"
)

const dueSoonWindow = 7 * 24 * time.Hour

type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Responsible string     `json:"responsible"`
	Deadline    string     `json:"deadline"`
}

// NewTask returns an empty task with a fresh id and default status.
func NewTask() *Task {
	return &Task{ID: uuid.NewString(), Status: StatusNotStarted}
}

func (t *Task) clone() *Task {
	c := *t
	return &c
}

// DeadlineStatus buckets the deadline by its delta from now. Deadlines are
// free text; anything that does not parse as YYYY-MM-DD counts as no deadline.
func (t *Task) DeadlineStatus(now time.Time) DeadlineBucket {
	if t.Deadline == "" {
		return DeadlineNone
	}
	due, err := time.Parse("2006-01-02", t.Deadline)
	if err != nil {
		return DeadlineNone
	}
	switch {
	case due.Before(now.Truncate(24 * time.Hour)):
		return DeadlineOverdue
	case due.Sub(now) <= dueSoonWindow:
		return DeadlineDueSoon
	default:
		return DeadlineOnTrack
	}
}

type KeyResult struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Target  float64 `json:"target"`
	Current float64 `json:"current"`
	Tasks   []*Task `json:"tasks"`
}

// NewKeyResult returns a key result with the default target of 1.0.
func NewKeyResult(name string) *KeyResult {
	return &KeyResult{ID: uuid.NewString(), Name: name, Target: 1.0}
}

func (kr *KeyResult) clone() *KeyResult {
	c := *kr
	c.Tasks = make([]*Task, len(kr.Tasks))
	for i, t := range kr.Tasks {
		c.Tasks[i] = t.clone()
	}
	return &c
}

// Progress is current/target clamped to [0,1]. A zero target is trivially
// satisfied once current is non-negative.
func (kr *KeyResult) Progress() float64 {
	if kr.Target == 0 {
		if kr.Current >= 0 {
			return 1.0
		}
		return 0.0
	}
	val := kr.Current / kr.Target
	if val < 0 {
		return 0.0
	}
	if val > 1 {
		return 1.0
	}
	return val
}

const DefaultDepartment = "General"

type Objective struct {
	ID         string       `json:"id"`
	Department string       `json:"department"`
	Name       string       `json:"name"`
	KRs        []*KeyResult `json:"krs"`
}

func NewObjective(department, name string) *Objective {
	if department == "" {
		department = DefaultDepartment
	}
	return &Objective{ID: uuid.NewString(), Department: department, Name: name}
}

func (o *Objective) clone() *Objective {
	c := *o
	c.KRs = make([]*KeyResult, len(o.KRs))
	for i, kr := range o.KRs {
		c.KRs[i] = kr.clone()
	}
	return &c
}

// Progress is the mean of the key result progresses, 0.0 with no key results.
func (o *Objective) Progress() float64 {
	if len(o.KRs) == 0 {
		return 0.0
	}
	var sum float64
	for _, kr := range o.KRs {
		sum += kr.Progress()
	}
	return sum / float64(len(o.KRs))
}
