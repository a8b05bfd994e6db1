package Models

import (
	"gorm.io/gorm"
)

// OKRRecord is one flat row of the persisted/export schema. One row per task,
// or a single placeholder row when a key result has no tasks (Task empty) or
// an objective has no key results (KR empty). Current/Target are denormalized
// across all task rows of the same key result.
//
// KRID and TaskID carry the stable entity identifiers so that a reload matches
// key results by identity instead of by name; rows imported from spreadsheets
// that predate these columns may have them empty.
type OKRRecord struct {
	gorm.Model
	Tenant      string  `json:"tenant" gorm:"index"`
	Department  string  `json:"department"`
	Objective   string  `json:"objective"`
	KR          string  `json:"kr"`
	KRID        string  `json:"kr_id" gorm:"size:36"`
	Task        string  `json:"task"`
	TaskID      string  `json:"task_id" gorm:"size:36"`
	Status      string  `json:"status"`
	Responsible string  `json:"responsible"`
	Deadline    string  `json:"deadline"`
	Current     float64 `json:"current"`
	Target      float64 `json:"target"`
}
