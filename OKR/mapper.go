package OKR

import (
	"Summit/Models"

	"github.com/google/uuid"
)

// ToRecords flattens the objective tree into the persisted row schema. Every
// objective and key result survives flattening: a key result with no tasks
// emits one row with an empty task field, an objective with no key results
// emits one row with an empty kr field. Current/target repeat on every task
// row of the same key result.
func ToRecords(objectives []*Objective, tenant string) []Models.OKRRecord {
	var records []Models.OKRRecord
	for _, o := range objectives {
		if len(o.KRs) == 0 {
			records = append(records, Models.OKRRecord{
				Tenant:     tenant,
				Department: o.Department,
				Objective:  o.Name,
				Current:    0.0,
				Target:     1.0,
			})
			continue
		}
		for _, kr := range o.KRs {
			if len(kr.Tasks) == 0 {
				records = append(records, Models.OKRRecord{
					Tenant:     tenant,
					Department: o.Department,
					Objective:  o.Name,
					KR:         kr.Name,
					KRID:       kr.ID,
					Current:    kr.Current,
					Target:     kr.Target,
				})
				continue
			}
			for _, t := range kr.Tasks {
				records = append(records, Models.OKRRecord{
					Tenant:      tenant,
					Department:  o.Department,
					Objective:   o.Name,
					KR:          kr.Name,
					KRID:        kr.ID,
					Task:        t.Description,
					TaskID:      t.ID,
					Status:      string(t.Status),
					Responsible: t.Responsible,
					Deadline:    t.Deadline,
					Current:     kr.Current,
					Target:      kr.Target,
				})
			}
		}
	}
	return records
}

// FromRecords rebuilds the objective tree from flat rows. Objectives group by
// (department, objective) in first-seen row order. Key results match by their
// stored id, falling back to name equality for rows without one; whichever row
// creates the key result supplies current/target, later duplicates are
// ignored. Rows with an empty kr field only establish the objective.
func FromRecords(records []Models.OKRRecord) []*Objective {
	type objKey struct {
		department string
		objective  string
	}
	objsMap := make(map[objKey]*Objective)
	var order []objKey

	for _, row := range records {
		key := objKey{row.Department, row.Objective}
		obj, ok := objsMap[key]
		if !ok {
			// Stored departments are kept verbatim, even when empty; the
			// default department only applies at creation time.
			obj = &Objective{ID: uuid.NewString(), Department: row.Department, Name: row.Objective}
			objsMap[key] = obj
			order = append(order, key)
		}

		if row.KR == "" {
			continue
		}

		kr := findKeyResult(obj, row.KRID, row.KR)
		if kr == nil {
			target := row.Target
			if target == 0 {
				target = 1.0
			}
			kr = &KeyResult{
				ID:      row.KRID,
				Name:    row.KR,
				Target:  target,
				Current: row.Current,
			}
			if kr.ID == "" {
				kr.ID = uuid.NewString()
			}
			obj.KRs = append(obj.KRs, kr)
		}

		if row.Task != "" {
			t := &Task{
				ID:          row.TaskID,
				Description: row.Task,
				Status:      ParseTaskStatus(row.Status),
				Responsible: row.Responsible,
				Deadline:    row.Deadline,
			}
			if t.ID == "" {
				t.ID = uuid.NewString()
			}
			kr.Tasks = append(kr.Tasks, t)
		}
	}

	objectives := make([]*Objective, 0, len(order))
	for _, key := range order {
		objectives = append(objectives, objsMap[key])
	}
	return objectives
}

// findKeyResult matches by stable id first, then by name for legacy rows.
func findKeyResult(obj *Objective, id, name string) *KeyResult {
	if id != "" {
		for _, kr := range obj.KRs {
			if kr.ID == id {
				return kr
			}
		}
		return nil
	}
	for _, kr := range obj.KRs {
		if kr.Name == name {
			return kr
		}
	}
	return nil
}
