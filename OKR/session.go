package OKR

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrObjectiveNotFound = errors.New("objective not found")
	ErrKeyResultNotFound = errors.New("key result not found")
	ErrTaskNotFound      = errors.New("task not found")
)

// Session owns one tenant's in-memory objective tree for the lifetime of a
// login. All mutation goes through its methods, which is also where the dirty
// flag is maintained; nothing is persisted until Save is called explicitly.
//
// A tenant's session is shared by every concurrent request of that tenant
// (two browser tabs, a board poll during an edit), so the methods serialize
// on an internal mutex. Creators hand back clones and SnapshotObjectives
// deep-copies the tree, so nothing returned from a session aliases state
// another request may be mutating.
type Session struct {
	store  *SyncStore
	tenant string

	mu         sync.Mutex
	objectives []*Objective
	dirty      bool
}

func NewSession(store *SyncStore, tenant string) *Session {
	return &Session{store: store, tenant: tenant}
}

func (s *Session) Tenant() string { return s.tenant }

func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Objectives returns the live tree. Callers that may run concurrently with
// mutations should use SnapshotObjectives instead.
func (s *Session) Objectives() []*Objective {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objectives
}

// SnapshotObjectives returns a deep copy of the tree, safe to walk and
// serialize while other requests keep mutating the session.
func (s *Session) SnapshotObjectives() []*Objective {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]*Objective, len(s.objectives))
	for i, o := range s.objectives {
		snapshot[i] = o.clone()
	}
	return snapshot
}

// Load replaces the in-memory tree with the persisted state and clears the
// dirty flag. An unreachable backend loads as an empty tenant.
func (s *Session) Load() {
	records := s.store.Load(s.tenant)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objectives = FromRecords(records)
	s.dirty = false
}

// Save flattens the tree and commits it as a full replace. The dirty flag is
// cleared only on success; on failure it stays set so the caller can surface
// the error and try again later.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(ToRecords(s.objectives, s.tenant), s.tenant); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// ReplaceTree swaps in a whole new tree (spreadsheet import) and marks dirty.
func (s *Session) ReplaceTree(objectives []*Objective) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objectives = objectives
	s.dirty = true
}

// Departments returns the distinct department names in sorted order, with the
// default department standing in when the board is empty.
func (s *Session) Departments() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var depts []string
	for _, o := range s.objectives {
		if !seen[o.Department] {
			seen[o.Department] = true
			depts = append(depts, o.Department)
		}
	}
	if len(depts) == 0 {
		return []string{DefaultDepartment}
	}
	sort.Strings(depts)
	return depts
}

func (s *Session) AddObjective(department, name string) *Objective {
	obj := NewObjective(department, name)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objectives = append(s.objectives, obj)
	s.dirty = true
	return obj.clone()
}

// FindObjective returns a copy of the objective, or nil when absent.
func (s *Session) FindObjective(id string) *Objective {
	s.mu.Lock()
	defer s.mu.Unlock()
	if obj := s.findObjective(id); obj != nil {
		return obj.clone()
	}
	return nil
}

// findObjective returns the live objective. Callers hold the lock.
func (s *Session) findObjective(id string) *Objective {
	for _, o := range s.objectives {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (s *Session) UpdateObjective(id, department, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj := s.findObjective(id)
	if obj == nil {
		return ErrObjectiveNotFound
	}
	if department != "" {
		obj.Department = department
	}
	obj.Name = name
	s.dirty = true
	return nil
}

func (s *Session) RemoveObjective(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.objectives {
		if o.ID == id {
			s.objectives = append(s.objectives[:i], s.objectives[i+1:]...)
			s.dirty = true
			return nil
		}
	}
	return ErrObjectiveNotFound
}

func (s *Session) AddKeyResult(objectiveID, name string) (*KeyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj := s.findObjective(objectiveID)
	if obj == nil {
		return nil, ErrObjectiveNotFound
	}
	kr := NewKeyResult(name)
	obj.KRs = append(obj.KRs, kr)
	s.dirty = true
	return kr.clone(), nil
}

// findKR locates a key result and its owning objective by the KR's id.
// Callers hold the lock.
func (s *Session) findKR(id string) (*Objective, *KeyResult) {
	for _, o := range s.objectives {
		for _, kr := range o.KRs {
			if kr.ID == id {
				return o, kr
			}
		}
	}
	return nil, nil
}

func (s *Session) UpdateKeyResult(id, name string, current, target float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, kr := s.findKR(id)
	if kr == nil {
		return ErrKeyResultNotFound
	}
	kr.Name = name
	kr.Current = current
	kr.Target = target
	s.dirty = true
	return nil
}

func (s *Session) RemoveKeyResult(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, kr := s.findKR(id)
	if kr == nil {
		return ErrKeyResultNotFound
	}
	for i, k := range obj.KRs {
		if k.ID == id {
			obj.KRs = append(obj.KRs[:i], obj.KRs[i+1:]...)
			break
		}
	}
	s.dirty = true
	return nil
}

func (s *Session) AddTask(krID string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, kr := s.findKR(krID)
	if kr == nil {
		return nil, ErrKeyResultNotFound
	}
	t := NewTask()
	kr.Tasks = append(kr.Tasks, t)
	s.dirty = true
	return t.clone(), nil
}

// findTask locates a task and its owning key result by the task's id.
// Callers hold the lock.
func (s *Session) findTask(id string) (*KeyResult, *Task) {
	for _, o := range s.objectives {
		for _, kr := range o.KRs {
			for _, t := range kr.Tasks {
				if t.ID == id {
					return kr, t
				}
			}
		}
	}
	return nil, nil
}

func (s *Session) UpdateTask(id, description string, status TaskStatus, responsible, deadline string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, t := s.findTask(id)
	if t == nil {
		return ErrTaskNotFound
	}
	t.Description = description
	t.Status = status
	t.Responsible = responsible
	t.Deadline = deadline
	s.dirty = true
	return nil
}

func (s *Session) RemoveTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kr, t := s.findTask(id)
	if t == nil {
		return ErrTaskNotFound
	}
	for i, task := range kr.Tasks {
		if task.ID == id {
			kr.Tasks = append(kr.Tasks[:i], kr.Tasks[i+1:]...)
			break
		}
	}
	s.dirty = true
	return nil
}

// RenameDepartment moves every objective in old to new and returns how many
// matched. The board is dirty only when at least one objective moved.
func (s *Session) RenameDepartment(oldName, newName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, o := range s.objectives {
		if o.Department == oldName {
			o.Department = newName
			count++
		}
	}
	if count > 0 {
		s.dirty = true
	}
	return count
}

// DeleteDepartment removes every objective in the department and returns how
// many were dropped.
func (s *Session) DeleteDepartment(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.objectives[:0]
	count := 0
	for _, o := range s.objectives {
		if o.Department == name {
			count++
			continue
		}
		kept = append(kept, o)
	}
	s.objectives = kept
	if count > 0 {
		s.dirty = true
	}
	return count
}
