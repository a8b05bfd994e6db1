package Controllers

import (
	"sync"
	"time"

	"Summit/Models"
	"Summit/OKR"

	"github.com/gofiber/fiber/v2"
)

// OKRController serves one tenant's board per authenticated session. The
// mutex guards the session registry; the sessions themselves serialize their
// own state, since a tenant's requests can run concurrently.
type OKRController struct {
	Store *OKR.SyncStore

	mu       sync.Mutex
	sessions map[string]*OKR.Session
}

func NewOKRController(store *OKR.SyncStore) *OKRController {
	return &OKRController{
		Store:    store,
		sessions: make(map[string]*OKR.Session),
	}
}

// session returns the tenant's session, loading it from the store on first
// use. The tenant always comes from the authenticated user, never from the
// request payload.
func (ctrl *OKRController) session(c *fiber.Ctx) (*OKR.Session, error) {
	user, ok := c.Locals("user").(Models.User)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Not Logged In.")
	}
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	sess, ok := ctrl.sessions[user.Tenant]
	if !ok {
		sess = OKR.NewSession(ctrl.Store, user.Tenant)
		sess.Load()
		ctrl.sessions[user.Tenant] = sess
	}
	return sess, nil
}

type objectiveView struct {
	ID         string          `json:"id"`
	Department string          `json:"department"`
	Name       string          `json:"name"`
	Progress   float64         `json:"progress"`
	KRs        []keyResultView `json:"krs"`
}

type keyResultView struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Current  float64    `json:"current"`
	Target   float64    `json:"target"`
	Progress float64    `json:"progress"`
	Tasks    []taskView `json:"tasks"`
}

type taskView struct {
	ID             string             `json:"id"`
	Description    string             `json:"description"`
	Status         OKR.TaskStatus     `json:"status"`
	StatusMeta     OKR.StatusMeta     `json:"status_meta"`
	Responsible    string             `json:"responsible"`
	Deadline       string             `json:"deadline"`
	DeadlineStatus OKR.DeadlineBucket `json:"deadline_status"`
}

func buildBoard(sess *OKR.Session) []objectiveView {
	now := time.Now()
	objectives := sess.SnapshotObjectives()
	board := make([]objectiveView, 0, len(objectives))
	for _, o := range objectives {
		ov := objectiveView{
			ID:         o.ID,
			Department: o.Department,
			Name:       o.Name,
			Progress:   o.Progress(),
			KRs:        make([]keyResultView, 0, len(o.KRs)),
		}
		for _, kr := range o.KRs {
			kv := keyResultView{
				ID:       kr.ID,
				Name:     kr.Name,
				Current:  kr.Current,
				Target:   kr.Target,
				Progress: kr.Progress(),
				Tasks:    make([]taskView, 0, len(kr.Tasks)),
			}
			for _, t := range kr.Tasks {
				kv.Tasks = append(kv.Tasks, taskView{
					ID:             t.ID,
					Description:    t.Description,
					Status:         t.Status,
					StatusMeta:     t.Status.Meta(),
					Responsible:    t.Responsible,
					Deadline:       t.Deadline,
					DeadlineStatus: t.DeadlineStatus(now),
				})
			}
			ov.KRs = append(ov.KRs, kv)
		}
		board = append(board, ov)
	}
	return board
}

// GetBoard returns the whole tree with computed progress plus the dirty flag.
func (ctrl *OKRController) GetBoard(c *fiber.Ctx) error {
	sess, err := ctrl.session(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"departments": sess.Departments(),
		"objectives":  buildBoard(sess),
		"dirty":       sess.Dirty(),
	})
}

// GetSummary aggregates the board per department for the dashboard.
func (ctrl *OKRController) GetSummary(c *fiber.Ctx) error {
	sess, err := ctrl.session(c)
	if err != nil {
		return err
	}

	type deptSummary struct {
		Department     string                     `json:"department"`
		ObjectiveCount int                        `json:"objective_count"`
		AvgProgress    float64                    `json:"avg_progress"`
		TaskStatuses   map[OKR.TaskStatus]int     `json:"task_statuses"`
		Deadlines      map[OKR.DeadlineBucket]int `json:"deadlines"`
	}

	now := time.Now()
	byDept := make(map[string]*deptSummary)
	var order []string
	for _, o := range sess.SnapshotObjectives() {
		s, ok := byDept[o.Department]
		if !ok {
			s = &deptSummary{
				Department:   o.Department,
				TaskStatuses: make(map[OKR.TaskStatus]int),
				Deadlines:    make(map[OKR.DeadlineBucket]int),
			}
			byDept[o.Department] = s
			order = append(order, o.Department)
		}
		s.ObjectiveCount++
		s.AvgProgress += o.Progress()
		for _, kr := range o.KRs {
			for _, t := range kr.Tasks {
				s.TaskStatuses[t.Status]++
				s.Deadlines[t.DeadlineStatus(now)]++
			}
		}
	}

	summaries := make([]deptSummary, 0, len(order))
	for _, dept := range order {
		s := byDept[dept]
		s.AvgProgress /= float64(s.ObjectiveCount)
		summaries = append(summaries, *s)
	}
	return c.JSON(fiber.Map{
		"departments": summaries,
		"dirty":       sess.Dirty(),
	})
}

type objectiveInput struct {
	Department string `json:"department"`
	Name       string `json:"name" validate:"required"`
}

func (ctrl *OKRController) CreateObjective(c *fiber.Ctx) error {
	sess, err := ctrl.session(c)
	if err != nil {
		return err
	}
	var input objectiveInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrors(err),
		})
	}
	obj := sess.AddObjective(input.Department, input.Name)
	return c.Status(fiber.StatusCreated).JSON(obj)
}

func (ctrl *OKRController) UpdateObjective(c *fiber.Ctx) error {
	sess, err := ctrl.session(c)
	if err != nil {
		return err
	}
	var input objectiveInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := sess.UpdateObjective(c.Params("id"), input.Department, input.Name); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "success"})
}

func (ctrl *OKRController) DeleteObjective(c *fiber.Ctx) error {
	sess, err := ctrl.session(c)
	if err != nil {
		return err
	}
	if err := sess.RemoveObjective(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "success"})
}

type keyResultInput struct {
	Name    string  `json:"name" validate:"required"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
}

func (ctrl *OKRController) CreateKeyResult(c *fiber.Ctx) error {
	sess, err := ctrl.session(c)
	if err != nil {
		return err
	}
	var input keyResultInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrors(err),
		})
	}
	kr, err := sess.AddKeyResult(c.Params("id"), input.Name)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(kr)
}

func (ctrl *OKRController) UpdateKeyResult(c *fiber.Ctx) error {
	sess, err := ctrl.session(c)
	if err != nil {
		return err
	}
	var input keyResultInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := sess.UpdateKeyResult(c.Params("id"), input.Name, input.Current, input.Target); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "success"})
}

func (ctrl *OKRController) DeleteKeyResult(c *fiber.Ctx) error {
	sess, err := ctrl.session(c)
	if err != nil {
		return err
	}
	if err := sess.RemoveKeyResult(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "success"})
}

type taskInput struct {
	Description string `json:"description"`
	Status      string `json:"status"`
	Responsible string `json:"responsible"`
	Deadline    string `json:"deadline"`
}

// CreateTask appends an empty task to the key result, matching the "new row
// then edit in place" flow of the board UI.
func (ctrl *OKRController) CreateTask(c *fiber.Ctx) error {
	sess, err := ctrl.session(c)
	if err != nil {
		return err
	}
	t, err := sess.AddTask(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (ctrl *OKRController) UpdateTask(c *fiber.Ctx) error {
	sess, err := ctrl.session(c)
	if err != nil {
		return err
	}
	var input taskInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	status := OKR.ParseTaskStatus(input.Status)
	if err := sess.UpdateTask(c.Params("id"), input.Description, status, input.Responsible, input.Deadline); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "success"})
}

func (ctrl *OKRController) DeleteTask(c *fiber.Ctx) error {
	sess, err := ctrl.session(c)
	if err != nil {
		return err
	}
	if err := sess.RemoveTask(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "success"})
}

type renameDepartmentInput struct {
	Old string `json:"old" validate:"required"`
	New string `json:"new" validate:"required"`
}

func (ctrl *OKRController) RenameDepartment(c *fiber.Ctx) error {
	sess, err := ctrl.session(c)
	if err != nil {
		return err
	}
	var input renameDepartmentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrors(err),
		})
	}
	count := sess.RenameDepartment(input.Old, input.New)
	return c.JSON(fiber.Map{"renamed": count, "dirty": sess.Dirty()})
}

type deleteDepartmentInput struct {
	Name string `json:"name" validate:"required"`
}

func (ctrl *OKRController) DeleteDepartment(c *fiber.Ctx) error {
	sess, err := ctrl.session(c)
	if err != nil {
		return err
	}
	var input deleteDepartmentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrors(err),
		})
	}
	count := sess.DeleteDepartment(input.Name)
	return c.JSON(fiber.Map{"deleted": count, "dirty": sess.Dirty()})
}

// Save commits the in-memory tree as a full replace. A failed save keeps the
// dirty flag set and is surfaced to the user without retrying.
func (ctrl *OKRController) Save(c *fiber.Ctx) error {
	sess, err := ctrl.session(c)
	if err != nil {
		return err
	}
	if err := sess.Save(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Save failed",
			"error":   err.Error(),
			"dirty":   sess.Dirty(),
		})
	}
	return c.JSON(fiber.Map{"message": "Saved", "dirty": sess.Dirty()})
}

// Reload discards unsaved changes and re-reads the persisted state.
func (ctrl *OKRController) Reload(c *fiber.Ctx) error {
	sess, err := ctrl.session(c)
	if err != nil {
		return err
	}
	sess.Load()
	return c.JSON(fiber.Map{
		"departments": sess.Departments(),
		"objectives":  buildBoard(sess),
		"dirty":       sess.Dirty(),
	})
}
