// Package dashboard holds the per-role view-state controllers. A controller
// owns the collections its role renders, derives filtered views from them
// and orchestrates multi-step flows against the resource services.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aawaaz/casedesk/internal/mappers"
	"github.com/aawaaz/casedesk/internal/models"
	"github.com/aawaaz/casedesk/internal/services"
	"github.com/aawaaz/casedesk/internal/transport"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Phase is the top-level state of a controller
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseLoading  Phase = "loading"
	PhaseReady    Phase = "ready"
	PhaseMutating Phase = "mutating"
)

// NoticeLevel classifies a user-visible notification
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

const maxNotices = 50

// Notice is a message for the view layer
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}

// Filter narrows the case list. Empty fields match everything.
type Filter struct {
	Search   string            `json:"search"`
	Status   models.CaseStatus `json:"status"`
	District string            `json:"district"`
}

// CaseView is the open case with its secondary data
type CaseView struct {
	Case    models.Case     `json:"case"`
	Team    []models.Person `json:"team"`
	Reports []models.Report `json:"reports"`
	// Loading is set while the team and reports are fetched.
	Loading bool `json:"loading"`
	// ReportsError is set when the reports fetch failed; RetryReports clears it.
	ReportsError string `json:"reportsError,omitempty"`
}

// Snapshot is a copy of a controller's state for rendering
type Snapshot struct {
	Role        models.Role         `json:"role"`
	Phase       Phase               `json:"phase"`
	Filter      Filter              `json:"filter"`
	Cases       []models.Case       `json:"cases"`
	Persons     []models.Person     `json:"persons"`
	Departments []models.Department `json:"departments"`
	Admins      []models.AdminUser  `json:"admins,omitempty"`
	Reports     []models.Report     `json:"reports,omitempty"`
	Detail      *CaseView           `json:"detail,omitempty"`
	Feedback    map[string]string   `json:"feedback,omitempty"`
}

// core is the state and machinery shared by every role controller
type core struct {
	mu     sync.RWMutex
	phase  Phase
	filter Filter

	cases       []models.Case
	persons     []models.Person
	departments []models.Department

	detail    *CaseView
	selection uint64
	feedback  map[models.ID]string
	notices   []Notice

	session  models.Session
	svc      *services.Set
	validate *validator.Validate
	logger   *zap.SugaredLogger

	// persons visible to this role; nil keeps everyone
	personScope func(models.Person) bool
	// cases visible to this role; nil keeps every case
	caseScope func(models.Case) bool
	// resolves what caseScope needs from the backend before it runs; optional
	prepareScope func(ctx context.Context, cases []models.Case)
}

func (c *core) init(s models.Session, svc *services.Set, logger *zap.SugaredLogger) {
	c.phase = PhaseIdle
	c.feedback = make(map[models.ID]string)
	c.session = s
	c.svc = svc
	c.validate = newValidator()
	c.logger = logger.With("role", s.Role, "user_id", s.UserID)
}

// Role returns the role the controller was built for
func (c *core) Role() models.Role { return c.session.Role }

// Phase returns the top-level phase
func (c *core) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

func (c *core) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}

// Notices returns the pending notifications, oldest first
func (c *core) Notices() []Notice {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Notice(nil), c.notices...)
}

// DismissNotices drops every pending notification
func (c *core) DismissNotices() {
	c.mu.Lock()
	c.notices = nil
	c.mu.Unlock()
}

func (c *core) notify(level NoticeLevel, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifyLocked(level, format, args...)
}

func (c *core) notifyLocked(level NoticeLevel, format string, args ...any) {
	c.notices = append(c.notices, Notice{Level: level, Message: fmt.Sprintf(format, args...), At: time.Now()})
	if len(c.notices) > maxNotices {
		c.notices = c.notices[len(c.notices)-maxNotices:]
	}
}

// SetFilter replaces the case list filter
func (c *core) SetFilter(f Filter) {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
}

// Cases returns the held cases matching the current filter
func (c *core) Cases() []models.Case {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return filterCases(c.cases, c.filter)
}

func filterCases(cases []models.Case, f Filter) []models.Case {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	district := strings.TrimSpace(f.District)

	out := make([]models.Case, 0, len(cases))
	for _, cs := range cases {
		if f.Status != "" && cs.Status != f.Status {
			continue
		}
		if district != "" && !strings.EqualFold(cs.District, district) {
			continue
		}
		if search != "" && !matchesSearch(cs, search) {
			continue
		}
		out = append(out, cs)
	}
	return out
}

func matchesSearch(cs models.Case, needle string) bool {
	fields := []string{cs.ID.String(), cs.ComplainantName, cs.District, cs.Address}
	if d, ok := cs.Detail(); ok {
		fields = append(fields, d.Subdivision, d.GirlName, d.BoyName)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// snapshotLocked copies the shared state; callers add role-specific collections
func (c *core) snapshotLocked() Snapshot {
	snap := Snapshot{
		Role:        c.session.Role,
		Phase:       c.phase,
		Filter:      c.filter,
		Cases:       filterCases(c.cases, c.filter),
		Persons:     clone(c.persons),
		Departments: clone(c.departments),
	}
	if c.detail != nil {
		d := *c.detail
		d.Team = clone(d.Team)
		d.Reports = clone(d.Reports)
		snap.Detail = &d
	}
	if len(c.feedback) > 0 {
		snap.Feedback = make(map[string]string, len(c.feedback))
		for id, text := range c.feedback {
			snap.Feedback[id.String()] = text
		}
	}
	return snap
}

// fetchJob loads one collection into a variable owned by the caller
type fetchJob struct {
	name string
	run  func(ctx context.Context) error
}

// fetchAll runs the jobs concurrently and waits for all of them. Each
// failure is logged and left for the caller to default to empty; a single
// aggregate notice covers the batch.
func (c *core) fetchAll(ctx context.Context, jobs ...fetchJob) *PartialFetchError {
	errs := make([]error, len(jobs))

	var g errgroup.Group
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := job.run(ctx); err != nil {
				c.logger.Errorw("Failed to load collection", "resource", job.name, "error", err)
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	var failed *PartialFetchError
	for i, err := range errs {
		if err == nil {
			continue
		}
		if failed == nil {
			failed = &PartialFetchError{Causes: make(map[string]error)}
		}
		failed.Resources = append(failed.Resources, jobs[i].name)
		failed.Causes[jobs[i].name] = err
	}
	if failed != nil {
		c.notify(NoticeError, "Some data could not be loaded: %s", strings.Join(failed.Resources, ", "))
	}
	return failed
}

// loadShared fetches cases, persons and departments and replaces the held
// collections. Persons are mapped after departments settle so department
// names resolve against the fresh collection.
func (c *core) loadShared(ctx context.Context, extra ...fetchJob) error {
	var (
		rawCases   []models.RawCase
		rawPersons []models.RawPerson
		depts      []models.Department
	)
	jobs := []fetchJob{
		{name: "cases", run: func(ctx context.Context) (err error) {
			rawCases, err = c.svc.Cases.GetAll(ctx)
			return err
		}},
		{name: "persons", run: func(ctx context.Context) (err error) {
			rawPersons, err = c.svc.Persons.GetAll(ctx)
			return err
		}},
		{name: "departments", run: func(ctx context.Context) (err error) {
			depts, err = c.svc.Departments.GetAll(ctx)
			return err
		}},
	}
	failed := c.fetchAll(ctx, append(jobs, extra...)...)

	cases := c.scope(ctx, mappers.MapCases(rawCases))
	persons := c.scopePersons(mappers.MapPersons(rawPersons, depts))
	if depts == nil {
		depts = []models.Department{}
	}

	c.mu.Lock()
	c.cases = cases
	c.persons = persons
	c.departments = depts
	c.mu.Unlock()

	if failed != nil {
		return failed
	}
	return nil
}

func (c *core) scope(ctx context.Context, cases []models.Case) []models.Case {
	if c.prepareScope != nil {
		c.prepareScope(ctx, cases)
	}
	return c.scopeCases(cases)
}

func (c *core) scopeCases(cases []models.Case) []models.Case {
	if c.caseScope == nil {
		return cases
	}
	out := cases[:0]
	for _, cs := range cases {
		if c.caseScope(cs) {
			out = append(out, cs)
		}
	}
	return out
}

func (c *core) scopePersons(persons []models.Person) []models.Person {
	if c.personScope == nil {
		return persons
	}
	out := persons[:0]
	for _, p := range persons {
		if c.personScope(p) {
			out = append(out, p)
		}
	}
	return out
}

// refetchCases replaces the case collection after a mutation
func (c *core) refetchCases(ctx context.Context) error {
	raw, err := c.svc.Cases.GetAll(ctx)
	if err != nil {
		c.notify(NoticeError, "Failed to refresh cases: %s", userMessage(err))
		return &refreshError{err: err}
	}
	cases := c.scope(ctx, mappers.MapCases(raw))

	c.mu.Lock()
	c.cases = cases
	if c.detail != nil {
		if fresh, ok := findCase(cases, c.detail.Case.ID.String()); ok {
			c.detail.Case = fresh
		}
	}
	c.mu.Unlock()
	return nil
}

// refetchPersons replaces the person collection against held departments
func (c *core) refetchPersons(ctx context.Context) error {
	raw, err := c.svc.Persons.GetAll(ctx)
	if err != nil {
		c.notify(NoticeError, "Failed to refresh persons: %s", userMessage(err))
		return &refreshError{err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.persons = c.scopePersons(mappers.MapPersons(raw, c.departments))
	return nil
}

// refetchDepartments replaces departments and remaps persons, whose
// department references may have changed.
func (c *core) refetchDepartments(ctx context.Context) error {
	var (
		depts      []models.Department
		rawPersons []models.RawPerson
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		depts, err = c.svc.Departments.GetAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		rawPersons, err = c.svc.Persons.GetAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		c.notify(NoticeError, "Failed to refresh departments: %s", userMessage(err))
		return &refreshError{err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.departments = depts
	c.persons = c.scopePersons(mappers.MapPersons(rawPersons, depts))
	return nil
}

// refreshError marks a failed refetch after a successful write. It has
// already been reported as a notice.
type refreshError struct{ err error }

func (e *refreshError) Error() string { return "refresh after write: " + e.err.Error() }
func (e *refreshError) Unwrap() error { return e.err }

// Committed reports whether err only concerns the refetch that followed a
// successful write.
func Committed(err error) bool {
	var rerr *refreshError
	return errors.As(err, &rerr)
}

// mutate runs fn in the mutating phase. fn performs the write and the
// refetch of the owning collection.
func (c *core) mutate(ctx context.Context, what string, fn func(ctx context.Context) error) error {
	c.setPhase(PhaseMutating)
	defer c.setPhase(PhaseReady)

	if err := fn(ctx); err != nil {
		var (
			verr *ValidationError
			rerr *refreshError
		)
		if !errors.As(err, &verr) && !errors.As(err, &rerr) {
			c.notify(NoticeError, "Failed to %s: %s", what, userMessage(err))
		}
		return err
	}
	return nil
}

// OpenCase selects a case and loads its team roster and reports. A result
// that arrives after the selection changed is discarded.
func (c *core) OpenCase(ctx context.Context, id string) error {
	c.mu.Lock()
	held, ok := findCase(c.cases, id)
	c.mu.Unlock()

	if !ok {
		raw, err := c.svc.Cases.GetByID(ctx, id)
		if err != nil {
			c.notify(NoticeError, "Failed to open case: %s", userMessage(err))
			return err
		}
		held = mappers.MapCase(*raw)
		if len(c.scope(ctx, []models.Case{held})) == 0 {
			return ErrForbidden
		}
	}

	c.mu.Lock()
	c.selection++
	seq := c.selection
	c.detail = &CaseView{Case: held, Team: []models.Person{}, Reports: []models.Report{}, Loading: true}
	c.feedback = make(map[models.ID]string)
	c.mu.Unlock()

	// Wave 1: the team formation and the reports are independent.
	var (
		team       *models.TeamFormation
		reports    []models.Report
		reportsErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		t, err := c.svc.Cases.GetTeam(ctx, id)
		switch {
		case transport.IsNotFound(err):
			c.logger.Debugw("Case has no team formation", "case_id", id)
		case err != nil:
			c.logger.Warnw("Failed to load team formation", "case_id", id, "error", err)
		default:
			team = t
		}
		return nil
	})
	g.Go(func() error {
		reports, reportsErr = c.svc.Reports.GetByCase(ctx, id)
		return nil
	})
	_ = g.Wait()

	// Wave 2: resolve roster members from the team's ids.
	var roster []models.Person
	if team != nil {
		roster = c.resolveMembers(ctx, team.MemberIDs)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selection != seq {
		c.logger.Debugw("Discarding stale case detail", "case_id", id)
		return nil
	}
	c.detail.Loading = false
	if roster != nil {
		c.detail.Team = roster
	}
	if reportsErr != nil {
		c.detail.ReportsError = userMessage(reportsErr)
		c.notifyLocked(NoticeError, "Failed to load reports: %s", userMessage(reportsErr))
		return reportsErr
	}
	c.detail.Reports = sortReports(reports)
	return nil
}

// resolveMembers prefers held persons and fetches the rest concurrently.
// Members that cannot be fetched are left out of the roster.
func (c *core) resolveMembers(ctx context.Context, ids []models.ID) []models.Person {
	c.mu.RLock()
	byID := make(map[models.ID]models.Person, len(c.persons))
	for _, p := range c.persons {
		byID[p.ID] = p
	}
	depts := c.departments
	c.mu.RUnlock()

	roster := make([]models.Person, len(ids))
	found := make([]bool, len(ids))

	var g errgroup.Group
	for i, id := range ids {
		if p, ok := byID[id]; ok {
			roster[i], found[i] = p, true
			continue
		}
		i, id := i, id
		g.Go(func() error {
			raw, err := c.svc.Persons.GetByID(ctx, id.String())
			if err != nil {
				c.logger.Warnw("Failed to resolve team member", "person_id", id, "error", err)
				return nil
			}
			roster[i], found[i] = mappers.MapPerson(*raw, depts), true
			return nil
		})
	}
	_ = g.Wait()

	out := make([]models.Person, 0, len(ids))
	for i := range roster {
		if found[i] {
			out = append(out, roster[i])
		}
	}
	return out
}

// RetryReports refetches the open case's reports
func (c *core) RetryReports(ctx context.Context) error {
	c.mu.Lock()
	if c.detail == nil {
		c.mu.Unlock()
		return ErrNoCaseSelected
	}
	seq := c.selection
	id := c.detail.Case.ID.String()
	c.mu.Unlock()

	reports, err := c.svc.Reports.GetByCase(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selection != seq || c.detail == nil {
		return nil
	}
	if err != nil {
		c.detail.ReportsError = userMessage(err)
		c.notifyLocked(NoticeError, "Failed to load reports: %s", userMessage(err))
		return err
	}
	c.detail.ReportsError = ""
	c.detail.Reports = sortReports(reports)
	return nil
}

// CloseCase clears the selection; in-flight detail fetches are discarded
func (c *core) CloseCase() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection++
	c.detail = nil
	c.feedback = make(map[models.ID]string)
}

func findCase(cases []models.Case, id string) (models.Case, bool) {
	for _, cs := range cases {
		if strings.EqualFold(cs.ID.String(), id) {
			return cs, true
		}
	}
	return models.Case{}, false
}

func sortReports(reports []models.Report) []models.Report {
	if reports == nil {
		return []models.Report{}
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].SubmittedAt.After(reports[j].SubmittedAt)
	})
	return reports
}

func clone[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// userMessage is the text shown for err; backend messages are shown as sent
func userMessage(err error) string {
	var apiErr *transport.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
