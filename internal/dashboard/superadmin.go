package dashboard

import (
	"context"
	"strconv"

	"github.com/aawaaz/casedesk/internal/models"
	"github.com/aawaaz/casedesk/internal/services"
	"go.uber.org/zap"
)

// Superadmin manages persons, departments and cases and sees admin accounts
type Superadmin struct {
	core
	admins []models.AdminUser
}

// NewSuperadmin creates the superadmin controller
func NewSuperadmin(s models.Session, svc *services.Set, logger *zap.SugaredLogger) *Superadmin {
	d := &Superadmin{}
	d.init(s, svc, logger)
	return d
}

// Load fetches every collection the superadmin dashboard renders
func (d *Superadmin) Load(ctx context.Context) error {
	d.setPhase(PhaseLoading)
	defer d.setPhase(PhaseReady)

	var admins []models.AdminUser
	err := d.loadShared(ctx, fetchJob{name: "admins", run: func(ctx context.Context) (err error) {
		admins, err = d.svc.Admins.GetAll(ctx)
		return err
	}})
	if admins == nil {
		admins = []models.AdminUser{}
	}

	d.mu.Lock()
	d.admins = admins
	d.mu.Unlock()
	return err
}

// Snapshot returns a copy of the dashboard state
func (d *Superadmin) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	snap := d.snapshotLocked()
	snap.Admins = clone(d.admins)
	return snap
}

// CreatePerson validates req, creates the person and refetches persons.
// The password is cleared from req whatever the outcome.
func (d *Superadmin) CreatePerson(ctx context.Context, req *models.CreatePersonRequest) error {
	if err := validate(d.validate, req); err != nil {
		req.Password = ""
		return err
	}
	return d.mutate(ctx, "create person", func(ctx context.Context) error {
		if _, err := d.svc.Persons.Create(ctx, req); err != nil {
			return err
		}
		d.notify(NoticeInfo, "Person created")
		return d.refetchPersons(ctx)
	})
}

// UpdatePerson applies a partial update and refetches persons
func (d *Superadmin) UpdatePerson(ctx context.Context, id string, req models.UpdatePersonRequest) error {
	if err := validate(d.validate, req); err != nil {
		return err
	}
	return d.mutate(ctx, "update person", func(ctx context.Context) error {
		if _, err := d.svc.Persons.Update(ctx, id, req); err != nil {
			return err
		}
		return d.refetchPersons(ctx)
	})
}

// DeletePerson removes a person and refetches persons
func (d *Superadmin) DeletePerson(ctx context.Context, id string) error {
	return d.mutate(ctx, "delete person", func(ctx context.Context) error {
		if err := d.svc.Persons.Delete(ctx, id); err != nil {
			return err
		}
		return d.refetchPersons(ctx)
	})
}

// CreateDepartment validates req, creates the department and refetches
func (d *Superadmin) CreateDepartment(ctx context.Context, req models.DepartmentRequest) error {
	if err := validate(d.validate, req); err != nil {
		return err
	}
	return d.mutate(ctx, "create department", func(ctx context.Context) error {
		if _, err := d.svc.Departments.Create(ctx, req); err != nil {
			return err
		}
		d.notify(NoticeInfo, "Department created")
		return d.refetchDepartments(ctx)
	})
}

// UpdateDepartment replaces a department's fields and refetches
func (d *Superadmin) UpdateDepartment(ctx context.Context, id string, req models.DepartmentRequest) error {
	if err := validate(d.validate, req); err != nil {
		return err
	}
	return d.mutate(ctx, "update department", func(ctx context.Context) error {
		if _, err := d.svc.Departments.Update(ctx, id, req); err != nil {
			return err
		}
		return d.refetchDepartments(ctx)
	})
}

// DeleteDepartment removes a department and refetches
func (d *Superadmin) DeleteDepartment(ctx context.Context, id string) error {
	return d.mutate(ctx, "delete department", func(ctx context.Context) error {
		if err := d.svc.Departments.Delete(ctx, id); err != nil {
			return err
		}
		return d.refetchDepartments(ctx)
	})
}

// CreateCase validates req, creates the case and refetches cases. The
// creator defaults to the signed-in user when it is numeric.
func (d *Superadmin) CreateCase(ctx context.Context, req models.CreateCaseRequest) error {
	if req.CreatedBy == 0 {
		if id, err := strconv.ParseInt(d.session.UserID.String(), 10, 64); err == nil {
			req.CreatedBy = id
		}
	}
	if err := validate(d.validate, req); err != nil {
		return err
	}
	return d.mutate(ctx, "create case", func(ctx context.Context) error {
		created, err := d.svc.Cases.Create(ctx, req)
		if err != nil {
			return err
		}
		d.logger.Infow("Case created", "case_id", created.ID)
		d.notify(NoticeInfo, "Case created")
		return d.refetchCases(ctx)
	})
}

// UpdateCase applies a partial update and refetches cases
func (d *Superadmin) UpdateCase(ctx context.Context, id string, req models.UpdateCaseRequest) error {
	if err := validate(d.validate, req); err != nil {
		return err
	}
	return d.mutate(ctx, "update case", func(ctx context.Context) error {
		if _, err := d.svc.Cases.Update(ctx, id, req); err != nil {
			return err
		}
		return d.refetchCases(ctx)
	})
}

// DeleteCase removes a case, closing it first when it is open
func (d *Superadmin) DeleteCase(ctx context.Context, id string) error {
	return d.mutate(ctx, "delete case", func(ctx context.Context) error {
		if err := d.svc.Cases.Delete(ctx, id); err != nil {
			return err
		}

		d.mu.RLock()
		open := d.detail != nil && d.detail.Case.ID.String() == id
		d.mu.RUnlock()
		if open {
			d.CloseCase()
		}
		return d.refetchCases(ctx)
	})
}
