package services

import (
	"github.com/aawaaz/casedesk/internal/transport"
	"go.uber.org/zap"
)

// Set bundles every resource service built on one transport client
type Set struct {
	Cases          *CaseService
	Persons        *PersonService
	Departments    *DepartmentService
	Reports        *ReportService
	TeamFormations *TeamFormationService
	Admins         *AdminService
	Auth           *AuthService
	Health         *HealthService
}

// NewSet creates all resource services
func NewSet(client *transport.Client, logger *zap.SugaredLogger) *Set {
	return &Set{
		Cases:          NewCaseService(client, logger),
		Persons:        NewPersonService(client, logger),
		Departments:    NewDepartmentService(client, logger),
		Reports:        NewReportService(client, logger),
		TeamFormations: NewTeamFormationService(client, logger),
		Admins:         NewAdminService(client, logger),
		Auth:           NewAuthService(client, logger),
		Health:         NewHealthService(client),
	}
}
