// Package models defines the data structures used across the application.
// Entities here are the stable local shapes the dashboards render; raw
// backend payloads live in raw.go and are normalized by the mappers package.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the single authenticated identity held by the running console.
type Session struct {
	UserID       ID        `json:"userId"`
	DisplayName  string    `json:"displayName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	AuthToken    string    `json:"-"`
	DepartmentID *ID       `json:"departmentId,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt,omitempty"`
}

// Department is an administrative unit persons belong to
type Department struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	District     string `json:"district"`
	Description  string `json:"description,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`
}

// Person is a staff member. DepartmentID is a weak reference resolved
// against the fetched department collection and may be unset.
type Person struct {
	ID           ID     `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	DepartmentID *ID    `json:"departmentId,omitempty"`
	Address      string `json:"address"`
	PhoneNumber  string `json:"phoneNumber"`
	Gender       string `json:"gender"`
}

// FullName joins first and last name, skipping empty parts
func (p Person) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// CaseStatus is the lifecycle state of a case
type CaseStatus string

const (
	CaseReported      CaseStatus = "REPORTED"
	CaseInvestigating CaseStatus = "INVESTIGATING"
	CaseClosed        CaseStatus = "CLOSED"
)

// Fallback literals for derived case fields when no case detail is present.
const (
	UnknownComplainant = "Unknown Complainant"
	UnknownDistrict    = "Unknown District"
	NoAddress          = "No address provided"
)

// Case is a reported incident. ComplainantName, District and Address are
// derived from the first case detail and are always populated.
type Case struct {
	ID          uuid.UUID    `json:"id"`
	Status      CaseStatus   `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	ReportedAt  time.Time    `json:"reportedAt"`
	CaseDetails []CaseDetail `json:"caseDetails"`

	ComplainantName string `json:"complainantName"`
	District        string `json:"district"`
	Address         string `json:"address"`
}

// Detail returns the first case detail, if any
func (c Case) Detail() (CaseDetail, bool) {
	if len(c.CaseDetails) == 0 {
		return CaseDetail{}, false
	}
	return c.CaseDetails[0], true
}

// CaseDetail carries the domain fields of a case
type CaseDetail struct {
	ComplainantName   string          `json:"complainantName"`
	ComplainantPhone  string          `json:"complainantPhone,omitempty"`
	District          string          `json:"district"`
	Subdivision       string          `json:"subdivision,omitempty"`
	Address           string          `json:"address"`
	GirlName          string          `json:"girlName,omitempty"`
	GirlFatherName    string          `json:"girlFatherName,omitempty"`
	GirlAddress       string          `json:"girlAddress,omitempty"`
	BoyName           string          `json:"boyName,omitempty"`
	BoyFatherName     string          `json:"boyFatherName,omitempty"`
	BoyAddress        string          `json:"boyAddress,omitempty"`
	MarriageDate      *time.Time      `json:"marriageDate,omitempty"`
	TeamID            *ID             `json:"teamId,omitempty"`
	SupervisorID      *ID             `json:"supervisorId,omitempty"`
	DepartmentMembers map[string][]ID `json:"departmentMembers"`
}

// HasMember reports whether the person is listed under any department role key
func (d CaseDetail) HasMember(id ID) bool {
	for _, ids := range d.DepartmentMembers {
		for _, member := range ids {
			if member == id {
				return true
			}
		}
	}
	return false
}

// Report is a case worker's submission against a case
type Report struct {
	ID          ID        `json:"id"`
	CaseID      string    `json:"caseId"`
	PersonID    ID        `json:"personId"`
	Content     string    `json:"content"`
	SubmittedAt time.Time `json:"submittedAt"`
	SDMFeedback *string   `json:"sdmFeedback,omitempty"`
}

// TeamFormation associates persons with a case
type TeamFormation struct {
	ID        ID     `json:"id,omitempty"`
	CaseID    string `json:"caseId"`
	MemberIDs []ID   `json:"member_ids"`
}

// TeamResponse is a case-specific response submitted against a team formation
type TeamResponse struct {
	TeamFormationID ID        `json:"teamFormationId,omitempty"`
	PersonID        ID        `json:"personId,omitempty"`
	Response        string    `json:"response"`
	SubmittedAt     time.Time `json:"submittedAt,omitempty"`
}

// AdminUser is a backend administrator account
type AdminUser struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// HealthStatus represents the console health check response
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Backend string `json:"backend,omitempty"`
	Storage string `json:"storage,omitempty"`
}
