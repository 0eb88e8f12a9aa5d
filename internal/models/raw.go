package models

import "encoding/json"

// RawCase is a case as the backend emits it. Case details arrive as an
// array under caseDetails or case_details, or as a single caseDetail object.
type RawCase struct {
	ID             ID              `json:"id"`
	Status         string          `json:"status"`
	CreatedAt      string          `json:"createdAt"`
	CreatedAtSnake string          `json:"created_at"`
	ReportedAt     string          `json:"reportedAt"`
	ReportedSnake  string          `json:"reported_at"`
	CaseDetails    []RawCaseDetail `json:"caseDetails"`
	CaseDetailsAlt []RawCaseDetail `json:"case_details"`
	CaseDetail     *RawCaseDetail  `json:"caseDetail"`
}

// RawCaseDetail mirrors the backend's nested case detail record
type RawCaseDetail struct {
	ComplainantName   string          `json:"complainantName"`
	ComplainantAlt    string          `json:"complainant_name"`
	ComplainantPhone  string          `json:"complainantPhone"`
	District          string          `json:"district"`
	Subdivision       string          `json:"subdivision"`
	Address           string          `json:"address"`
	Location          string          `json:"location"`
	GirlName          string          `json:"girlName"`
	GirlFatherName    string          `json:"girlFatherName"`
	GirlAddress       string          `json:"girlAddress"`
	BoyName           string          `json:"boyName"`
	BoyFatherName     string          `json:"boyFatherName"`
	BoyAddress        string          `json:"boyAddress"`
	MarriageDate      string          `json:"marriageDate"`
	TeamID            ID              `json:"teamId"`
	SupervisorID      ID              `json:"supervisorId"`
	DepartmentMembers map[string][]ID `json:"departmentMembers"`
}

// RawPerson is a person as the backend emits it. The department is either
// an id or a department name depending on the endpoint.
type RawPerson struct {
	ID           ID              `json:"id"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Role         string          `json:"role"`
	DepartmentID ID              `json:"departmentId"`
	Department   json.RawMessage `json:"department"`
	Address      string          `json:"address"`
	PhoneNumber  string          `json:"phoneNumber"`
	Phone        string          `json:"phone"`
	Gender       string          `json:"gender"`
	Password     string          `json:"password,omitempty"`
}
