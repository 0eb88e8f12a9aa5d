// Package forms describes the input forms each role dashboard offers as
// data, so the view layer renders one generic form instead of bespoke
// markup per dashboard.
package forms

import (
	"github.com/aawaaz/casedesk/internal/models"
)

// Kind is the input widget a field renders as
type Kind string

const (
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	KindEmail    Kind = "email"
	KindPassword Kind = "password"
	KindPhone    Kind = "tel"
	KindSelect   Kind = "select"
	KindDate     Kind = "date"
	KindNumber   Kind = "number"
)

// Field is one form input. Name is the JSON field of the request body.
type Field struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Kind     Kind     `json:"kind"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
	// Source names the dashboard collection a select draws its options from.
	Source string `json:"source,omitempty"`
}

// Form is the schema for one resource
type Form struct {
	Resource string  `json:"resource"`
	Title    string  `json:"title"`
	Method   string  `json:"method"`
	Fields   []Field `json:"fields"`
}

var (
	genders  = []string{"MALE", "FEMALE", "OTHER"}
	statuses = []string{string(models.CaseReported), string(models.CaseInvestigating), string(models.CaseClosed)}
	roles    = []string{
		string(models.RoleMember), string(models.RolePolice), string(models.RoleSDM),
		string(models.RoleDM), string(models.RoleSP), string(models.RoleSuperadmin),
	}
)

var personForm = Form{
	Resource: "persons",
	Title:    "Add person",
	Method:   "POST",
	Fields: []Field{
		{Name: "firstName", Label: "First name", Kind: KindText, Required: true},
		{Name: "lastName", Label: "Last name", Kind: KindText, Required: true},
		{Name: "email", Label: "Email", Kind: KindEmail, Required: true},
		{Name: "password", Label: "Password", Kind: KindPassword, Required: true},
		{Name: "role", Label: "Role", Kind: KindSelect, Required: true, Options: roles},
		{Name: "departmentId", Label: "Department", Kind: KindSelect, Source: "departments"},
		{Name: "address", Label: "Address", Kind: KindTextarea},
		{Name: "phoneNumber", Label: "Phone number", Kind: KindPhone, Required: true},
		{Name: "gender", Label: "Gender", Kind: KindSelect, Required: true, Options: genders},
	},
}

var departmentForm = Form{
	Resource: "departments",
	Title:    "Add department",
	Method:   "POST",
	Fields: []Field{
		{Name: "name", Label: "Name", Kind: KindText, Required: true},
		{Name: "district", Label: "District", Kind: KindText, Required: true},
		{Name: "description", Label: "Description", Kind: KindTextarea},
		{Name: "contactEmail", Label: "Contact email", Kind: KindEmail},
		{Name: "contactPhone", Label: "Contact phone", Kind: KindPhone},
	},
}

var caseForm = Form{
	Resource: "cases",
	Title:    "Register case",
	Method:   "POST",
	Fields: []Field{
		{Name: "title", Label: "Title", Kind: KindText, Required: true},
		{Name: "description", Label: "Description", Kind: KindTextarea, Required: true},
		{Name: "departmentId", Label: "Department", Kind: KindSelect, Required: true, Source: "departments"},
		{Name: "createdBy", Label: "Reported by", Kind: KindSelect, Required: true, Source: "persons"},
	},
}

var reportForm = Form{
	Resource: "reports",
	Title:    "Submit report",
	Method:   "POST",
	Fields: []Field{
		{Name: "caseId", Label: "Case", Kind: KindSelect, Required: true, Source: "cases"},
		{Name: "content", Label: "Report", Kind: KindTextarea, Required: true},
	},
}

var feedbackForm = Form{
	Resource: "feedback",
	Title:    "Review reports",
	Method:   "POST",
	Fields: []Field{
		{Name: "sdmFeedback", Label: "Feedback", Kind: KindTextarea, Required: true},
	},
}

var statusForm = Form{
	Resource: "case-status",
	Title:    "Update case status",
	Method:   "PUT",
	Fields: []Field{
		{Name: "status", Label: "Status", Kind: KindSelect, Required: true, Options: statuses},
	},
}

var registry = map[models.Role][]Form{
	models.RoleSuperadmin: {personForm, departmentForm, caseForm},
	models.RoleAdmin:      {personForm, departmentForm, caseForm},
	models.RoleMember:     {reportForm},
	models.RolePolice:     {reportForm},
	models.RoleSDM:        {feedbackForm},
	models.RoleDM:         {statusForm},
	models.RoleSP:         {statusForm},
}

// For returns the form a role uses for resource
func For(role models.Role, resource string) (Form, bool) {
	for _, f := range registry[role] {
		if f.Resource == resource {
			return f, true
		}
	}
	return Form{}, false
}

// ForRole lists every form available to role
func ForRole(role models.Role) []Form {
	return append([]Form(nil), registry[role]...)
}
