// Package mappers normalizes raw backend payloads into the local entity
// shapes. Every function here is pure and total: any decodable payload maps
// to a fully populated entity, and nothing panics.
package mappers

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/aawaaz/casedesk/internal/models"
	"github.com/google/uuid"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// MapCase converts a raw case into the local Case shape
func MapCase(raw models.RawCase) models.Case {
	c := models.Case{
		ID:          parseUUID(raw.ID.String()),
		Status:      models.CaseStatus(strings.ToUpper(strings.TrimSpace(raw.Status))),
		CreatedAt:   parseTime(firstNonEmpty(raw.CreatedAt, raw.CreatedAtSnake)),
		ReportedAt:  parseTime(firstNonEmpty(raw.ReportedAt, raw.ReportedSnake)),
		CaseDetails: []models.CaseDetail{},
	}
	if c.Status == "" {
		c.Status = models.CaseReported
	}
	if c.ReportedAt.IsZero() {
		c.ReportedAt = c.CreatedAt
	}

	details := raw.CaseDetails
	if len(details) == 0 {
		details = raw.CaseDetailsAlt
	}
	if len(details) == 0 && raw.CaseDetail != nil {
		details = []models.RawCaseDetail{*raw.CaseDetail}
	}
	for _, d := range details {
		c.CaseDetails = append(c.CaseDetails, mapCaseDetail(d))
	}

	c.ComplainantName = models.UnknownComplainant
	c.District = models.UnknownDistrict
	c.Address = models.NoAddress
	if d, ok := c.Detail(); ok {
		c.ComplainantName = firstNonEmpty(d.ComplainantName, models.UnknownComplainant)
		c.District = firstNonEmpty(d.District, models.UnknownDistrict)
		c.Address = firstNonEmpty(d.Address, models.NoAddress)
	}
	return c
}

// MapCases maps a whole collection, preserving order
func MapCases(raw []models.RawCase) []models.Case {
	cases := make([]models.Case, 0, len(raw))
	for _, r := range raw {
		cases = append(cases, MapCase(r))
	}
	return cases
}

func mapCaseDetail(d models.RawCaseDetail) models.CaseDetail {
	detail := models.CaseDetail{
		ComplainantName:   strings.TrimSpace(firstNonEmpty(d.ComplainantName, d.ComplainantAlt)),
		ComplainantPhone:  d.ComplainantPhone,
		District:          strings.TrimSpace(d.District),
		Subdivision:       d.Subdivision,
		Address:           strings.TrimSpace(firstNonEmpty(d.Address, d.Location)),
		GirlName:          d.GirlName,
		GirlFatherName:    d.GirlFatherName,
		GirlAddress:       d.GirlAddress,
		BoyName:           d.BoyName,
		BoyFatherName:     d.BoyFatherName,
		BoyAddress:        d.BoyAddress,
		DepartmentMembers: map[string][]models.ID{},
	}
	if t := parseTime(d.MarriageDate); !t.IsZero() {
		detail.MarriageDate = &t
	}
	if !d.TeamID.IsZero() {
		detail.TeamID = d.TeamID.Ptr()
	}
	if !d.SupervisorID.IsZero() {
		detail.SupervisorID = d.SupervisorID.Ptr()
	}
	for key, ids := range d.DepartmentMembers {
		members := make([]models.ID, 0, len(ids))
		for _, id := range ids {
			if !id.IsZero() {
				members = append(members, id)
			}
		}
		detail.DepartmentMembers[key] = members
	}
	return detail
}

// MapPerson converts a raw person, resolving a department name against the
// supplied departments when the backend did not send an id.
func MapPerson(raw models.RawPerson, departments []models.Department) models.Person {
	p := models.Person{
		ID:          raw.ID,
		FirstName:   strings.TrimSpace(raw.FirstName),
		LastName:    strings.TrimSpace(raw.LastName),
		Email:       strings.TrimSpace(raw.Email),
		Role:        models.ParseRole(raw.Role),
		Address:     raw.Address,
		PhoneNumber: firstNonEmpty(raw.PhoneNumber, raw.Phone),
		Gender:      strings.ToUpper(raw.Gender),
	}
	if p.FirstName == "" && p.LastName == "" && raw.Name != "" {
		p.FirstName, p.LastName = splitName(raw.Name)
	}

	switch {
	case !raw.DepartmentID.IsZero():
		p.DepartmentID = raw.DepartmentID.Ptr()
	default:
		if id, ok := departmentRef(raw.Department, departments); ok {
			p.DepartmentID = id.Ptr()
		}
	}
	return p
}

// MapPersons maps a whole collection against one department snapshot
func MapPersons(raw []models.RawPerson, departments []models.Department) []models.Person {
	persons := make([]models.Person, 0, len(raw))
	for _, r := range raw {
		persons = append(persons, MapPerson(r, departments))
	}
	return persons
}

// ResolveDepartmentID finds the department whose name matches name,
// ignoring case and surrounding space. It only succeeds on a unique match.
func ResolveDepartmentID(name string, departments []models.Department) (models.ID, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}

	var found models.ID
	matches := 0
	for _, d := range departments {
		if strings.EqualFold(strings.TrimSpace(d.Name), name) {
			found = d.ID
			matches++
		}
	}
	if matches != 1 {
		return "", false
	}
	return found, true
}

// departmentRef interprets the polymorphic "department" field: a name,
// a numeric id, or an embedded department object.
func departmentRef(raw json.RawMessage, departments []models.Department) (models.ID, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}

	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return ResolveDepartmentID(name, departments)
	}

	var embedded struct {
		ID   models.ID `json:"id"`
		Name string    `json:"name"`
	}
	if err := json.Unmarshal(raw, &embedded); err == nil {
		if !embedded.ID.IsZero() {
			return embedded.ID, true
		}
		return ResolveDepartmentID(embedded.Name, departments)
	}

	var id models.ID
	if err := json.Unmarshal(raw, &id); err == nil && !id.IsZero() {
		return id, true
	}
	return "", false
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

func parseUUID(s string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
