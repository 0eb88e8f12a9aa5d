package mappers

import (
	"encoding/json"
	"testing"

	"github.com/aawaaz/casedesk/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeCase(t *testing.T, payload string) models.RawCase {
	t.Helper()
	var raw models.RawCase
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return raw
}

func TestMapCaseWithoutDetailsUsesFallbacks(t *testing.T) {
	raw := decodeCase(t, `{"id":"5b0f7e44-6f3c-4a54-a3b4-0b2f4c3b8e10","status":"reported","createdAt":"2024-03-01T10:00:00Z"}`)

	c := MapCase(raw)

	assert.Equal(t, models.UnknownComplainant, c.ComplainantName)
	assert.Equal(t, models.UnknownDistrict, c.District)
	assert.Equal(t, models.NoAddress, c.Address)
	assert.Equal(t, models.CaseReported, c.Status)
	assert.NotNil(t, c.CaseDetails)
	assert.Empty(t, c.CaseDetails)
	assert.Equal(t, c.CreatedAt, c.ReportedAt)
}

func TestMapCaseZeroValueNeverPanics(t *testing.T) {
	c := MapCase(models.RawCase{})
	assert.Equal(t, uuid.Nil, c.ID)
	assert.Equal(t, models.UnknownComplainant, c.ComplainantName)
	assert.Equal(t, models.UnknownDistrict, c.District)
	assert.Equal(t, models.NoAddress, c.Address)
}

func TestMapCaseDetailShapes(t *testing.T) {
	cases := map[string]string{
		"array":  `{"caseDetails":[{"complainantName":"Rekha Das","district":"Kamrup","address":"Ward 4"}]}`,
		"snake":  `{"case_details":[{"complainant_name":"Rekha Das","district":"Kamrup","location":"Ward 4"}]}`,
		"object": `{"caseDetail":{"complainantName":"Rekha Das","district":"Kamrup","address":"Ward 4"}}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			c := MapCase(decodeCase(t, payload))
			assert.Equal(t, "Rekha Das", c.ComplainantName)
			assert.Equal(t, "Kamrup", c.District)
			assert.Equal(t, "Ward 4", c.Address)
			require.Len(t, c.CaseDetails, 1)
		})
	}
}

func TestMapCaseBlankDetailFieldsFallBack(t *testing.T) {
	c := MapCase(decodeCase(t, `{"caseDetails":[{"complainantName":"  ","departmentMembers":{"police":[3,"",4]}}]}`))
	assert.Equal(t, models.UnknownComplainant, c.ComplainantName)
	assert.Equal(t, models.UnknownDistrict, c.District)
	assert.Equal(t, models.NoAddress, c.Address)

	d, ok := c.Detail()
	require.True(t, ok)
	assert.Equal(t, []models.ID{"3", "4"}, d.DepartmentMembers["police"])
	assert.True(t, d.HasMember("4"))
}

var departments = []models.Department{
	{ID: "1", Name: "Social Welfare"},
	{ID: "2", Name: "Police"},
}

func TestMapPersonResolvesDepartmentName(t *testing.T) {
	raw := models.RawPerson{ID: "9", Name: "Anil Kumar Bora", Department: json.RawMessage(`"  police "`)}

	p := MapPerson(raw, departments)

	require.NotNil(t, p.DepartmentID)
	assert.Equal(t, models.ID("2"), *p.DepartmentID)
	assert.Equal(t, "Anil Kumar", p.FirstName)
	assert.Equal(t, "Bora", p.LastName)
}

func TestMapPersonUnmatchedDepartmentStaysUnset(t *testing.T) {
	raw := models.RawPerson{ID: "9", Department: json.RawMessage(`"Health"`)}
	assert.Nil(t, MapPerson(raw, departments).DepartmentID)

	ambiguous := append([]models.Department{{ID: "3", Name: "POLICE"}}, departments...)
	raw.Department = json.RawMessage(`"police"`)
	assert.Nil(t, MapPerson(raw, ambiguous).DepartmentID)
}

func TestMapPersonDepartmentVariants(t *testing.T) {
	withID := MapPerson(models.RawPerson{DepartmentID: "1"}, nil)
	require.NotNil(t, withID.DepartmentID)
	assert.Equal(t, models.ID("1"), *withID.DepartmentID)

	numeric := MapPerson(models.RawPerson{Department: json.RawMessage(`2`)}, nil)
	require.NotNil(t, numeric.DepartmentID)
	assert.Equal(t, models.ID("2"), *numeric.DepartmentID)

	embedded := MapPerson(models.RawPerson{Department: json.RawMessage(`{"name":"social welfare"}`)}, departments)
	require.NotNil(t, embedded.DepartmentID)
	assert.Equal(t, models.ID("1"), *embedded.DepartmentID)
}

func TestMapPersonNormalizesRoleAndPhone(t *testing.T) {
	p := MapPerson(models.RawPerson{Role: "sdm", Phone: "98640", Gender: "female"}, nil)
	assert.Equal(t, models.RoleSDM, p.Role)
	assert.Equal(t, "98640", p.PhoneNumber)
	assert.Equal(t, "FEMALE", p.Gender)
}
