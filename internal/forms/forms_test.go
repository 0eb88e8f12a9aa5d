package forms

import (
	"reflect"
	"strings"
	"testing"

	"github.com/aawaaz/casedesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requiredFields reads the json names of fields whose validate tag starts
// with required
func requiredFields(v any) map[string]bool {
	out := make(map[string]bool)
	t := reflect.TypeOf(v)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if strings.HasPrefix(f.Tag.Get("validate"), "required") {
			out[name] = true
		}
	}
	return out
}

func TestRequiredFlagsMatchRequestValidation(t *testing.T) {
	cases := []struct {
		role     models.Role
		resource string
		request  any
	}{
		{models.RoleSuperadmin, "persons", models.CreatePersonRequest{}},
		{models.RoleSuperadmin, "departments", models.DepartmentRequest{}},
		{models.RoleSuperadmin, "cases", models.CreateCaseRequest{}},
		{models.RoleMember, "reports", models.CreateReportRequest{}},
		{models.RoleSDM, "feedback", models.UpdateReportRequest{}},
	}

	for _, tc := range cases {
		t.Run(tc.resource, func(t *testing.T) {
			form, ok := For(tc.role, tc.resource)
			require.True(t, ok)

			want := requiredFields(tc.request)
			for _, f := range form.Fields {
				assert.Equal(t, want[f.Name], f.Required, "field %s", f.Name)
				delete(want, f.Name)
			}
			// personId is set from the session, never typed in
			delete(want, "personId")
			assert.Empty(t, want, "required fields missing from form")
		})
	}
}

func TestFormsAreScopedByRole(t *testing.T) {
	_, ok := For(models.RoleMember, "persons")
	assert.False(t, ok)

	_, ok = For(models.RoleDM, "feedback")
	assert.False(t, ok)

	form, ok := For(models.RoleSP, "case-status")
	require.True(t, ok)
	assert.Equal(t, "PUT", form.Method)
	assert.Equal(t, []string{"REPORTED", "INVESTIGATING", "CLOSED"}, form.Fields[0].Options)

	assert.Len(t, ForRole(models.RoleSuperadmin), 3)
	assert.Empty(t, ForRole(models.RoleUnknown))
}
