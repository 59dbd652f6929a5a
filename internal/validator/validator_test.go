package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/employee_management_sample/recordmanager/internal/domain"
)

func assertFieldError(t *testing.T, err error, field domain.Field) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidationFailed))
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, field, ve.Field)
}

func TestValidateID(t *testing.T) {
	for _, ok := range []string{"E1", "123", "abcXYZ09", "  E2  "} {
		_, err := ValidateID(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "   ", "E-1", "E 1", "E_1", "é1"} {
		_, err := ValidateID(bad)
		assertFieldError(t, err, domain.FieldID)
	}

	id, _ := ValidateID("  E2  ")
	assert.Equal(t, "E2", id)
}

func TestValidateName(t *testing.T) {
	name, err := ValidateName("  Ann Lee ")
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", name)

	for _, bad := range []string{"", "  ", "Ann2", "O'Neil", "Ann-Marie"} {
		_, err := ValidateName(bad)
		assertFieldError(t, err, domain.FieldName)
	}
}

func TestValidateDepartment(t *testing.T) {
	for _, ok := range []string{"Eng", "R-and-D", "Team 42"} {
		_, err := ValidateDepartment(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "\t", "Sales & Ops", "Eng/Infra"} {
		_, err := ValidateDepartment(bad)
		assertFieldError(t, err, domain.FieldDepartment)
	}
}

func TestValidateSalary(t *testing.T) {
	s, err := ValidateSalary("65000.50")
	require.NoError(t, err)
	assert.Equal(t, domain.Salary(6500050), s)

	s, err = ValidateSalary("0")
	require.NoError(t, err)
	assert.Equal(t, domain.Salary(0), s)

	for _, bad := range []string{"", " ", "-1", "abc", "1.001", "Inf"} {
		_, err := ValidateSalary(bad)
		assertFieldError(t, err, domain.FieldSalary)
	}

	_, err = ValidateSalary("-5")
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "cannot be negative", ve.Reason)
}

func TestValidateSalaryReasons(t *testing.T) {
	s, err := ValidateSalary("90000.000")
	require.NoError(t, err)
	assert.Equal(t, domain.Salary(9000000), s)

	tests := []struct {
		in     string
		reason string
	}{
		{"", "cannot be empty"},
		{"lots", "must be a valid number (e.g., 50000 or 65000.50)"},
		{"1.234", "must have at most two decimal places"},
		{"99999999999999999999", "is too large"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ValidateSalary(tt.in)
			assertFieldError(t, err, domain.FieldSalary)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.reason, ve.Reason)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	for _, ok := range []string{"a@x.com", "first.last@mail.example.org", " a@x.io "} {
		_, err := ValidateEmail(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{
		"",
		"ax.com",
		"a@@x.com",
		"a@b@x.com",
		"@x.com",
		"a@",
		"a@xcom",
		"a@.com",
		"a@x.",
		"a b@x.com",
	} {
		_, err := ValidateEmail(bad)
		assertFieldError(t, err, domain.FieldEmail)
	}
}

func TestValidateContact(t *testing.T) {
	c, err := ValidateContact(" 555-0100, Main St ")
	require.NoError(t, err)
	assert.Equal(t, "555-0100, Main St", c)

	_, err = ValidateContact("   ")
	assertFieldError(t, err, domain.FieldContact)
}

func TestValidateDispatchesByField(t *testing.T) {
	v, err := Validate(domain.FieldSalary, "10.5")
	require.NoError(t, err)
	assert.Equal(t, domain.Salary(1050), v)

	v, err = Validate(domain.FieldID, "E1")
	require.NoError(t, err)
	assert.Equal(t, "E1", v)

	_, err = Validate(domain.FieldEmail, "nope")
	assertFieldError(t, err, domain.FieldEmail)

	_, err = Validate(domain.Field("Age"), "3")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrValidationFailed))
}

func TestValidateEmployee(t *testing.T) {
	in := domain.Employee{ID: " E1", Name: "Ann ", Department: "Eng", Salary: domain.SalaryFromUnits(90000), Email: "a@x.com", Contact: "555-0100"}

	out, err := ValidateEmployee(in)
	require.NoError(t, err)
	assert.Equal(t, "E1", out.ID)
	assert.Equal(t, "Ann", out.Name)

	in.Salary = -1
	_, err = ValidateEmployee(in)
	assertFieldError(t, err, domain.FieldSalary)

	in.Salary = 0
	in.Name = ""
	in.Email = "bad"
	_, err = ValidateEmployee(in)
	assertFieldError(t, err, domain.FieldName)
}

func TestValidateUpdate(t *testing.T) {
	name := " Bob "
	out, err := ValidateUpdate(domain.UpdateFields{Name: &name})
	require.NoError(t, err)
	require.NotNil(t, out.Name)
	assert.Equal(t, "Bob", *out.Name)
	assert.Nil(t, out.Email)

	email := "broken"
	_, err = ValidateUpdate(domain.UpdateFields{Name: &name, Email: &email})
	assertFieldError(t, err, domain.FieldEmail)

	neg := domain.Salary(-100)
	_, err = ValidateUpdate(domain.UpdateFields{Salary: &neg})
	assertFieldError(t, err, domain.FieldSalary)

	out, err = ValidateUpdate(domain.UpdateFields{})
	require.NoError(t, err)
	assert.True(t, out.IsEmpty())
}
