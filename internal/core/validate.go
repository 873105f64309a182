package core

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so clients can flag the right input.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func structErrors(s any) *ValidationError {
	ve := NewValidationError()
	err := validate.Struct(s)
	if err == nil {
		return ve
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		ve.Add("_", err.Error())
		return ve
	}
	for _, fe := range fieldErrs {
		ve.Add(fe.Field(), describe(fe))
	}
	return ve
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

// Validate checks the submitted employee fields.
func (e Employee) Validate() error {
	ve := structErrors(e)
	if e.Department != "" && !contains(Departments, e.Department) {
		ve.Add("department", "must be one of "+strings.Join(Departments, ", "))
	}
	if e.Status != "" && !contains(EmployeeStatuses, e.Status) {
		ve.Add("status", "must be one of "+strings.Join(EmployeeStatuses, ", "))
	}
	if e.Salary.IsNegative() {
		ve.Add("salary", "cannot be negative")
	}
	if !e.ExitDate.IsEmpty() && !e.JoiningDate.IsEmpty() && e.ExitDate.Before(e.JoiningDate.Time) {
		ve.Add("exitDate", "must not be before the joining date")
	}
	return ve.OrNil()
}

// Validate checks the submitted project fields. Whether the referenced client
// and account exist is checked against the store by the project service.
func (p Project) Validate() error {
	ve := structErrors(p)
	if p.Status != "" && !contains(ProjectStatuses, p.Status) {
		ve.Add("status", "must be one of "+strings.Join(ProjectStatuses, ", "))
	}
	if p.FinancialMetrics.Budget.IsNegative() {
		ve.Add("financialMetrics.budget", "cannot be negative")
	}
	if !p.EndDate.IsEmpty() && !p.StartDate.IsEmpty() && p.EndDate.Before(p.StartDate.Time) {
		ve.Add("endDate", "must not be before the start date")
	}
	return ve.OrNil()
}
