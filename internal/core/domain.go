package core

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Expense TransactionKind = "expense"
	Earning TransactionKind = "earning"
)

// ProjectRevenueCategory is the earning category that attributes revenue to a
// project through the earning's referenceId.
const ProjectRevenueCategory = "Project Revenue"

var (
	Departments      = []string{"HR", "Engineering", "Marketing", "Sales", "Finance"}
	EmployeeStatuses = []string{"Active", "On Leave", "Resigned", "Terminated"}
	ProjectStatuses  = []string{"Ongoing", "Completed", "On Hold"}
)

type (
	TransactionKind string

	// Date is a calendar day without time of day. The zero value means "not set".
	Date struct {
		time.Time
	}

	// Transaction is a single expense or earning as stored in the document store.
	Transaction struct {
		ID          string          `json:"id"`
		Kind        TransactionKind `json:"type"`
		Category    string          `json:"category"`
		Amount      decimal.Decimal `json:"amount"`
		Date        time.Time       `json:"date"`
		AccountID   string          `json:"accountId"`
		ReferenceID string          `json:"referenceId,omitempty"`
		ProjectID   string          `json:"projectId,omitempty"`
	}

	Employee struct {
		ID          string          `json:"id"`
		EmployeeID  string          `json:"employeeId"`
		Name        string          `json:"name" validate:"required,max=100"`
		Email       string          `json:"email" validate:"omitempty,email"`
		Phone       string          `json:"phone" validate:"max=40"`
		Department  string          `json:"department"`
		Designation string          `json:"designation" validate:"max=100"`
		Status      string          `json:"status"`
		JoiningDate Date            `json:"joiningDate"`
		ExitDate    Date            `json:"exitDate"`
		Salary      decimal.Decimal `json:"salary"`
		RoleID      string          `json:"roleId"`
	}

	FinancialMetrics struct {
		Budget           decimal.Decimal `json:"budget"`
		ROI              decimal.Decimal `json:"roi"`
		BurnRate         decimal.Decimal `json:"burnRate"`
		ProfitMargin     decimal.Decimal `json:"profitMargin"`
		RevenueGenerated decimal.Decimal `json:"revenueGenerated"`
		ExpectedRevenue  decimal.Decimal `json:"expectedRevenue"`
	}

	Project struct {
		ID               string           `json:"id"`
		ProjectID        string           `json:"projectId"`
		Name             string           `json:"name" validate:"required,max=120"`
		AccountID        string           `json:"accountId" validate:"required"`
		ClientID         string           `json:"clientId" validate:"required"`
		Team             string           `json:"team"`
		TeamMembers      []string         `json:"teamMembers"`
		FinancialMetrics FinancialMetrics `json:"financialMetrics"`
		StartDate        Date             `json:"startDate"`
		EndDate          Date             `json:"endDate"`
		Status           string           `json:"status"`
		Completion       int              `json:"completion" validate:"gte=0,lte=100"`
		Description      string           `json:"description" validate:"max=2000"`
	}

	Client struct {
		ID       string `json:"id"`
		ClientID string `json:"clientId"`
		Name     string `json:"name"`
	}

	Account struct {
		ID        string `json:"id"`
		AccountID string `json:"accountId"`
		Name      string `json:"name"`
	}

	Role struct {
		ID     string `json:"id"`
		RoleID string `json:"roleId"`
		Name   string `json:"name"`
	}
)

const dateLayout = "2006-01-02"

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or RFC 3339. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t.Year(), int(t.Month()), t.Day()), nil
}

// IsEmpty returns true if the date is not set
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// String formats the date as YYYY-MM-DD, or "" when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Collection returns the document collection that holds transactions of this kind.
func (k TransactionKind) Collection() string {
	if k == Earning {
		return "earnings"
	}
	return "expenses"
}

// Label is the human-readable kind used in detail tables.
func (k TransactionKind) Label() string {
	if k == Earning {
		return "Earning"
	}
	return "Expense"
}

// Key returns the identifier used to attribute transactions to a project:
// the projectId when set, otherwise the document id.
func (p Project) Key() string {
	if strings.TrimSpace(p.ProjectID) != "" {
		return p.ProjectID
	}
	return p.ID
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
