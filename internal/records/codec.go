package records

import (
	"admindash/internal/core"
	"admindash/internal/store"

	"github.com/shopspring/decimal"
)

// DecodeTransaction reads an expense or earning document. Missing or
// malformed fields take their zero value.
func DecodeTransaction(kind core.TransactionKind, d store.Document) core.Transaction {
	f := d.Fields
	return core.Transaction{
		ID:          d.ID,
		Kind:        kind,
		Category:    core.CoerceString(f["category"]),
		Amount:      core.CoerceDecimal(f["amount"]),
		Date:        core.CoerceTime(f["date"]),
		AccountID:   core.CoerceString(f["accountId"]),
		ReferenceID: core.CoerceString(f["referenceId"]),
		ProjectID:   core.CoerceString(f["projectId"]),
	}
}

func DecodeEmployee(d store.Document) core.Employee {
	f := d.Fields
	return core.Employee{
		ID:          d.ID,
		EmployeeID:  core.CoerceString(f["employeeId"]),
		Name:        core.CoerceString(f["name"]),
		Email:       core.CoerceString(f["email"]),
		Phone:       core.CoerceString(f["phone"]),
		Department:  core.CoerceString(f["department"]),
		Designation: core.CoerceString(f["designation"]),
		Status:      core.CoerceString(f["status"]),
		JoiningDate: core.CoerceDate(f["joiningDate"]),
		ExitDate:    core.CoerceDate(f["exitDate"]),
		Salary:      core.CoerceDecimal(f["salary"]),
		RoleID:      core.CoerceString(f["roleId"]),
	}
}

func DecodeProject(d store.Document) core.Project {
	f := d.Fields
	fm, _ := f["financialMetrics"].(map[string]any)
	return core.Project{
		ID:          d.ID,
		ProjectID:   core.CoerceString(f["projectId"]),
		Name:        core.CoerceString(f["name"]),
		AccountID:   core.CoerceString(f["accountId"]),
		ClientID:    core.CoerceString(f["clientId"]),
		Team:        core.CoerceString(f["team"]),
		TeamMembers: core.CoerceStrings(f["teamMembers"]),
		FinancialMetrics: core.FinancialMetrics{
			Budget:           core.CoerceDecimal(fm["budget"]),
			ROI:              core.CoerceDecimal(fm["roi"]),
			BurnRate:         core.CoerceDecimal(fm["burnRate"]),
			ProfitMargin:     core.CoerceDecimal(fm["profitMargin"]),
			RevenueGenerated: core.CoerceDecimal(fm["revenueGenerated"]),
			ExpectedRevenue:  core.CoerceDecimal(fm["expectedRevenue"]),
		},
		StartDate:   core.CoerceDate(f["startDate"]),
		EndDate:     core.CoerceDate(f["endDate"]),
		Status:      core.CoerceString(f["status"]),
		Completion:  core.CoerceInt(f["completion"]),
		Description: core.CoerceString(f["description"]),
	}
}

func DecodeClient(d store.Document) core.Client {
	return core.Client{ID: d.ID, ClientID: core.CoerceString(d.Fields["clientId"]), Name: core.CoerceString(d.Fields["name"])}
}

func DecodeAccount(d store.Document) core.Account {
	return core.Account{ID: d.ID, AccountID: core.CoerceString(d.Fields["accountId"]), Name: core.CoerceString(d.Fields["name"])}
}

func DecodeRole(d store.Document) core.Role {
	return core.Role{ID: d.ID, RoleID: core.CoerceString(d.Fields["roleId"]), Name: core.CoerceString(d.Fields["name"])}
}

// EncodeEmployee produces the stored form. The document id is not a field.
func EncodeEmployee(e core.Employee) map[string]any {
	return map[string]any{
		"employeeId":  e.EmployeeID,
		"name":        e.Name,
		"email":       e.Email,
		"phone":       e.Phone,
		"department":  e.Department,
		"designation": e.Designation,
		"status":      e.Status,
		"joiningDate": e.JoiningDate.String(),
		"exitDate":    e.ExitDate.String(),
		"salary":      number(e.Salary),
		"roleId":      e.RoleID,
	}
}

func EncodeProject(p core.Project) map[string]any {
	members := make([]any, len(p.TeamMembers))
	for i, m := range p.TeamMembers {
		members[i] = m
	}
	return map[string]any{
		"projectId":   p.ProjectID,
		"name":        p.Name,
		"accountId":   p.AccountID,
		"clientId":    p.ClientID,
		"team":        p.Team,
		"teamMembers": members,
		"financialMetrics": map[string]any{
			"budget":           number(p.FinancialMetrics.Budget),
			"roi":              number(p.FinancialMetrics.ROI),
			"burnRate":         number(p.FinancialMetrics.BurnRate),
			"profitMargin":     number(p.FinancialMetrics.ProfitMargin),
			"revenueGenerated": number(p.FinancialMetrics.RevenueGenerated),
			"expectedRevenue":  number(p.FinancialMetrics.ExpectedRevenue),
		},
		"startDate":   p.StartDate.String(),
		"endDate":     p.EndDate.String(),
		"status":      p.Status,
		"completion":  p.Completion,
		"description": p.Description,
	}
}

// Document stores keep plain numbers so other clients of the same
// collections can read them.
func number(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
