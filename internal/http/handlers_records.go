package http

import (
	"net/http"

	"admindash/internal/core"
)

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := s.employees.List(r.Context(), sanitizeInput(r.URL.Query().Get("q")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	OK(w, employees)
}

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := s.employees.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	OK(w, e)
}

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	e, ok := decodeEmployee(w, r)
	if !ok {
		return
	}
	created, err := s.employees.Create(r.Context(), e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	Created(w, created)
}

func (s *Server) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	e, ok := decodeEmployee(w, r)
	if !ok {
		return
	}
	updated, err := s.employees.Update(r.Context(), r.PathValue("id"), e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	OK(w, updated)
}

func decodeEmployee(w http.ResponseWriter, r *http.Request) (core.Employee, bool) {
	var e core.Employee
	if err := decodeJSON(w, r, &e); err != nil {
		writeError(w, r, err)
		return e, false
	}
	sanitizeAll(&e.Name, &e.Email, &e.Phone, &e.Department, &e.Designation, &e.Status, &e.RoleID)
	return e, true
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	OK(w, projects)
}

// handleGetProject returns the project with its financials recomputed from
// the current transactions.
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	detail, err := s.projects.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	OK(w, detail)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProject(w, r)
	if !ok {
		return
	}
	created, err := s.projects.Create(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	Created(w, created)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProject(w, r)
	if !ok {
		return
	}
	updated, err := s.projects.Update(r.Context(), r.PathValue("id"), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	OK(w, updated)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	NoContent(w)
}

func decodeProject(w http.ResponseWriter, r *http.Request) (core.Project, bool) {
	var p core.Project
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, err)
		return p, false
	}
	sanitizeAll(&p.Name, &p.AccountID, &p.ClientID, &p.Team, &p.Status, &p.Description)
	for i := range p.TeamMembers {
		p.TeamMembers[i] = sanitizeInput(p.TeamMembers[i])
	}
	return p, true
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.records.Clients(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	OK(w, clients)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.records.Accounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	OK(w, accounts)
}

func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := s.records.Roles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	OK(w, roles)
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	ref, err := s.reports.Export(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	OK(w, map[string]string{"range": ref})
}
