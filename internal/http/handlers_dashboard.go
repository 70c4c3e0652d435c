package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"expensetracker/internal/core"
	"expensetracker/internal/form"
)

// handleDashboard renders the whole dashboard with the tab named by ?tab=.
// Unknown tabs fall back to add.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	tab, _ := core.ParseTab(r.URL.Query().Get("tab"))
	s.renderDashboard(w, r, s.loadBody(r.Context(), tab), nil)
}

// handleDashboardTab returns the body of one tab for the sidebar to swap
// in. Outside htmx it redirects to the full dashboard.
func (s *Server) handleDashboardTab(w http.ResponseWriter, r *http.Request) {
	tab, ok := core.ParseTab(chi.URLParam(r, "tab"))
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	if !isHTMX(r) {
		http.Redirect(w, r, RouteDashboard+"?tab="+tab.String(), http.StatusSeeOther)
		return
	}
	body := s.loadBody(r.Context(), tab)
	s.render(w, r, NewHTMXResponse(), fragmentFor(body), body)
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, body dashboardBody, note *Notification) {
	s.render(w, r, NewHTMXResponse(), "dashboard_page", newDashboardView(body, note))
}

// loadBody fetches whatever the tab shows when it is opened.
func (s *Server) loadBody(ctx context.Context, tab core.Tab) dashboardBody {
	switch tab {
	case core.TabView:
		return newViewExpensesBody(s.fetchExpenses(ctx))
	case core.TabAnalytics:
		return newAnalyticsBody(s.loadSummary(ctx))
	default:
		return newAddExpenseBody(form.NewExpenseForm(s.validator))
	}
}
