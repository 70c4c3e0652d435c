package http

import (
	"context"
	"net/http"

	"expensetracker/internal/config"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

func (s *Server) handleAnalyticsPage(w http.ResponseWriter, r *http.Request) {
	view := analyticsPageView{
		Title: "Analytics",
		Body:  newAnalyticsBody(s.loadSummary(r.Context())),
	}
	s.render(w, r, NewHTMXResponse(), "analytics_page", view)
}

// loadSummary aggregates the user's expenses by category. It always asks
// the backend; the expense list cache belongs to the expenses view. A failed
// fetch yields an empty chart.
func (s *Server) loadSummary(ctx context.Context) core.Summary {
	logger := log.FromContext(ctx).WithComponent(log.ComponentAnalytics)
	auth := authFrom(ctx)

	var items []core.CategoryAmount
	if s.analyticsSource == config.AnalyticsSummary {
		out, err := s.api.ListCategoryAmounts(ctx, auth)
		if err != nil {
			s.upstreamError(ctx, logger, log.OpSummary, err)
			return core.Summarize(nil)
		}
		items = out
	} else {
		list, err := s.api.ListExpenses(ctx, auth)
		if err != nil {
			s.upstreamError(ctx, logger, log.OpList, err)
			return core.Summarize(nil)
		}
		items = list.CategoryAmounts()
	}
	return core.Summarize(items)
}
