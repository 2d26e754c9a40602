package http

import (
	"fmt"
	"net/http"
)

func (h *handler) periodStats(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.Stats.Stats(r.Context())
	if err != nil {
		return fmt.Errorf("stats service stats: %w", err)
	}

	return writeJSON(w, http.StatusOK, PeriodStatsResponse{
		Monthly:   newPeriodTotalResponses(stats.Monthly),
		Quarterly: newPeriodTotalResponses(stats.Quarterly),
	})
}

func (h *handler) topProducts(w http.ResponseWriter, r *http.Request) error {
	products, err := h.Stats.TopProducts(r.Context())
	if err != nil {
		return fmt.Errorf("stats service top products: %w", err)
	}

	return writeJSON(w, http.StatusOK, products)
}

func (h *handler) salesTimeline(w http.ResponseWriter, r *http.Request) error {
	totals, err := h.Stats.SalesTimeline(r.Context())
	if err != nil {
		return fmt.Errorf("stats service sales timeline: %w", err)
	}

	items := make([]DailyTotalResponse, 0, len(totals))
	for _, t := range totals {
		items = append(items, DailyTotalResponse{Date: formatDate(t.Date), Sum: formatMoney(t.Sum)})
	}

	return writeJSON(w, http.StatusOK, items)
}
