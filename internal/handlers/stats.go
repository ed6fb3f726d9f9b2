package handlers

import "net/http"

func (jh *JournalHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/stats.go HandleStats"

	stats, err := jh.service.Stats(r.Context())
	if err != nil {
		jh.fail(w, r, op, "Failed to fetch stats", err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (jh *JournalHandler) HandleTrendingKeywords(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/stats.go HandleTrendingKeywords"

	keywords, err := jh.service.TrendingKeywords(r.Context(), queryInt(r.URL.Query().Get("limit")))
	if err != nil {
		jh.fail(w, r, op, "Failed to fetch trending keywords", err)
		return
	}

	writeJSON(w, http.StatusOK, keywords)
}
