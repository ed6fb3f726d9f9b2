package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"mood_journal/internal/models"
	"mood_journal/internal/usecases"
)

type JournalHandler struct {
	service *usecases.JournalService
	logger  *slog.Logger
}

func NewJournalHandler(s *usecases.JournalService, logger *slog.Logger) *JournalHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &JournalHandler{service: s, logger: logger}
}

// Register mounts routes on the given mux.
func (jh *JournalHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", jh.HandleHealth)
	mux.HandleFunc("GET /entries", jh.HandleListEntries)
	mux.HandleFunc("POST /entries", jh.HandleCreateEntry)
	mux.HandleFunc("GET /entries/by-date", jh.HandleEntriesByDate)
	mux.HandleFunc("GET /entries/{id}", jh.HandleGetEntry)
	mux.HandleFunc("PUT /entries/{id}", jh.HandleUpdateEntry)
	mux.HandleFunc("DELETE /entries/{id}", jh.HandleDeleteEntry)
	mux.HandleFunc("GET /stats", jh.HandleStats)
	mux.HandleFunc("GET /keywords/trending", jh.HandleTrendingKeywords)
}

type contentRequest struct {
	Content *string `json:"content"`
}

func (jh *JournalHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (jh *JournalHandler) HandleCreateEntry(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/journal.go HandleCreateEntry"

	content, ok := jh.decodeContent(w, r, op)
	if !ok {
		return
	}

	entry, err := jh.service.CreateEntry(r.Context(), content)
	if err != nil {
		jh.fail(w, r, op, "Failed to create new entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (jh *JournalHandler) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/journal.go HandleListEntries"

	q := r.URL.Query()
	filter := models.EntryFilter{
		Search: q.Get("search"),
		Limit:  queryInt(q.Get("limit")),
		Offset: queryInt(q.Get("offset")),
	}

	entries, err := jh.service.ListEntries(r.Context(), filter)
	if err != nil {
		jh.fail(w, r, op, "Failed to fetch entries", err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (jh *JournalHandler) HandleEntriesByDate(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/journal.go HandleEntriesByDate"

	q := r.URL.Query()
	entries, err := jh.service.EntriesBetween(r.Context(), q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		jh.fail(w, r, op, "Failed to fetch entries by date", err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (jh *JournalHandler) HandleGetEntry(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/journal.go HandleGetEntry"

	entry, err := jh.service.GetEntry(r.Context(), r.PathValue("id"))
	if err != nil {
		jh.fail(w, r, op, "Failed to fetch entry", err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (jh *JournalHandler) HandleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/journal.go HandleUpdateEntry"

	content, ok := jh.decodeContent(w, r, op)
	if !ok {
		return
	}

	entry, err := jh.service.UpdateEntry(r.Context(), r.PathValue("id"), content)
	if err != nil {
		jh.fail(w, r, op, "Failed to update entry", err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (jh *JournalHandler) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/journal.go HandleDeleteEntry"

	if err := jh.service.DeleteEntry(r.Context(), r.PathValue("id")); err != nil {
		jh.fail(w, r, op, "Failed to delete entry", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeContent reads {"content": "..."}. A body that is not JSON or whose
// content is not a string is a 400.
func (jh *JournalHandler) decodeContent(w http.ResponseWriter, r *http.Request, op string) (string, bool) {
	var req contentRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jh.logger.WarnContext(r.Context(), "couldnt decode json", "op", op, "err", err)
		writeErr(w, http.StatusBadRequest, "Content must be a string", err.Error())
		return "", false
	}

	if req.Content == nil {
		return "", true
	}
	return *req.Content, true
}

// fail maps service errors onto status codes and logs every failure.
func (jh *JournalHandler) fail(w http.ResponseWriter, r *http.Request, op, msg string, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidContent), errors.Is(err, models.ErrInvalidDateRange):
		jh.logger.WarnContext(r.Context(), "rejected request", "op", op, "err", err)
		writeErr(w, http.StatusBadRequest, msg, err.Error())
	case errors.Is(err, models.ErrEntryNotFound):
		jh.logger.InfoContext(r.Context(), "entry not found", "op", op, "id", r.PathValue("id"))
		writeErr(w, http.StatusNotFound, "Entry not found", "")
	default:
		jh.logger.ErrorContext(r.Context(), "request failed", "op", op, "err", err)
		writeErr(w, http.StatusInternalServerError, msg, err.Error())
	}
}

// queryInt returns 0 for an absent or unparsable value and lets the
// service apply its defaults.
func queryInt(v string) int {
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
