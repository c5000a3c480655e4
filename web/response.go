package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/uFincs/uFincs-sub004/calendar"
	errfmt "github.com/uFincs/uFincs-sub004/errors"
	"github.com/uFincs/uFincs-sub004/logger"
)

// ErrorResponse is the body of every failed API request.
type ErrorResponse struct {
	Errors []errfmt.ErrorJSON `json:"errors"`
}

// writeJSONResponse writes a JSON response to the http.ResponseWriter.
func writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeErrorResponse writes err, flattened, with the given status code.
func writeErrorResponse(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := ErrorResponse{Errors: errfmt.NewJSONFormatter().FormatAllToSlice([]error{err})}
	_ = json.NewEncoder(w).Encode(body)
}

// dateParam reads an optional YYYY-MM-DD query parameter. A missing parameter yields
// the zero Date.
func dateParam(r *http.Request, name string) (calendar.Date, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return calendar.Date{}, nil
	}
	d, err := calendar.Parse(value)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("invalid %s parameter: %w", name, err)
	}
	return d, nil
}

// todayParam reads the optional "today" parameter, defaulting to the current date.
func todayParam(r *http.Request, name string) (calendar.Date, error) {
	d, err := dateParam(r, name)
	if err != nil || !d.IsZero() {
		return d, err
	}
	return calendar.Today(), nil
}

func errInvalidParam(name, value string) error {
	return fmt.Errorf("invalid %s parameter %q", name, value)
}
