package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/uFincs/uFincs-sub004/calendar"
	"github.com/uFincs/uFincs-sub004/model"
	"github.com/uFincs/uFincs-sub004/recurrence"
	"github.com/uFincs/uFincs-sub004/store"
)

// TemplateInfo is a recurring template with its schedule in words and the next
// occurrence still to be realized.
type TemplateInfo struct {
	model.RecurringTemplate
	Schedule string         `json:"schedule"`
	Next     *calendar.Date `json:"next,omitempty"`
}

// TemplatesResponse is the JSON response structure for the templates endpoint.
type TemplatesResponse struct {
	Templates []TemplateInfo `json:"templates"`
}

// Occurrence is one scheduled date of a template.
type Occurrence struct {
	Date     calendar.Date `json:"date"`
	Realized bool          `json:"realized"`
}

// OccurrencesResponse lists a template's occurrences inside a window.
type OccurrencesResponse struct {
	TemplateID  string       `json:"templateId"`
	Start       string       `json:"start"`
	End         string       `json:"end"`
	Occurrences []Occurrence `json:"occurrences"`
}

// handleGetTemplates handles GET requests to /api/templates.
func (s *Server) handleGetTemplates(w http.ResponseWriter, r *http.Request) {
	book, _ := s.snapshot()

	templates := make([]TemplateInfo, 0, len(book.Templates))
	for _, tmpl := range book.Templates {
		schedule, err := recurrence.Describe(tmpl)
		if err != nil {
			writeErrorResponse(w, r, http.StatusUnprocessableEntity, err)
			return
		}

		after := tmpl.StartDate.AddDays(-1)
		if tmpl.LastRealizedDate != nil {
			after = *tmpl.LastRealizedDate
		}
		info := TemplateInfo{RecurringTemplate: tmpl, Schedule: schedule}
		next, ok, err := recurrence.Next(tmpl, after)
		if err != nil {
			writeErrorResponse(w, r, http.StatusUnprocessableEntity, err)
			return
		}
		if ok {
			info.Next = &next
		}
		templates = append(templates, info)
	}

	writeJSONResponse(w, &TemplatesResponse{Templates: templates})
}

// handleGetOccurrences handles GET requests to /api/templates/{id}/occurrences.
//
// Query parameters:
//   - start: first date to list (default: the template start date)
//   - end: last date to list (default: the projection horizon past today)
//
// An occurrence counts as realized when the book holds a transaction for it.
func (s *Server) handleGetOccurrences(w http.ResponseWriter, r *http.Request) {
	book, cfg := s.snapshot()

	id := chi.URLParam(r, "id")
	tmpl, ok := findTemplate(book.Templates, id)
	if !ok {
		writeErrorResponse(w, r, http.StatusNotFound, &store.NotFoundError{Kind: "template", ID: id})
		return
	}

	start, err := dateParam(r, "start")
	if err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}
	if start.IsZero() {
		start = tmpl.StartDate
	}
	end, err := dateParam(r, "end")
	if err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}
	if end.IsZero() {
		today := calendar.Today()
		end, err = calendar.AddMonths(today.Year(), today.Month(), today.Day(), cfg.ProjectionMonths)
		if err != nil {
			writeErrorResponse(w, r, http.StatusInternalServerError, err)
			return
		}
	}

	dates, err := recurrence.Generate(tmpl, start, end)
	if err != nil {
		writeErrorResponse(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	realized := make(map[calendar.Date]bool)
	for _, tx := range book.Transactions {
		if tx.RecurringTemplateID == tmpl.ID {
			realized[tx.Date] = true
		}
	}

	occurrences := make([]Occurrence, len(dates))
	for i, d := range dates {
		occurrences[i] = Occurrence{Date: d, Realized: realized[d]}
	}

	writeJSONResponse(w, &OccurrencesResponse{
		TemplateID:  tmpl.ID,
		Start:       start.String(),
		End:         end.String(),
		Occurrences: occurrences,
	})
}

func findTemplate(templates []model.RecurringTemplate, id string) (model.RecurringTemplate, bool) {
	for _, tmpl := range templates {
		if tmpl.ID == id {
			return tmpl, true
		}
	}
	return model.RecurringTemplate{}, false
}
