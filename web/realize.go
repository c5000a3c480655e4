package web

import (
	"errors"
	"net/http"

	"github.com/uFincs/uFincs-sub004/loader"
	"github.com/uFincs/uFincs-sub004/logger"
	"github.com/uFincs/uFincs-sub004/model"
	"github.com/uFincs/uFincs-sub004/realize"
	"github.com/uFincs/uFincs-sub004/store"
)

// RealizeResponse reports what a realization run persisted.
type RealizeResponse struct {
	AsOf      string              `json:"asOf"`
	Created   []model.Transaction `json:"created"`
	Templates []string            `json:"templates"`
}

var errIncludes = errors.New("cannot realize into a book that includes other files")

// handlePostRealize handles POST requests to /api/realize?asOf=YYYY-MM-DD.
// It realizes every template through asOf (default: today), commits the results and
// rewrites the root file.
func (s *Server) handlePostRealize(w http.ResponseWriter, r *http.Request) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	asOf, err := todayParam(r, "asOf")
	if err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}

	s.mu.RLock()
	book, root, includes := s.book, s.rootFile, s.includeFiles
	s.mu.RUnlock()

	if len(includes) > 0 {
		writeErrorResponse(w, r, http.StatusConflict, errIncludes)
		return
	}

	ctx := r.Context()
	st, err := store.FromSnapshot(ctx, store.Snapshot{
		Accounts:     book.Accounts,
		Transactions: book.Transactions,
		Templates:    book.Templates,
	})
	if err != nil {
		writeErrorResponse(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	results, err := realize.New(realize.WithExisting(st)).RealizeAll(ctx, st.Templates(ctx), asOf)
	if err != nil {
		writeErrorResponse(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	response := &RealizeResponse{AsOf: asOf.String(), Created: []model.Transaction{}, Templates: []string{}}
	for _, res := range results {
		original, err := st.Template(ctx, res.Template.ID)
		if err != nil {
			writeErrorResponse(w, r, http.StatusInternalServerError, err)
			return
		}
		if !res.Advanced(original.LastRealizedDate) {
			continue
		}
		if err := st.Commit(ctx, res); err != nil {
			writeErrorResponse(w, r, http.StatusConflict, err)
			return
		}
		response.Created = append(response.Created, res.Created...)
		response.Templates = append(response.Templates, res.Template.ID)
	}

	if len(response.Templates) > 0 {
		snap := st.Snapshot(ctx)
		updated := &loader.Book{
			Options:      book.Options,
			Accounts:     snap.Accounts,
			Transactions: snap.Transactions,
			Templates:    snap.Templates,
		}
		if err := loader.Save(ctx, root, updated); err != nil {
			writeErrorResponse(w, r, http.StatusInternalServerError, err)
			return
		}
		if err := s.reloadLedger(ctx); err != nil {
			writeErrorResponse(w, r, http.StatusInternalServerError, err)
			return
		}
		logger.FromContext(ctx).Info().
			Int("transactions", len(response.Created)).
			Int("templates", len(response.Templates)).
			Str("asOf", response.AsOf).
			Msg("realized templates")
		s.broadcast("reload")
	}

	writeJSONResponse(w, response)
}
