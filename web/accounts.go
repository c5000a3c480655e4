package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slices"

	errfmt "github.com/uFincs/uFincs-sub004/errors"
	"github.com/uFincs/uFincs-sub004/ledger"
	"github.com/uFincs/uFincs-sub004/model"
	"github.com/uFincs/uFincs-sub004/store"
)

// StatusResponse describes the served book.
type StatusResponse struct {
	Version    string             `json:"version"`
	CommitSHA  string             `json:"commitSha"`
	ReadOnly   bool               `json:"readOnly"`
	Root       string             `json:"root"`
	Includes   []string           `json:"includes"`
	Currency   string             `json:"currency"`
	MinorUnits int32              `json:"minorUnits"`
	Errors     []errfmt.ErrorJSON `json:"errors"`
}

// AccountsResponse is the JSON response structure for the accounts endpoint.
type AccountsResponse struct {
	Accounts []model.Account `json:"accounts"`
}

// BalancesResponse wraps a running balance series. Amounts are in minor units.
type BalancesResponse struct {
	Currency   string `json:"currency"`
	MinorUnits int32  `json:"minorUnits"`
	Today      int64  `json:"today"`
	Final      int64  `json:"final"`
	*ledger.BalanceSeries
}

// SummaryResponse wraps a ledger summary. Amounts are in minor units.
type SummaryResponse struct {
	AsOf       string `json:"asOf"`
	Currency   string `json:"currency"`
	MinorUnits int32  `json:"minorUnits"`
	Balanced   bool   `json:"balanced"`
	*ledger.Summary
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	includes := s.includeFiles
	if includes == nil {
		includes = []string{}
	}

	writeJSONResponse(w, &StatusResponse{
		Version:    s.Version,
		CommitSHA:  s.CommitSHA,
		ReadOnly:   s.ReadOnly,
		Root:       s.rootFile,
		Includes:   includes,
		Currency:   s.config.Currency,
		MinorUnits: s.config.MinorUnits,
		Errors:     errfmt.NewJSONFormatter().FormatAllToSlice(s.problems),
	})
}

// handleGetAccounts handles GET requests to /api/accounts.
// Returns all accounts, sorted by type and then by name.
func (s *Server) handleGetAccounts(w http.ResponseWriter, r *http.Request) {
	book, _ := s.snapshot()

	accounts := slices.Clone(book.Accounts)
	if accounts == nil {
		accounts = []model.Account{}
	}
	slices.SortStableFunc(accounts, func(a, b model.Account) int {
		if a.Type != b.Type {
			return int(a.Type) - int(b.Type)
		}
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})

	writeJSONResponse(w, &AccountsResponse{Accounts: accounts})
}

// handleGetBalances handles GET requests to /api/accounts/{id}/balances.
//
// Query parameters:
//   - start, end: optional window (YYYY-MM-DD); earlier activity folds into the starting balance
//   - project: "true" folds in occurrences of templates that are not realized yet
//   - months: projection horizon when no end date is given
//   - today: date separating current from future points (default: today)
func (s *Server) handleGetBalances(w http.ResponseWriter, r *http.Request) {
	book, cfg := s.snapshot()

	id := chi.URLParam(r, "id")
	account, ok := findAccount(book.Accounts, id)
	if !ok {
		writeErrorResponse(w, r, http.StatusNotFound, &store.NotFoundError{Kind: "account", ID: id})
		return
	}

	start, err := dateParam(r, "start")
	if err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}
	end, err := dateParam(r, "end")
	if err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}
	today, err := todayParam(r, "today")
	if err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}

	opts := []ledger.Option{ledger.WithToday(today)}
	if !start.IsZero() || !end.IsZero() {
		opts = append(opts, ledger.WithWindow(start, end))
	}
	if months := r.URL.Query().Get("months"); months != "" {
		n, err := strconv.Atoi(months)
		if err != nil || n < 1 {
			writeErrorResponse(w, r, http.StatusBadRequest, errInvalidParam("months", months))
			return
		}
		opts = append(opts, ledger.WithHorizon(n))
	}

	ctx := cfg.WithContext(r.Context())

	var series *ledger.BalanceSeries
	if r.URL.Query().Get("project") == "true" {
		series, err = ledger.Project(ctx, account, book.Transactions, book.Templates, opts...)
	} else {
		series, err = ledger.ComputeRunningBalances(account, account.OpeningBalance, book.Transactions, opts...)
	}
	if err != nil {
		writeErrorResponse(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	writeJSONResponse(w, &BalancesResponse{
		Currency:      cfg.Currency,
		MinorUnits:    cfg.MinorUnits,
		Today:         series.Today(),
		Final:         series.Final(),
		BalanceSeries: series,
	})
}

// handleGetSummary handles GET requests to /api/summary?asOf=YYYY-MM-DD.
func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	book, cfg := s.snapshot()

	asOf, err := todayParam(r, "asOf")
	if err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}

	summary, err := ledger.Summarize(r.Context(), book.Accounts, book.Transactions, ledger.WithToday(asOf))
	if err != nil {
		writeErrorResponse(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	writeJSONResponse(w, &SummaryResponse{
		AsOf:       asOf.String(),
		Currency:   cfg.Currency,
		MinorUnits: cfg.MinorUnits,
		Balanced:   summary.Balanced(),
		Summary:    summary,
	})
}

func findAccount(accounts []model.Account, id string) (model.Account, bool) {
	for _, acc := range accounts {
		if acc.ID == id {
			return acc, true
		}
	}
	return model.Account{}, false
}
