// Package realize turns due occurrences of recurring templates into ledger transactions.
//
// Realization is incremental: each template carries a checkpoint (LastRealizedDate) and
// a call only considers occurrences after it, up to and including the as-of date. The
// checkpoint travels in and out by value. Realize never mutates its input; it returns
// the created transactions together with a copy of the template whose checkpoint has
// been advanced, and the caller persists both in one atomic step.
//
// Because the window always resumes after the checkpoint, realizing the same template
// twice with the same as-of date creates nothing the second time. If a caller persisted
// transactions but lost the checkpoint update, WithExisting lets realization skip the
// occurrences that already exist, and deterministic IDs make a replayed transaction
// identical to the one already stored.
package realize

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/uFincs/uFincs-sub004/calendar"
	"github.com/uFincs/uFincs-sub004/logger"
	"github.com/uFincs/uFincs-sub004/model"
	"github.com/uFincs/uFincs-sub004/recurrence"
	"github.com/uFincs/uFincs-sub004/telemetry"
)

// Namespace is the UUID namespace transaction IDs are derived in.
var Namespace = uuid.MustParse("5f0c6a1e-8f4b-4c1a-9a57-2b7b0c3e9d10")

// OccurrenceIndex reports whether a transaction for a template occurrence is already
// persisted. Stores implement it with the (templateID, date) uniqueness constraint.
type OccurrenceIndex interface {
	HasOccurrence(ctx context.Context, templateID string, date calendar.Date) (bool, error)
}

// IDGenerator derives the ID of the transaction realized for an occurrence.
type IDGenerator func(templateID string, date calendar.Date) string

// TransactionID is the default IDGenerator: a UUIDv5 of the template ID and date, so the
// same occurrence always gets the same ID.
func TransactionID(templateID string, date calendar.Date) string {
	return uuid.NewSHA1(Namespace, []byte(templateID+"/"+date.String())).String()
}

// Result is the outcome of realizing one template.
type Result struct {
	// Created holds the new transactions in date order.
	Created []model.Transaction

	// Skipped holds occurrences inside the window that the OccurrenceIndex reported as
	// already persisted.
	Skipped []calendar.Date

	// Checkpoint is the date of the last occurrence in the window, or the unchanged
	// checkpoint when nothing was due.
	Checkpoint *calendar.Date

	// Template is the input template with Checkpoint applied.
	Template model.RecurringTemplate
}

// Advanced reports whether the checkpoint moved.
func (r *Result) Advanced(previous *calendar.Date) bool {
	if r.Checkpoint == nil {
		return false
	}
	return previous == nil || r.Checkpoint.After(*previous)
}

// Service realizes templates.
type Service struct {
	existing OccurrenceIndex
	newID    IDGenerator
}

// Option configures a Service.
type Option func(*Service)

// WithExisting makes the service skip occurrences the index reports as persisted.
func WithExisting(index OccurrenceIndex) Option {
	return func(s *Service) {
		s.existing = index
	}
}

// WithIDGenerator overrides how transaction IDs are derived.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Service) {
		s.newID = gen
	}
}

// New creates a Service with the given options.
func New(opts ...Option) *Service {
	s := &Service{newID: TransactionID}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Realize realizes a template with a default Service.
func Realize(ctx context.Context, tmpl model.RecurringTemplate, asOf calendar.Date) (*Result, error) {
	return New().Realize(ctx, tmpl, asOf)
}

// Window returns the inclusive date range a realization as of asOf covers: the day
// after the checkpoint (or the start date) through asOf.
func Window(tmpl model.RecurringTemplate, asOf calendar.Date) (from, to calendar.Date) {
	from = tmpl.StartDate
	if tmpl.LastRealizedDate != nil {
		from = tmpl.LastRealizedDate.AddDays(1)
	}
	return from, asOf
}

// Realize creates the transactions for every occurrence of tmpl after its checkpoint and
// on or before asOf.
func (s *Service) Realize(ctx context.Context, tmpl model.RecurringTemplate, asOf calendar.Date) (*Result, error) {
	if asOf.IsZero() {
		return nil, &calendar.InvalidDateError{Reason: "as-of date is required"}
	}
	if tmpl.LastRealizedDate != nil && asOf.Before(*tmpl.LastRealizedDate) {
		return nil, &StaleTemplateError{
			TemplateID: tmpl.ID,
			AsOf:       asOf,
			Checkpoint: *tmpl.LastRealizedDate,
		}
	}

	timer := telemetry.StartTimer(ctx, fmt.Sprintf("realize.template %s", tmpl.ID))
	defer timer.End()

	from, to := Window(tmpl, asOf)
	occurrences, err := recurrence.Generate(tmpl, from, to)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Checkpoint: tmpl.LastRealizedDate,
		Template:   tmpl.WithCheckpoint(tmpl.LastRealizedDate),
	}
	if len(occurrences) == 0 {
		return result, nil
	}

	for _, date := range occurrences {
		if s.existing != nil {
			exists, err := s.existing.HasOccurrence(ctx, tmpl.ID, date)
			if err != nil {
				return nil, fmt.Errorf("failed to check occurrence %s of template %s: %w", date, tmpl.ID, err)
			}
			if exists {
				result.Skipped = append(result.Skipped, date)
				continue
			}
		}

		tx := tmpl.Instantiate(date)
		tx.ID = s.newID(tmpl.ID, date)
		result.Created = append(result.Created, tx)
	}

	last := occurrences[len(occurrences)-1]
	result.Checkpoint = &last
	result.Template = tmpl.WithCheckpoint(&last)

	logger.FromContext(ctx).Debug().
		Str("template", tmpl.ID).
		Stringer("from", from).
		Stringer("to", to).
		Int("created", len(result.Created)).
		Int("skipped", len(result.Skipped)).
		Stringer("checkpoint", last).
		Msg("realized template")

	return result, nil
}

// RealizeAll realizes every template as of asOf, in order. It fails on the first error
// without returning partial results.
func (s *Service) RealizeAll(ctx context.Context, templates []model.RecurringTemplate, asOf calendar.Date) ([]*Result, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("realize.all (%d templates)", len(templates)))
	defer timer.End()

	results := make([]*Result, 0, len(templates))
	for _, tmpl := range templates {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		res, err := s.Realize(ctx, tmpl, asOf)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
