package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/stwalsh4118/estatehub/internal/models"
)

const maxAdminNoteLength = 2000

// ModerationService defines report filing and adjudication.
//
// After every filing and every adjudication the target property's Reported
// flag is recomputed as "any pending report references it"; nothing else
// writes the flag.
type ModerationService interface {
	// FileReport opens a pending report against a property the actor can see.
	// Returns ErrNotFound for unknown actors or properties, ErrUnauthorized
	// for banned actors and ErrValidation for a blank reason.
	FileReport(ctx context.Context, actorID, propertyID, reason, details string) (*models.Report, error)

	// Adjudicate settles a pending report as resolved or rejected.
	// Returns ErrUnauthorized for non-admins, ErrValidation for other
	// outcomes, ErrNotFound for unknown reports and ErrInvalidState when
	// the report has already been settled.
	Adjudicate(ctx context.Context, adminID, reportID string, outcome models.ReportStatus, note string) (*models.Report, error)

	// QueryReports returns reports newest first, optionally filtered by status.
	QueryReports(ctx context.Context, status *models.ReportStatus) []*models.Report
}

type moderationService struct {
	*Engine
}

// NewModerationService creates a ModerationService on top of e.
func NewModerationService(e *Engine) ModerationService {
	return &moderationService{Engine: e}
}

func (s *moderationService) FileReport(ctx context.Context, actorID, propertyID, reason, details string) (*models.Report, error) {
	var filed *models.Report
	var flagged bool
	err := s.command(ctx, func() ([]models.Notification, error) {
		reporter, err := s.activeActor(actorID, models.ErrNotFound)
		if err != nil {
			return nil, err
		}
		p, err := s.visibleProperty(reporter.Actor(), propertyID)
		if err != nil {
			return nil, err
		}

		r := &models.Report{
			CreatedAt:     s.now(),
			ID:            s.newID(),
			PropertyID:    p.ID,
			PropertyTitle: p.Title,
			ReporterID:    reporter.ID,
			ReporterName:  reporter.Name,
			Reason:        strings.TrimSpace(reason),
			Details:       strings.TrimSpace(details),
			Status:        models.ReportPending,
		}
		if err := s.store.InsertReport(r); err != nil {
			return nil, err
		}
		flagged = s.store.RecomputeReported(p.ID)

		filed = r
		return []models.Notification{reportFiledNote(r)}, nil
	})
	if err != nil {
		return nil, s.rejected("file_report", actorID, err)
	}

	s.log.Info("Report filed", map[string]interface{}{
		"report_id":   filed.ID,
		"property_id": filed.PropertyID,
		"reason":      filed.Reason,
		"reported":    flagged,
	})
	return filed, nil
}

func (s *moderationService) Adjudicate(ctx context.Context, adminID, reportID string, outcome models.ReportStatus, note string) (*models.Report, error) {
	var settled *models.Report
	var flagged bool
	err := s.command(ctx, func() ([]models.Notification, error) {
		if _, err := s.requireAdmin(adminID, true); err != nil {
			return nil, err
		}
		if !outcome.Terminal() {
			return nil, models.FieldErrors{"outcome": "must be one of: resolved rejected"}
		}
		note = strings.TrimSpace(note)
		if len(note) > maxAdminNoteLength {
			return nil, models.FieldErrors{"adminNote": fmt.Sprintf("must be at most %d long", maxAdminNoteLength)}
		}

		r, err := s.store.SettleReport(reportID, outcome, adminID, note, s.now())
		if err != nil {
			return nil, err
		}
		flagged = s.store.RecomputeReported(r.PropertyID)

		settled = r
		return []models.Notification{reportAdjudicatedNote(r)}, nil
	})
	if err != nil {
		return nil, s.rejected("adjudicate", adminID, err)
	}

	s.log.Info("Report adjudicated", map[string]interface{}{
		"report_id":   settled.ID,
		"property_id": settled.PropertyID,
		"outcome":     settled.Status,
		"reported":    flagged,
	})
	return settled, nil
}

func (s *moderationService) QueryReports(_ context.Context, status *models.ReportStatus) []*models.Report {
	return s.store.ListReports(status)
}
