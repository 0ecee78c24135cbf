package store

import (
	"time"

	"github.com/stwalsh4118/estatehub/internal/models"
)

// Store is the authoritative collection of properties, users, reports and
// bookings. It offers id lookup and mutation primitives only; query logic
// lives in the services. Every read returns copies.
type Store interface {
	// UpsertProperty inserts p when its id is unseen and replaces it otherwise.
	// The derived Reported flag is never taken from p: it is kept for
	// existing properties and starts false for new ones.
	// Returns a models.FieldErrors (ErrValidation) for invalid input.
	UpsertProperty(p *models.Property) error

	// DeleteProperty removes a property. Deleting an unknown id is a no-op.
	// Reports are kept as audit records. It reports whether anything was removed.
	DeleteProperty(id string) bool

	// FindProperty returns the property with the given id.
	FindProperty(id string) (*models.Property, bool)

	// ListProperties returns all properties, newest submission first.
	ListProperties() []*models.Property

	// UpsertUser inserts or replaces a profile.
	UpsertUser(u *models.UserProfile) error

	// FindUser returns the profile with the given id.
	FindUser(id string) (*models.UserProfile, bool)

	// ListUsers returns all profiles in sign-up order.
	ListUsers() []*models.UserProfile

	// InsertReport stores a new pending report. The referenced property and
	// reporter must exist (ErrNotFound) and the id must be unused (ErrInvalidState).
	InsertReport(r *models.Report) error

	// SettleReport moves a pending report to a terminal status.
	// Returns ErrNotFound for unknown ids and ErrInvalidState when the report
	// is no longer pending, so concurrent adjudications cannot both succeed.
	SettleReport(id string, status models.ReportStatus, adminID, note string, at time.Time) (*models.Report, error)

	// FindReport returns the report with the given id.
	FindReport(id string) (*models.Report, bool)

	// ListReports returns reports newest first, optionally filtered by status.
	ListReports(status *models.ReportStatus) []*models.Report

	// RecomputeReported sets a property's Reported flag to whether any
	// pending report references it. This is the only writer of the flag.
	// It returns the new value; unknown properties yield false.
	RecomputeReported(propertyID string) bool

	// InsertBooking stores a booking record.
	InsertBooking(b *models.Booking) error

	// ListBookings returns a buyer's bookings, newest first.
	ListBookings(buyerID string) []*models.Booking

	// Snapshot exports the full state.
	Snapshot() Snapshot

	// Restore replaces the full state with a validated snapshot.
	Restore(s Snapshot) error
}

// Snapshot is a plain-value export of the store used by the persistence layer.
type Snapshot struct {
	TakenAt    time.Time             `json:"takenAt"`
	Properties []*models.Property    `json:"properties"`
	Users      []*models.UserProfile `json:"users"`
	Reports    []*models.Report      `json:"reports"`
	Bookings   []*models.Booking     `json:"bookings"`
}
