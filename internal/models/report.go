package models

import "time"

// ReportStatus is the adjudication status of a moderation report.
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportResolved ReportStatus = "resolved"
	ReportRejected ReportStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportPending, ReportResolved, ReportRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s ReportStatus) Terminal() bool {
	return s == ReportResolved || s == ReportRejected
}

// Report is a moderation ticket against a property. PropertyTitle and
// ReporterName are snapshots taken at filing time and survive edits and
// deletion of the property. Only Status, AdminNote and the adjudication
// fields change after creation.
type Report struct {
	CreatedAt     time.Time    `json:"timestamp"`
	AdjudicatedAt *time.Time   `json:"adjudicatedAt,omitempty"`
	ID            string       `json:"id"`
	PropertyID    string       `json:"propertyId" validate:"required"`
	PropertyTitle string       `json:"propertyTitle"`
	ReporterID    string       `json:"reporterId" validate:"required"`
	ReporterName  string       `json:"reporterName"`
	Reason        string       `json:"reason" validate:"required,max=200"`
	Details       string       `json:"details,omitempty" validate:"max=2000"`
	Status        ReportStatus `json:"status" validate:"required,oneof=pending resolved rejected"`
	AdminNote     string       `json:"adminNote,omitempty" validate:"max=2000"`
	AdjudicatedBy string       `json:"adjudicatedBy,omitempty"`
}

// Clone returns a copy of the report.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	c := *r
	if r.AdjudicatedAt != nil {
		at := *r.AdjudicatedAt
		c.AdjudicatedAt = &at
	}
	return &c
}
