package models

import "time"

// NotificationKind identifies the event a notification was emitted for.
type NotificationKind string

const (
	KindListingSubmitted  NotificationKind = "ListingSubmitted"
	KindListingApproved   NotificationKind = "ListingApproved"
	KindListingRejected   NotificationKind = "ListingRejected"
	KindListingUpdated    NotificationKind = "ListingUpdated"
	KindReportFiled       NotificationKind = "ReportFiled"
	KindReportAdjudicated NotificationKind = "ReportAdjudicated"
	KindPropertySaved     NotificationKind = "PropertySaved"
	KindPropertyRemoved   NotificationKind = "PropertyRemoved"
)

// Notification is the structured message handed to the delivery layer.
type Notification struct {
	CreatedAt   time.Time         `json:"createdAt"`
	Payload     map[string]string `json:"payload,omitempty"`
	ID          string            `json:"id"`
	Kind        NotificationKind  `json:"kind"`
	RecipientID string            `json:"recipientId"`
	Title       string            `json:"title"`
	Body        string            `json:"body"`
}
