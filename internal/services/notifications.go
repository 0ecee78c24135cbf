package services

import (
	"fmt"

	"github.com/stwalsh4118/estatehub/internal/models"
)

// Notification builders. Each maps one lifecycle or moderation event onto
// the message handed to the notifier; ids and timestamps are filled in
// when the notification is emitted.

func listingSubmittedNote(p *models.Property) models.Notification {
	return models.Notification{
		Kind:        models.KindListingSubmitted,
		RecipientID: p.OwnerID,
		Title:       "Listing Submitted",
		Body:        fmt.Sprintf("Your property \"%s\" has been submitted and is awaiting review.", p.Title),
		Payload:     map[string]string{"propertyId": p.ID},
	}
}

func listingApprovedNote(p *models.Property) models.Notification {
	return models.Notification{
		Kind:        models.KindListingApproved,
		RecipientID: p.OwnerID,
		Title:       "Listing Approved!",
		Body:        fmt.Sprintf("Your property \"%s\" has been verified and is now live.", p.Title),
		Payload:     map[string]string{"propertyId": p.ID},
	}
}

func listingRejectedNote(p *models.Property) models.Notification {
	return models.Notification{
		Kind:        models.KindListingRejected,
		RecipientID: p.OwnerID,
		Title:       "Listing Rejected",
		Body:        fmt.Sprintf("Your submission for \"%s\" was not approved. Please review our marketplace guidelines.", p.Title),
		Payload:     map[string]string{"propertyId": p.ID},
	}
}

func listingUpdatedNote(p *models.Property) models.Notification {
	return models.Notification{
		Kind:        models.KindListingUpdated,
		RecipientID: p.OwnerID,
		Title:       "Listing Updated",
		Body:        fmt.Sprintf("Changes to \"%s\" have been synced.", p.Title),
		Payload: map[string]string{
			"propertyId": p.ID,
			"price":      fmt.Sprintf("%d", p.Price),
		},
	}
}

func reportFiledNote(r *models.Report) models.Notification {
	return models.Notification{
		Kind:        models.KindReportFiled,
		RecipientID: r.ReporterID,
		Title:       "Report Submitted",
		Body:        "Administration has been notified for investigation.",
		Payload: map[string]string{
			"reportId":   r.ID,
			"propertyId": r.PropertyID,
		},
	}
}

func reportAdjudicatedNote(r *models.Report) models.Notification {
	body := fmt.Sprintf("Report %s has been marked as %s.", r.ID, r.Status)
	if r.AdminNote != "" {
		body += " Note: " + r.AdminNote
	}
	return models.Notification{
		Kind:        models.KindReportAdjudicated,
		RecipientID: r.ReporterID,
		Title:       "Report Updated",
		Body:        body,
		Payload: map[string]string{
			"reportId":   r.ID,
			"propertyId": r.PropertyID,
			"status":     string(r.Status),
			"note":       r.AdminNote,
		},
	}
}

func savedToggledNote(userID, propertyID string, added bool) models.Notification {
	n := models.Notification{
		Kind:        models.KindPropertyRemoved,
		RecipientID: userID,
		Title:       "Property Removed",
		Body:        "Listing removed from your collection.",
		Payload:     map[string]string{"propertyId": propertyID},
	}
	if added {
		n.Kind = models.KindPropertySaved
		n.Title = "Property Saved"
		n.Body = "Listing added to your saved collection."
	}
	return n
}
