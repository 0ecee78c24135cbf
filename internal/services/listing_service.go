package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/stwalsh4118/estatehub/internal/models"
)

// ListingPatch is an owner edit. Nil fields are left unchanged.
type ListingPatch struct {
	Price         *int64
	OriginalPrice *int64
	Description   *string
	Dimensions    *string
	BuiltUpArea   *int
	Beds          *int
	Baths         *int
	Images        *[]string
	Furnishing    *models.Furnishing
}

// Empty reports whether the patch changes nothing.
func (p ListingPatch) Empty() bool {
	return p.Price == nil && p.OriginalPrice == nil && p.Description == nil &&
		p.Dimensions == nil && p.BuiltUpArea == nil && p.Beds == nil &&
		p.Baths == nil && p.Images == nil && p.Furnishing == nil
}

func (p ListingPatch) applyTo(prop *models.Property) {
	if p.Price != nil {
		prop.Price = *p.Price
	}
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		prop.OriginalPrice = &v
	}
	if p.Description != nil {
		prop.Description = *p.Description
	}
	if p.Dimensions != nil {
		prop.Dimensions = *p.Dimensions
	}
	if p.BuiltUpArea != nil {
		v := *p.BuiltUpArea
		prop.BuiltUpArea = &v
	}
	if p.Beds != nil {
		v := *p.Beds
		prop.Beds = &v
	}
	if p.Baths != nil {
		v := *p.Baths
		prop.Baths = &v
	}
	if p.Images != nil {
		prop.Images = append([]string{}, (*p.Images)...)
	}
	if p.Furnishing != nil {
		prop.Furnishing = *p.Furnishing
	}
}

// ListingService defines the listing lifecycle commands and listing queries.
type ListingService interface {
	// Submit creates a pending listing owned by sellerID from draft.
	// Identity, ownership and status fields on draft are ignored.
	// Returns ErrNotFound for unknown sellers, ErrUnauthorized for
	// non-sellers and banned sellers, and ErrValidation for invalid drafts.
	Submit(ctx context.Context, sellerID string, draft *models.Property) (*models.Property, error)

	// Approve verifies a pending listing and notifies its owner.
	// Returns ErrInvalidState when the listing is already verified.
	Approve(ctx context.Context, adminID, propertyID string) (*models.Property, error)

	// Reject deletes a pending submission and notifies its owner.
	// Verified listings cannot be rejected (ErrInvalidState); use Remove.
	Reject(ctx context.Context, adminID, propertyID string) error

	// Remove deletes a listing in any state without notifying anyone.
	Remove(ctx context.Context, adminID, propertyID string) error

	// Edit applies an owner patch. Verification status is unchanged.
	Edit(ctx context.Context, ownerID, propertyID string, patch ListingPatch) (*models.Property, error)

	// ApplyDiscount records the current price as the baseline once and
	// prices the listing percent below it. percent must be within 0..100.
	ApplyDiscount(ctx context.Context, ownerID, propertyID string, percent float64) (*models.Property, error)

	// ResetDiscount restores the baseline price when one is recorded.
	ResetDiscount(ctx context.Context, ownerID, propertyID string) (*models.Property, error)

	// AddReview prepends a review to a verified listing.
	AddReview(ctx context.Context, actorID, propertyID string, rating int, comment string) (*models.Review, error)

	// Find returns a property the actor may see. Hidden listings are ErrNotFound.
	Find(ctx context.Context, actorID, propertyID string) (*models.Property, error)

	// QueryVisible returns the listings actorID may see that match filter,
	// newest first. Unknown actors see nothing.
	QueryVisible(ctx context.Context, actorID string, filter Filter) []*models.Property

	// PendingQueue returns unverified listings awaiting review. Admin only.
	PendingQueue(ctx context.Context, adminID string) ([]*models.Property, error)

	// LiveInventory returns verified listings. Admin only.
	LiveInventory(ctx context.Context, adminID string) ([]*models.Property, error)

	// SellerListings returns every listing owned by sellerID in any state.
	SellerListings(ctx context.Context, sellerID string) ([]*models.Property, error)
}

type listingService struct {
	*Engine
}

// NewListingService creates a ListingService on top of e.
func NewListingService(e *Engine) ListingService {
	return &listingService{Engine: e}
}

func (s *listingService) Submit(ctx context.Context, sellerID string, draft *models.Property) (*models.Property, error) {
	if draft == nil {
		return nil, s.rejected("submit", sellerID, fmt.Errorf("%w: listing draft is required", models.ErrValidation))
	}

	var created *models.Property
	err := s.command(ctx, func() ([]models.Notification, error) {
		seller, err := s.activeActor(sellerID, models.ErrNotFound)
		if err != nil {
			return nil, err
		}
		if seller.Role != models.RoleSeller {
			return nil, fmt.Errorf("%w: only sellers can submit listings", models.ErrUnauthorized)
		}

		p := draft.Clone()
		now := s.now()
		p.ID = s.newID()
		p.OwnerID = seller.ID
		p.Verified = false
		p.Featured = false
		p.Reported = false
		p.Reviews = nil
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := s.store.UpsertProperty(p); err != nil {
			return nil, err
		}

		created = p
		return []models.Notification{listingSubmittedNote(p)}, nil
	})
	if err != nil {
		return nil, s.rejected("submit", sellerID, err)
	}

	s.log.Info("Listing submitted", map[string]interface{}{
		"property_id": created.ID,
		"owner_id":    created.OwnerID,
		"price":       created.Price,
	})
	return created, nil
}

func (s *listingService) Approve(ctx context.Context, adminID, propertyID string) (*models.Property, error) {
	var approved *models.Property
	err := s.command(ctx, func() ([]models.Notification, error) {
		if _, err := s.requireAdmin(adminID, true); err != nil {
			return nil, err
		}
		p, ok := s.store.FindProperty(propertyID)
		if !ok {
			return nil, fmt.Errorf("%w: property %s", models.ErrNotFound, propertyID)
		}
		if p.Verified {
			return nil, fmt.Errorf("%w: property %s is already verified", models.ErrInvalidState, propertyID)
		}

		p.Verified = true
		p.UpdatedAt = s.now()
		if err := s.store.UpsertProperty(p); err != nil {
			return nil, err
		}

		approved = p
		return []models.Notification{listingApprovedNote(p)}, nil
	})
	if err != nil {
		return nil, s.rejected("approve", adminID, err)
	}

	s.log.Info("Listing approved", map[string]interface{}{
		"property_id": propertyID,
		"admin_id":    adminID,
	})
	return approved, nil
}

func (s *listingService) Reject(ctx context.Context, adminID, propertyID string) error {
	err := s.command(ctx, func() ([]models.Notification, error) {
		if _, err := s.requireAdmin(adminID, true); err != nil {
			return nil, err
		}
		p, ok := s.store.FindProperty(propertyID)
		if !ok {
			return nil, fmt.Errorf("%w: property %s", models.ErrNotFound, propertyID)
		}
		if p.Verified {
			return nil, fmt.Errorf("%w: property %s is live; remove it instead", models.ErrInvalidState, propertyID)
		}

		s.store.DeleteProperty(propertyID)
		return []models.Notification{listingRejectedNote(p)}, nil
	})
	if err != nil {
		return s.rejected("reject", adminID, err)
	}

	s.log.Info("Listing rejected", map[string]interface{}{
		"property_id": propertyID,
		"admin_id":    adminID,
	})
	return nil
}

func (s *listingService) Remove(ctx context.Context, adminID, propertyID string) error {
	err := s.command(ctx, func() ([]models.Notification, error) {
		if _, err := s.requireAdmin(adminID, true); err != nil {
			return nil, err
		}
		if !s.store.DeleteProperty(propertyID) {
			return nil, fmt.Errorf("%w: property %s", models.ErrNotFound, propertyID)
		}
		return nil, nil
	})
	if err != nil {
		return s.rejected("remove", adminID, err)
	}

	s.log.Info("Listing removed", map[string]interface{}{
		"property_id": propertyID,
		"admin_id":    adminID,
	})
	return nil
}

// ownedProperty resolves an active owner and a property they own.
func (s *listingService) ownedProperty(ownerID, propertyID string) (*models.Property, error) {
	if _, err := s.activeActor(ownerID, models.ErrUnauthorized); err != nil {
		return nil, err
	}
	p, ok := s.store.FindProperty(propertyID)
	if !ok {
		return nil, fmt.Errorf("%w: property %s", models.ErrNotFound, propertyID)
	}
	if p.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: only the owner can modify property %s", models.ErrUnauthorized, propertyID)
	}
	return p, nil
}

// updateOwned runs mutate against a copy of an owned property and stores
// the result when it validates.
func (s *listingService) updateOwned(ctx context.Context, op, ownerID, propertyID string, mutate func(p *models.Property) error) (*models.Property, error) {
	var updated *models.Property
	err := s.command(ctx, func() ([]models.Notification, error) {
		p, err := s.ownedProperty(ownerID, propertyID)
		if err != nil {
			return nil, err
		}
		if err := mutate(p); err != nil {
			return nil, err
		}

		p.UpdatedAt = s.now()
		if err := s.store.UpsertProperty(p); err != nil {
			return nil, err
		}

		updated = p
		return []models.Notification{listingUpdatedNote(p)}, nil
	})
	if err != nil {
		return nil, s.rejected(op, ownerID, err)
	}

	s.log.Info("Listing updated", map[string]interface{}{
		"op":          op,
		"property_id": propertyID,
		"price":       updated.Price,
	})
	return updated, nil
}

func (s *listingService) Edit(ctx context.Context, ownerID, propertyID string, patch ListingPatch) (*models.Property, error) {
	return s.updateOwned(ctx, "edit", ownerID, propertyID, func(p *models.Property) error {
		if patch.Empty() {
			return fmt.Errorf("%w: patch changes nothing", models.ErrValidation)
		}
		patch.applyTo(p)
		return nil
	})
}

func (s *listingService) ApplyDiscount(ctx context.Context, ownerID, propertyID string, percent float64) (*models.Property, error) {
	return s.updateOwned(ctx, "apply_discount", ownerID, propertyID, func(p *models.Property) error {
		if math.IsNaN(percent) || percent < 0 || percent > 100 {
			return models.FieldErrors{"percent": "must be between 0 and 100"}
		}

		base := p.Price
		if p.OriginalPrice != nil {
			base = *p.OriginalPrice
		}
		p.OriginalPrice = &base
		p.Price = int64(math.Round(float64(base) * (1 - percent/100)))
		return nil
	})
}

func (s *listingService) ResetDiscount(ctx context.Context, ownerID, propertyID string) (*models.Property, error) {
	return s.updateOwned(ctx, "reset_discount", ownerID, propertyID, func(p *models.Property) error {
		if p.OriginalPrice != nil {
			p.Price = *p.OriginalPrice
		}
		return nil
	})
}

func (s *listingService) AddReview(ctx context.Context, actorID, propertyID string, rating int, comment string) (*models.Review, error) {
	var review *models.Review
	err := s.command(ctx, func() ([]models.Notification, error) {
		author, err := s.activeActor(actorID, models.ErrUnauthorized)
		if err != nil {
			return nil, err
		}
		p, err := s.visibleProperty(author.Actor(), propertyID)
		if err != nil {
			return nil, err
		}
		if !p.Verified {
			return nil, fmt.Errorf("%w: only live listings can be reviewed", models.ErrInvalidState)
		}

		r := models.Review{
			CreatedAt:  s.now(),
			ID:         s.newID(),
			AuthorName: author.Name,
			Comment:    strings.TrimSpace(comment),
			Rating:     rating,
		}
		p.Reviews = append([]models.Review{r}, p.Reviews...)
		if err := s.store.UpsertProperty(p); err != nil {
			return nil, err
		}

		review = &r
		return nil, nil
	})
	if err != nil {
		return nil, s.rejected("add_review", actorID, err)
	}

	s.log.Info("Review added", map[string]interface{}{
		"property_id": propertyID,
		"review_id":   review.ID,
		"rating":      rating,
	})
	return review, nil
}

func (s *listingService) Find(_ context.Context, actorID, propertyID string) (*models.Property, error) {
	return s.visibleProperty(s.viewer(actorID), propertyID)
}

func (s *listingService) QueryVisible(_ context.Context, actorID string, filter Filter) []*models.Property {
	return filter.Apply(VisibleProperties(s.viewer(actorID), s.store.ListProperties()))
}

func (s *listingService) PendingQueue(_ context.Context, adminID string) ([]*models.Property, error) {
	return s.adminView(adminID, func(p *models.Property) bool { return !p.Verified })
}

func (s *listingService) LiveInventory(_ context.Context, adminID string) ([]*models.Property, error) {
	return s.adminView(adminID, func(p *models.Property) bool { return p.Verified })
}

func (s *listingService) adminView(adminID string, keep func(p *models.Property) bool) ([]*models.Property, error) {
	if _, err := s.requireAdmin(adminID, false); err != nil {
		return nil, err
	}
	out := []*models.Property{}
	for _, p := range s.store.ListProperties() {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *listingService) SellerListings(_ context.Context, sellerID string) ([]*models.Property, error) {
	if _, ok := s.store.FindUser(sellerID); !ok {
		return nil, fmt.Errorf("%w: user %s", models.ErrUnauthorized, sellerID)
	}
	out := []*models.Property{}
	for _, p := range s.store.ListProperties() {
		if p.OwnerID == sellerID {
			out = append(out, p)
		}
	}
	return out, nil
}
