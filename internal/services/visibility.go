package services

import (
	"strings"

	"github.com/stwalsh4118/estatehub/internal/models"
)

// CanView reports whether actor may see p. Admins see everything, sellers
// see their own listings plus verified ones, buyers see verified listings
// only, and an actor without a role sees nothing.
func CanView(actor models.Actor, p *models.Property) bool {
	if !actor.Authenticated() {
		return false
	}
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleSeller:
		return p.Verified || p.OwnerID == actor.ID
	case models.RoleBuyer:
		return p.Verified
	default:
		return false
	}
}

// VisibleProperties returns the properties actor may see, preserving the
// input order.
func VisibleProperties(actor models.Actor, all []*models.Property) []*models.Property {
	out := []*models.Property{}
	for _, p := range all {
		if CanView(actor, p) {
			out = append(out, p)
		}
	}
	return out
}

// Filter holds the secondary search predicates applied after visibility.
// Zero fields match everything; set fields are AND-combined.
type Filter struct {
	// Query is matched case-insensitively against title and location.
	Query string
	// Category matches exactly; "" and "All" match any category.
	Category models.Category
	MinPrice *int64
	MaxPrice *int64
	// Beds matches the bed count exactly; nil matches any.
	Beds *int
}

// AllCategories is the category filter value that matches everything.
const AllCategories models.Category = "All"

// Matches reports whether p satisfies every set predicate.
func (f Filter) Matches(p *models.Property) bool {
	if q := strings.TrimSpace(f.Query); q != "" {
		q = strings.ToLower(q)
		if !strings.Contains(strings.ToLower(p.Title), q) && !strings.Contains(strings.ToLower(p.Location), q) {
			return false
		}
	}
	if f.Category != "" && f.Category != AllCategories && p.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Beds != nil && (p.Beds == nil || *p.Beds != *f.Beds) {
		return false
	}
	return true
}

// Apply returns the properties matching f, preserving order.
func (f Filter) Apply(props []*models.Property) []*models.Property {
	out := []*models.Property{}
	for _, p := range props {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
