package store

import (
	"fmt"
	"time"

	"github.com/stwalsh4118/estatehub/internal/models"
)

// Demo identities loaded by SeedDemoData.
const (
	DemoSellerRajesh = "owner_1"
	DemoSellerPriya  = "owner_2"
	DemoBuyer        = "buyer_1"
	DemoAdmin        = "admin_1"
)

// SeedDemoData loads the demo catalogue: two sellers, one buyer, one admin
// and six verified listings. Intended for development environments.
func SeedDemoData(s Store) error {
	now := time.Now().UTC()

	users := []*models.UserProfile{
		{ID: DemoSellerRajesh, Name: "Rajesh Malhotra", Avatar: "https://i.pravatar.cc/150?u=rajesh", Phone: "9876543210", Verified: true, Role: models.RoleSeller},
		{ID: DemoSellerPriya, Name: "Priya Kapoor", Avatar: "https://i.pravatar.cc/150?u=priya", Phone: "9123456789", Verified: true, Role: models.RoleSeller},
		{ID: DemoBuyer, Name: "Arjun Mehta", Avatar: "https://i.pravatar.cc/150?u=arjun", Phone: "9988776655", Verified: true, Role: models.RoleBuyer},
		{ID: DemoAdmin, Name: "System Admin", Avatar: "https://i.pravatar.cc/150?u=admin", Phone: "0000000000", Verified: true, Role: models.RoleAdmin},
	}
	for _, u := range users {
		u.CreatedAt, u.UpdatedAt = now, now
		if err := s.UpsertUser(u); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.ID, err)
		}
	}

	listings := []*models.Property{
		{
			ID: "1", OwnerID: DemoSellerRajesh, Title: "Modern Skyloft Penthouse", Price: 45000000,
			Location: "Worli, Mumbai", Category: models.CategoryApartment, Beds: intPtr(3), Baths: intPtr(4),
			Sqft: 2800, BuiltUpArea: intPtr(3200), Furnishing: models.FurnishingFully, Dimensions: "70 x 40 ft",
			Images:      []string{"https://images.unsplash.com/photo-1512917774080-9991f1c4c750?auto=format&fit=crop&q=80&w=800"},
			Coordinates: models.Coordinates{Lat: 18.9986, Lng: 72.8174},
			Reviews: []models.Review{{
				ID: "rev1", AuthorName: "Suresh Raina", Rating: 5, CreatedAt: now,
				Comment: "Absolutely stunning views and top-notch amenities.",
			}},
			Featured: true,
		},
		{
			ID: "2", OwnerID: DemoSellerPriya, Title: "The Heritage Villa", Price: 120000000,
			Location: "Civil Lines, Jaipur", Category: models.CategoryVilla, Beds: intPtr(5), Baths: intPtr(6),
			Sqft: 6500, BuiltUpArea: intPtr(7200), Furnishing: models.FurnishingSemi, Dimensions: "100 x 65 ft",
			Images:      []string{"https://images.unsplash.com/photo-1580587771525-78b9dba3b914?auto=format&fit=crop&q=80&w=800"},
			Coordinates: models.Coordinates{Lat: 26.9124, Lng: 75.7873},
		},
		{
			ID: "3", OwnerID: DemoSellerRajesh, Title: "Imperial Regency Suite", Price: 65000000,
			Location: "Juhu, Mumbai", Category: models.CategoryApartment, Beds: intPtr(4), Baths: intPtr(4),
			Sqft: 3500, Coordinates: models.Coordinates{Lat: 19.1075, Lng: 72.8263}, Featured: true,
		},
		{
			ID: "4", OwnerID: DemoSellerPriya, Title: "Palm Breeze Villa", Price: 95000000,
			Location: "Lonavala, MH", Category: models.CategoryVilla, Beds: intPtr(6), Baths: intPtr(7),
			Sqft: 8000, Coordinates: models.Coordinates{Lat: 18.7544, Lng: 73.4062},
		},
		{
			ID: "5", OwnerID: DemoSellerRajesh, Title: "Azure Heights Estate", Price: 32000000,
			Location: "Whitefield, Bangalore", Category: models.CategoryApartment, Beds: intPtr(3), Baths: intPtr(3),
			Sqft: 2100, Coordinates: models.Coordinates{Lat: 12.9698, Lng: 77.7500}, Featured: true,
		},
		{
			ID: "6", OwnerID: DemoSellerPriya, Title: "The Orchard Manor", Price: 75000000,
			Location: "Kasauli, HP", Category: models.CategoryVilla, Beds: intPtr(4), Baths: intPtr(5),
			Sqft: 5000, Coordinates: models.Coordinates{Lat: 30.9013, Lng: 76.9649},
		},
	}

	// Insert in reverse so listing "1" ends up first in display order.
	for i := len(listings) - 1; i >= 0; i-- {
		p := listings[i]
		p.Verified = true
		p.CreatedAt, p.UpdatedAt = now, now
		if err := s.UpsertProperty(p); err != nil {
			return fmt.Errorf("failed to seed property %s: %w", p.ID, err)
		}
	}
	return nil
}

func intPtr(v int) *int {
	return &v
}
