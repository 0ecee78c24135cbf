package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/estatehub/internal/logger"
	"github.com/stwalsh4118/estatehub/internal/models"
	"github.com/stwalsh4118/estatehub/internal/notify"
	"github.com/stwalsh4118/estatehub/internal/store"
)

const (
	sellerA = "seller_a"
	sellerB = "seller_b"
	buyer   = "buyer_1"
	admin   = "admin_1"
)

// fixture wires every service over one memory store seeded with two
// sellers, a buyer and an admin.
type fixture struct {
	store      store.Store
	outbox     *notify.Outbox
	engine     *Engine
	listings   ListingService
	moderation ModerationService
	profiles   ProfileService
	bookings   BookingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithNotifier(t, nil)
}

func newFixtureWithNotifier(t *testing.T, extra notify.Notifier) *fixture {
	t.Helper()

	st := store.NewMemoryStore()
	users := []*models.UserProfile{
		{ID: sellerA, Name: "Rajesh Kumar", Role: models.RoleSeller},
		{ID: sellerB, Name: "Priya Sharma", Role: models.RoleSeller},
		{ID: buyer, Name: "Aarav Mehta", Role: models.RoleBuyer},
		{ID: admin, Name: "Admin", Role: models.RoleAdmin},
	}
	for _, u := range users {
		require.NoError(t, st.UpsertUser(u))
	}

	outbox := notify.NewOutbox(100)
	e := NewEngine(st, notify.Fanout{outbox, extra}, logger.Nop())
	return &fixture{
		store:      st,
		outbox:     outbox,
		engine:     e,
		listings:   NewListingService(e),
		moderation: NewModerationService(e),
		profiles:   NewProfileService(e, []string{"root_admin"}),
		bookings:   NewBookingService(e),
	}
}

func draft(title string, price int64) *models.Property {
	return &models.Property{
		Title:       title,
		Location:    "Bandra West, Mumbai",
		Category:    models.CategoryApartment,
		Price:       price,
		Sqft:        1200,
		Images:      []string{"https://images.example/1.jpg"},
		Coordinates: models.Coordinates{Lat: 19.0596, Lng: 72.8295},
	}
}

// submit creates a pending listing owned by sellerID.
func (f *fixture) submit(t *testing.T, sellerID, title string, price int64) *models.Property {
	t.Helper()
	p, err := f.listings.Submit(context.Background(), sellerID, draft(title, price))
	require.NoError(t, err)
	return p
}

// live creates a verified listing owned by sellerID.
func (f *fixture) live(t *testing.T, sellerID, title string, price int64) *models.Property {
	t.Helper()
	p := f.submit(t, sellerID, title, price)
	approved, err := f.listings.Approve(context.Background(), admin, p.ID)
	require.NoError(t, err)
	return approved
}

func (f *fixture) mustFind(t *testing.T, id string) *models.Property {
	t.Helper()
	p, ok := f.store.FindProperty(id)
	require.True(t, ok, "property %s should exist", id)
	return p
}

// requireReportedInvariant checks that every property is flagged exactly
// when a pending report references it.
func requireReportedInvariant(t *testing.T, st store.Store) {
	t.Helper()
	pending := models.ReportPending
	flagged := map[string]bool{}
	for _, r := range st.ListReports(&pending) {
		flagged[r.PropertyID] = true
	}
	for _, p := range st.ListProperties() {
		require.Equal(t, flagged[p.ID], p.Reported, "reported flag of %s", p.ID)
	}
}

// MockNotifier is a mock implementation of notify.Notifier for testing
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n models.Notification) {
	m.Called(ctx, n)
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }
