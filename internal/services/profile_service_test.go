package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/estatehub/internal/models"
)

func TestSignIn_CreatesProfile(t *testing.T) {
	f := newFixture(t)

	u, err := f.profiles.SignIn(context.Background(), Identity{
		ID:       "google-123",
		Name:     " Neha Gupta ",
		Avatar:   "https://avatars.example/neha.png",
		Phone:    "9876543210",
		Verified: true,
	}, models.RoleBuyer)
	require.NoError(t, err)

	assert.Equal(t, "Neha Gupta", u.Name)
	assert.Equal(t, models.RoleBuyer, u.Role)
	assert.True(t, u.Verified)
	assert.False(t, u.CreatedAt.IsZero())

	stored, err := f.profiles.FindUser(context.Background(), "google-123")
	require.NoError(t, err)
	assert.Equal(t, u.Name, stored.Name)
}

func TestSignIn_ReturningUserKeepsListsAndBan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.live(t, sellerA, "Villa", 1000000)

	_, err := f.profiles.ToggleSaved(ctx, buyer, p.ID)
	require.NoError(t, err)
	_, err = f.profiles.ToggleLiked(ctx, buyer, p.ID)
	require.NoError(t, err)
	_, err = f.profiles.ToggleBan(ctx, admin, buyer)
	require.NoError(t, err)

	u, err := f.profiles.SignIn(ctx, Identity{ID: buyer, Name: "Aarav M"}, models.RoleBuyer)
	require.NoError(t, err)

	assert.Equal(t, "Aarav M", u.Name)
	assert.Equal(t, models.RoleBuyer, u.Role)
	assert.Equal(t, []string{p.ID}, u.SavedProperties)
	assert.Equal(t, []string{p.ID}, u.LikedProperties)
	assert.True(t, u.Banned)
}

func TestSignIn_RoleIsLocked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.profiles.SignIn(ctx, Identity{ID: sellerA, Name: "Demoted"}, models.RoleBuyer)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, err = f.profiles.SignIn(ctx, Identity{ID: admin, Name: "Mallory"}, models.RoleSeller)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	stored, _ := f.store.FindUser(sellerA)
	assert.Equal(t, models.RoleSeller, stored.Role)
	assert.NotEqual(t, "Demoted", stored.Name)
	stored, _ = f.store.FindUser(admin)
	assert.Equal(t, models.RoleAdmin, stored.Role)
	assert.NotEqual(t, "Mallory", stored.Name)

	// The identity provider can grant a role change.
	u, err := f.profiles.SignIn(ctx, Identity{ID: buyer, Name: "Aarav", Roles: []models.Role{models.RoleSeller}}, models.RoleSeller)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeller, u.Role)
}

func TestSignIn_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.profiles.SignIn(ctx, Identity{ID: "x", Name: "X"}, models.RoleNone)
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = f.profiles.SignIn(ctx, Identity{ID: "x", Name: "X"}, "OWNER")
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = f.profiles.SignIn(ctx, Identity{Name: "X"}, models.RoleBuyer)
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = f.profiles.SignIn(ctx, Identity{ID: "x"}, models.RoleBuyer)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.profiles.SignIn(ctx, Identity{ID: "x", Name: "X"}, models.RoleAdmin)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, err = f.profiles.SignIn(ctx, Identity{ID: buyer, Name: "Aarav"}, models.RoleAdmin)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = f.profiles.FindUser(ctx, "x")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSignIn_AdminRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.profiles.SignIn(ctx, Identity{ID: "root_admin", Name: "Root"}, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)

	again, err := f.profiles.SignIn(ctx, Identity{ID: admin, Name: "Admin"}, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, again.Role)

	granted, err := f.profiles.SignIn(ctx, Identity{ID: "ops_1", Name: "Ops", Roles: []models.Role{models.RoleAdmin}}, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, granted.Role)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.profiles.UpdateProfile(ctx, buyer, ProfileUpdate{Phone: strPtr(" 9123456780 ")})
	require.NoError(t, err)
	assert.Equal(t, "9123456780", u.Phone)
	assert.Equal(t, "Aarav Mehta", u.Name)

	_, err = f.profiles.UpdateProfile(ctx, buyer, ProfileUpdate{Name: strPtr("  ")})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = f.profiles.UpdateProfile(ctx, buyer, ProfileUpdate{})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = f.profiles.UpdateProfile(ctx, "ghost", ProfileUpdate{Name: strPtr("G")})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	stored, _ := f.store.FindUser(buyer)
	assert.Equal(t, "Aarav Mehta", stored.Name)
}

func TestUpdateProfile_MutesNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.live(t, sellerA, "Villa", 1000000)
	before := len(f.outbox.ForRecipient(buyer))

	u, err := f.profiles.UpdateProfile(ctx, buyer, ProfileUpdate{AllowNotifications: boolPtr(false)})
	require.NoError(t, err)
	assert.True(t, u.NotificationsMuted)

	_, err = f.profiles.ToggleSaved(ctx, buyer, p.ID)
	require.NoError(t, err)
	_, err = f.moderation.FileReport(ctx, buyer, p.ID, "fake", "")
	require.NoError(t, err)
	assert.Len(t, f.outbox.ForRecipient(buyer), before)

	// Other recipients are unaffected.
	sellerNotes := len(f.outbox.ForRecipient(sellerA))
	_, err = f.listings.Submit(ctx, sellerA, draft("Second", 200))
	require.NoError(t, err)
	assert.Len(t, f.outbox.ForRecipient(sellerA), sellerNotes+1)

	_, err = f.profiles.UpdateProfile(ctx, buyer, ProfileUpdate{AllowNotifications: boolPtr(true)})
	require.NoError(t, err)
	_, err = f.profiles.ToggleSaved(ctx, buyer, p.ID)
	require.NoError(t, err)
	notes := f.outbox.ForRecipient(buyer)
	require.Len(t, notes, before+1)
	assert.Equal(t, models.KindPropertyRemoved, notes[0].Kind)
}

func TestToggleSaved_SetSemantics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.live(t, sellerA, "Villa", 1000000)

	u, err := f.profiles.ToggleSaved(ctx, buyer, p.ID)
	require.NoError(t, err)
	assert.True(t, u.HasSaved(p.ID))

	u, err = f.profiles.ToggleSaved(ctx, buyer, p.ID)
	require.NoError(t, err)
	assert.False(t, u.HasSaved(p.ID))

	_, err = f.profiles.ToggleSaved(ctx, buyer, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestToggleSaved_Notifies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.live(t, sellerA, "Villa", 1000000)

	_, err := f.profiles.ToggleSaved(ctx, buyer, p.ID)
	require.NoError(t, err)
	notes := f.outbox.ForRecipient(buyer)
	require.Len(t, notes, 1)
	assert.Equal(t, models.KindPropertySaved, notes[0].Kind)
	assert.Equal(t, "Property Saved", notes[0].Title)
	assert.Equal(t, "Listing added to your saved collection.", notes[0].Body)
	assert.Equal(t, p.ID, notes[0].Payload["propertyId"])

	_, err = f.profiles.ToggleSaved(ctx, buyer, p.ID)
	require.NoError(t, err)
	notes = f.outbox.ForRecipient(buyer)
	require.Len(t, notes, 2)
	assert.Equal(t, models.KindPropertyRemoved, notes[0].Kind)
	assert.Equal(t, "Property Removed", notes[0].Title)
	assert.Equal(t, "Listing removed from your collection.", notes[0].Body)

	// A rejected toggle emits nothing.
	_, err = f.profiles.ToggleSaved(ctx, buyer, "missing")
	require.Error(t, err)
	assert.Len(t, f.outbox.ForRecipient(buyer), 2)
}

func TestToggleSaved_DanglingReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.live(t, sellerA, "Villa", 1000000)
	keep := f.live(t, sellerB, "Flat", 500000)

	_, err := f.profiles.ToggleSaved(ctx, buyer, p.ID)
	require.NoError(t, err)
	_, err = f.profiles.ToggleSaved(ctx, buyer, keep.ID)
	require.NoError(t, err)
	require.NoError(t, f.listings.Remove(ctx, admin, p.ID))

	saved, err := f.profiles.SavedProperties(ctx, buyer)
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, ids(saved))

	// Removing a dangling id still works.
	u, err := f.profiles.ToggleSaved(ctx, buyer, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, u.SavedProperties)
}

func TestToggleLiked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.live(t, sellerA, "Villa", 1000000)
	pending := f.submit(t, sellerA, "Pending", 1000000)

	u, err := f.profiles.ToggleLiked(ctx, buyer, p.ID)
	require.NoError(t, err)
	assert.True(t, u.HasLiked(p.ID))

	_, err = f.profiles.ToggleLiked(ctx, buyer, pending.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestToggleBan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.live(t, sellerB, "Flat", 500000)

	u, err := f.profiles.ToggleBan(ctx, admin, sellerA)
	require.NoError(t, err)
	assert.True(t, u.Banned)

	// Banned actors lose mutating privileges but can still query.
	_, err = f.listings.Submit(ctx, sellerA, draft("A", 100))
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, err = f.profiles.ToggleSaved(ctx, sellerA, p.ID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.Len(t, f.listings.QueryVisible(ctx, sellerA, Filter{}), 1)

	u, err = f.profiles.ToggleBan(ctx, admin, sellerA)
	require.NoError(t, err)
	assert.False(t, u.Banned)
	_, err = f.listings.Submit(ctx, sellerA, draft("A", 100))
	assert.NoError(t, err)
}

func TestToggleBan_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.profiles.ToggleBan(ctx, sellerA, buyer)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, err = f.profiles.ToggleBan(ctx, admin, admin)
	assert.ErrorIs(t, err, models.ErrInvalidState)
	_, err = f.profiles.ToggleBan(ctx, admin, "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
