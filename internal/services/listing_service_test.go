package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/estatehub/internal/models"
)

func TestSubmit_CreatesPendingListing(t *testing.T) {
	f := newFixture(t)

	d := draft("Sunrise Villa", 1000000)
	d.ID = "attacker-chosen"
	d.OwnerID = sellerB
	d.Verified = true
	d.Featured = true
	d.Reported = true
	d.Reviews = []models.Review{{AuthorName: "x", Rating: 5}}

	p, err := f.listings.Submit(context.Background(), sellerA, d)
	require.NoError(t, err)

	assert.NotEqual(t, "attacker-chosen", p.ID)
	assert.Equal(t, sellerA, p.OwnerID)
	assert.False(t, p.Verified)
	assert.False(t, p.Featured)
	assert.False(t, p.Reported)
	assert.Empty(t, p.Reviews)
	assert.Equal(t, models.StatePendingReview, f.mustFind(t, p.ID).State())

	notes := f.outbox.ForRecipient(sellerA)
	require.Len(t, notes, 1)
	assert.Equal(t, models.KindListingSubmitted, notes[0].Kind)
	assert.NotEmpty(t, notes[0].ID)
}

func TestSubmit_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.profiles.ToggleBan(ctx, admin, sellerB)
	require.NoError(t, err)

	tests := []struct {
		name    string
		actorID string
		draft   *models.Property
		wantErr error
	}{
		{"unknown seller", "ghost", draft("A", 100), models.ErrNotFound},
		{"anonymous", "", draft("A", 100), models.ErrUnauthorized},
		{"buyer", buyer, draft("A", 100), models.ErrUnauthorized},
		{"admin", admin, draft("A", 100), models.ErrUnauthorized},
		{"banned seller", sellerB, draft("A", 100), models.ErrUnauthorized},
		{"zero price", sellerA, draft("A", 0), models.ErrValidation},
		{"missing title", sellerA, draft("", 100), models.ErrValidation},
		{"nil draft", sellerA, nil, models.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.listings.Submit(ctx, tt.actorID, tt.draft)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, f.store.ListProperties())
	assert.Empty(t, f.outbox.ForRecipient(sellerA))
}

func TestSubmit_OriginalPriceBelowPrice(t *testing.T) {
	f := newFixture(t)
	d := draft("A", 1000)
	d.OriginalPrice = int64Ptr(999)

	_, err := f.listings.Submit(context.Background(), sellerA, d)

	var fields models.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "originalPrice")
}

func TestApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.submit(t, sellerA, "Sunrise Villa", 1000000)

	_, err := f.listings.Approve(ctx, buyer, p.ID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, err = f.listings.Approve(ctx, sellerA, p.ID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, err = f.listings.Approve(ctx, admin, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	approved, err := f.listings.Approve(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.True(t, approved.Verified)
	assert.True(t, f.mustFind(t, p.ID).Verified)

	_, err = f.listings.Approve(ctx, admin, p.ID)
	assert.ErrorIs(t, err, models.ErrInvalidState)

	notes := f.outbox.ForRecipient(sellerA)
	require.Len(t, notes, 2)
	assert.Equal(t, models.KindListingApproved, notes[0].Kind)
	assert.Equal(t, "Listing Approved!", notes[0].Title)
	assert.Equal(t, `Your property "Sunrise Villa" has been verified and is now live.`, notes[0].Body)
}

func TestApprove_UnauthorizedBeforeNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.listings.Approve(context.Background(), buyer, "missing")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestReject_IsDestructive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.submit(t, sellerA, "Sunrise Villa", 1000000)

	require.ErrorIs(t, f.listings.Reject(ctx, sellerA, p.ID), models.ErrUnauthorized)
	require.NoError(t, f.listings.Reject(ctx, admin, p.ID))

	_, ok := f.store.FindProperty(p.ID)
	assert.False(t, ok)
	_, err := f.listings.Find(ctx, admin, p.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = f.listings.Approve(ctx, admin, p.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, f.listings.Reject(ctx, admin, p.ID), models.ErrNotFound)

	notes := f.outbox.ForRecipient(sellerA)
	require.NotEmpty(t, notes)
	assert.Equal(t, models.KindListingRejected, notes[0].Kind)
	assert.Equal(t, `Your submission for "Sunrise Villa" was not approved. Please review our marketplace guidelines.`, notes[0].Body)
}

func TestReject_LiveListingIsInvalidState(t *testing.T) {
	f := newFixture(t)
	p := f.live(t, sellerA, "Sunrise Villa", 1000000)

	err := f.listings.Reject(context.Background(), admin, p.ID)
	assert.ErrorIs(t, err, models.ErrInvalidState)
	assert.True(t, f.mustFind(t, p.ID).Verified)
}

func TestRemove_DeletesSilently(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.Anything).Return()
	f := newFixtureWithNotifier(t, notifier)
	ctx := context.Background()

	live := f.live(t, sellerA, "Live", 500000)
	pending := f.submit(t, sellerA, "Pending", 500000)
	before := len(notifier.Calls)

	assert.ErrorIs(t, f.listings.Remove(ctx, buyer, live.ID), models.ErrUnauthorized)
	require.NoError(t, f.listings.Remove(ctx, admin, live.ID))
	require.NoError(t, f.listings.Remove(ctx, admin, pending.ID))
	assert.ErrorIs(t, f.listings.Remove(ctx, admin, live.ID), models.ErrNotFound)

	assert.Empty(t, f.store.ListProperties())
	assert.Len(t, notifier.Calls, before)
}

func TestEdit_OwnershipEnforced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.live(t, sellerB, "Priya's Flat", 2000000)
	patch := ListingPatch{Price: int64Ptr(1), Description: strPtr("hijacked")}

	for _, actor := range []string{sellerA, buyer, admin, "ghost", ""} {
		t.Run("actor "+actor, func(t *testing.T) {
			_, err := f.listings.Edit(ctx, actor, p.ID, patch)
			assert.ErrorIs(t, err, models.ErrUnauthorized)

			stored := f.mustFind(t, p.ID)
			assert.Equal(t, int64(2000000), stored.Price)
			assert.Empty(t, stored.Description)
		})
	}
}

func TestEdit_AppliesPatchAndKeepsVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.live(t, sellerA, "Sunrise Villa", 1000000)

	furnished := models.FurnishingFully
	images := []string{"https://images.example/2.jpg", "https://images.example/3.jpg"}
	updated, err := f.listings.Edit(ctx, sellerA, p.ID, ListingPatch{
		Price:         int64Ptr(900000),
		OriginalPrice: int64Ptr(1000000),
		Description:   strPtr("Freshly painted"),
		Dimensions:    strPtr("40x60"),
		BuiltUpArea:   intPtr(1800),
		Beds:          intPtr(4),
		Baths:         intPtr(3),
		Images:        &images,
		Furnishing:    &furnished,
	})
	require.NoError(t, err)

	stored := f.mustFind(t, p.ID)
	assert.Equal(t, updated.Price, stored.Price)
	assert.Equal(t, int64(900000), stored.Price)
	assert.Equal(t, int64(1000000), *stored.OriginalPrice)
	assert.Equal(t, "Freshly painted", stored.Description)
	assert.Equal(t, 4, *stored.Beds)
	assert.Equal(t, images, stored.Images)
	assert.Equal(t, models.FurnishingFully, stored.Furnishing)
	assert.True(t, stored.Verified)
	assert.Equal(t, 10, stored.DiscountPercent())

	notes := f.outbox.ForRecipient(sellerA)
	assert.Equal(t, models.KindListingUpdated, notes[0].Kind)
	assert.Equal(t, `Changes to "Sunrise Villa" have been synced.`, notes[0].Body)
}

func TestEdit_PendingListingStaysPending(t *testing.T) {
	f := newFixture(t)
	p := f.submit(t, sellerA, "Draft", 1000)

	_, err := f.listings.Edit(context.Background(), sellerA, p.ID, ListingPatch{Description: strPtr("more detail")})
	require.NoError(t, err)
	assert.False(t, f.mustFind(t, p.ID).Verified)
}

func TestEdit_InvalidPatchLeavesListingUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.live(t, sellerA, "Sunrise Villa", 1000000)

	_, err := f.listings.Edit(ctx, sellerA, p.ID, ListingPatch{Price: int64Ptr(2000000), OriginalPrice: int64Ptr(1500000)})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.listings.Edit(ctx, sellerA, p.ID, ListingPatch{Price: int64Ptr(0)})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.listings.Edit(ctx, sellerA, p.ID, ListingPatch{})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.listings.Edit(ctx, sellerA, "missing", ListingPatch{Price: int64Ptr(5)})
	assert.ErrorIs(t, err, models.ErrNotFound)

	stored := f.mustFind(t, p.ID)
	assert.Equal(t, int64(1000000), stored.Price)
	assert.Nil(t, stored.OriginalPrice)
}

func TestDiscount_RoundTripRestoresPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, price := range []int64{1, 7, 99, 1000, 123457, 1000000, 45000000, 987654321} {
		p := f.live(t, sellerA, "Discounted", price)

		discounted, err := f.listings.ApplyDiscount(ctx, sellerA, p.ID, 10)
		require.NoError(t, err)
		require.NotNil(t, discounted.OriginalPrice)
		assert.Equal(t, price, *discounted.OriginalPrice)

		reset, err := f.listings.ResetDiscount(ctx, sellerA, p.ID)
		require.NoError(t, err)
		assert.Equal(t, price, reset.Price, "price %d", price)
		assert.Equal(t, *reset.OriginalPrice, reset.Price)
	}
}

func TestApplyDiscount_CapturesBaselineOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.live(t, sellerA, "Villa", 1000000)

	first, err := f.listings.ApplyDiscount(ctx, sellerA, p.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(900000), first.Price)

	second, err := f.listings.ApplyDiscount(ctx, sellerA, p.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(750000), second.Price)
	assert.Equal(t, int64(1000000), *second.OriginalPrice)

	rounded, err := f.listings.ApplyDiscount(ctx, sellerA, p.ID, 33.3)
	require.NoError(t, err)
	assert.Equal(t, int64(667000), rounded.Price)
}

func TestApplyDiscount_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.live(t, sellerA, "Villa", 1000000)

	for _, pct := range []float64{-1, 100.5, 100} {
		_, err := f.listings.ApplyDiscount(ctx, sellerA, p.ID, pct)
		assert.ErrorIs(t, err, models.ErrValidation, "percent %v", pct)
	}
	_, err := f.listings.ApplyDiscount(ctx, sellerB, p.ID, 10)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	stored := f.mustFind(t, p.ID)
	assert.Equal(t, int64(1000000), stored.Price)
	assert.Nil(t, stored.OriginalPrice)
}

func TestApplyDiscount_ZeroPercentRecordsBaseline(t *testing.T) {
	f := newFixture(t)
	p := f.live(t, sellerA, "Villa", 1000000)

	got, err := f.listings.ApplyDiscount(context.Background(), sellerA, p.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1000000), got.Price)
	assert.Equal(t, int64(1000000), *got.OriginalPrice)
}

func TestResetDiscount_WithoutBaselineIsNoop(t *testing.T) {
	f := newFixture(t)
	p := f.live(t, sellerA, "Villa", 1000000)

	got, err := f.listings.ResetDiscount(context.Background(), sellerA, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000000), got.Price)
	assert.Nil(t, got.OriginalPrice)
}

func TestAddReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.live(t, sellerA, "Villa", 1000000)

	first, err := f.listings.AddReview(ctx, buyer, p.ID, 5, "  Lovely light  ")
	require.NoError(t, err)
	second, err := f.listings.AddReview(ctx, sellerB, p.ID, 3, "Pricey")
	require.NoError(t, err)

	stored := f.mustFind(t, p.ID)
	require.Len(t, stored.Reviews, 2)
	assert.Equal(t, second.ID, stored.Reviews[0].ID)
	assert.Equal(t, first.ID, stored.Reviews[1].ID)
	assert.Equal(t, "Aarav Mehta", stored.Reviews[1].AuthorName)
	assert.Equal(t, "Lovely light", stored.Reviews[1].Comment)
	assert.True(t, stored.Verified)
}

func TestAddReview_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	live := f.live(t, sellerA, "Villa", 1000000)
	pending := f.submit(t, sellerA, "Pending", 1000000)

	_, err := f.listings.AddReview(ctx, buyer, live.ID, 6, "")
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = f.listings.AddReview(ctx, buyer, live.ID, 0, "")
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = f.listings.AddReview(ctx, buyer, pending.ID, 4, "")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = f.listings.AddReview(ctx, sellerA, pending.ID, 4, "")
	assert.ErrorIs(t, err, models.ErrInvalidState)
	_, err = f.listings.AddReview(ctx, "", live.ID, 4, "")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	assert.Empty(t, f.mustFind(t, live.ID).Reviews)
}

func TestAdminViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pending := f.submit(t, sellerA, "Pending", 1000)
	live := f.live(t, sellerB, "Live", 1000)

	queue, err := f.listings.PendingQueue(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, []string{pending.ID}, ids(queue))

	inventory, err := f.listings.LiveInventory(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, []string{live.ID}, ids(inventory))

	_, err = f.listings.PendingQueue(ctx, sellerA)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, err = f.listings.LiveInventory(ctx, buyer)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	mine, err := f.listings.SellerListings(ctx, sellerA)
	require.NoError(t, err)
	assert.Equal(t, []string{pending.ID}, ids(mine))

	_, err = f.listings.SellerListings(ctx, "ghost")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestRejectedCommandsEmitNothing(t *testing.T) {
	notifier := new(MockNotifier)
	f := newFixtureWithNotifier(t, notifier)
	ctx := context.Background()

	_, _ = f.listings.Submit(ctx, buyer, draft("A", 100))
	_, _ = f.listings.Approve(ctx, admin, "missing")
	_ = f.listings.Reject(ctx, sellerA, "missing")

	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestNotificationDeliveredToOwner(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Kind == models.KindListingSubmitted
	})).Return().Once()
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Kind == models.KindListingApproved && n.RecipientID == sellerA && n.Payload["propertyId"] != ""
	})).Return().Once()
	f := newFixtureWithNotifier(t, notifier)

	f.live(t, sellerA, "Villa", 1000000)

	notifier.AssertExpectations(t)
}
