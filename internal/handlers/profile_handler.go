package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/estatehub/internal/errors"
	"github.com/stwalsh4118/estatehub/internal/middleware"
	"github.com/stwalsh4118/estatehub/internal/models"
	"github.com/stwalsh4118/estatehub/internal/services"
)

// NotificationFeed lists delivered notifications for a recipient, newest first.
type NotificationFeed interface {
	ForRecipient(recipientID string) []models.Notification
}

// ProfileHandler handles the caller's own profile, bookings and inbox, plus
// admin bans.
type ProfileHandler struct {
	profiles services.ProfileService
	bookings services.BookingService
	feed     NotificationFeed
}

// NewProfileHandler creates a new ProfileHandler instance.
func NewProfileHandler(profiles services.ProfileService, bookings services.BookingService, feed NotificationFeed) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		bookings: bookings,
		feed:     feed,
	}
}

// UpdateProfileRequest edits the caller's name, phone and notification
// preference.
type UpdateProfileRequest struct {
	Name               *string `json:"name" binding:"omitempty,min=1,max=120"`
	Phone              *string `json:"phone" binding:"omitempty,max=20"`
	AllowNotifications *bool   `json:"allowNotifications"`
}

// BookingRequest records a visit paid through the payment gateway.
type BookingRequest struct {
	PaymentRef string `json:"paymentRef" binding:"required,max=128"`
}

// UserResponse represents the response for profile endpoints.
type UserResponse struct {
	User *models.UserProfile `json:"user"`
}

// BookingResponse represents the response for the booking endpoint.
type BookingResponse struct {
	Booking *models.Booking `json:"booking"`
}

// BookingListResponse represents the response for the caller's bookings.
type BookingListResponse struct {
	Bookings []*models.Booking `json:"bookings"`
	Count    int               `json:"count"`
}

// NotificationListResponse represents the caller's notification inbox.
type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Count         int                   `json:"count"`
}

// Me handles GET /api/v1/me.
func (h *ProfileHandler) Me(c *gin.Context) {
	user, err := h.profiles.FindUser(c.Request.Context(), middleware.GetActor(c).ID)
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, UserResponse{User: user})
}

// UpdateMe handles PATCH /api/v1/me.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, "Invalid profile update")
		return
	}

	user, err := h.profiles.UpdateProfile(c.Request.Context(), middleware.GetActor(c).ID, services.ProfileUpdate{
		Name:               req.Name,
		Phone:              req.Phone,
		AllowNotifications: req.AllowNotifications,
	})
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, UserResponse{User: user})
}

// ToggleSaved handles POST /api/v1/me/saved/:propertyId.
func (h *ProfileHandler) ToggleSaved(c *gin.Context) {
	user, err := h.profiles.ToggleSaved(c.Request.Context(), middleware.GetActor(c).ID, c.Param("propertyId"))
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to update saved listings")
		return
	}
	c.JSON(http.StatusOK, UserResponse{User: user})
}

// ToggleLiked handles POST /api/v1/me/liked/:propertyId.
func (h *ProfileHandler) ToggleLiked(c *gin.Context) {
	user, err := h.profiles.ToggleLiked(c.Request.Context(), middleware.GetActor(c).ID, c.Param("propertyId"))
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to update liked listings")
		return
	}
	c.JSON(http.StatusOK, UserResponse{User: user})
}

// Saved handles GET /api/v1/me/saved.
func (h *ProfileHandler) Saved(c *gin.Context) {
	props, err := h.profiles.SavedProperties(c.Request.Context(), middleware.GetActor(c).ID)
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to load saved listings")
		return
	}
	c.JSON(http.StatusOK, propertyList(props))
}

// Book handles POST /api/v1/properties/:id/bookings.
func (h *ProfileHandler) Book(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, "Invalid booking")
		return
	}

	booking, err := h.bookings.RecordBooking(c.Request.Context(), middleware.GetActor(c).ID, c.Param("id"), req.PaymentRef)
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to record booking")
		return
	}
	c.JSON(http.StatusCreated, BookingResponse{Booking: booking})
}

// Bookings handles GET /api/v1/me/bookings.
func (h *ProfileHandler) Bookings(c *gin.Context) {
	bookings, err := h.bookings.ListBookings(c.Request.Context(), middleware.GetActor(c).ID)
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to load bookings")
		return
	}
	c.JSON(http.StatusOK, BookingListResponse{Bookings: bookings, Count: len(bookings)})
}

// Notifications handles GET /api/v1/me/notifications.
func (h *ProfileHandler) Notifications(c *gin.Context) {
	notes := h.feed.ForRecipient(middleware.GetActor(c).ID)
	if notes == nil {
		notes = []models.Notification{}
	}
	c.JSON(http.StatusOK, NotificationListResponse{Notifications: notes, Count: len(notes)})
}

// ToggleBan handles POST /api/v1/admin/users/:id/ban.
func (h *ProfileHandler) ToggleBan(c *gin.Context) {
	user, err := h.profiles.ToggleBan(c.Request.Context(), middleware.GetActor(c).ID, c.Param("id"))
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to update ban")
		return
	}
	c.JSON(http.StatusOK, UserResponse{User: user})
}
