package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/estatehub/internal/errors"
	"github.com/stwalsh4118/estatehub/internal/middleware"
	"github.com/stwalsh4118/estatehub/internal/models"
	"github.com/stwalsh4118/estatehub/internal/services"
)

// ListingHandler handles listing lifecycle HTTP requests.
type ListingHandler struct {
	service services.ListingService
}

// NewListingHandler creates a new ListingHandler instance.
func NewListingHandler(service services.ListingService) *ListingHandler {
	return &ListingHandler{
		service: service,
	}
}

// ListQuery represents the query parameters for the listing search endpoint.
type ListQuery struct {
	MinPrice *int64 `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice *int64 `form:"maxPrice" binding:"omitempty,gte=0"`
	Beds     *int   `form:"beds" binding:"omitempty,gte=0"`
	Q        string `form:"q" binding:"max=200"`
	Category string `form:"category" binding:"omitempty,oneof=All Apartment Villa Plot Land Warehouse"`
}

// CreateListingRequest is the body of a listing submission.
type CreateListingRequest struct {
	OriginalPrice *int64             `json:"originalPrice" binding:"omitempty,gt=0"`
	Beds          *int               `json:"beds" binding:"omitempty,gte=0"`
	Baths         *int               `json:"baths" binding:"omitempty,gte=0"`
	BuiltUpArea   *int               `json:"builtUpArea" binding:"omitempty,gt=0"`
	LegalDocs     *models.LegalDocs  `json:"legalDocs"`
	Title         string             `json:"title" binding:"required,max=200"`
	Description   string             `json:"description" binding:"max=5000"`
	Location      string             `json:"location" binding:"required,max=300"`
	Dimensions    string             `json:"dimensions" binding:"max=100"`
	Category      models.Category    `json:"type" binding:"required,oneof=Apartment Villa Plot Land Warehouse"`
	Furnishing    models.Furnishing  `json:"furnishingStatus"`
	Images        []string           `json:"images" binding:"dive,required"`
	Coordinates   models.Coordinates `json:"coordinates"`
	Price         int64              `json:"price" binding:"required,gt=0"`
	Sqft          int                `json:"sqft" binding:"required,gt=0"`
}

// UpdateListingRequest is a partial edit; omitted fields are left unchanged.
type UpdateListingRequest struct {
	Price         *int64             `json:"price" binding:"omitempty,gt=0"`
	OriginalPrice *int64             `json:"originalPrice" binding:"omitempty,gt=0"`
	Description   *string            `json:"description" binding:"omitempty,max=5000"`
	Dimensions    *string            `json:"dimensions" binding:"omitempty,max=100"`
	BuiltUpArea   *int               `json:"builtUpArea" binding:"omitempty,gt=0"`
	Beds          *int               `json:"beds" binding:"omitempty,gte=0"`
	Baths         *int               `json:"baths" binding:"omitempty,gte=0"`
	Images        *[]string          `json:"images"`
	Furnishing    *models.Furnishing `json:"furnishingStatus"`
}

// DiscountRequest applies a percentage off the listing's baseline price.
type DiscountRequest struct {
	Percent *float64 `json:"percent" binding:"required,gte=0,lte=100"`
}

// ReviewRequest is the body of a new review.
type ReviewRequest struct {
	Comment string `json:"comment" binding:"max=2000"`
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
}

// PropertyData is a property as returned by the API, with its derived
// lifecycle state and discount.
type PropertyData struct {
	*models.Property
	State           models.ListingState `json:"state"`
	DiscountPercent int                 `json:"discountPercent"`
}

// PropertyResponse represents the response for single-listing endpoints.
type PropertyResponse struct {
	Property PropertyData `json:"property"`
}

// PropertyListResponse represents the response for listing collections.
type PropertyListResponse struct {
	Properties []PropertyData `json:"properties"`
	Count      int            `json:"count"`
}

// ReviewResponse represents the response for the review endpoint.
type ReviewResponse struct {
	Review *models.Review `json:"review"`
}

// List handles GET /api/v1/properties.
// Results are limited to what the caller may see, then filtered.
func (h *ListingHandler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apierrors.BindError(c, err, "Invalid query parameters")
		return
	}

	filter := services.Filter{
		Query:    q.Q,
		Category: models.Category(q.Category),
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Beds:     q.Beds,
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		apierrors.BadRequest(c, "minPrice must not exceed maxPrice", nil)
		return
	}

	actor := middleware.GetActor(c)
	c.JSON(http.StatusOK, propertyList(h.service.QueryVisible(c.Request.Context(), actor.ID, filter)))
}

// Get handles GET /api/v1/properties/:id.
func (h *ListingHandler) Get(c *gin.Context) {
	p, err := h.service.Find(c.Request.Context(), middleware.GetActor(c).ID, c.Param("id"))
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to load listing")
		return
	}
	c.JSON(http.StatusOK, PropertyResponse{Property: mapPropertyToDTO(p)})
}

// Create handles POST /api/v1/properties.
// The listing starts pending review.
func (h *ListingHandler) Create(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, "Invalid listing payload")
		return
	}

	draft := &models.Property{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		Dimensions:    req.Dimensions,
		Category:      req.Category,
		Furnishing:    req.Furnishing,
		Images:        req.Images,
		Coordinates:   req.Coordinates,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Sqft:          req.Sqft,
		Beds:          req.Beds,
		Baths:         req.Baths,
		BuiltUpArea:   req.BuiltUpArea,
		LegalDocs:     req.LegalDocs,
	}

	p, err := h.service.Submit(c.Request.Context(), middleware.GetActor(c).ID, draft)
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to submit listing")
		return
	}
	c.JSON(http.StatusCreated, PropertyResponse{Property: mapPropertyToDTO(p)})
}

// Update handles PATCH /api/v1/properties/:id.
func (h *ListingHandler) Update(c *gin.Context) {
	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, "Invalid listing update")
		return
	}

	patch := services.ListingPatch{
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Description:   req.Description,
		Dimensions:    req.Dimensions,
		BuiltUpArea:   req.BuiltUpArea,
		Beds:          req.Beds,
		Baths:         req.Baths,
		Images:        req.Images,
		Furnishing:    req.Furnishing,
	}

	p, err := h.service.Edit(c.Request.Context(), middleware.GetActor(c).ID, c.Param("id"), patch)
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to update listing")
		return
	}
	c.JSON(http.StatusOK, PropertyResponse{Property: mapPropertyToDTO(p)})
}

// ApplyDiscount handles POST /api/v1/properties/:id/discount.
func (h *ListingHandler) ApplyDiscount(c *gin.Context) {
	var req DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, "Invalid discount")
		return
	}

	p, err := h.service.ApplyDiscount(c.Request.Context(), middleware.GetActor(c).ID, c.Param("id"), *req.Percent)
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to apply discount")
		return
	}
	c.JSON(http.StatusOK, PropertyResponse{Property: mapPropertyToDTO(p)})
}

// ResetDiscount handles DELETE /api/v1/properties/:id/discount.
func (h *ListingHandler) ResetDiscount(c *gin.Context) {
	p, err := h.service.ResetDiscount(c.Request.Context(), middleware.GetActor(c).ID, c.Param("id"))
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to reset discount")
		return
	}
	c.JSON(http.StatusOK, PropertyResponse{Property: mapPropertyToDTO(p)})
}

// AddReview handles POST /api/v1/properties/:id/reviews.
func (h *ListingHandler) AddReview(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, "Invalid review")
		return
	}

	review, err := h.service.AddReview(c.Request.Context(), middleware.GetActor(c).ID, c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to add review")
		return
	}
	c.JSON(http.StatusCreated, ReviewResponse{Review: review})
}

// Pending handles GET /api/v1/admin/properties/pending.
func (h *ListingHandler) Pending(c *gin.Context) {
	props, err := h.service.PendingQueue(c.Request.Context(), middleware.GetActor(c).ID)
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to load pending listings")
		return
	}
	c.JSON(http.StatusOK, propertyList(props))
}

// Live handles GET /api/v1/admin/properties/live.
func (h *ListingHandler) Live(c *gin.Context) {
	props, err := h.service.LiveInventory(c.Request.Context(), middleware.GetActor(c).ID)
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to load live inventory")
		return
	}
	c.JSON(http.StatusOK, propertyList(props))
}

// Approve handles POST /api/v1/admin/properties/:id/approve.
func (h *ListingHandler) Approve(c *gin.Context) {
	p, err := h.service.Approve(c.Request.Context(), middleware.GetActor(c).ID, c.Param("id"))
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to approve listing")
		return
	}
	c.JSON(http.StatusOK, PropertyResponse{Property: mapPropertyToDTO(p)})
}

// Reject handles POST /api/v1/admin/properties/:id/reject.
// Rejection deletes the submission.
func (h *ListingHandler) Reject(c *gin.Context) {
	if err := h.service.Reject(c.Request.Context(), middleware.GetActor(c).ID, c.Param("id")); err != nil {
		apierrors.FromDomain(c, err, "Failed to reject listing")
		return
	}
	c.Status(http.StatusNoContent)
}

// Remove handles DELETE /api/v1/admin/properties/:id.
func (h *ListingHandler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), middleware.GetActor(c).ID, c.Param("id")); err != nil {
		apierrors.FromDomain(c, err, "Failed to remove listing")
		return
	}
	c.Status(http.StatusNoContent)
}

// Mine handles GET /api/v1/me/listings.
func (h *ListingHandler) Mine(c *gin.Context) {
	props, err := h.service.SellerListings(c.Request.Context(), middleware.GetActor(c).ID)
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to load your listings")
		return
	}
	c.JSON(http.StatusOK, propertyList(props))
}

func propertyList(props []*models.Property) PropertyListResponse {
	out := make([]PropertyData, 0, len(props))
	for _, p := range props {
		out = append(out, mapPropertyToDTO(p))
	}
	return PropertyListResponse{Properties: out, Count: len(out)}
}

// mapPropertyToDTO attaches the derived fields to a property.
func mapPropertyToDTO(p *models.Property) PropertyData {
	return PropertyData{
		Property:        p,
		State:           p.State(),
		DiscountPercent: p.DiscountPercent(),
	}
}
