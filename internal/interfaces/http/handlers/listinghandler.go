package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"listcraft/internal/application/listing/usecases"
	"listcraft/internal/domain/billing"
	"listcraft/internal/domain/listing"
	"listcraft/internal/interfaces/http/middleware"
	"listcraft/internal/shared/logger"
	"listcraft/internal/shared/utils"
)

type ListingHandler struct {
	createUC   *usecases.CreateListingUseCase
	listUC     *usecases.ListListingsUseCase
	getUC      *usecases.GetListingUseCase
	generateUC *usecases.GenerateDescriptionUseCase
	logger     logger.Interface
}

func NewListingHandler(
	createUC *usecases.CreateListingUseCase,
	listUC *usecases.ListListingsUseCase,
	getUC *usecases.GetListingUseCase,
	generateUC *usecases.GenerateDescriptionUseCase,
	logger logger.Interface,
) *ListingHandler {
	return &ListingHandler{
		createUC:   createUC,
		listUC:     listUC,
		getUC:      getUC,
		generateUC: generateUC,
		logger:     logger,
	}
}

type CreateListingRequest struct {
	Title        string   `json:"title" binding:"required,max=200"`
	PropertyType string   `json:"property_type" binding:"required"`
	Bedrooms     uint     `json:"bedrooms"`
	Bathrooms    uint     `json:"bathrooms"`
	SquareFeet   uint     `json:"square_feet"`
	Location     string   `json:"location"`
	Features     []string `json:"features"`
}

type GenerateDescriptionRequest struct {
	Tone string `json:"tone" binding:"required,oneof=professional luxury friendly concise detailed"`
}

type listingResponse struct {
	ID                   uint     `json:"id"`
	Title                string   `json:"title"`
	PropertyType         string   `json:"property_type"`
	Bedrooms             uint     `json:"bedrooms"`
	Bathrooms            uint     `json:"bathrooms"`
	SquareFeet           uint     `json:"square_feet"`
	Location             string   `json:"location"`
	Features             []string `json:"features"`
	Tone                 string   `json:"tone,omitempty"`
	GeneratedDescription string   `json:"generated_description,omitempty"`
	Status               string   `json:"status"`
}

func toListingResponse(l *listing.Listing) listingResponse {
	return listingResponse{
		ID:                   l.ID(),
		Title:                l.Title(),
		PropertyType:         l.PropertyType(),
		Bedrooms:             l.Bedrooms(),
		Bathrooms:            l.Bathrooms(),
		SquareFeet:           l.SquareFeet(),
		Location:             l.Location(),
		Features:             l.Features(),
		Tone:                 string(l.Tone()),
		GeneratedDescription: l.GeneratedDescription(),
		Status:               string(l.Status()),
	}
}

func (h *ListingHandler) CreateListing(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create listing", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), usecases.CreateListingCommand{
		UserID:       userID,
		Title:        req.Title,
		PropertyType: req.PropertyType,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		SquareFeet:   req.SquareFeet,
		Location:     req.Location,
		Features:     req.Features,
	})
	if err != nil {
		utils.ErrorResponseFromErr(c, http.StatusBadRequest, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "listing created", toListingResponse(result))
}

func (h *ListingHandler) ListListings(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
		return
	}

	listings, err := h.listUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseFromErr(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}

	utils.SuccessResponse(c, http.StatusOK, "listings retrieved", out)
}

func (h *ListingHandler) GetListing(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
		return
	}

	listingID, err := parseListingID(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid listing ID")
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), userID, listingID)
	if err != nil {
		h.respondListingError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "listing retrieved", toListingResponse(result))
}

func (h *ListingHandler) GenerateDescription(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
		return
	}

	listingID, err := parseListingID(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid listing ID")
		return
	}

	var req GenerateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for generate description",
			"listing_id", listingID,
			"error", err,
		)
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	result, err := h.generateUC.Execute(c.Request.Context(), usecases.GenerateDescriptionCommand{
		UserID:    userID,
		ListingID: listingID,
		Tone:      listing.Tone(req.Tone),
	})
	if err != nil {
		h.respondListingError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "description generated", gin.H{
		"listing": toListingResponse(result.Listing),
		"quota":   result.Quota,
	})
}

func (h *ListingHandler) respondListingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, listing.ErrListingNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "listing not found")
	case errors.Is(err, listing.ErrListingForbidden):
		utils.ErrorResponse(c, http.StatusForbidden, "listing belongs to another user")
	case errors.Is(err, listing.ErrInvalidTone):
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid tone")
	case errors.Is(err, billing.ErrQuotaExceeded):
		utils.ErrorResponse(c, http.StatusPaymentRequired, "monthly description quota reached, upgrade your plan or wait for the next period")
	case errors.Is(err, billing.ErrSubscriptionNotFound), errors.Is(err, billing.ErrSubscriptionInactive):
		utils.ErrorResponse(c, http.StatusPaymentRequired, "an active subscription is required to generate descriptions")
	default:
		utils.ErrorResponseFromErr(c, http.StatusInternalServerError, err)
	}
}

func parseListingID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid listing ID")
	}
	return uint(id), nil
}
