package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ReviewController serves item reviews, recommendations and review moderation
type ReviewController struct {
	reviews         services.ReviewService
	recommendations services.RecommendationService
}

func NewReviewController(reviews services.ReviewService, recommendations services.RecommendationService) *ReviewController {
	return &ReviewController{reviews: reviews, recommendations: recommendations}
}

type reviewRequest struct {
	CustomerName string `json:"customer_name" binding:"max=100"`
	Rating       int    `json:"rating" binding:"required"`
	Comment      string `json:"comment" binding:"max=2000"`
}

// ListReviews godoc
// @Summary Approved reviews of an item
// @Description Includes the average rating and the count of approved reviews
// @Tags reviews
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} models.ReviewSummary
// @Router /api/item/{id}/reviews [get]
func (rc *ReviewController) ListReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := rc.reviews.ListApproved(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CreateReview godoc
// @Summary Review an item
// @Description Reviews stay hidden until an admin approves them
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param review body reviewRequest true "Review"
// @Success 201 {object} models.Review
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/item/{id}/reviews [post]
func (rc *ReviewController) CreateReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	review, err := rc.reviews.CreateReview(id, req.CustomerName, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// Recommendations godoc
// @Summary Cross-sell suggestions for an item
// @Tags reviews
// @Produce json
// @Param id path int true "Item ID"
// @Param lang query string false "Language code for item names"
// @Success 200 {array} services.Recommendation
// @Failure 404 {object} models.APIError
// @Router /api/item/{id}/recommendations [get]
func (rc *ReviewController) Recommendations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recs, err := rc.recommendations.Recommend(id, c.Query("lang"), services.DefaultRecommendationLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// ListPendingReviews godoc
// @Summary Reviews awaiting moderation
// @Tags admin
// @Produce json
// @Success 200 {array} models.Review
// @Security BearerAuth
// @Router /api/admin/reviews [get]
func (rc *ReviewController) ListPendingReviews(c *gin.Context) {
	reviews, err := rc.reviews.ListPending()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// ApproveReview godoc
// @Summary Approve a review
// @Tags admin
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} models.Review
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/admin/reviews/{id}/approve [patch]
func (rc *ReviewController) ApproveReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	review, err := rc.reviews.ApproveReview(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}
