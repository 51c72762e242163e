package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stylesphere/backend/internal/domain"
)

const serviceVersion = "1.0.0"

// AnalysisUsecase is the part of the analysis service the handlers use.
type AnalysisUsecase interface {
	AnalyzeColors(ctx context.Context, userID string, images []domain.Image) (*domain.ColorAnalysis, error)
	AnalyzeWardrobeItem(ctx context.Context, userID, categoryHint string, image domain.Image) (*domain.WardrobeItem, error)
	GenerateStyleDNA(ctx context.Context, userID string, itemIDs []string) (*domain.StyleDNA, error)
	GetUserProfile(ctx context.Context, userID string) (*domain.ProfileView, error)
}

// RecommendationUsecase is the part of the recommendation service the handlers use.
type RecommendationUsecase interface {
	Recommend(ctx context.Context, userID string, intent *domain.ShoppingIntent) ([]domain.ScoredProduct, error)
	RecommendForProfile(ctx context.Context, profile *domain.UserProfile, intent *domain.ShoppingIntent) ([]domain.ScoredProduct, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysis        AnalysisUsecase
	recommendations RecommendationUsecase
	maxUploadBytes  int64
	ping            func(ctx context.Context) error
}

// NewHandler creates a new HTTP handler. Either service may be nil, in which
// case its endpoints answer 501.
func NewHandler(analysis AnalysisUsecase, recommendations RecommendationUsecase, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{
		analysis:        analysis,
		recommendations: recommendations,
		maxUploadBytes:  maxUploadBytes,
	}
}

// SetHealthProbe registers a dependency check run by HealthCheck, e.g. a database ping.
func (h *Handler) SetHealthProbe(ping func(ctx context.Context) error) {
	h.ping = ping
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": "stylesphere-backend",
				"error":   err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "stylesphere-backend",
		"version": serviceVersion,
	})
}

// AnalyzeColors handles POST /api/v1/analyze-colors
func (h *Handler) AnalyzeColors(c *gin.Context) {
	if h.analysis == nil {
		notImplemented(c)
		return
	}

	form, ok := h.multipartForm(c)
	if !ok {
		return
	}
	images, err := readImages(form.File["files"])
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.analysis.AnalyzeColors(c.Request.Context(), c.Query("user_id"), images)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AnalyzeWardrobeItem handles POST /api/v1/analyze-wardrobe-item
func (h *Handler) AnalyzeWardrobeItem(c *gin.Context) {
	if h.analysis == nil {
		notImplemented(c)
		return
	}

	form, ok := h.multipartForm(c)
	if !ok {
		return
	}
	files := form.File["file"]
	if len(files) != 1 {
		writeError(c, domain.NewValidationError("file", "exactly one image is required"))
		return
	}
	images, err := readImages(files)
	if err != nil {
		writeError(c, err)
		return
	}

	item, err := h.analysis.AnalyzeWardrobeItem(c.Request.Context(), c.Query("user_id"), c.Query("category_hint"), images[0])
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

type styleDNARequest struct {
	UserID  string   `json:"user_id" binding:"required"`
	ItemIDs []string `json:"item_ids"`
}

// GenerateStyleDNA handles POST /api/v1/generate-style-dna
func (h *Handler) GenerateStyleDNA(c *gin.Context) {
	if h.analysis == nil {
		notImplemented(c)
		return
	}

	var req styleDNARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewValidationError("", fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	dna, err := h.analysis.GenerateStyleDNA(c.Request.Context(), req.UserID, req.ItemIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dna)
}

// GetUserProfile handles GET /api/v1/user-profile/:user_id
func (h *Handler) GetUserProfile(c *gin.Context) {
	if h.analysis == nil {
		notImplemented(c)
		return
	}

	view, err := h.analysis.GetUserProfile(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type recommendationRequest struct {
	UserID         string                 `json:"user_id"`
	Profile        *domain.UserProfile    `json:"profile"`
	ShoppingIntent *domain.ShoppingIntent `json:"shopping_intent" binding:"required"`
}

// Recommend handles POST /api/v1/recommendations. The body names either a
// stored user or carries an inline profile.
func (h *Handler) Recommend(c *gin.Context) {
	if h.recommendations == nil {
		notImplemented(c)
		return
	}

	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewValidationError("", fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	var (
		ranked []domain.ScoredProduct
		err    error
	)
	switch {
	case req.Profile != nil:
		ranked, err = h.recommendations.RecommendForProfile(c.Request.Context(), req.Profile, req.ShoppingIntent)
	case req.UserID != "":
		ranked, err = h.recommendations.Recommend(c.Request.Context(), req.UserID, req.ShoppingIntent)
	default:
		err = domain.NewValidationError("user_id", "user_id or profile is required")
	}
	if err != nil {
		writeError(c, err)
		return
	}

	if ranked == nil {
		ranked = []domain.ScoredProduct{}
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": ranked})
}

// multipartForm parses the upload, capped at maxUploadBytes. It writes the
// error response itself and reports false on failure.
func (h *Handler) multipartForm(c *gin.Context) (*multipart.Form, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("upload exceeds %d bytes", h.maxUploadBytes)})
			return nil, false
		}
		writeError(c, domain.NewValidationError("files", fmt.Sprintf("invalid multipart form: %v", err)))
		return nil, false
	}
	return form, true
}

func readImages(files []*multipart.FileHeader) ([]domain.Image, error) {
	images := make([]domain.Image, 0, len(files))
	for _, fh := range files {
		data, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		images = append(images, domain.Image{MimeType: fh.Header.Get("Content-Type"), Data: data})
	}
	return images, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading upload %s: %w", fh.Filename, err)
	}
	return data, nil
}

func notImplemented(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "endpoint not configured"})
}
