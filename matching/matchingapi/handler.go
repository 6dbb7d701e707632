package matchingapi

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/talentforge/matchengine/matching"
	"github.com/talentforge/matchengine/matching/matchingsrv"
)

// MaxResumeSize caps uploaded resume files at 10MB. The fiber BodyLimit must
// sit above it or the request is rejected before this handler ever sees it.
const MaxResumeSize = 10 * 1024 * 1024

type MatchingHandlers struct {
	engine *matchingsrv.Engine
}

func NewMatchingHandlers(engine *matchingsrv.Engine) *MatchingHandlers {
	return &MatchingHandlers{engine: engine}
}

func (h *MatchingHandlers) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/health", h.Health)

	// Document ingestion
	api.Post("/parse", h.ParseResume)

	// Matching & scoring
	api.Post("/match/lexical", h.MatchLexical)
	api.Post("/match/semantic", h.MatchSemantic)
	api.Post("/predict-fit", h.PredictFit)
	api.Post("/screen", h.ScreenCandidates)

	// Talent pool
	api.Get("/clusters", h.GetClusters)
	api.Post("/search-pool", h.SearchPool)
	api.Get("/insights", h.GetInsights)
}

// Health reports service liveness and per-model readiness
// GET /api/v1/health
func (h *MatchingHandlers) Health(c *fiber.Ctx) error {
	return c.JSON(matching.HealthResponse{
		Status:       "healthy",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		ModelsLoaded: h.engine.Registry().ModelsLoaded(),
	})
}

// ParseResume extracts a candidate profile from an uploaded resume file
// POST /api/v1/parse (multipart, field "resume")
func (h *MatchingHandlers) ParseResume(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return matching.ErrFileRequired()
	}

	if file.Size > MaxResumeSize {
		return matching.ErrInvalidFileFormat().
			WithDetail("reason", "file too large").
			WithDetail("max_size_bytes", MaxResumeSize)
	}

	uploaded, err := file.Open()
	if err != nil {
		return matching.ErrFileReadFailed(err)
	}
	defer uploaded.Close()

	data, err := io.ReadAll(uploaded)
	if err != nil {
		return matching.ErrFileReadFailed(err)
	}

	response, err := h.engine.Parse(c.Context(), file.Filename, data)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// MatchLexical scores resumes against a job description in the lexical space
// POST /api/v1/match/lexical
func (h *MatchingHandlers) MatchLexical(c *fiber.Ctx) error {
	var req matching.MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return matching.ErrInvalidRequest().WithDetail("reason", "malformed request body")
	}

	response, err := h.engine.LexicalMatch(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// MatchSemantic scores resumes against a job description with dense embeddings
// POST /api/v1/match/semantic
func (h *MatchingHandlers) MatchSemantic(c *fiber.Ctx) error {
	var req matching.MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return matching.ErrInvalidRequest().WithDetail("reason", "malformed request body")
	}

	response, err := h.engine.SemanticMatch(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// PredictFit runs the fit classifier over engineered candidate features
// POST /api/v1/predict-fit
func (h *MatchingHandlers) PredictFit(c *fiber.Ctx) error {
	var req matching.PredictFitRequest
	if err := c.BodyParser(&req); err != nil {
		return matching.ErrInvalidRequest().WithDetail("reason", "malformed request body")
	}

	response, err := h.engine.PredictFit(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// GetClusters returns the current talent pool partition
// GET /api/v1/clusters
func (h *MatchingHandlers) GetClusters(c *fiber.Ctx) error {
	response, err := h.engine.ClusterSnapshot(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// SearchPool ranks the indexed talent pool against a free-text query
// POST /api/v1/search-pool
func (h *MatchingHandlers) SearchPool(c *fiber.Ctx) error {
	var req matching.SearchPoolRequest
	if err := c.BodyParser(&req); err != nil {
		return matching.ErrInvalidRequest().WithDetail("reason", "malformed request body")
	}

	response, err := h.engine.SearchPool(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// ScreenCandidates scores a batch of candidates against job requirements
// POST /api/v1/screen
func (h *MatchingHandlers) ScreenCandidates(c *fiber.Ctx) error {
	var req matching.ScreenRequest
	if err := c.BodyParser(&req); err != nil {
		return matching.ErrInvalidRequest().WithDetail("reason", "malformed request body")
	}

	response, err := h.engine.Screen(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// GetInsights aggregates talent pool analytics
// GET /api/v1/insights
func (h *MatchingHandlers) GetInsights(c *fiber.Ctx) error {
	response, err := h.engine.Insights(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(response)
}
