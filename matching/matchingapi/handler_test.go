package matchingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentforge/matchengine/matching"
	"github.com/talentforge/matchengine/matching/matchingsrv"
	"github.com/talentforge/matchengine/pkg/errx"
)

type memStore struct {
	artifacts map[string][]byte
}

func (s *memStore) Read(_ context.Context, name string) ([]byte, error) {
	data, ok := s.artifacts[name]
	if !ok {
		return nil, fmt.Errorf("artifact %s: %w", name, fs.ErrNotExist)
	}
	return data, nil
}

func (s *memStore) Write(_ context.Context, name string, data []byte) error {
	s.artifacts[name] = data
	return nil
}

func (s *memStore) IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	registry := matchingsrv.NewRegistry(&memStore{artifacts: map[string][]byte{}}, nil)
	registry.Load(context.Background())

	app := fiber.New(fiber.Config{
		BodyLimit: MaxResumeSize + 1024*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *errx.Error
			if errors.As(err, &e) {
				return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	NewMatchingHandlers(matchingsrv.NewEngine(registry)).RegisterRoutes(app)
	return app
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health matching.HealthResponse
	decodeBody(t, resp, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.NotEmpty(t, health.Timestamp)
	// nothing trained in this fixture
	assert.False(t, health.ModelsLoaded["lexical"])
	assert.False(t, health.ModelsLoaded["semantic"])
}

func TestParseRequiresFile(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestParseEmptyUploadSucceeds(t *testing.T) {
	app := newTestApp(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("resume", "empty.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte{})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed matching.ParseResponse
	decodeBody(t, resp, &parsed)
	assert.Equal(t, "success", parsed.Status)
	assert.Equal(t, "empty.pdf", parsed.OriginalFilename)
	assert.Equal(t, "Unknown Candidate", parsed.Name)
}

func TestParseRejectsOversizedUpload(t *testing.T) {
	app := newTestApp(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("resume", "huge.pdf")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{'a'}, MaxResumeSize+1))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	// the app body limit sits above the resume cap, so the size check in the
	// handler answers with a structured 400 rather than fiber's 413
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody map[string]any
	decodeBody(t, resp, &errBody)
	assert.Contains(t, fmt.Sprintf("%v", errBody), "file too large")
}

func TestParseUnsupportedFormat(t *testing.T) {
	app := newTestApp(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("resume", "resume.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text resume"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMatchLexicalEndpoint(t *testing.T) {
	app := newTestApp(t)

	payload := `{
		"jobDescription": "Python developer with Flask and Docker experience",
		"resumes": [
			"Java developer building Spring applications",
			{"text": "Python developer, Flask services deployed with Docker"}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match/lexical", strings.NewReader(payload))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var match matching.MatchResponse
	decodeBody(t, resp, &match)
	require.Len(t, match.Matches, 2)
	assert.Equal(t, 1, match.Matches[0].Index)
	assert.Equal(t, "lexical", match.Method)
	assert.Equal(t, "transient", match.Mode)
}

func TestMatchLexicalValidation(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match/lexical",
		strings.NewReader(`{"jobDescription":"","resumes":[]}`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMatchSemanticUnavailable(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match/semantic",
		strings.NewReader(`{"jobDescription":"Go engineer","resumes":["Go services"]}`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestPredictFitUnavailableBeforeTraining(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict-fit",
		strings.NewReader(`{"features":{"skillsCount":5,"experience":4,"education":"Master's"}}`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestClustersUnavailableBeforeTraining(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/clusters", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestSearchPoolMalformedBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search-pool", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScreenEndpoint(t *testing.T) {
	app := newTestApp(t)

	payload := `{
		"jobRequirements": "Python developer with Docker",
		"candidates": {
			"alice": {"role": "Backend Engineer", "skills": ["Python", "Docker"]},
			"bob": "Graphic designer portfolio"
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/screen", strings.NewReader(payload))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var results map[string]matching.ScreenResult
	decodeBody(t, resp, &results)
	require.Len(t, results, 2)
	assert.Greater(t, results["alice"].MatchScore, results["bob"].MatchScore)
	assert.GreaterOrEqual(t, results["alice"].CulturalFitScore, 0.4)
}

func TestInsightsUnavailableBeforeTraining(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/insights", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
