package matchingsrv

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsUnsupportedFormat(t *testing.T) {
	engine := emptyEngine(t, nil)

	_, err := engine.Parse(context.Background(), "resume.txt", []byte("plain text"))
	e := asErrx(t, err)
	assert.Equal(t, http.StatusBadRequest, e.HTTPStatus)

	_, err = engine.Parse(context.Background(), "noextension", []byte("data"))
	assert.Equal(t, http.StatusBadRequest, asErrx(t, err).HTTPStatus)
}

func TestParseEmptyFileIsSoftMiss(t *testing.T) {
	engine := emptyEngine(t, nil)

	resp, err := engine.Parse(context.Background(), "empty.pdf", []byte{})
	require.NoError(t, err)

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Unknown Candidate", resp.Name)
	assert.Equal(t, "Not Found", resp.Email)
	assert.Equal(t, "Not Found", resp.Phone)
	assert.Empty(t, resp.Skills)
	assert.Equal(t, "empty.pdf", resp.OriginalFilename)
	assert.Zero(t, resp.FileSize)
	assert.NotEmpty(t, resp.ParsedAt)
}

func TestParseCaseInsensitiveExtension(t *testing.T) {
	engine := emptyEngine(t, nil)

	resp, err := engine.Parse(context.Background(), "Resume.PDF", []byte{})
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, int64(0), resp.FileSize)
}
