package matchingsrv

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/talentforge/matchengine/internal/textextract"
	"github.com/talentforge/matchengine/matching"
	"github.com/talentforge/matchengine/pkg/logx"
)

// Parse extracts a structured profile from an uploaded resume document.
// Unparseable or empty documents are a soft miss: the response is a success
// with sentinel contact fields and no skills, because broken files are
// routine in real uploads.
func (e *Engine) Parse(ctx context.Context, filename string, data []byte) (*matching.ParseResponse, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if !textextract.IsSupported(ext) {
		return nil, matching.ErrInvalidFileFormat().
			WithDetail("filename", filename).
			WithDetail("supported", []string{"pdf", "doc", "docx"})
	}

	text := textextract.Extract(data, ext)
	if text == "" {
		logx.Infof("no text extracted from %s (%d bytes), returning sentinel profile", filename, len(data))
	}
	profile := ExtractProfile(text)

	return &matching.ParseResponse{
		Name:             profile.Name,
		Email:            profile.Email,
		Phone:            profile.Phone,
		Skills:           profile.Skills,
		Text:             profile.Text,
		RawTextPreview:   profile.RawTextPreview,
		ParsedAt:         time.Now().UTC().Format(time.RFC3339),
		OriginalFilename: filename,
		FileSize:         int64(len(data)),
		Status:           "success",
	}, nil
}
