// Package textextract converts uploaded document bytes into plain text.
// Extraction is best-effort: corrupt or unparseable input yields an empty
// string, never an error, so downstream feature extraction always receives
// a string to work with.
package textextract

import (
	"bytes"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/nguyenthenguyen/docx"

	"github.com/talentforge/matchengine/pkg/logx"
)

// SupportedExtensions are the upload formats the parse endpoint accepts
var SupportedExtensions = map[string]struct{}{
	"pdf":  {},
	"doc":  {},
	"docx": {},
}

// IsSupported reports whether the lowercase file extension can be extracted
func IsSupported(ext string) bool {
	_, ok := SupportedExtensions[strings.ToLower(ext)]
	return ok
}

// Extract returns the plain text of a document given its raw bytes and
// lowercase extension (pdf, doc, docx). Unsupported or unreadable documents
// degrade to "".
func Extract(data []byte, ext string) string {
	if len(data) == 0 {
		return ""
	}
	switch strings.ToLower(ext) {
	case "pdf":
		return extractPDF(data)
	case "doc", "docx":
		return extractDocx(data)
	default:
		return ""
	}
}

func extractPDF(data []byte) string {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		logx.Warnf("pdf open failed, returning empty text: %v", err)
		return ""
	}
	defer doc.Close()

	var sb strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			logx.Warnf("pdf page %d extraction failed: %v", i, err)
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String()
}

func extractDocx(data []byte) string {
	reader := bytes.NewReader(data)
	doc, err := docx.ReadDocxFromMemory(reader, int64(len(data)))
	if err != nil {
		logx.Warnf("docx open failed, returning empty text: %v", err)
		return ""
	}
	defer doc.Close()

	return stripDocxTags(doc.Editable().GetContent())
}

// stripDocxTags flattens the document XML content into readable text,
// inserting newlines at paragraph boundaries.
func stripDocxTags(content string) string {
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	var sb strings.Builder
	inTag := false
	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
