package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Daun92/travel-blog-sub000/internal/model"
)

// Document is the validation input for one post: the claims the upstream
// extractor pulled out of it, plus the gate records the sibling checkers
// (SEO, content, duplicate-title, ...) already produced.
type Document struct {
	FilePath string       `json:"file_path"`
	Claims   []model.Claim `json:"claims"`
	Gates    []model.Gate  `json:"gates,omitempty"`
}

// LoadDocument reads a claims file written by the extraction step
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read claims file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse claims file %s: %w", path, err)
	}

	if doc.FilePath == "" {
		doc.FilePath = path
	}

	for i := range doc.Claims {
		doc.Claims[i].Type = doc.Claims[i].Type.Normalize()
		if doc.Claims[i].ID == "" {
			doc.Claims[i].ID = fmt.Sprintf("claim-%02d", i+1)
		}
		if doc.Claims[i].Severity == "" {
			doc.Claims[i].Severity = model.SeverityMinor
		}
	}

	return &doc, nil
}
