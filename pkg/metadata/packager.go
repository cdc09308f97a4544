package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

// UploadError is the typed failure of the packager: both the primary and the
// fallback pin path failed, so no partial state exists downstream.
type UploadError struct {
	Primary  error
	Fallback error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("metadata upload failed: primary: %v, fallback: %v", e.Primary, e.Fallback)
}

// Document is the canonical metadata shape pinned for every coin. Field order
// is fixed by the struct, so both upload paths produce byte-identical JSON for
// the same input; the deterministic salt hashes the resulting URI.
type Document struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

// Content is the creator-supplied input to the packager.
type Content struct {
	Title       string
	Description string
	Image       string
}

type pinResponse struct {
	CID string `json:"cid"`
}

// Packager normalizes creator content into a canonical document and pins it
// through the external blob store, falling back to a secondary endpoint with
// identical canonicalization.
type Packager struct {
	rest        *resty.Client
	primaryURL  string
	fallbackURL string
}

func NewPackager(primaryURL, fallbackURL, apiKey string) *Packager {
	rest := resty.New().
		SetHeader("Content-Type", "application/json").
		SetAuthToken(apiKey).
		SetTimeout(30 * time.Second)
	return &Packager{rest: rest, primaryURL: primaryURL, fallbackURL: fallbackURL}
}

// CanonicalBytes returns the exact JSON payload pinned for content. Exposed
// so tests can assert both upload paths carry identical bytes.
func CanonicalBytes(content Content) ([]byte, error) {
	doc := Document{
		Name:        content.Title,
		Description: content.Description,
		Image:       content.Image,
	}
	return json.Marshal(doc)
}

// Package pins the canonical document and returns its content-addressed URI.
func (p *Packager) Package(ctx context.Context, content Content) (string, error) {
	body, err := CanonicalBytes(content)
	if err != nil {
		return "", fmt.Errorf("canonicalize metadata: %w", err)
	}

	uri, primaryErr := p.pin(ctx, p.primaryURL, body)
	if primaryErr == nil {
		return uri, nil
	}

	if p.fallbackURL == "" {
		return "", &UploadError{Primary: primaryErr}
	}
	log.Warnf("primary metadata pin failed, trying fallback: %v", primaryErr)

	uri, fallbackErr := p.pin(ctx, p.fallbackURL, body)
	if fallbackErr != nil {
		return "", &UploadError{Primary: primaryErr, Fallback: fallbackErr}
	}
	return uri, nil
}

func (p *Packager) pin(ctx context.Context, endpoint string, body []byte) (string, error) {
	var out pinResponse
	resp, err := p.rest.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post(endpoint)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("pin service returned %s", resp.Status())
	}
	if out.CID == "" {
		return "", fmt.Errorf("pin service returned no cid")
	}
	return "ipfs://" + out.CID, nil
}
