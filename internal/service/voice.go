package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/planweave/planweave/internal/domain"
)

// FieldExtractor is the transcript-to-fields operation the voice service
// depends on. internal/voice.Extractor satisfies it.
type FieldExtractor interface {
	Extract(ctx context.Context, transcript string) domain.TripRequest
}

// VoiceService turns speech transcripts into partial trip requests.
type VoiceService struct {
	extractor FieldExtractor
}

// NewVoiceService constructs a VoiceService backed by the given extractor.
func NewVoiceService(e FieldExtractor) *VoiceService {
	return &VoiceService{extractor: e}
}

// Parse extracts trip-request fields from the transcript. An empty transcript
// is the only rejection; anything else yields a (possibly sparse) request.
func (s *VoiceService) Parse(ctx context.Context, transcript string) (domain.TripRequest, error) {
	if strings.TrimSpace(transcript) == "" {
		return domain.TripRequest{}, fmt.Errorf("service.VoiceService.Parse: %w: transcript is required", domain.ErrValidation)
	}
	return s.extractor.Extract(ctx, transcript), nil
}
