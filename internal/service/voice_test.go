package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/service"
)

// mockExtractor is a hand-written test double for service.FieldExtractor.
type mockExtractor struct {
	extract func(ctx context.Context, transcript string) domain.TripRequest
}

func (m *mockExtractor) Extract(ctx context.Context, transcript string) domain.TripRequest {
	return m.extract(ctx, transcript)
}

var _ service.FieldExtractor = (*mockExtractor)(nil)

func TestVoiceService_Parse(t *testing.T) {
	svc := service.NewVoiceService(&mockExtractor{
		extract: func(ctx context.Context, transcript string) domain.TripRequest {
			assert.Equal(t, "three days in Kyoto", transcript)
			return domain.TripRequest{Destination: "Kyoto", Days: 3}
		},
	})

	got, err := svc.Parse(context.Background(), "three days in Kyoto")

	require.NoError(t, err)
	assert.Equal(t, "Kyoto", got.Destination)
	assert.Equal(t, 3, got.Days)
}

func TestVoiceService_Parse_EmptyTranscript(t *testing.T) {
	svc := service.NewVoiceService(&mockExtractor{
		extract: func(ctx context.Context, transcript string) domain.TripRequest {
			t.Fatal("extractor must not be called for an empty transcript")
			return domain.TripRequest{}
		},
	})

	_, err := svc.Parse(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrValidation)
}
