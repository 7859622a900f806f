// Package recommend produces the librarian recommendation widget text.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

//go:generate mockgen -source=recommend.go -destination=mock_generator.go -package=recommend

// ErrBusy is returned when a session already has a recommendation request in
// flight; the widget shows a spinner, not a second request.
var ErrBusy = errors.New("a recommendation request is already in flight")

const (
	systemInstruction = "You are a professional librarian with deep knowledge of literature. Your tone is elegant and helpful."
	promptTemplate    = "I like these books/genres: %s. Suggest 3 unique book recommendations and tell me why I'd like them. Be concise and literary."

	// FallbackBusy shows when the model call fails outright.
	FallbackBusy = "Our library guru is currently busy. Please try again later."
	// FallbackEmpty shows when the model answers with no usable text.
	FallbackEmpty = "Sorry, I couldn't generate a recommendation right now."
)

// Generator runs a single model call.
type Generator interface {
	Generate(ctx context.Context, systemInstruction, prompt string) (string, error)
}

// Service turns a visitor's tastes into recommendation text. Failures never
// surface as errors to the widget; they degrade to fallback copy.
type Service struct {
	generator Generator
	logger    *zap.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewService(generator Generator, logger *zap.Logger) *Service {
	return &Service{
		generator: generator,
		logger:    logger,
		inFlight:  make(map[string]struct{}),
	}
}

// Recommend asks the model for suggestions based on the visitor's tastes.
// Only one request per session runs at a time; a duplicate gets ErrBusy.
func (s *Service) Recommend(ctx context.Context, sessionID, tastes string) (string, error) {
	s.mu.Lock()
	if _, busy := s.inFlight[sessionID]; busy {
		s.mu.Unlock()
		return "", ErrBusy
	}
	s.inFlight[sessionID] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, sessionID)
		s.mu.Unlock()
	}()

	prompt := fmt.Sprintf(promptTemplate, tastes)
	text, err := s.generator.Generate(ctx, systemInstruction, prompt)
	if err != nil {
		s.logger.Warn("recommendation call failed", zap.Error(err))
		return FallbackBusy, nil
	}
	if strings.TrimSpace(text) == "" {
		return FallbackEmpty, nil
	}
	return text, nil
}
