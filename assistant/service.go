package assistant

import (
	"context"
	"fmt"

	"github.com/restokitchen/pos/utils"
)

// Canned fallbacks. A generation failure never reaches the user as an
// error; they get one of these instead.
const (
	fallbackDescription = "Freshly prepared with the finest ingredients."
	emptyDescription    = "A delicious addition to our menu."
	fallbackAnswer      = "I'm sorry, I'm having trouble connecting to the brain right now."
)

// Service wraps a Generator with the two prompts this application
// uses: menu copy and the staff assistant.
type Service struct {
	Gen Generator
}

func NewService(gen Generator) *Service {
	return &Service{Gen: gen}
}

// MenuDescription drafts a one-sentence description for a dish. Always
// returns usable text.
func (s *Service) MenuDescription(ctx context.Context, name, category string) string {
	prompt := fmt.Sprintf(
		"Write a appetizing, professional one-sentence menu description for a dish called %q in the %q category. Keep it under 20 words.",
		name, category,
	)
	text, err := s.Gen.Generate(ctx, prompt)
	if err != nil {
		utils.ErrorLogger.Printf("assistant: menu description: %v", err)
		return fallbackDescription
	}
	if text == "" {
		return emptyDescription
	}
	return text
}

// StaffAnswer answers a free-text staff query with the current open
// order count injected as context. Always returns usable text.
func (s *Service) StaffAnswer(ctx context.Context, query string, openOrders int64) string {
	prompt := fmt.Sprintf(
		"As a restaurant management assistant, answer this query: %q. Context: There are currently %d active orders in the system.",
		query, openOrders,
	)
	text, err := s.Gen.Generate(ctx, prompt)
	if err != nil || text == "" {
		if err != nil {
			utils.ErrorLogger.Printf("assistant: staff query: %v", err)
		}
		return fallbackAnswer
	}
	return text
}
