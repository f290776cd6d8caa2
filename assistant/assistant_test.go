package assistant

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	text string
	err  error

	lastPrompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.text, f.err
}

func TestMenuDescriptionUsesGeneratedText(t *testing.T) {
	gen := &fakeGenerator{text: "Silky risotto kissed with black truffle."}
	svc := NewService(gen)

	got := svc.MenuDescription(context.Background(), "Truffle Mushroom Risotto", "main")

	assert.Equal(t, "Silky risotto kissed with black truffle.", got)
	assert.Contains(t, gen.lastPrompt, "Truffle Mushroom Risotto")
	assert.Contains(t, gen.lastPrompt, "main")
}

func TestMenuDescriptionFallsBackOnError(t *testing.T) {
	svc := NewService(&fakeGenerator{err: errors.New("quota exceeded")})

	got := svc.MenuDescription(context.Background(), "Lava Cake", "desserts")
	assert.Equal(t, fallbackDescription, got)
}

func TestMenuDescriptionFallsBackOnEmptyText(t *testing.T) {
	svc := NewService(&fakeGenerator{text: ""})

	got := svc.MenuDescription(context.Background(), "Lava Cake", "desserts")
	assert.Equal(t, emptyDescription, got)
}

func TestStaffAnswerInjectsOrderContext(t *testing.T) {
	gen := &fakeGenerator{text: "Focus on table 3 first."}
	svc := NewService(gen)

	got := svc.StaffAnswer(context.Background(), "what should I prioritize?", 5)

	assert.Equal(t, "Focus on table 3 first.", got)
	assert.Contains(t, gen.lastPrompt, "5 active orders")
}

func TestStaffAnswerFallsBackOnError(t *testing.T) {
	svc := NewService(&fakeGenerator{err: errors.New("network down")})

	got := svc.StaffAnswer(context.Background(), "anything", 0)
	assert.Equal(t, fallbackAnswer, got)
}

func TestClientGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "models/test-model:generateContent")
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  Hello from the kitchen.  "}]}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", "test-model")

	got, err := client.Generate(context.Background(), "say hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello from the kitchen.", got)
}

func TestClientGenerateNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", "test-model")

	_, err := client.Generate(context.Background(), "say hello")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "429"))
}

func TestClientGenerateNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", "test-model")

	_, err := client.Generate(context.Background(), "say hello")
	assert.Error(t, err)
}
