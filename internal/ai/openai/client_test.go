package openai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
)

type fakeCompleter struct {
	responses []fakeResponse
	calls     int
	prompts   []string
}

type fakeResponse struct {
	content string
	err     error
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	if len(req.Messages) > 0 {
		f.prompts = append(f.prompts, req.Messages[0].Content)
	}
	if len(f.responses) == 0 {
		return openai.ChatCompletionResponse{}, errors.New("unexpected call")
	}
	res := f.responses[0]
	f.responses = f.responses[1:]
	if res.err != nil {
		return openai.ChatCompletionResponse{}, res.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Content: res.content},
		}},
	}, nil
}

func newTestGenerator(fake *fakeCompleter, retries int) *Generator {
	return &Generator{client: fake, modelName: "test-model", maxRetries: retries}
}

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	if _, err := NewGenerator(Config{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestGenerateContentRetriesOnFailure(t *testing.T) {
	originalSleep := sleep
	sleep = func(time.Duration) {}
	defer func() { sleep = originalSleep }()

	fake := &fakeCompleter{responses: []fakeResponse{
		{err: errors.New("boom")},
		{content: "second attempt"},
	}}

	g := newTestGenerator(fake, 3)

	output, err := g.GenerateContent(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output != "second attempt" {
		t.Fatalf("unexpected output: %q", output)
	}

	if fake.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", fake.calls)
	}
}

func TestGenerateContentStopsAfterRetriesExhausted(t *testing.T) {
	originalSleep := sleep
	sleep = func(time.Duration) {}
	defer func() { sleep = originalSleep }()

	fake := &fakeCompleter{responses: []fakeResponse{
		{err: errors.New("one")},
		{err: errors.New("two")},
	}}

	g := newTestGenerator(fake, 2)

	if _, err := g.GenerateContent(context.Background(), "hello"); err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	if fake.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", fake.calls)
	}
}

func TestGenerateContentRejectsEmptyPrompt(t *testing.T) {
	g := newTestGenerator(&fakeCompleter{}, 1)
	if _, err := g.GenerateContent(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}
