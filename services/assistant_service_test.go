package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendMessageReturnsModelText(t *testing.T) {
	gen := &stubGenerator{response: "Try flashcards for vocabulary."}
	a := NewAssistant(gen, testLogger())

	reply := a.SendMessage(context.Background(), "How do I memorize vocabulary?")

	assert.Equal(t, "Try flashcards for vocabulary.", reply)
	assert.Equal(t, 1, gen.calls)
}

func TestSendMessageFallsBackOnError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream down")}
	a := NewAssistant(gen, testLogger())

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"health bucket", "I have a headache and a fever", fallbackHealth},
		{"study bucket", "help me study for my math exam", fallbackStudy},
		{"meal bucket", "what food fits my budget today", fallbackMeal},
		{"general bucket", "hello there", fallbackGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.SendMessage(context.Background(), tt.message))
		})
	}
}

func TestSendMessageHealthBucketWinsOverStudy(t *testing.T) {
	gen := &stubGenerator{err: errors.New("down")}
	a := NewAssistant(gen, testLogger())

	// Message matches both buckets; health keywords are checked first.
	reply := a.SendMessage(context.Background(), "I feel sick before my exam")
	assert.Equal(t, fallbackHealth, reply)
}

func TestSendMessageFallsBackOnFlaggedContent(t *testing.T) {
	gen := &stubGenerator{response: "That is an OFFENSIVE thing to ask."}
	a := NewAssistant(gen, testLogger())

	reply := a.SendMessage(context.Background(), "hello")
	assert.Equal(t, fallbackGeneral, reply)
}

func TestSendMessageFallsBackOnEmptyResponse(t *testing.T) {
	gen := &stubGenerator{response: "   "}
	a := NewAssistant(gen, testLogger())

	reply := a.SendMessage(context.Background(), "hello")
	assert.Equal(t, fallbackGeneral, reply)
}

func TestSendMessageEmptyMessageNeverHitsModel(t *testing.T) {
	gen := &stubGenerator{response: "should not be used"}
	a := NewAssistant(gen, testLogger())

	reply := a.SendMessage(context.Background(), "   ")
	assert.Equal(t, fallbackGeneral, reply)
	assert.Zero(t, gen.calls)
}

func TestChatHistoryRecordsBothSides(t *testing.T) {
	gen := &stubGenerator{response: "Drink water and rest."}
	a := NewAssistant(gen, testLogger())

	a.SendMessage(context.Background(), "I have a headache")

	history := a.ChatHistory()
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "I have a headache", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, "Drink water and rest.", history[1].Content)
	assert.False(t, history[0].Timestamp.IsZero())
}

func TestChatHistoryReturnsCopy(t *testing.T) {
	gen := &stubGenerator{response: "ok"}
	a := NewAssistant(gen, testLogger())
	a.SendMessage(context.Background(), "hello")

	history := a.ChatHistory()
	history[0].Content = "tampered"

	assert.Equal(t, "hello", a.ChatHistory()[0].Content)
}

func TestClearHistory(t *testing.T) {
	gen := &stubGenerator{response: "ok"}
	a := NewAssistant(gen, testLogger())
	a.SendMessage(context.Background(), "hello")
	require.NotEmpty(t, a.ChatHistory())

	a.ClearHistory()
	assert.Empty(t, a.ChatHistory())
}

func TestBuildContextPromptIncludesStudentContext(t *testing.T) {
	gen := &stubGenerator{response: "ok"}
	a := NewAssistant(gen, testLogger())
	a.SetStudentContext(StudentContext{StudentID: "s1", FullName: "Amina", Grade: "Form 2", School: "Hilltop"})

	prompt := a.buildContextPrompt("current question")

	assert.True(t, strings.Contains(prompt, "Amina"))
	assert.True(t, strings.Contains(prompt, "Form 2"))
	assert.True(t, strings.Contains(prompt, "Hilltop"))
	assert.True(t, strings.Contains(prompt, "current question"))
}

func TestBuildContextPromptWithoutStudentContext(t *testing.T) {
	gen := &stubGenerator{response: "ok"}
	a := NewAssistant(gen, testLogger())

	prompt := a.buildContextPrompt("current question")

	assert.False(t, strings.Contains(prompt, "STUDENT CONTEXT"))
	assert.True(t, strings.Contains(prompt, "current question"))
}

func TestPromptTemplateHelpers(t *testing.T) {
	gen := &stubGenerator{response: "ok"}
	a := NewAssistant(gen, testLogger())
	a.SetStudentContext(StudentContext{StudentID: "s1", FullName: "Amina", Grade: "Form 3"})

	tests := []struct {
		name string
		call func(ctx context.Context) string
		want []string
	}{
		{
			name: "quiz defaults to medium and uses the student's grade",
			call: func(ctx context.Context) string { return a.GenerateQuiz(ctx, "Biology", "") },
			want: []string{"medium", "Biology", "Form 3"},
		},
		{
			name: "meal plan defaults to seven days",
			call: func(ctx context.Context) string { return a.CreateMealPlan(ctx, 20, 0) },
			want: []string{"7-day", "$20.00"},
		},
		{
			name: "health advice carries the symptoms and the non-diagnosis directive",
			call: func(ctx context.Context) string { return a.ProvideHealthAdvice(ctx, "sore throat") },
			want: []string{"sore throat", "NOT medical diagnosis"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := tt.call(context.Background())
			assert.Equal(t, "ok", reply)
			for _, want := range tt.want {
				assert.Contains(t, gen.lastPrompt, want)
			}
		})
	}
}

func TestFallbackResponseBuckets(t *testing.T) {
	assert.Equal(t, fallbackHealth, fallbackResponse("my stomach PAIN is bad"))
	assert.Equal(t, fallbackStudy, fallbackResponse("quiz me on science"))
	assert.Equal(t, fallbackMeal, fallbackResponse("I am hungry"))
	assert.Equal(t, fallbackGeneral, fallbackResponse("tell me a story"))
}

func TestContainsFlaggedTerm(t *testing.T) {
	assert.True(t, containsFlaggedTerm("this is Harmful advice"))
	assert.False(t, containsFlaggedTerm("this is harmless advice about charm"))
}
