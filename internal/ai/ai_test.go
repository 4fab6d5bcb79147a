package ai

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"codeforge/internal/models"
)

func TestSampleQuizzesAreValid(t *testing.T) {
	for _, topic := range topicOrder {
		pool, ok := SampleQuizzes[topic]
		if !ok {
			t.Errorf("missing pool for %q", topic)
			continue
		}
		if len(pool) != QuestionsPerQuiz {
			t.Errorf("%s: %d questions, want %d", topic, len(pool), QuestionsPerQuiz)
		}
		for _, q := range pool {
			if err := q.Validate(); err != nil {
				t.Errorf("%s: %v", topic, err)
			}
		}
	}
}

func TestGenerate(t *testing.T) {
	g := NewQuestionGenerator(0, rand.New(rand.NewSource(1)))

	tests := []struct {
		name      string
		topic     string
		poolTopic string
	}{
		{name: "known topic", topic: "Data Structures", poolTopic: "Data Structures"},
		{name: "react", topic: "React", poolTopic: "React"},
		{name: "unknown topic falls back", topic: "Cobol Internals", poolTopic: DefaultTopic},
		{name: "case sensitive lookup", topic: "algorithms", poolTopic: DefaultTopic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions, err := g.Generate(context.Background(), tt.topic)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if len(questions) != QuestionsPerQuiz {
				t.Fatalf("got %d questions, want %d", len(questions), QuestionsPerQuiz)
			}

			prompts := make(map[string]bool)
			for _, q := range SampleQuizzes[tt.poolTopic] {
				prompts[q.Prompt] = true
			}
			ids := make(map[string]bool)
			for _, q := range questions {
				if !prompts[q.Prompt] {
					t.Errorf("question %q not from the %s pool", q.Prompt, tt.poolTopic)
				}
				if !strings.HasPrefix(q.ID, "ai-") {
					t.Errorf("id %q missing ai- prefix", q.ID)
				}
				if ids[q.ID] {
					t.Errorf("duplicate id %q", q.ID)
				}
				ids[q.ID] = true
				if err := q.Validate(); err != nil {
					t.Errorf("generated invalid question: %v", err)
				}
			}
		})
	}
}

func TestGenerateDoesNotMutatePools(t *testing.T) {
	pools := map[string][]models.Question{
		DefaultTopic: {
			{ID: "a", Prompt: "A?", Options: []string{"x", "y"}, CorrectOption: "x"},
			{ID: "b", Prompt: "B?", Options: []string{"x", "y"}, CorrectOption: "y"},
		},
	}
	g := NewQuestionGeneratorWithPools(pools, 0, rand.New(rand.NewSource(3)))

	questions, err := g.Generate(context.Background(), DefaultTopic)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("got %d questions from a pool of 2", len(questions))
	}
	questions[0].Options[0] = "changed"

	if pools[DefaultTopic][0].ID != "a" || pools[DefaultTopic][1].ID != "b" {
		t.Errorf("pool order or ids changed: %+v", pools[DefaultTopic])
	}
	for _, q := range pools[DefaultTopic] {
		if q.Options[0] != "x" {
			t.Errorf("pool options mutated: %v", q.Options)
		}
	}
}

func TestGenerateHonoursContext(t *testing.T) {
	g := NewQuestionGenerator(time.Second, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := g.Generate(ctx, "React"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Generate() error = %v, want DeadlineExceeded", err)
	}
}

func TestTopicsOrder(t *testing.T) {
	g := NewQuestionGenerator(0, nil)
	got := g.Topics()
	if len(got) != len(topicOrder) {
		t.Fatalf("Topics() = %v", got)
	}
	for i, topic := range topicOrder {
		if got[i] != topic {
			t.Errorf("Topics()[%d] = %q, want %q", i, got[i], topic)
		}
	}
}

func TestReply(t *testing.T) {
	r := NewResponder(0)

	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{name: "javascript keyword", prompt: "What is JavaScript?", want: keywordReplies[1].reply},
		{name: "for loop", prompt: "explain a FOR LOOP please", want: keywordReplies[2].reply},
		{name: "react hooks", prompt: "tell me about react hooks", want: keywordReplies[3].reply},
		{name: "recursion", prompt: "Recursion?", want: keywordReplies[4].reply},
		{name: "earlier keyword wins", prompt: "recursion in javascript", want: keywordReplies[1].reply},
		{name: "default keyword", prompt: "what is the default case", want: keywordReplies[0].reply},
		{name: "help", prompt: "can you help me", want: helpReply},
		{name: "how", prompt: "How do I start", want: helpReply},
		{name: "bug", prompt: "I have a bug", want: debugReply},
		{name: "generic", prompt: "Tell me something", want: genericReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Reply(context.Background(), tt.prompt)
			if err != nil {
				t.Fatalf("Reply() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Reply(%q) = %q, want %q", tt.prompt, got, tt.want)
			}
		})
	}
}

func TestReplyCancelled(t *testing.T) {
	r := NewResponder(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Reply(ctx, "javascript"); !errors.Is(err, context.Canceled) {
		t.Errorf("Reply() error = %v, want Canceled", err)
	}
}
