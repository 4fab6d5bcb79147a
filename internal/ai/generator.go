package ai

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"codeforge/internal/models"

	"github.com/google/uuid"
)

// QuestionsPerQuiz is how many questions a generated quiz holds
const QuestionsPerQuiz = 5

// QuestionGenerator simulates model-backed quiz generation by shuffling the
// built-in topic pools.
type QuestionGenerator struct {
	pools   map[string][]models.Question
	latency time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewQuestionGenerator creates a generator over SampleQuizzes. latency is a
// simulated think time; rng may be nil.
func NewQuestionGenerator(latency time.Duration, rng *rand.Rand) *QuestionGenerator {
	return NewQuestionGeneratorWithPools(SampleQuizzes, latency, rng)
}

// NewQuestionGeneratorWithPools creates a generator over custom pools
func NewQuestionGeneratorWithPools(pools map[string][]models.Question, latency time.Duration, rng *rand.Rand) *QuestionGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &QuestionGenerator{
		pools:   pools,
		latency: latency,
		rng:     rng,
	}
}

// Topics lists the recognized topics, built-in ones first
func (g *QuestionGenerator) Topics() []string {
	topics := make([]string, 0, len(g.pools))
	seen := make(map[string]bool, len(g.pools))
	for _, t := range topicOrder {
		if _, ok := g.pools[t]; ok {
			topics = append(topics, t)
			seen[t] = true
		}
	}
	for t := range g.pools {
		if !seen[t] {
			topics = append(topics, t)
		}
	}
	return topics
}

// Generate returns up to QuestionsPerQuiz shuffled questions for topic.
// Unknown topics fall back to DefaultTopic. Every question gets a fresh id.
func (g *QuestionGenerator) Generate(ctx context.Context, topic string) ([]models.Question, error) {
	if err := sleep(ctx, g.latency); err != nil {
		return nil, err
	}

	pool := g.pools[topic]
	if len(pool) == 0 {
		pool = g.pools[DefaultTopic]
	}

	picked := make([]models.Question, len(pool))
	copy(picked, pool)

	g.mu.Lock()
	g.rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	g.mu.Unlock()

	if len(picked) > QuestionsPerQuiz {
		picked = picked[:QuestionsPerQuiz]
	}
	for i := range picked {
		picked[i].ID = "ai-" + uuid.NewString()
		picked[i].Options = append([]string(nil), picked[i].Options...)
	}
	return picked, nil
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
