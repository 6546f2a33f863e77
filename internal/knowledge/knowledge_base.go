package knowledge

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"ohs-consultant/pkg/metrics"

	"go.uber.org/zap"
)

const (
	DefaultThreshold = 0.5
	DefaultTopK      = 5

	// answerFloor is the absolute score below which GetAnswerWithValidation
	// returns nothing, independent of the search threshold.
	answerFloor = 0.3
)

var ErrNoSource = errors.New("knowledge base has no source")

// corpus is immutable once published.
type corpus struct {
	entries []FAQEntry
}

// KnowledgeBase holds the FAQ corpus in memory. Readers take a snapshot of the
// current corpus, so Reload never exposes a partially loaded set.
type KnowledgeBase struct {
	source  Source
	checker URLChecker
	logger  *zap.Logger
	current atomic.Pointer[corpus]
}

// New loads the corpus from source. A load failure is logged and leaves the
// knowledge base empty.
func New(ctx context.Context, source Source, checker URLChecker, logger *zap.Logger) *KnowledgeBase {
	kb := &KnowledgeBase{
		source:  source,
		checker: checker,
		logger:  logger,
	}
	kb.current.Store(&corpus{})

	if err := kb.Reload(ctx); err != nil {
		logger.Error("Failed to load FAQ corpus", zap.Error(err))
	}
	return kb
}

// Reload re-reads the source and swaps the corpus in one step. On failure the
// previous corpus stays in place.
func (kb *KnowledgeBase) Reload(ctx context.Context) error {
	if kb.source == nil {
		return ErrNoSource
	}

	entries, err := kb.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load FAQ from %s: %w", kb.source.Name(), err)
	}

	loaded := make([]FAQEntry, len(entries))
	copy(loaded, entries)
	kb.current.Store(&corpus{entries: loaded})
	metrics.FAQEntries.Set(float64(len(loaded)))

	kb.logger.Info("FAQ corpus loaded",
		zap.String("source", kb.source.Name()),
		zap.Int("entries", len(loaded)),
	)
	return nil
}

func (kb *KnowledgeBase) snapshot() []FAQEntry {
	return kb.current.Load().entries
}

func (kb *KnowledgeBase) Len() int {
	return len(kb.snapshot())
}

// FindRelevant scores every entry against query and returns at most topK
// matches with score >= threshold, best first. Equal scores keep corpus order.
func (kb *KnowledgeBase) FindRelevant(query string, threshold float64, topK int) []Match {
	if strings.TrimSpace(query) == "" || topK <= 0 {
		return nil
	}

	entries := kb.snapshot()
	var matches []Match
	for _, entry := range entries {
		score := Similarity(query, entry.Question)
		if score >= threshold {
			matches = append(matches, Match{Entry: entry, SimilarityScore: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SimilarityScore > matches[j].SimilarityScore
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// GetAnswerWithValidation returns the single best match, or nil. When
// checkURLs is set and the entry cites a URL, the link is checked; an
// unreachable link is reported on the match and never drops it.
func (kb *KnowledgeBase) GetAnswerWithValidation(ctx context.Context, query string, checkURLs bool) *Match {
	matches := kb.FindRelevant(query, DefaultThreshold, 1)
	if len(matches) == 0 {
		metrics.FAQLookups.WithLabelValues("miss").Inc()
		return nil
	}

	best := matches[0]
	if best.SimilarityScore < answerFloor {
		metrics.FAQLookups.WithLabelValues("miss").Inc()
		return nil
	}

	if checkURLs && best.Entry.LegalURL != "" {
		valid, status := kb.CheckURL(ctx, best.Entry.LegalURL)
		best.URLValid = &valid
		best.URLStatus = status
	}

	metrics.FAQLookups.WithLabelValues("hit").Inc()
	kb.logger.Debug("FAQ match",
		zap.String("question", best.Entry.Question),
		zap.Float64("score", best.SimilarityScore),
	)
	return &best
}

// CheckURL reports whether rawURL answers with a 2xx or 3xx status.
func (kb *KnowledgeBase) CheckURL(ctx context.Context, rawURL string) (bool, *int) {
	if kb.checker == nil || rawURL == "" {
		return false, nil
	}
	return kb.checker.Check(ctx, rawURL)
}

func (kb *KnowledgeBase) AllQuestions() []string {
	entries := kb.snapshot()
	questions := make([]string, 0, len(entries))
	for _, e := range entries {
		questions = append(questions, e.Question)
	}
	return questions
}

// Blocks lists distinct block names, sorted.
func (kb *KnowledgeBase) Blocks() []string {
	seen := make(map[string]struct{})
	var blocks []string
	for _, e := range kb.snapshot() {
		if _, ok := seen[e.Block]; ok {
			continue
		}
		seen[e.Block] = struct{}{}
		blocks = append(blocks, e.Block)
	}
	sort.Strings(blocks)
	return blocks
}

func (kb *KnowledgeBase) QuestionsByBlock(block string) []FAQEntry {
	var result []FAQEntry
	for _, e := range kb.snapshot() {
		if e.Block == block {
			result = append(result, e)
		}
	}
	return result
}

func (kb *KnowledgeBase) Statistics() Statistics {
	stats := Statistics{Blocks: make(map[string]int)}
	for _, e := range kb.snapshot() {
		stats.TotalQuestions++
		stats.Blocks[e.Block]++
		if e.LegalURL != "" {
			stats.QuestionsWithURLs++
		} else {
			stats.QuestionsWithoutURLs++
		}
	}
	return stats
}
