package knowledge

import (
	"strings"
	"unicode"
)

// StopWords are dropped before keyword overlap is measured.
var StopWords = map[string]struct{}{
	"что": {}, "как": {}, "где": {}, "когда": {}, "кто": {}, "какой": {}, "какая": {},
	"какие": {}, "нужно": {}, "можно": {}, "ли": {}, "в": {}, "на": {}, "по": {}, "с": {},
	"и": {}, "или": {}, "а": {}, "но": {}, "это": {}, "то": {}, "да": {}, "нет": {}, "для": {},
	"при": {}, "о": {}, "об": {}, "от": {}, "до": {}, "из": {}, "у": {}, "к": {},
}

const (
	charWeight    = 0.6
	keywordWeight = 0.4
	// b sequences at least this long get their most frequent runes ignored
	// when seeding matches, like difflib's autojunk heuristic.
	autojunkMinLen = 200
)

// Similarity scores two texts in [0,1]. It blends a character-level ratio
// (2*M/T over greedy longest matching blocks) with keyword Jaccard overlap;
// when either side has no keywords left the ratio is used alone.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	score := charRatio([]rune(a), []rune(b))

	wordsA := keywords(a)
	wordsB := keywords(b)
	if len(wordsA) > 0 && len(wordsB) > 0 {
		score = score*charWeight + jaccard(wordsA, wordsB)*keywordWeight
	}
	return score
}

// keywords splits on whitespace, trims surrounding punctuation and removes
// stop words.
func keywords(s string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		w = strings.TrimFunc(w, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if w == "" {
			continue
		}
		if _, stop := StopWords[w]; stop {
			continue
		}
		words[w] = struct{}{}
	}
	return words
}

func jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// charRatio returns 2*M/T where M is the total size of the matching blocks.
func charRatio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	m := newMatcher(a, b)
	return 2 * float64(m.matchedRunes()) / float64(total)
}

type matcher struct {
	a, b []rune
	b2j  map[rune][]int
}

func newMatcher(a, b []rune) *matcher {
	b2j := make(map[rune][]int)
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	if n := len(b); n >= autojunkMinLen {
		limit := n/100 + 1
		for r, positions := range b2j {
			if len(positions) > limit {
				delete(b2j, r)
			}
		}
	}

	return &matcher{a: a, b: b, b2j: b2j}
}

// longestMatch finds the longest common block of a[alo:ahi] and b[blo:bhi],
// preferring the earliest start in a, then in b.
func (m *matcher) longestMatch(alo, ahi, blo, bhi int) (int, int, int) {
	besti, bestj, bestSize := alo, blo, 0

	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestSize {
				besti, bestj, bestSize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}

	// runes dropped as too frequent can still extend a block
	for besti > alo && bestj > blo && m.a[besti-1] == m.b[bestj-1] {
		besti--
		bestj--
		bestSize++
	}
	for besti+bestSize < ahi && bestj+bestSize < bhi && m.a[besti+bestSize] == m.b[bestj+bestSize] {
		bestSize++
	}

	return besti, bestj, bestSize
}

func (m *matcher) matchedRunes() int {
	type span struct{ alo, ahi, blo, bhi int }

	total := 0
	queue := []span{{0, len(m.a), 0, len(m.b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := m.longestMatch(s.alo, s.ahi, s.blo, s.bhi)
		if k == 0 {
			continue
		}
		total += k
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, span{i + k, s.ahi, j + k, s.bhi})
		}
	}
	return total
}
