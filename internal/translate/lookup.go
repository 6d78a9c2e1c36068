// Package translate resolves user phrases against the dataset and produces a
// letter-shuffled stand-in when nothing matches.
package translate

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/text/cases"

	"unilang/internal/dataset"
	"unilang/internal/domain"
)

// Result is a resolved translation and how it was produced
type Result struct {
	Text    string         `json:"text"`
	Outcome domain.Outcome `json:"outcome"`
}

// Options configures a Lookup
type Options struct {
	// FallbackCacheSize bounds how many fallback renderings are remembered.
	// Zero disables the cache and every miss is shuffled afresh.
	FallbackCacheSize int64
}

// Lookup resolves phrases against a dataset table. It is safe for concurrent use.
type Lookup struct {
	index   map[string]map[string]string // target -> source -> translation, keys case-folded
	targets []string

	mu    sync.Mutex // guards faker
	faker *gofakeit.Faker
	cache *ristretto.Cache[string, string]
}

// New builds a Lookup over table. faker drives the fallback shuffle.
func New(table *dataset.Table, faker *gofakeit.Faker, opts Options) (*Lookup, error) {
	l := &Lookup{
		index:   make(map[string]map[string]string),
		targets: table.Targets(),
		faker:   faker,
	}

	for _, e := range table.Entries() {
		target := foldKey(e.Target)
		byText, ok := l.index[target]
		if !ok {
			byText = make(map[string]string)
			l.index[target] = byText
		}
		// First row wins.
		if _, exists := byText[foldKey(e.SourceText)]; !exists {
			byText[foldKey(e.SourceText)] = e.Translation
		}
	}

	if opts.FallbackCacheSize > 0 {
		c, err := ristretto.NewCache(&ristretto.Config[string, string]{
			NumCounters: opts.FallbackCacheSize * 10,
			MaxCost:     opts.FallbackCacheSize,
			BufferItems: 64,

			IgnoreInternalCost: true,
		})
		if err != nil {
			return nil, fmt.Errorf("create fallback cache: %w", err)
		}
		l.cache = c
	}

	return l, nil
}

// Resolve returns the dataset translation of input into target, or a
// letter-shuffled rendering of input when there is none. It never fails.
func (l *Lookup) Resolve(input, target string) string {
	return l.ResolveResult(input, target).Text
}

// ResolveResult is Resolve plus the outcome of the lookup
func (l *Lookup) ResolveResult(input, target string) Result {
	if byText, ok := l.index[foldKey(target)]; ok {
		if translation, ok := byText[foldKey(input)]; ok {
			return Result{Text: translation, Outcome: domain.OutcomeResolved}
		}
	}

	return Result{Text: l.fallback(input, target), Outcome: domain.OutcomeFallback}
}

// Targets returns the target languages present in the dataset
func (l *Lookup) Targets() []string {
	return l.targets
}

// Close releases the fallback cache
func (l *Lookup) Close() {
	if l.cache != nil {
		l.cache.Close()
	}
}

func (l *Lookup) fallback(input, target string) string {
	if l.cache == nil {
		return l.shuffleWords(input)
	}

	key := foldKey(target) + "\x00" + input
	if text, ok := l.cache.Get(key); ok {
		return text
	}

	text := l.shuffleWords(input)
	l.cache.Set(key, text, 1)
	l.cache.Wait()
	return text
}

// shuffleWords permutes the runes of every whitespace-delimited word
// independently. Whitespace runs are kept exactly where they were.
func (l *Lookup) shuffleWords(s string) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var b strings.Builder
	b.Grow(len(s))

	word := make([]rune, 0, 16)
	flush := func() {
		l.faker.Rand.Shuffle(len(word), func(i, j int) {
			word[i], word[j] = word[j], word[i]
		})
		b.WriteString(string(word))
		word = word[:0]
	}

	for _, r := range s {
		if unicode.IsSpace(r) {
			flush()
			b.WriteRune(r)
			continue
		}
		word = append(word, r)
	}
	flush()

	return b.String()
}

// foldKey normalizes a lookup key: trimmed and Unicode case-folded
func foldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
