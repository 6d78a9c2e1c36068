package app

import (
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unilang/internal/dataset"
	"unilang/internal/domain"
	"unilang/internal/translate"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTranslator(t *testing.T) *translate.Lookup {
	t.Helper()

	table := dataset.NewTable([]dataset.Entry{
		{SourceText: "Break the ice", Target: "Spanish", Translation: "Romper el hielo"},
		{SourceText: "Piece of cake", Target: "French", Translation: "C'est du gâteau"},
	})
	l, err := translate.New(table, gofakeit.New(1), translate.Options{})
	require.NoError(t, err)
	return l
}

func newTestSession(t *testing.T, opts SessionOptions) *Session {
	t.Helper()

	s := NewSession("test", testTranslator(t), gofakeit.New(42), opts, testLogger())
	t.Cleanup(s.Close)
	return s
}

type recordingListener struct {
	id     string
	events chan interface{}
}

func newRecordingListener(id string) *recordingListener {
	return &recordingListener{id: id, events: make(chan interface{}, 10)}
}

func (l *recordingListener) Send(message interface{}) error {
	l.events <- message
	return nil
}

func (l *recordingListener) GetClientID() string { return l.id }
func (l *recordingListener) Close() error        { return nil }

func TestSubmit_KnownPhrase(t *testing.T) {
	s := newTestSession(t, SessionOptions{TopCountries: 3})
	before := len(s.ListSubmissions(domain.FilterAll))

	res, err := s.Submit("Break the ice", domain.CategoryIdiom, "Spanish")
	require.NoError(t, err)

	assert.Equal(t, "Romper el hielo", res.Translation)
	assert.Equal(t, domain.OutcomeResolved, res.Submission.Outcome)

	all := s.ListSubmissions(domain.FilterAll)
	require.Len(t, all, before+1)
	assert.Equal(t, "Break the ice", all[len(all)-1].InputText)
}

func TestSubmit_UnknownPhraseFallsBack(t *testing.T) {
	s := newTestSession(t, SessionOptions{TopCountries: 3})

	res, err := s.Submit("xyzzy not in dataset", domain.CategoryJoke, "Spanish")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFallback, res.Submission.Outcome)

	in, out := strings.Fields("xyzzy not in dataset"), strings.Fields(res.Translation)
	require.Len(t, out, len(in))
	for i := range in {
		a, b := strings.Split(in[i], ""), strings.Split(out[i], "")
		sort.Strings(a)
		sort.Strings(b)
		assert.Equal(t, a, b)
	}

	jokes := s.ListSubmissions(domain.Filter(domain.CategoryJoke))
	require.Len(t, jokes, 1)
	assert.Equal(t, "xyzzy not in dataset", jokes[0].InputText)
}

func TestSubmit_BlankInputDoesNotMutate(t *testing.T) {
	s := newTestSession(t, SessionOptions{TopCountries: 3, Preload: true})
	before := s.Len()

	for _, in := range []string{"", "   ", "\t\n"} {
		_, err := s.Submit(in, domain.CategoryIdiom, "Spanish")
		assert.ErrorIs(t, err, domain.ErrEmptyInput)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}

	assert.Equal(t, before, s.Len())
}

func TestSubmit_InvalidCategory(t *testing.T) {
	s := newTestSession(t, SessionOptions{TopCountries: 3})

	_, err := s.Submit("Break the ice", domain.Category("User"), "Spanish")
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
	assert.Equal(t, 0, s.Len())
}

func TestSubmit_ScoreAndCountries(t *testing.T) {
	s := newTestSession(t, SessionOptions{TopCountries: 3})
	catalog := domain.DefaultCatalog()

	for i := 0; i < 50; i++ {
		res, err := s.Submit("Piece of cake", domain.CategoryIdiom, "French")
		require.NoError(t, err)

		assert.GreaterOrEqual(t, res.Score, domain.MinScore)
		assert.LessOrEqual(t, res.Score, domain.MaxScore)
		require.Len(t, res.TopCountries, 3)
		assert.Equal(t, "France", res.TopCountries[0])
		for _, c := range res.TopCountries {
			_, ok := catalog.Find(c)
			assert.True(t, ok, c)
		}
	}
}

func TestSubmit_SeededSessionsAreReproducible(t *testing.T) {
	a := NewSession("a", testTranslator(t), gofakeit.New(5), SessionOptions{TopCountries: 2}, testLogger())
	b := NewSession("b", testTranslator(t), gofakeit.New(5), SessionOptions{TopCountries: 2}, testLogger())
	defer a.Close()
	defer b.Close()

	for i := 0; i < 5; i++ {
		ra, err := a.Submit("Break the ice", domain.CategoryIdiom, "Korean")
		require.NoError(t, err)
		rb, err := b.Submit("Break the ice", domain.CategoryIdiom, "Korean")
		require.NoError(t, err)

		assert.Equal(t, ra.Score, rb.Score)
		assert.Equal(t, ra.TopCountries, rb.TopCountries)
	}
}

func TestSession_Preload(t *testing.T) {
	s := newTestSession(t, SessionOptions{TopCountries: 3, Preload: true})

	all := s.ListSubmissions(domain.FilterAll)
	require.Len(t, all, len(PreloadedItems))
	for i, rec := range all {
		assert.Equal(t, PreloadedItems[i].Text, rec.InputText)
		assert.Equal(t, domain.OutcomePreloaded, rec.Outcome)
		assert.Equal(t, []string{PreloadedItems[i].Country}, rec.Countries)
	}

	assert.Len(t, s.ListSubmissions(domain.Filter(domain.CategoryJoke)), 2)
	assert.Equal(t, "USA", s.CountryRanking(1)[0].Key)
}

func TestSession_LeaderboardAndRankings(t *testing.T) {
	s := newTestSession(t, SessionOptions{TopCountries: 1})

	for _, text := range []string{"Break a leg", "Break a leg", "Piece of cake"} {
		_, err := s.Submit(text, domain.CategoryIdiom, "Spanish")
		require.NoError(t, err)
	}

	board := s.Leaderboard(10)
	require.Len(t, board, 2)
	assert.Equal(t, "Break a leg", board[0].Key)
	assert.Equal(t, 2, board[0].Total)

	countries := s.CountryRanking(10)
	require.Len(t, countries, 1)
	assert.Equal(t, "Spain", countries[0].Key)
	assert.Equal(t, 3, countries[0].Total)

	total := 0
	for _, rec := range s.ListSubmissions(domain.FilterAll) {
		total += rec.Score
	}
	scores := s.CountryScoreRanking(10)
	require.Len(t, scores, 1)
	assert.Equal(t, total, scores[0].Total)
}

func TestSession_MapMarkers(t *testing.T) {
	s := newTestSession(t, SessionOptions{TopCountries: 3, Preload: true})

	markers := s.MapMarkers(domain.FilterAll)
	names := make([]string, 0, len(markers))
	for _, m := range markers {
		names = append(names, m.Country)
	}
	assert.Equal(t, []string{"USA", "Poland", "UK", "India"}, names)

	usa := markers[0]
	assert.Equal(t, 2, usa.Count)
	assert.Equal(t, []string{"Break the ice", "Spill the tea"}, usa.Expressions)
	assert.NotZero(t, usa.Lat)

	jokes := s.MapMarkers(domain.Filter(domain.CategoryJoke))
	assert.Len(t, jokes, 2)
}

func TestSession_BroadcastsSubmissions(t *testing.T) {
	s := newTestSession(t, SessionOptions{TopCountries: 3})
	l := newRecordingListener("viewer")
	s.RegisterListener(l)
	assert.Equal(t, 1, s.Info().Viewers)

	_, err := s.Submit("Break the ice", domain.CategoryIdiom, "Spanish")
	require.NoError(t, err)

	select {
	case msg := <-l.events:
		event, ok := msg.(*domain.SessionEvent)
		require.True(t, ok)
		assert.Equal(t, domain.EventSubmissionAdded, event.Type)
		payload, ok := event.Payload.(*domain.SubmissionAddedPayload)
		require.True(t, ok)
		assert.Equal(t, "Break the ice", payload.Submission.InputText)
		assert.Equal(t, 1, payload.SubmissionCount)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	s.UnregisterListener("viewer")
	assert.Equal(t, 0, s.Info().Viewers)
}

func TestSubmit_RecordsSourceLanguage(t *testing.T) {
	s := newTestSession(t, SessionOptions{TopCountries: 3})

	res, err := s.Submit("Why don't eggs tell jokes? They'd crack each other up.", domain.CategoryJoke, "Spanish")
	require.NoError(t, err)
	assert.Equal(t, "English", res.Submission.SourceLanguage)

	res, err = s.Submit("Piece of cake", domain.CategoryIdiom, "French")
	require.NoError(t, err)
	assert.Empty(t, res.Submission.SourceLanguage)
}

func TestSession_CloseDeliversQueuedEvents(t *testing.T) {
	s := newTestSession(t, SessionOptions{TopCountries: 3})
	l := newRecordingListener("viewer")
	s.RegisterListener(l)

	for _, text := range []string{"Break the ice", "Piece of cake", "Hello world"} {
		_, err := s.Submit(text, domain.CategoryIdiom, "Spanish")
		require.NoError(t, err)
	}
	s.Close()

	var types []domain.EventType
	for len(types) < 4 {
		select {
		case msg := <-l.events:
			types = append(types, msg.(*domain.SessionEvent).Type)
		case <-time.After(2 * time.Second):
			t.Fatalf("got %v, want 4 events", types)
		}
	}

	assert.Equal(t, []domain.EventType{
		domain.EventSubmissionAdded,
		domain.EventSubmissionAdded,
		domain.EventSubmissionAdded,
		domain.EventSessionClosed,
	}, types)
}

func TestSession_ClosedRejectsSubmit(t *testing.T) {
	s := newTestSession(t, SessionOptions{TopCountries: 3})
	s.Close()

	_, err := s.Submit("Break the ice", domain.CategoryIdiom, "Spanish")
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestSession_TopCountriesClamped(t *testing.T) {
	s := newTestSession(t, SessionOptions{TopCountries: 100})

	res, err := s.Submit("Break the ice", domain.CategoryIdiom, "Klingon")
	require.NoError(t, err)

	got := slices.Clone(res.TopCountries)
	want := domain.DefaultCatalog().Names()
	slices.Sort(got)
	slices.Sort(want)
	assert.Equal(t, want, got)
}
