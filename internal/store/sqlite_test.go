package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/esgboard/internal/esg"
	"git.home.luguber.info/inful/esgboard/internal/insight"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleInsight(id string) insight.Insight {
	return insight.Insight{
		ID:         id,
		Title:      "Carbon trend",
		Category:   "environmental",
		Severity:   insight.SeverityWarning,
		Tags:       []string{"carbon"},
		Published:  true,
		SourcePath: id + ".md",
		HTML:       `<p class="mb-2">body</p>`,
		Excerpt:    "body",
		UpdatedAt:  time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestUpsertInsight_InsertThenGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := sampleInsight("a")
	require.NoError(t, s.UpsertInsight(ctx, want))

	got, err := s.GetInsight(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestUpsertInsight_UpdateExisting(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ins := sampleInsight("a")
	require.NoError(t, s.UpsertInsight(ctx, ins))

	ins.Title = "Updated title"
	ins.HTML = `<p class="mb-2">new</p>`
	require.NoError(t, s.UpsertInsight(ctx, ins))

	got, err := s.GetInsight(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "Updated title", got.Title)

	list, err := s.ListInsights(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestGetInsight_Missing_ErrNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetInsight(context.Background(), "nope")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestListInsights_PublishedFilterAndOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := sampleInsight("a")
	b := sampleInsight("b")
	b.Published = false
	z := sampleInsight("z")
	for _, ins := range []insight.Insight{z, b, a} {
		require.NoError(t, s.UpsertInsight(ctx, ins))
	}

	all, err := s.ListInsights(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "a.md", all[0].SourcePath)
	require.Equal(t, "z.md", all[2].SourcePath)

	published, err := s.ListInsights(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 2)
	for _, ins := range published {
		require.True(t, ins.Published)
	}
}

func TestPruneInsights_RemovesAllButKept(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.UpsertInsight(ctx, sampleInsight(id)))
	}

	n, err := s.PruneInsights(ctx, []string{"b"})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	list, err := s.ListInsights(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "b", list[0].ID)
}

func TestPruneInsights_EmptyKeep_DeletesEverything(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertInsight(ctx, sampleInsight("a")))
	n, err := s.PruneInsights(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestSnapshots_SaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	older := esg.Mock(1, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := esg.Mock(2, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.SaveSnapshot(ctx, older))
	require.NoError(t, s.SaveSnapshot(ctx, newer))

	got, err := s.LatestSnapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, newer.GeneratedAt.Unix(), got.GeneratedAt.Unix())
	require.Len(t, got.Carbon, 12)
}

func TestLatestSnapshot_Empty_ErrNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LatestSnapshot(context.Background())
	require.True(t, errors.Is(err, ErrNotFound))
}
