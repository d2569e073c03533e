package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/docsight/internal/insight"
)

func testRecord(source string) *Record {
	return &Record{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now(),
		Source:         source,
		Classification: insight.ClassRepository,
		Provider:       "heuristic",
		Insight: (&insight.Insight{
			Summary:      "A summary.",
			Technologies: []string{"Go"},
			Complexity:   insight.ComplexityMedium,
		}).Sanitize(),
	}
}

func TestSaveAndGet(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	rec := testRecord("acme/widgets")
	require.NoError(t, s.Save(context.Background(), rec))

	got, err := s.Get(context.Background(), rec.ID)
	require.NoError(t, err)

	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "acme/widgets", got.Source)
	assert.Equal(t, insight.ClassRepository, got.Classification)
	assert.Equal(t, "heuristic", got.Provider)
	assert.Equal(t, "A summary.", got.Insight.Summary)
	assert.Equal(t, []string{"Go"}, got.Insight.Technologies)
}

func TestGetUnknownID(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	base := time.Now().Add(-time.Hour)
	for i, source := range []string{"first", "second", "third"} {
		rec := testRecord(source)
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Save(context.Background(), rec))
	}

	records, err := s.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "third", records[0].Source)
	assert.Equal(t, "second", records[1].Source)
}

func TestRecentDefaultsLimit(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(context.Background(), testRecord("only")))

	records, err := s.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// TestOpenIsIdempotent verifies the migration can run against an existing
// database without error.
func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Save(context.Background(), testRecord("kept")))
	require.NoError(t, s1.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()

	records, err := s2.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
