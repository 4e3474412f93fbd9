package repository

import (
	"context"
	"io"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/NeuralTrust/SportLens/pkg/domain"
	"github.com/NeuralTrust/SportLens/pkg/domain/analysis"
	"github.com/NeuralTrust/SportLens/pkg/infra/database"
	_ "github.com/NeuralTrust/SportLens/pkg/infra/migrations"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real Postgres when TEST_DATABASE_HOST is set, e.g. the one
// from docker-compose.
func testDB(t *testing.T) *database.DB {
	t.Helper()
	host := os.Getenv("TEST_DATABASE_HOST")
	if host == "" {
		t.Skip("TEST_DATABASE_HOST not set")
	}
	port, _ := strconv.Atoi(os.Getenv("TEST_DATABASE_PORT"))
	if port == 0 {
		port = 5432
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	db, err := database.NewDB(logger, &database.Config{
		Host:     host,
		Port:     port,
		User:     envOr("TEST_DATABASE_USER", "postgres"),
		Password: envOr("TEST_DATABASE_PASSWORD", "postgres"),
		DBName:   envOr("TEST_DATABASE_NAME", "sportlens"),
		SSLMode:  "disable",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func TestAnalysisRepository_SaveGetList(t *testing.T) {
	db := testDB(t)
	repo := NewAnalysisRepository(db.DB)
	ctx := context.Background()

	older := &analysis.Analysis{
		Provider:    "openai",
		Model:       "gpt-4o",
		Context:     "older",
		ImageSHA256: "aa" + uuid.NewString()[:62],
		Response:    "first",
		ExifTags:    pq.StringArray{"Make=Canon"},
		CreatedAt:   time.Now().Add(-time.Minute).UTC(),
	}
	newer := &analysis.Analysis{
		Provider:    "openai",
		Model:       "gpt-4o",
		Context:     "newer",
		ImageSHA256: "bb" + uuid.NewString()[:62],
		Response:    "second",
	}
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))
	assert.NotEqual(t, uuid.Nil, older.ID)

	got, err := repo.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Response)
	assert.Equal(t, pq.StringArray{"Make=Canon"}, got.ExifTags)

	list, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
}

func TestAnalysisRepository_NotFound(t *testing.T) {
	db := testDB(t)
	repo := NewAnalysisRepository(db.DB)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.True(t, domain.IsNotFoundError(err))
}
