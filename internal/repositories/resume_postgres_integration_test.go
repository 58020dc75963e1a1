//go:build integration

package repositories_test

import (
	"context"
	"testing"

	"resumebuilder/internal/apperr"
	"resumebuilder/internal/models"
	"resumebuilder/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestGORMResumeRepository_Postgres(t *testing.T) {
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("resumes"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := repositories.OpenDatabase("postgres", dsn, 4)
	require.NoError(t, err)
	repo := repositories.NewGORMResumeRepository(db)

	header := &models.Resume{Name: "Ada Lovelace"}
	require.NoError(t, repo.Create(ctx, header, sampleChildren()))

	edu, err := repo.GetChildren(ctx, header.ID, models.CollectionEducation)
	require.NoError(t, err)
	require.Len(t, edu.Education, 1)
	assert.Equal(t, "Royal Academy", edu.Education[0].Institution)

	orphan := db.Create(&models.Hobby{ResumeID: "00000000-0000-0000-0000-000000000000", Hobby: "x"}).Error
	assert.Error(t, orphan)

	require.NoError(t, repo.Delete(ctx, header.ID))
	_, err = repo.GetByID(ctx, header.ID)
	assert.True(t, apperr.IsNotFound(err))
	for _, kind := range models.Collections {
		n, err := repo.CountChildren(ctx, header.ID, kind)
		require.NoError(t, err)
		assert.Zero(t, n)
	}
}
