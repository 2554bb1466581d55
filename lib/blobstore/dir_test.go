package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirRoundTrip(t *testing.T) {
	store := Dir{Root: t.TempDir()}
	ctx := context.Background()

	_, err := store.Get(ctx, "data/course_data.csv")
	require.ErrorIs(t, err, ErrNotFound)

	body := []byte("Course,Hour\nEECS 280,2022-01-10 09:00:00\n")
	err = store.Put(ctx, "data/course_data.csv", body, PutOptions{
		ContentType:         "application/csv",
		CacheControlSeconds: 3600,
		Public:              true,
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, "data/course_data.csv")
	require.NoError(t, err)
	require.Equal(t, body, got)
}
