package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/plasma-sim/sim"
	"github.com/inference-sim/plasma-sim/sim/dataset"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "datasets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func generate(t *testing.T, seed sim.Seed) *dataset.Dataset {
	t.Helper()
	sampler, err := dataset.NewSampler(dataset.DefaultConfig())
	require.NoError(t, err)
	return sampler.Generate(seed)
}

func TestStore_SaveLoad_RoundTrip(t *testing.T) {
	// GIVEN a stored dataset
	s := openTestStore(t)
	ctx := context.Background()
	d := generate(t, sim.DefaultSeed)
	require.NoError(t, s.Save(ctx, d))

	// WHEN it is loaded back
	got, err := s.Load(ctx, d.ID)
	require.NoError(t, err)

	// THEN identity, seed and every array are preserved exactly
	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, d.Seed, got.Seed)
	if diff := cmp.Diff(d.Arrays(), got.Arrays()); diff != "" {
		t.Errorf("store round trip changed arrays (-want +got):\n%s", diff)
	}
}

func TestStore_Save_DuplicateID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	d := generate(t, sim.DefaultSeed)
	require.NoError(t, s.Save(ctx, d))

	err := s.Save(ctx, d)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestStore_Save_InvalidDatasetWritesNothing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	d := generate(t, sim.DefaultSeed)
	d.Params.Velocity = d.Params.Velocity[:3]

	require.Error(t, s.Save(ctx, d))

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_List_OrderedByCreation(t *testing.T) {
	// GIVEN three datasets saved at increasing times
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	var ids []string
	for _, lo := range []uint64{1, 2, 3} {
		d := generate(t, sim.NewSeed(0, lo))
		require.NoError(t, s.Save(ctx, d))
		ids = append(ids, d.ID)
	}

	// WHEN listed
	list, err := s.List(ctx)
	require.NoError(t, err)

	// THEN summaries come back oldest first with their metadata
	require.Len(t, list, 3)
	for i, summary := range list {
		assert.Equal(t, ids[i], summary.ID)
		assert.Equal(t, sim.NewSeed(0, uint64(i+1)), summary.Seed)
		assert.Equal(t, 16, summary.NumBins)
		assert.Equal(t, 40, summary.NumWavelengths)
		assert.Equal(t, 40, summary.NumSensors)
		assert.InDelta(t, 0.105, summary.CenterWavelength, 1e-9)
		assert.Equal(t, base.Add(time.Duration(i+1)*time.Minute), summary.CreatedAt)
	}
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	keep := generate(t, sim.NewSeed(0, 1))
	drop := generate(t, sim.NewSeed(0, 2))
	require.NoError(t, s.Save(ctx, keep))
	require.NoError(t, s.Save(ctx, drop))

	require.NoError(t, s.Delete(ctx, drop.ID))

	_, err := s.Load(ctx, drop.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Load(ctx, keep.ID)
	assert.NoError(t, err)

	// no orphaned arrays remain
	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM dataset_arrays WHERE dataset_id = ?`, drop.ID).Scan(&n))
	assert.Zero(t, n)

	assert.ErrorIs(t, s.Delete(ctx, drop.ID), ErrNotFound)
}

func TestStore_Load_Missing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Load(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Load(context.Background(), "not-an-id")
	assert.Error(t, err)
}

func TestStore_CanceledContext(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Save(ctx, generate(t, sim.DefaultSeed)), context.Canceled)
	_, err := s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasets.db")
	ctx := context.Background()
	d := generate(t, sim.DefaultSeed)

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, d))
	require.NoError(t, s.Close())

	// migrations are already applied; reopening must be a no-op
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
}

func TestStore_SchemaVersion(t *testing.T) {
	s := openTestStore(t)

	version, dirty, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	require.NoError(t, s.MigrateDown())
	version, _, err = s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)

	require.NoError(t, s.MigrateUp())
	version, _, err = s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestStore_PragmasApplied(t *testing.T) {
	s := openTestStore(t)

	var journalMode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var busyTimeout, foreignKeys, tempStore int
	require.NoError(t, s.db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, 5000, busyTimeout)
	require.NoError(t, s.db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)
	require.NoError(t, s.db.QueryRow("PRAGMA temp_store").Scan(&tempStore))
	assert.Equal(t, 2, tempStore)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}
