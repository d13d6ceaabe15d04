package encode

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partseed/partseed/internal/database"
)

func newSqliteEncoder(t *testing.T) *DatabaseEncoder {
	t.Helper()
	mgr := database.NewManager(zerolog.Nop())
	db, err := mgr.GetSqliteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	mgr.DB = db
	mgr.SqlDB, err = db.DB()
	require.NoError(t, err)
	mgr.IsValid = true

	require.NoError(t, mgr.DB.AutoMigrate(&RunRecord{}, &ParticleRow{}))
	t.Cleanup(func() { _ = mgr.Close() })

	return &DatabaseEncoder{
		mgr:     mgr,
		cfgJSON: []byte(`[{"id":"mouth"}]`),
		seed:    42,
		sources: 2,
		log:     zerolog.Nop(),
	}
}

func TestDatabaseEncoderStoresRun(t *testing.T) {
	enc := newSqliteEncoder(t)
	require.NoError(t, enc.Encode(testParticles(), testSummary()))

	var run RunRecord
	require.NoError(t, enc.mgr.DB.First(&run).Error)
	assert.Equal(t, uint64(42), run.Seed)
	assert.Equal(t, 2, run.SourceCount)
	assert.Equal(t, 2, run.ParticleCount)
	assert.JSONEq(t, `[{"id":"mouth"}]`, string(run.Config))

	var rows []ParticleRow
	require.NoError(t, enc.mgr.DB.Order("particle_id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, run.ID, rows[0].RunID)
	assert.Equal(t, uint64(0), rows[0].ParticleID)
	assert.Equal(t, "mouth", rows[0].SourceID)
	assert.Equal(t, 0.0015, rows[0].X)
	assert.Equal(t, "nostril-left", rows[1].SourceID)
	assert.Equal(t, 2.495, rows[1].InjectionTime)
}

func TestDatabaseEncoderEmptySet(t *testing.T) {
	enc := newSqliteEncoder(t)
	require.NoError(t, enc.Encode(nil, testSummary()))

	var runs int64
	require.NoError(t, enc.mgr.DB.Model(&RunRecord{}).Count(&runs).Error)
	assert.EqualValues(t, 1, runs)

	var particles int64
	require.NoError(t, enc.mgr.DB.Model(&ParticleRow{}).Count(&particles).Error)
	assert.Zero(t, particles)
}
