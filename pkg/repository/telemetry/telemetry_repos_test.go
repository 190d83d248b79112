//nolint:funlen,errcheck //ok for this test code
package telemetry

import (
	"context"
	"log"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"

	"github.com/demirmelih/f1-race-strategist/pkg/model"
	driverrepos "github.com/demirmelih/f1-race-strategist/pkg/repository/driver"
	racerepos "github.com/demirmelih/f1-race-strategist/pkg/repository/race"
	"github.com/demirmelih/f1-race-strategist/testsupport/testdb"
)

func initTestDb() (*pgxpool.Pool, *model.Race, *model.Driver) {
	pool := testdb.InitTestDb()
	race := &model.Race{Year: 2023, GrandPrix: "Silverstone", Session: "R"}
	if err := racerepos.Create(context.Background(), pool, race); err != nil {
		log.Fatalf("initTestDb: %v\n", err)
	}
	driver := &model.Driver{Abbreviation: "VER", Name: "Max Verstappen", Team: "Red Bull Racing"}
	if err := driverrepos.Create(context.Background(), pool, driver); err != nil {
		log.Fatalf("initTestDb: %v\n", err)
	}
	return pool, race, driver
}

func ptr(v float64) *float64 { return &v }

func sampleSequence() []model.TelemetrySample {
	return []model.TelemetrySample{
		{Time: 0, Speed: 120, Gear: 3, X: -100, Y: 50, Throttle: ptr(0.5), Brake: ptr(0)},
		{Time: 100, Speed: 180.5, Gear: 5, X: -50, Y: 60},
		{Time: 200, Speed: 250, Gear: 0, X: 0, Y: 80, Throttle: ptr(1)},
	}
}

func TestTelemetryRepository_CreateBulk(t *testing.T) {
	db, race, driver := initTestDb()

	num, err := CreateBulk(context.Background(), db, race.ID, driver.ID, sampleSequence())
	assert.NoError(t, err)
	assert.Equal(t, 3, num)
}

func TestTelemetryRepository_LoadByRaceAndDriver(t *testing.T) {
	db, race, driver := initTestDb()
	want := sampleSequence()
	_, err := CreateBulk(context.Background(), db, race.ID, driver.ID, want)
	assert.NoError(t, err)

	got, err := LoadByRaceAndDriver(context.Background(), db, race.ID, driver.ID)
	assert.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sequence mismatch (-want +got):\n%s", diff)
	}

	// unknown pair yields an empty sequence, not an error
	got, err = LoadByRaceAndDriver(context.Background(), db, race.ID, driver.ID+1)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestTelemetryRepository_DeleteByRaceAndDriver(t *testing.T) {
	db, race, driver := initTestDb()
	_, err := CreateBulk(context.Background(), db, race.ID, driver.ID, sampleSequence())
	assert.NoError(t, err)

	num, err := DeleteByRaceAndDriver(context.Background(), db, race.ID, driver.ID)
	assert.NoError(t, err)
	assert.Equal(t, 3, num)

	got, err := LoadByRaceAndDriver(context.Background(), db, race.ID, driver.ID)
	assert.NoError(t, err)
	assert.Empty(t, got)
}
