//nolint:dupl,funlen,errcheck //ok for this test code
package race

import (
	"context"
	"errors"
	"log"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"

	"github.com/demirmelih/f1-race-strategist/pkg/model"
	"github.com/demirmelih/f1-race-strategist/testsupport/testdb"
)

func initTestDb() *pgxpool.Pool {
	return testdb.InitTestDb()
}

func createSampleEntry(db *pgxpool.Pool) *model.Race {
	race := &model.Race{
		Year:      2023,
		GrandPrix: "Silverstone",
		Session:   "R",
	}
	err := pgx.BeginFunc(context.Background(), db, func(tx pgx.Tx) error {
		return Create(context.Background(), tx, race)
	})
	if err != nil {
		log.Fatalf("createSampleEntry: %v\n", err)
	}
	return race
}

func TestRaceRepository_Create(t *testing.T) {
	db := initTestDb()

	race := &model.Race{Year: 2023, GrandPrix: "Monza", Session: "Q"}
	err := Create(context.Background(), db, race)
	assert.NoError(t, err)
	assert.Greater(t, race.ID, 0)
	assert.NotEmpty(t, race.Key)

	// duplicate session must be rejected
	dup := &model.Race{Year: 2023, GrandPrix: "Monza", Session: "Q"}
	err = Create(context.Background(), db, dup)
	assert.Error(t, err)
}

func TestRaceRepository_LoadByID(t *testing.T) {
	db := initTestDb()
	sample := createSampleEntry(db)

	tests := []struct {
		name    string
		id      int
		want    *model.Race
		wantErr bool
	}{
		{name: "load_existing", id: sample.ID, want: sample},
		{name: "load_missing", id: -1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadByID(context.Background(), db, tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadByID() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				assert.True(t, errors.Is(err, pgx.ErrNoRows))
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRaceRepository_LoadAll(t *testing.T) {
	db := initTestDb()
	createSampleEntry(db)

	races, err := LoadAll(context.Background(), db)
	assert.NoError(t, err)
	assert.Len(t, races, 1)
	assert.Equal(t, "Silverstone", races[0].GrandPrix)
}

func TestRaceRepository_EnsureRace(t *testing.T) {
	db := initTestDb()
	sample := createSampleEntry(db)

	// existing session resolves to the stored row
	existing := &model.Race{Year: 2023, GrandPrix: "Silverstone", Session: "R"}
	err := EnsureRace(context.Background(), db, existing)
	assert.NoError(t, err)
	assert.Equal(t, sample.ID, existing.ID)
	assert.Equal(t, sample.Key, existing.Key)

	// unknown session is created
	fresh := &model.Race{Year: 2024, GrandPrix: "Spa", Session: "R"}
	err = EnsureRace(context.Background(), db, fresh)
	assert.NoError(t, err)
	assert.Greater(t, fresh.ID, sample.ID)
}

func TestRaceRepository_DeleteByID(t *testing.T) {
	db := initTestDb()
	sample := createSampleEntry(db)

	num, err := DeleteByID(context.Background(), db, sample.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, num)

	num, err = DeleteByID(context.Background(), db, sample.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, num)
}
