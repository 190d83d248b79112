//nolint:dupl,funlen,errcheck //ok for this test code
package driver

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

func createSampleEntry(db *pgxpool.Pool) *model.Driver {
	driver := &model.Driver{
		Abbreviation: "VER",
		Name:         "Max Verstappen",
		Team:         "Red Bull Racing",
	}
	err := pgx.BeginFunc(context.Background(), db, func(tx pgx.Tx) error {
		return Create(context.Background(), tx, driver)
	})
	if err != nil {
		log.Fatalf("createSampleEntry: %v\n", err)
	}
	return driver
}

func TestDriverRepository_Create(t *testing.T) {
	db := initTestDb()

	driver := &model.Driver{Abbreviation: "HAM", Name: "Lewis Hamilton", Team: "Mercedes"}
	err := Create(context.Background(), db, driver)
	assert.NoError(t, err)
	assert.Greater(t, driver.ID, 0)

	// abbreviation is unique
	dup := &model.Driver{Abbreviation: "HAM", Name: "Other", Team: "Other"}
	err = Create(context.Background(), db, dup)
	assert.Error(t, err)
}

func TestDriverRepository_LoadByID(t *testing.T) {
	db := initTestDb()
	sample := createSampleEntry(db)

	got, err := LoadByID(context.Background(), db, sample.ID)
	assert.NoError(t, err)
	assert.Equal(t, sample, got)

	_, err = LoadByID(context.Background(), db, -1)
	assert.True(t, errors.Is(err, pgx.ErrNoRows))
}

func TestDriverRepository_LoadByAbbreviation(t *testing.T) {
	db := initTestDb()
	sample := createSampleEntry(db)

	got, err := LoadByAbbreviation(context.Background(), db, "VER")
	assert.NoError(t, err)
	assert.Equal(t, sample, got)

	_, err = LoadByAbbreviation(context.Background(), db, "XXX")
	assert.True(t, errors.Is(err, pgx.ErrNoRows))
}

func TestDriverRepository_EnsureDriver(t *testing.T) {
	db := initTestDb()
	sample := createSampleEntry(db)

	existing := &model.Driver{Abbreviation: "VER"}
	err := EnsureDriver(context.Background(), db, existing)
	assert.NoError(t, err)
	assert.Equal(t, sample, existing)

	fresh := &model.Driver{Abbreviation: "NOR", Name: "Lando Norris", Team: "McLaren"}
	err = EnsureDriver(context.Background(), db, fresh)
	assert.NoError(t, err)
	assert.Greater(t, fresh.ID, sample.ID)
}

func TestDriverRepository_DeleteByID(t *testing.T) {
	db := initTestDb()
	sample := createSampleEntry(db)

	num, err := DeleteByID(context.Background(), db, sample.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, num)
}
