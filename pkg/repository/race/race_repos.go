package race

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/demirmelih/f1-race-strategist/pkg/model"
	"github.com/demirmelih/f1-race-strategist/pkg/repository"
)

// Create inserts a race. A missing key is generated. The assigned id
// is written back into the argument.
func Create(ctx context.Context, conn repository.Querier, race *model.Race) error {
	if race.Key == "" {
		key, err := uuid.NewV4()
		if err != nil {
			return err
		}
		race.Key = key.String()
	}
	row := conn.QueryRow(ctx, `
	insert into race (race_key, year, grand_prix, session)
	values ($1,$2,$3,$4) returning id
	`,
		race.Key, race.Year, race.GrandPrix, race.Session)
	return row.Scan(&race.ID)
}

func LoadAll(ctx context.Context, conn repository.Querier) ([]*model.Race, error) {
	rows, err := conn.Query(ctx, `
	select id, race_key, year, grand_prix, session from race order by year, grand_prix
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.Race, 0)
	for rows.Next() {
		var item model.Race
		if err := rows.Scan(
			&item.ID, &item.Key, &item.Year, &item.GrandPrix, &item.Session,
		); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.Race, error,
) {
	row := conn.QueryRow(ctx, `
	select id, race_key, year, grand_prix, session from race where id=$1
	`, id)
	var item model.Race
	if err := row.Scan(
		&item.ID, &item.Key, &item.Year, &item.GrandPrix, &item.Session,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

//nolint:whitespace // editor/linter issue
func loadBySession(
	ctx context.Context,
	conn repository.Querier,
	year int,
	grandPrix, session string,
) (*model.Race, error) {
	row := conn.QueryRow(ctx, `
	select id, race_key, year, grand_prix, session from race
	where year=$1 and grand_prix=$2 and session=$3
	`, year, grandPrix, session)
	var item model.Race
	if err := row.Scan(
		&item.ID, &item.Key, &item.Year, &item.GrandPrix, &item.Session,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

// EnsureRace loads the race identified by (year, grand prix, session)
// and creates it when missing. The argument carries the resolved id.
func EnsureRace(ctx context.Context, conn repository.Querier, race *model.Race) error {
	found, err := loadBySession(ctx, conn, race.Year, race.GrandPrix, race.Session)
	if errors.Is(err, pgx.ErrNoRows) {
		return Create(ctx, conn, race)
	}
	if err != nil {
		return err
	}
	*race = *found
	return nil
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from race where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}
