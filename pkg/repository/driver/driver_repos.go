package driver

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/demirmelih/f1-race-strategist/pkg/model"
	"github.com/demirmelih/f1-race-strategist/pkg/repository"
)

func Create(ctx context.Context, conn repository.Querier, driver *model.Driver) error {
	row := conn.QueryRow(ctx, `
	insert into driver (abbreviation, name, team) values ($1,$2,$3) returning id
	`,
		driver.Abbreviation, driver.Name, driver.Team)
	return row.Scan(&driver.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.Driver, error,
) {
	row := conn.QueryRow(ctx, `
	select id, abbreviation, name, team from driver where id=$1
	`, id)
	var item model.Driver
	if err := row.Scan(
		&item.ID, &item.Abbreviation, &item.Name, &item.Team,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

//nolint:whitespace // editor/linter issue
func LoadByAbbreviation(
	ctx context.Context,
	conn repository.Querier,
	abbreviation string,
) (*model.Driver, error) {
	row := conn.QueryRow(ctx, `
	select id, abbreviation, name, team from driver where abbreviation=$1
	`, abbreviation)
	var item model.Driver
	if err := row.Scan(
		&item.ID, &item.Abbreviation, &item.Name, &item.Team,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

// EnsureDriver loads the driver by abbreviation and creates it when
// missing. The argument carries the resolved id.
func EnsureDriver(ctx context.Context, conn repository.Querier, driver *model.Driver) error {
	found, err := LoadByAbbreviation(ctx, conn, driver.Abbreviation)
	if errors.Is(err, pgx.ErrNoRows) {
		return Create(ctx, conn, driver)
	}
	if err != nil {
		return err
	}
	*driver = *found
	return nil
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from driver where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}
