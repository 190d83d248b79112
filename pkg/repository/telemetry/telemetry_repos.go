package telemetry

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/demirmelih/f1-race-strategist/pkg/model"
	"github.com/demirmelih/f1-race-strategist/pkg/repository"
)

// Copier is satisfied by pgxpool.Pool, pgx.Conn and pgx.Tx.
type Copier interface {
	CopyFrom(
		ctx context.Context,
		tableName pgx.Identifier,
		columnNames []string,
		rowSrc pgx.CopyFromSource,
	) (int64, error)
}

// CreateBulk inserts a whole sample sequence for one race/driver pair
// in a single copy operation.
//
//nolint:whitespace // editor/linter issue
func CreateBulk(
	ctx context.Context,
	conn Copier,
	raceID, driverID int,
	samples []model.TelemetrySample,
) (int, error) {
	rows := make([][]any, len(samples))
	for i := range samples {
		s := &samples[i]
		rows[i] = []any{
			raceID, driverID, s.Time, s.Speed, s.Gear, s.X, s.Y, s.Throttle, s.Brake,
		}
	}
	copied, err := conn.CopyFrom(ctx,
		pgx.Identifier{"telemetry"},
		[]string{
			"race_id", "driver_id", "sample_time", "speed", "gear",
			"x", "y", "throttle", "brake",
		},
		pgx.CopyFromRows(rows))
	if err != nil {
		return 0, err
	}
	return int(copied), nil
}

// LoadByRaceAndDriver returns the sample sequence ordered by recording
// time.
//
//nolint:whitespace // editor/linter issue
func LoadByRaceAndDriver(
	ctx context.Context,
	conn repository.Querier,
	raceID, driverID int,
) ([]model.TelemetrySample, error) {
	rows, err := conn.Query(ctx, `
	select sample_time, speed, gear, x, y, throttle, brake
	from telemetry where race_id=$1 and driver_id=$2
	order by sample_time
	`, raceID, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]model.TelemetrySample, 0)
	for rows.Next() {
		var item model.TelemetrySample
		if err := rows.Scan(
			&item.Time, &item.Speed, &item.Gear, &item.X, &item.Y,
			&item.Throttle, &item.Brake,
		); err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

// deletes the samples of a race/driver pair, returns rows deleted.
//nolint:whitespace // editor/linter issue
func DeleteByRaceAndDriver(
	ctx context.Context,
	conn repository.Querier,
	raceID, driverID int,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"delete from telemetry where race_id=$1 and driver_id=$2", raceID, driverID)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}
