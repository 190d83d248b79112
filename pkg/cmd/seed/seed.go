// Package seed loads a telemetry export file into the database. The
// file holds one race, one driver and the sample sequence of a single
// lap, typically produced by a fastf1 export script.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/demirmelih/f1-race-strategist/log"
	"github.com/demirmelih/f1-race-strategist/pkg/config"
	"github.com/demirmelih/f1-race-strategist/pkg/db/postgres"
	"github.com/demirmelih/f1-race-strategist/pkg/model"
	driverrepos "github.com/demirmelih/f1-race-strategist/pkg/repository/driver"
	racerepos "github.com/demirmelih/f1-race-strategist/pkg/repository/race"
	telemetryrepos "github.com/demirmelih/f1-race-strategist/pkg/repository/telemetry"
	"github.com/demirmelih/f1-race-strategist/pkg/utils"
)

var seedFile string

type seedData struct {
	Race      model.Race              `json:"race"`
	Driver    model.Driver            `json:"driver"`
	Telemetry []model.TelemetrySample `json:"telemetry"`
}

func NewSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "loads a telemetry export file into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seedDatabase()
		},
	}
	cmd.Flags().StringVarP(&seedFile,
		"file",
		"f",
		"seed.json",
		"telemetry export file to load")
	return cmd
}

func readSeedFile(filename string) (*seedData, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var data seedData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	if data.Race.Year == 0 || data.Race.GrandPrix == "" || data.Race.Session == "" {
		return nil, fmt.Errorf("%s: race entry is incomplete", filename)
	}
	if data.Driver.Abbreviation == "" {
		return nil, fmt.Errorf("%s: driver entry is incomplete", filename)
	}
	if len(data.Telemetry) == 0 {
		return nil, fmt.Errorf("%s: no telemetry samples", filename)
	}
	return &data, nil
}

func seedDatabase() error {
	data, err := readSeedFile(seedFile)
	if err != nil {
		return err
	}
	log.Info("Read telemetry export",
		log.String("file", seedFile),
		log.Int("samples", len(data.Telemetry)))

	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		timeout = 60 * time.Second
	}
	if err = utils.WaitForTCP(utils.ExtractFromDBURL(config.DB), timeout); err != nil {
		log.Fatal("database not ready", log.ErrorField(err))
	}

	pool := postgres.InitWithURL(config.DB)
	defer pool.Close()

	ctx := context.Background()
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if err := racerepos.EnsureRace(ctx, tx, &data.Race); err != nil {
			return err
		}
		if err := driverrepos.EnsureDriver(ctx, tx, &data.Driver); err != nil {
			return err
		}
		// replace any previous sequence for this race/driver pair
		deleted, err := telemetryrepos.DeleteByRaceAndDriver(
			ctx, tx, data.Race.ID, data.Driver.ID)
		if err != nil {
			return err
		}
		if deleted > 0 {
			log.Info("Replaced existing telemetry", log.Int("rows", deleted))
		}
		inserted, err := telemetryrepos.CreateBulk(
			ctx, tx, data.Race.ID, data.Driver.ID, data.Telemetry)
		if err != nil {
			return err
		}
		log.Info("Inserted telemetry",
			log.Int("raceId", data.Race.ID),
			log.Int("driverId", data.Driver.ID),
			log.Int("rows", inserted))
		return nil
	})
	if err != nil {
		return err
	}
	log.Info("Seed finished")
	return nil
}
