// Package replay plays a stored telemetry sequence on the terminal.
// Mostly useful to inspect seeded data without running the frontend.
package replay

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/demirmelih/f1-race-strategist/log"
	"github.com/demirmelih/f1-race-strategist/pkg/config"
	"github.com/demirmelih/f1-race-strategist/pkg/db/postgres"
	"github.com/demirmelih/f1-race-strategist/pkg/playback"
	racerepos "github.com/demirmelih/f1-race-strategist/pkg/repository/race"
	telemetryrepos "github.com/demirmelih/f1-race-strategist/pkg/repository/telemetry"
)

var (
	raceID     int
	driverID   int
	interval   time.Duration
	startIndex int
)

func NewReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "replays a stored telemetry sequence on the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startReplay()
		},
	}
	cmd.Flags().IntVar(&raceID, "race", 1, "race id to replay")
	cmd.Flags().IntVar(&driverID, "driver", 1, "driver id to replay")
	cmd.Flags().DurationVar(&interval,
		"interval",
		playback.DefaultTickInterval,
		"time between two samples")
	cmd.Flags().IntVar(&startIndex, "start", 0, "sample index to start at")
	cmd.Flags().Float64Var(&config.SurfaceSide,
		"surface-side",
		1000,
		"side length of the square drawing surface")
	cmd.Flags().Float64Var(&config.SurfacePadding,
		"surface-padding",
		40,
		"padding kept free on each edge of the drawing surface")
	return cmd
}

//nolint:funlen // by design
func startReplay() error {
	pool := postgres.InitWithURL(config.DB)
	defer pool.Close()

	ctx := context.Background()
	raceData, err := racerepos.LoadByID(ctx, pool, raceID)
	if err != nil {
		return fmt.Errorf("race with id=%d not found: %w", raceID, err)
	}
	samples, err := telemetryrepos.LoadByRaceAndDriver(ctx, pool, raceID, driverID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no telemetry for race_id=%d and driver_id=%d",
			raceID, driverID)
	}
	log.Info("Loaded telemetry",
		log.Int("year", raceData.Year),
		log.String("grandPrix", raceData.GrandPrix),
		log.String("session", raceData.Session),
		log.Int("samples", len(samples)))

	ctrl, err := playback.NewController(
		samples,
		config.SurfaceSide,
		config.SurfacePadding,
		playback.WithTickInterval(interval),
		playback.WithSessionKey(raceData.Key))
	if err != nil {
		return err
	}
	defer ctrl.Close()

	frames := ctrl.Subscribe()
	defer ctrl.CancelSubscription(frames)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if startIndex > 0 {
		ctrl.Seek(startIndex)
	}
	ctrl.Play()

	for {
		select {
		case <-sigChan:
			fmt.Println()
			log.Info("Replay interrupted")
			return nil
		case frame := <-frames:
			printFrame(frame)
			if !frame.Playing && frame.Index == frame.Total-1 {
				fmt.Println()
				log.Info("Replay finished")
				return nil
			}
		}
	}
}

func printFrame(f playback.Frame) {
	throttle := "-"
	if f.Readout.Throttle != nil {
		throttle = fmt.Sprintf("%3d%%", *f.Readout.Throttle)
	}
	brake := "-"
	if f.Readout.Brake != nil {
		brake = fmt.Sprintf("%3d%%", *f.Readout.Brake)
	}
	fmt.Printf("\r%5d/%-5d %5.1f%% speed=%3d km/h gear=%-3s throttle=%s brake=%s pos=(%.1f,%.1f)   ",
		f.Index+1, f.Total, f.Progress*100,
		f.Readout.Speed, f.Readout.Gear, throttle, brake,
		f.Marker.X, f.Marker.Y)
}
