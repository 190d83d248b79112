// Package server provides the JSON API consumed by the browser
// frontend: race list, telemetry sequences and the precomputed track
// map projection.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"

	"github.com/demirmelih/f1-race-strategist/pkg/model"
	"github.com/demirmelih/f1-race-strategist/pkg/repository/telemetry"
	"github.com/demirmelih/f1-race-strategist/pkg/utils/cache"
	"github.com/demirmelih/f1-race-strategist/pkg/utils/cache/loadercache"
)

type sampleKey struct {
	raceID   int
	driverID int
}

type Server struct {
	pool           *pgxpool.Pool
	corsOrigins    []string
	surfaceSide    float64
	surfacePadding float64
	samples        cache.Cache[sampleKey, []model.TelemetrySample]
}

type Option func(*Server)

func WithPool(p *pgxpool.Pool) Option {
	return func(srv *Server) {
		srv.pool = p
	}
}

// WithCORSOrigins restricts browser access to the given frontend
// origins.
func WithCORSOrigins(origins []string) Option {
	return func(srv *Server) {
		srv.corsOrigins = origins
	}
}

// WithDrawingSurface sets the square side length and padding used for
// the track map projection.
func WithDrawingSurface(side, padding float64) Option {
	return func(srv *Server) {
		srv.surfaceSide = side
		srv.surfacePadding = padding
	}
}

func New(opts ...Option) *Server {
	ret := &Server{
		surfaceSide:    1000,
		surfacePadding: 40,
	}
	for _, opt := range opts {
		opt(ret)
	}
	// sequences are immutable between seed runs, cache them briefly
	ret.samples = loadercache.New(
		loadercache.WithExpiration[sampleKey, []model.TelemetrySample](time.Minute),
		loadercache.WithLoader(
			func(ctx context.Context, key sampleKey) (*[]model.TelemetrySample, error) {
				data, err := telemetry.LoadByRaceAndDriver(
					ctx, ret.pool, key.raceID, key.driverID)
				if err != nil {
					return nil, err
				}
				return &data, nil
			}))
	return ret
}

// Handler returns the routed handler wrapped with CORS and request
// logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.health)
	mux.HandleFunc("GET /api/races", s.listRaces)
	mux.HandleFunc("GET /api/telemetry/{raceID}/{driverID}", s.getTelemetry)
	mux.HandleFunc("GET /api/trackmap/{raceID}/{driverID}", s.getTrackMap)
	return s.newCORS().Handler(requestLogger(mux))
}

func (s *Server) newCORS() *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodHead, http.MethodGet},
		AllowedHeaders: []string{"*"},
	})
}
