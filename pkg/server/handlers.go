package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/demirmelih/f1-race-strategist/log"
	"github.com/demirmelih/f1-race-strategist/pkg/model"
	"github.com/demirmelih/f1-race-strategist/pkg/repository/driver"
	"github.com/demirmelih/f1-race-strategist/pkg/repository/race"
	"github.com/demirmelih/f1-race-strategist/pkg/trackmap"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("could not encode response", log.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listRaces(w http.ResponseWriter, r *http.Request) {
	races, err := race.LoadAll(r.Context(), s.pool)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(races) == 0 {
		writeError(w, http.StatusNotFound,
			"No races found. Run f1rs seed to populate the database.")
		return
	}
	writeJSON(w, http.StatusOK, races)
}

//nolint:whitespace // editor/linter issue
func (s *Server) loadSamples(w http.ResponseWriter, r *http.Request) (
	[]model.TelemetrySample, bool,
) {
	raceID, err := strconv.Atoi(r.PathValue("raceID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "raceID must be an integer")
		return nil, false
	}
	driverID, err := strconv.Atoi(r.PathValue("driverID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "driverID must be an integer")
		return nil, false
	}

	if _, err = race.LoadByID(r.Context(), s.pool, raceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound,
				fmt.Sprintf("Race with id=%d not found.", raceID))
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	if _, err = driver.LoadByID(r.Context(), s.pool, driverID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound,
				fmt.Sprintf("Driver with id=%d not found.", driverID))
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}

	cached, err := s.samples.Get(r.Context(), sampleKey{raceID: raceID, driverID: driverID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	samples := *cached
	if len(samples) == 0 {
		writeError(w, http.StatusNotFound,
			fmt.Sprintf("No telemetry found for race_id=%d and driver_id=%d.",
				raceID, driverID))
		return nil, false
	}
	return samples, true
}

func (s *Server) getTelemetry(w http.ResponseWriter, r *http.Request) {
	samples, ok := s.loadSamples(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, samples)
}

type trackMapSample struct {
	Index int            `json:"index"`
	Point trackmap.Point `json:"point"`
	Speed float64        `json:"speed"`
	Color string         `json:"color"`
}

type trackMapResponse struct {
	Normalization *trackmap.Normalization `json:"normalization"`
	Outline       []trackmap.Point        `json:"outline"`
	SVGPath       string                  `json:"svgPath"`
	Samples       []trackMapSample        `json:"samples"`
}

// getTrackMap serves the projection precomputed server-side so the
// frontend renders outline and marker from one parameter set.
func (s *Server) getTrackMap(w http.ResponseWriter, r *http.Request) {
	samples, ok := s.loadSamples(w, r)
	if !ok {
		return
	}
	norm, err := trackmap.ComputeNormalization(samples, s.surfaceSide, s.surfacePadding)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	outline := norm.OutlinePath(samples)
	colors := trackmap.NewSpeedScale(samples)

	resp := trackMapResponse{
		Normalization: norm,
		Outline:       outline,
		SVGPath:       trackmap.SVGPath(outline),
		Samples: lo.Map(samples, func(item model.TelemetrySample, idx int) trackMapSample {
			return trackMapSample{
				Index: idx,
				Point: outline[idx],
				Speed: item.Speed,
				Color: colors.ColorAt(item.Speed),
			}
		}),
	}
	writeJSON(w, http.StatusOK, resp)
}
