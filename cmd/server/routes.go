package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"badminton-manager/internal/domain"
	"badminton-manager/internal/httputil"
	"badminton-manager/internal/middleware"
	"badminton-manager/internal/service"
	"badminton-manager/internal/store"
	"badminton-manager/internal/utils"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type app struct {
	logger   zerolog.Logger
	kv       *store.KV
	players  *store.PlayerStore
	courts   *store.CourtStore
	shuttles *store.ShuttleStore
	history  *store.HistoryStore
	queue    *store.QueueStore
	days     *store.DayStore

	roster    *service.RosterService
	queueSvc  *service.QueueService
	matches   *service.MatchService
	daySvc    *service.DayService
	selection *service.Selection

	sessions *scs.SessionManager
}

func (a *app) loadStores() error {
	for _, load := range []func() error{
		a.players.Load,
		a.courts.Load,
		a.shuttles.Load,
		a.history.Load,
		a.queue.Load,
		a.days.Load,
	} {
		if err := load(); err != nil {
			return err
		}
	}
	return nil
}

// respondErr maps service/store failures onto HTTP statuses: missing entities
// are 404, validation rejections 400, anything else 500.
func respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrPlayerNotFound),
		errors.Is(err, store.ErrCourtNotFound),
		errors.Is(err, store.ErrQueueNotFound),
		errors.Is(err, store.ErrDayNotFound):
		httputil.NotFound(w, err.Error(), err)
	case errors.Is(err, store.ErrEmptyName),
		errors.Is(err, store.ErrNameTaken),
		errors.Is(err, store.ErrShuttleTaken),
		errors.Is(err, store.ErrCourtInUse),
		errors.Is(err, service.ErrNotEnoughPlayers),
		errors.Is(err, service.ErrNoRanksSelected),
		errors.Is(err, service.ErrWrongSideCount),
		errors.Is(err, service.ErrDuplicatePlayer),
		errors.Is(err, service.ErrPlayerBusy),
		errors.Is(err, service.ErrNoCourtSelected),
		errors.Is(err, service.ErrCourtUnavailable),
		errors.Is(err, service.ErrNoMatchInProgress),
		errors.Is(err, service.ErrInvalidShuttle),
		errors.Is(err, service.ErrNoActiveDay):
		httputil.BadRequest(w, err.Error(), err)
	default:
		httputil.InternalServerError(w, "operation failed", err)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httputil.BadRequest(w, "invalid request body", err)
		return false
	}
	return true
}

func newRouter(a *app) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID(a.logger))
	r.Use(a.sessions.LoadAndSave)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		justReset := a.sessions.PopBool(r.Context(), "justReset")
		day, hasDay := a.days.Active()
		resp := map[string]any{
			"justReset": justReset,
			"players":   len(a.players.All()),
			"courts":    len(a.courts.All()),
		}
		if hasDay {
			resp["activeDay"] = day
		}
		httputil.JSON(w, http.StatusOK, resp)
	})

	// Reset wipes every persisted key; the one-shot notification flag rides
	// on the session across the redirect.
	r.Get("/reset", func(w http.ResponseWriter, r *http.Request) {
		if err := a.kv.DeleteAll(); err != nil {
			httputil.InternalServerError(w, "failed to reset data", err)
			return
		}
		if err := a.loadStores(); err != nil {
			httputil.InternalServerError(w, "failed to reload stores", err)
			return
		}
		a.sessions.Put(r.Context(), "justReset", true)
		a.logger.Info().Msg("all persisted data wiped")
		http.Redirect(w, r, "/", http.StatusFound)
	})

	r.Route("/players", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			httputil.JSON(w, http.StatusOK, a.players.All())
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Name string `json:"name"`
				Rank string `json:"rank"`
			}
			if !decode(w, r, &req) {
				return
			}
			player, err := a.roster.AddPlayer(req.Name, domain.ParseRank(req.Rank))
			if err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusCreated, player)
		})

		r.Post("/reset", func(w http.ResponseWriter, r *http.Request) {
			if err := a.roster.ResetAllPlayersStats(); err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, nil)
		})

		r.Post("/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
			if err != nil {
				httputil.BadRequest(w, "invalid player id", err)
				return
			}
			var req struct {
				Name   *string `json:"name"`
				Rank   *string `json:"rank"`
				IsPaid *bool   `json:"isPaid"`
			}
			if !decode(w, r, &req) {
				return
			}
			patch := domain.PlayerPatch{IsPaid: req.IsPaid}
			if req.Name != nil {
				// A blank name is treated as "leave it alone".
				patch.Name = utils.StringOrNil(*req.Name)
			}
			if req.Rank != nil {
				rank := domain.ParseRank(*req.Rank)
				patch.Rank = &rank
			}
			if err := a.roster.UpdatePlayerByID(id, patch); err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, nil)
		})

		r.Post("/{name}/come", a.playerStatusHandler(a.roster.MarkCome))
		r.Post("/{name}/pause", a.playerStatusHandler(a.roster.MarkPause))
		r.Post("/{name}/gohome", a.playerStatusHandler(a.roster.MarkGoHome))
		r.Post("/{name}/paid", a.playerStatusHandler(a.roster.TogglePaid))
	})

	r.Route("/courts", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			httputil.JSON(w, http.StatusOK, a.courts.All())
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Name string `json:"name"`
			}
			if !decode(w, r, &req) {
				return
			}
			court, err := a.roster.AddCourt(req.Name)
			if err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusCreated, court)
		})

		r.Post("/{name}", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Status     *string `json:"status"`
				MatchCount *int    `json:"matchCount"`
			}
			if !decode(w, r, &req) {
				return
			}
			patch := domain.CourtPatch{MatchCount: req.MatchCount}
			if req.Status != nil {
				switch st := domain.CourtStatus(*req.Status); st {
				case domain.CourtAvailable, domain.CourtPause:
					patch.Status = &st
				default:
					httputil.BadRequest(w, "invalid court status", nil)
					return
				}
			}
			if err := a.roster.UpdateCourt(chi.URLParam(r, "name"), patch); err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, nil)
		})

		r.Delete("/{name}", func(w http.ResponseWriter, r *http.Request) {
			if err := a.roster.DeleteCourt(chi.URLParam(r, "name")); err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, nil)
		})

		r.Post("/{name}/pause", func(w http.ResponseWriter, r *http.Request) {
			if err := a.roster.PauseCourt(chi.URLParam(r, "name")); err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, nil)
		})

		r.Post("/{name}/resume", func(w http.ResponseWriter, r *http.Request) {
			if err := a.roster.ResumeCourt(chi.URLParam(r, "name")); err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, nil)
		})

		r.Post("/{name}/shuttles", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Number int `json:"number"`
			}
			if !decode(w, r, &req) {
				return
			}
			if err := a.matches.AddShuttleToMatch(chi.URLParam(r, "name"), req.Number); err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, nil)
		})

		r.Post("/{name}/end", func(w http.ResponseWriter, r *http.Request) {
			if err := a.matches.EndMatch(chi.URLParam(r, "name")); err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, nil)
		})
	})

	r.Route("/shuttles", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			httputil.JSON(w, http.StatusOK, a.shuttles.All())
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Number int `json:"number"`
			}
			if !decode(w, r, &req) {
				return
			}
			if err := a.roster.AddShuttle(req.Number); err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusCreated, nil)
		})
	})

	r.Route("/selection", func(r chi.Router) {
		r.Get("/available", func(w http.ResponseWriter, r *http.Request) {
			httputil.JSON(w, http.StatusOK, map[string]any{
				"players": service.AvailablePlayers(a.players.All()),
				"courts":  service.AvailableCourts(a.courts.All()),
			})
		})

		r.Get("/ranked", func(w http.ResponseWriter, r *http.Request) {
			available := service.AvailablePlayers(a.players.All())
			httputil.JSON(w, http.StatusOK, service.GroupByRank(available))
		})

		r.Post("/random", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Ranks []string `json:"ranks"`
			}
			if !decode(w, r, &req) {
				return
			}
			pool := service.AvailablePlayers(a.players.All())

			var foursome service.Foursome
			var err error
			if len(req.Ranks) == 0 {
				foursome, err = a.selection.RandomFour(pool)
			} else {
				foursome, err = a.selection.RankFilteredRandomFour(pool, parseRanks(req.Ranks))
			}
			if err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, foursome)
		})

		r.Post("/fair", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Ranks []string `json:"ranks"`
			}
			if !decode(w, r, &req) {
				return
			}
			pool := service.AvailablePlayers(a.players.All())
			foursome, err := service.FairFour(pool, parseRanks(req.Ranks))
			if err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, foursome)
		})
	})

	r.Route("/matches", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			httputil.JSON(w, http.StatusOK, a.matches.OngoingMatches())
		})

		r.Get("/history", func(w http.ResponseWriter, r *http.Request) {
			httputil.JSON(w, http.StatusOK, a.history.All())
		})

		r.Post("/start", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				LeftIDs       []int64 `json:"leftIds"`
				RightIDs      []int64 `json:"rightIds"`
				Court         string  `json:"court"`
				ShuttleNumber int     `json:"shuttleNumber"`
			}
			if !decode(w, r, &req) {
				return
			}
			if err := a.matches.StartMatch(req.LeftIDs, req.RightIDs, req.Court, req.ShuttleNumber); err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, nil)
		})
	})

	r.Route("/queue", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			httputil.JSON(w, http.StatusOK, a.queue.All())
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				LeftIDs  []int64 `json:"leftIds"`
				RightIDs []int64 `json:"rightIds"`
				Court    string  `json:"court"`
			}
			if !decode(w, r, &req) {
				return
			}
			entry, err := a.queueSvc.Enqueue(req.LeftIDs, req.RightIDs, req.Court)
			if err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusCreated, entry)
		})

		r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
			if err := a.queueSvc.Clear(); err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, nil)
		})

		r.Post("/{id}/court", func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
			if err != nil {
				httputil.BadRequest(w, "invalid queue id", err)
				return
			}
			var req struct {
				Court string `json:"court"`
			}
			if !decode(w, r, &req) {
				return
			}
			if err := a.queueSvc.AssignCourt(id, req.Court); err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, nil)
		})

		r.Post("/{id}/start", func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
			if err != nil {
				httputil.BadRequest(w, "invalid queue id", err)
				return
			}
			var req struct {
				ShuttleNumber int `json:"shuttleNumber"`
			}
			if !decode(w, r, &req) {
				return
			}
			if err := a.matches.StartQueuedMatch(id, req.ShuttleNumber); err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, nil)
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
			if err != nil {
				httputil.BadRequest(w, "invalid queue id", err)
				return
			}
			if err := a.queueSvc.Dequeue(id); err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, nil)
		})
	})

	r.Route("/days", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			httputil.JSON(w, http.StatusOK, a.days.All())
		})

		r.Post("/start", func(w http.ResponseWriter, r *http.Request) {
			day, err := a.daySvc.StartNewDay()
			if err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusCreated, day)
		})

		r.Post("/end", func(w http.ResponseWriter, r *http.Request) {
			day, err := a.daySvc.EndCurrentDay()
			if err != nil {
				respondErr(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, day)
		})

		r.Get("/{id}/export", func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
			if err != nil {
				httputil.BadRequest(w, "invalid day id", err)
				return
			}
			export := a.daySvc.ExportDay(id)
			if export == nil {
				httputil.NotFound(w, "day not found", nil)
				return
			}
			w.Header().Set("Content-Disposition",
				fmt.Sprintf("attachment; filename=tournament-day-%d-export.json", id))
			httputil.JSON(w, http.StatusOK, export)
		})

		r.Get("/{id}/summary", func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
			if err != nil {
				httputil.BadRequest(w, "invalid day id", err)
				return
			}
			summary := a.daySvc.SummarizeDay(id)
			if summary == nil {
				httputil.NotFound(w, "day not found", nil)
				return
			}
			httputil.JSON(w, http.StatusOK, summary)
		})
	})

	return r
}

func (a *app) playerStatusHandler(fn func(string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(chi.URLParam(r, "name")); err != nil {
			respondErr(w, err)
			return
		}
		httputil.JSON(w, http.StatusOK, nil)
	}
}

func parseRanks(ranks []string) []domain.Rank {
	out := make([]domain.Rank, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, domain.ParseRank(r))
	}
	return out
}
