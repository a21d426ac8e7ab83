package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"thelife/game"
	"thelife/observability"
	"thelife/service"
)

// PlayerHeader carries the authenticated player id set by the upstream proxy
const PlayerHeader = "X-Player-ID"

type contextKey string

const playerContextKey contextKey = "player"

// Services are the game operations exposed over HTTP
type Services struct {
	Players     service.PlayerService
	Confinement service.ConfinementService
	Crimes      service.CrimeService
	Businesses  service.BusinessService
	Brothels    service.BrothelService
	Combat      service.CombatService
	Market      service.MarketService
}

// Server is the HTTP surface of the game
type Server struct {
	svc     Services
	limiter Limiter
	mux     *chi.Mux
}

// New builds the router. A nil limiter disables rate limiting.
func New(svc Services, limiter Limiter) *Server {
	s := &Server{
		svc:     svc,
		limiter: limiter,
		mux:     chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(playerMiddleware)

		r.Get("/state", s.handleState)
		r.Get("/ledger", s.handleLedger)
		r.Get("/crimes", s.handleCrimes)
		r.Get("/businesses", s.handleBusinesses)
		r.Get("/market/dock", s.handleBoats)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)

			r.Post("/crimes/{id}/attempt", s.handleAttemptCrime)

			r.Post("/businesses/{id}/purchase", s.handlePurchaseBusiness)
			r.Post("/businesses/{id}/production/start", s.handleStartProduction)
			r.Post("/businesses/{id}/production/collect", s.handleCollectProduction)
			r.Post("/businesses/{id}/upgrade", s.handleUpgradeBusiness)
			r.Post("/businesses/{id}/sell", s.handleSellBusiness)

			r.Post("/brothel/open", s.handleOpenBrothel)
			r.Post("/brothel/collect", s.handleCollectBrothel)
			r.Post("/brothel/upgrade-slots", s.handleUpgradeSlots)
			r.Post("/brothel/workers/{id}/hire", s.handleHireWorker)
			r.Post("/brothel/hired/{id}/sell", s.handleSellWorker)

			r.Post("/players/{id}/attack", s.handleAttack)

			r.Post("/market/street", s.handleSellStreet)
			r.Post("/market/dock/{boatID}/ship", s.handleShipDock)
			r.Post("/market/store/{id}/buy", s.handleBuyStoreItem)

			r.Post("/jail/escape", s.handleEscape)
			r.Post("/hospital/treat", s.handleTreat)

			r.Post("/bank/deposit", s.handleDeposit)
			r.Post("/bank/withdraw", s.handleWithdraw)
		})
	})
}

func playerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(PlayerHeader)
		if raw == "" {
			writeStatus(w, http.StatusUnauthorized, "Unauthorized", "missing "+PlayerHeader+" header")
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			writeStatus(w, http.StatusUnauthorized, "Unauthorized", "malformed "+PlayerHeader+" header")
			return
		}
		ctx := context.WithValue(r.Context(), playerContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func playerFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(playerContextKey).(uuid.UUID)
	return id
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		allowed, err := s.limiter.Allow(r.Context(), playerFromContext(r.Context()).String())
		if err != nil {
			// fail open so a limiter outage does not stop the game
			log.WithError(err).Warn("Rate limiter unavailable")
		}
		if !allowed {
			route := chi.RouteContext(r.Context()).RoutePattern()
			observability.RateLimited.WithLabelValues(route).Inc()
			writeStatus(w, http.StatusTooManyRequests, "RateLimited", "too many actions, slow down")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusFor maps an error kind onto its HTTP status
func statusFor(kind game.ErrorKind) int {
	switch kind {
	case game.KindConfined, game.KindAlreadyExists, game.KindConcurrentModification:
		return http.StatusConflict
	case game.KindInsufficientFunds:
		return http.StatusPaymentRequired
	case game.KindNotFound:
		return http.StatusNotFound
	case game.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}
