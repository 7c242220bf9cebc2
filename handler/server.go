package handler

import (
	"net/http"

	"interest/core"
	"interest/handler/render"
	"interest/handler/rest"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
)

// Server rest server
type Server struct {
	system           *core.System
	positionStore    core.IPositionStore
	priceStore       core.IPriceStore
	transactionStore core.ITransactionStore
	engineSrv        core.IEngineService
	poolSrv          core.IPoolService
	assetSrv         core.IAssetService
}

// New new server
func New(
	system *core.System,
	positionStore core.IPositionStore,
	priceStore core.IPriceStore,
	transactionStore core.ITransactionStore,
	engineSrv core.IEngineService,
	poolSrv core.IPoolService,
	assetSrv core.IAssetService,
) Server {
	return Server{
		system:           system,
		positionStore:    positionStore,
		priceStore:       priceStore,
		transactionStore: transactionStore,
		engineSrv:        engineSrv,
		poolSrv:          poolSrv,
		assetSrv:         assetSrv,
	}
}

// Handler the root http handler
func (s Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.AllowAll().Handler)

	r.Get("/hc", func(w http.ResponseWriter, _ *http.Request) {
		render.JSON(w, render.H{"version": s.system.Version})
	})

	r.Mount("/api", rest.Handle(
		s.system,
		s.positionStore,
		s.priceStore,
		s.transactionStore,
		s.engineSrv,
		s.poolSrv,
		s.assetSrv,
	))

	return r
}
