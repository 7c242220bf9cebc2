package rest

import (
	"errors"
	"net/http"

	"interest/core"
	"interest/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	system *core.System,
	positionStore core.IPositionStore,
	priceStore core.IPriceStore,
	transactionStore core.ITransactionStore,
	engineSrv core.IEngineService,
	poolSrv core.IPoolService,
	assetSrv core.IAssetService,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/positions", positionsHandler(positionStore, assetSrv))
	router.Get("/liquidatable", liquidatableHandler(positionStore, assetSrv))
	router.Get("/prices", pricesHandler(priceStore, assetSrv))
	router.Get("/pools", poolsHandler(poolSrv, assetSrv))
	router.Get("/engine", engineHandler(engineSrv))
	router.Get("/transactions", transactionsHandler(transactionStore))
	router.Get("/system", systemHandler(system))

	return router
}
