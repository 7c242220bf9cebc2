package rest

import (
	"net/http"

	"interest/core"
	"interest/handler/render"
	"interest/handler/views"
)

func poolsHandler(poolSrv core.IPoolService, assetSrv core.IAssetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pools, err := poolSrv.AllPools(r.Context())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		poolViews := make([]*views.Pool, 0, len(pools))
		for _, pool := range pools {
			view := &views.Pool{Pool: *pool}

			if token, err := assetSrv.Find(r.Context(), pool.TokenMint); err == nil {
				view.Symbol = token.Symbol
			}

			poolViews = append(poolViews, view)
		}

		render.JSON(w, poolViews)
	}
}
