package rest

import (
	"net/http"

	"interest/core"
	"interest/handler/param"
	"interest/handler/render"
	"interest/handler/views"
)

func positionView(r *http.Request, assetSrv core.IAssetService, snapshot *core.PositionSnapshot) *views.Position {
	view := &views.Position{PositionSnapshot: *snapshot}

	if token, err := assetSrv.Find(r.Context(), snapshot.TokenMint); err == nil {
		view.Symbol = token.Symbol
	}

	if snapshot.Infinite {
		view.HealthFactorDisplay = "∞"
	} else {
		view.HealthFactorDisplay = snapshot.HealthFactor.String()
	}

	return view
}

func positionsHandler(positionStore core.IPositionStore, assetSrv core.IAssetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			User string `json:"user"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		var (
			snapshots []*core.PositionSnapshot
			err       error
		)
		if params.User != "" {
			snapshots, err = positionStore.FindByUser(r.Context(), params.User)
		} else {
			snapshots, err = positionStore.All(r.Context())
		}
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		positionViews := make([]*views.Position, 0, len(snapshots))
		for _, snapshot := range snapshots {
			positionViews = append(positionViews, positionView(r, assetSrv, snapshot))
		}

		render.JSON(w, positionViews)
	}
}

func liquidatableHandler(positionStore core.IPositionStore, assetSrv core.IAssetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshots, err := positionStore.Liquidatable(r.Context())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		positionViews := make([]*views.Position, 0, len(snapshots))
		for _, snapshot := range snapshots {
			positionViews = append(positionViews, positionView(r, assetSrv, snapshot))
		}

		render.JSON(w, positionViews)
	}
}
