package rest

import (
	"net/http"

	"interest/core"
	"interest/handler/render"
	"interest/handler/views"
)

func pricesHandler(priceStore core.IPriceStore, assetSrv core.IAssetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prices, err := priceStore.All(r.Context())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		priceViews := make([]*views.Price, 0, len(prices))
		for _, price := range prices {
			view := &views.Price{
				TokenMint: price.TokenMint,
				Price:     price.Price,
				UpdatedAt: price.CreatedAt.Unix(),
			}

			if token, err := assetSrv.Find(r.Context(), price.TokenMint); err == nil {
				view.Symbol = token.Symbol
			}

			priceViews = append(priceViews, view)
		}

		render.JSON(w, priceViews)
	}
}
