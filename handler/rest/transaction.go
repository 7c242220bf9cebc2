package rest

import (
	"net/http"

	"interest/core"
	"interest/handler/param"
	"interest/handler/render"
)

func transactionsHandler(transactionStore core.ITransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Limit int `json:"limit"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		transactions, err := transactionStore.List(r.Context(), params.Limit)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transactions)
	}
}
