package rest

import (
	"net/http"

	"interest/core"
	"interest/handler/render"
	"interest/handler/views"
)

func engineHandler(engineSrv core.IEngineService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := engineSrv.FetchEngine(r.Context())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, &views.Engine{Engine: *engine})
	}
}
