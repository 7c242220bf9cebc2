package rest

import (
	"net/http"

	"interest/core"
	"interest/handler/render"
)

func systemHandler(system *core.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, render.H{
			"program_id": system.ProgramID,
			"dsc_mint":   system.DscMint,
			"version":    system.Version,
		})
	}
}
