/*
Package handler provides HTTP handler functions for room status checks.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"termoarena/internal/pkg/errs"
	"termoarena/internal/pkg/randx"
	"termoarena/internal/pkg/resp"
)

// HandleRoomStatus returns a read-only snapshot of a room: lifecycle flags and
// the per-player progress, without the target word.
func HandleRoomStatus(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		if !randx.IsValidRoomCode(code) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		handle, err := deps.Registry.Get(code)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		handle.Lock()
		snapshot := handle.Room.Snapshot()
		handle.Unlock()

		resp.RespondSuccess(w, r, snapshot)
	}
}
