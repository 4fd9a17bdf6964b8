/*
Package handler provides HTTP handler functions for the read-only word catalog queries.

These endpoints are stateless and have no interaction with room state.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"termoarena/internal/pkg/resp"
)

// HandleListWords returns the full word catalog.
func HandleListWords(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"words": deps.Catalog.All(),
		})
	}
}

// HandleValidateWord reports whether a word is a catalog member. Words that
// are not exactly five letters long are rejected with a validation error,
// distinct from a plain non-member result.
func HandleValidateWord(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		word := chi.URLParam(r, "word")

		valid, err := deps.Catalog.Validate(word)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"valid": valid,
		})
	}
}

// HandleRandomWord returns a uniformly selected catalog word.
func HandleRandomWord(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"word": deps.Catalog.Random(),
		})
	}
}
