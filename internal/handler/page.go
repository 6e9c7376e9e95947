package handler

import (
	"net/http"

	"github.com/techdetails/storefront-api/shared/httpjson"
)

// Page returns a minimal handler for a guarded page route. Rendering is
// handled by the storefront frontend; the server only needs routable
// endpoints for the guard's redirect logic to act on.
func Page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpjson.Respond(w, http.StatusOK, map[string]string{"page": name})
	}
}
