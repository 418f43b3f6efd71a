package controllers

import (
	"net/http"

	"github.com/velstore/catalog-backend/api/responses"
	searchsvc "github.com/velstore/catalog-backend/internal/search"
	"github.com/velstore/catalog-backend/pkg/logger"
)

// Search answers substring queries over item titles.
func Search(svc searchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hits, err := svc.Search(r.Context(), r.URL.Query().Get("query"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if hits == nil {
			hits = []searchsvc.Hit{}
		}
		responses.WriteSuccess(w, map[string]any{"hits": hits})
	}
}
