package rest

import (
	"errors"
	"net/http"

	"lendpair/core"
	"lendpair/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	pairStore core.IPairStore,
	positionStore core.IPositionStore,
	transferStore core.ITransferStore,
	watcherService core.IPriceWatcherService,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/pairs", allPairsHandler(pairStore))
	router.Get("/pairs/{address}", pairHandler(pairStore))
	router.Get("/pairs/{address}/positions/{user}", positionHandler(pairStore, positionStore))
	router.Get("/transfers", transfersHandler(transferStore))
	router.Get("/price-weight", priceWeightHandler(watcherService))

	return router
}
