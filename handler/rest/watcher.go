package rest

import (
	"net/http"
	"strconv"
	"time"

	"lendpair/core"
	"lendpair/handler/render"
)

func transfersHandler(transferStore core.ITransferStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fromID, _ := strconv.ParseUint(r.URL.Query().Get("from"), 10, 64)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		transfers, err := transferStore.List(r.Context(), fromID, limit)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transfers)
	}
}

func priceWeightHandler(watcherService core.IPriceWatcherService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		since, err := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		weight, err := watcherService.FindPairPriceWeight(r.Context(), time.Unix(since, 0), time.Now())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, render.H{"weight": weight.Dec()})
	}
}
