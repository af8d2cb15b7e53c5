package rest

import (
	"net/http"

	"lendpair/core"
	"lendpair/handler/render"

	"github.com/go-chi/chi"
	"github.com/jinzhu/gorm"
)

func allPairsHandler(pairStore core.IPairStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pairs, err := pairStore.All(r.Context())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, pairs)
	}
}

func pairHandler(pairStore core.IPairStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		pair, err := pairStore.Find(ctx, chi.URLParam(r, "address"))
		if err != nil {
			if gorm.IsRecordNotFoundError(err) {
				render.NotFoundRequest(w, core.ErrPairNotFound)
				return
			}
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, pair)
	}
}

func positionHandler(pairStore core.IPairStore, positionStore core.IPositionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		pair, err := pairStore.Find(ctx, chi.URLParam(r, "address"))
		if err != nil {
			if gorm.IsRecordNotFoundError(err) {
				render.NotFoundRequest(w, core.ErrPairNotFound)
				return
			}
			render.BadRequest(w, err)
			return
		}

		position, err := positionStore.Find(ctx, pair.ID, chi.URLParam(r, "user"))
		if err != nil {
			if gorm.IsRecordNotFoundError(err) {
				render.NotFoundRequest(w, core.ErrPositionNotFound)
				return
			}
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, position)
	}
}
