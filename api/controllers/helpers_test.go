package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rohanverma/vastra-backend/api/middleware"
)

func withChiParam(r *http.Request, key, value string) *http.Request {
	rc := chi.RouteContext(r.Context())
	if rc == nil {
		rc = chi.NewRouteContext()
	}
	rc.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rc))
}

func withUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}
