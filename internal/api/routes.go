package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

func RegisterRoutes(r *mux.Router, h *Handler, token string) {
	sub := r.PathPrefix("/peers").Subrouter()
	sub.Use(TokenAuth(token))
	sub.HandleFunc("", h.ListPeers).Methods(http.MethodGet)
	sub.HandleFunc("", h.CreatePeer).Methods(http.MethodPost)
	// ключ — base64, может содержать '/'; config-маршрут раньше общего
	sub.HandleFunc("/{public_key:.+}/config", h.GetPeerConfig).Methods(http.MethodGet)
	sub.HandleFunc("/{public_key:.+}", h.GetPeer).Methods(http.MethodGet)
	sub.HandleFunc("/{public_key:.+}", h.DeletePeer).Methods(http.MethodDelete)

	// legacy: shell-команда с токеном в теле, авторизация внутри ручки
	r.HandleFunc("/", h.RawCommand).Methods(http.MethodPost)
}
