package handlers

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gunnarhm/mkcontrol/actions"
	"github.com/gunnarhm/mkcontrol/services"
)

type Handler struct {
	Router      chi.Router
	AuthService services.AuthService
	Dispatcher  *actions.Dispatcher
	Renderer    Renderer
	StaticFS    fs.FS
}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Router.ServeHTTP(w, r)
}
