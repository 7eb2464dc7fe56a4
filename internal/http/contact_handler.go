package http

import (
	"net/http"

	"github.com/ManuC12/Raices-de-vida/internal/contact"
)

type ContactHandler struct {
	links contact.Links
}

func NewContactHandler(links contact.Links) *ContactHandler {
	return &ContactHandler{links: links}
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.links.Card())
}
