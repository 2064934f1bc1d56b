// Package handler exposes the HTTP and WebSocket surface of the backend.
package handler

import (
	"slices"
	"strings"

	"mindbridge/backend/internal/auth"
	"mindbridge/backend/internal/chathub"
	"mindbridge/backend/internal/localization"
	"mindbridge/backend/internal/wellness"

	"github.com/gin-gonic/gin"
)

// Handler holds the services the routes delegate to.
type Handler struct {
	Auth     *auth.Service
	Wellness *wellness.Service
	Relay    *chathub.Relay
	Hub      *chathub.ManagerService
	Locales  *localization.Localizer
}

func NewHandler(authSvc *auth.Service, wellnessSvc *wellness.Service, hub *chathub.ManagerService, relay *chathub.Relay, locales *localization.Localizer) *Handler {
	return &Handler{
		Auth:     authSvc,
		Wellness: wellnessSvc,
		Relay:    relay,
		Hub:      hub,
		Locales:  locales,
	}
}

// language picks the response language: ?lang= wins, then the first
// Accept-Language tag with a loaded catalogue, then the default.
func (h *Handler) language(c *gin.Context) string {
	if lang := c.Query("lang"); lang != "" {
		return lang
	}
	supported := h.Locales.Languages()
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag, _, _ := strings.Cut(part, ";")
		tag = strings.TrimSpace(tag)
		base, _, _ := strings.Cut(strings.ReplaceAll(tag, "_", "-"), "-")
		if tag != "" && slices.Contains(supported, strings.ToLower(base)) {
			return tag
		}
	}
	return localization.DefaultLanguage
}

func (h *Handler) text(c *gin.Context, key string) string {
	return h.Locales.GetString(h.language(c), key)
}
