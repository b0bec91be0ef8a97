package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"trustbuild-shell/internal/core/services"
	"trustbuild-shell/internal/pkg/response"
	"trustbuild-shell/internal/pkg/webview"
)

// BridgeHandler receives messages posted by the embedded page
type BridgeHandler struct {
	api *services.APIService
}

// NewBridgeHandler creates a new bridge handler
func NewBridgeHandler(api *services.APIService) *BridgeHandler {
	return &BridgeHandler{api: api}
}

// Message handles an inbound bridge message. The wire format is the fixed
// literal channel shared with the web app and the bootstrap script.
func (h *BridgeHandler) Message(c *fiber.Ctx) error {
	raw := strings.TrimSpace(string(c.Body()))
	msg := webview.ParseMessage(raw)

	switch msg.Kind {
	case webview.MessageLogout:
		// The web app asked for sign-out; clear locally and send the
		// shell back to login
		h.api.Logout(c.Context())
		return response.Success(c, "Logged out", fiber.Map{
			"redirect": "/?notice=logged_out",
		})

	case webview.MessageTokenSet:
		log.Println("✅ Web app session seeded")
		return response.Success(c, "Session seeded", nil)

	case webview.MessageTokenError:
		log.Printf("⚠️ Web app session seeding failed: %s", msg.Detail)
		return response.Success(c, "Seeding failure recorded", nil)
	}

	return response.BadRequest(c, "Unknown bridge message")
}
