package handlers

import (
	"errors"
	"fmt"
	"html"
	"net/url"

	"github.com/base-creator-connect/backend/internal/flow"
	"github.com/base-creator-connect/backend/internal/http/dto"
	"github.com/base-creator-connect/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WidgetHandler struct {
	sessions       *flow.WidgetSessions
	creatorService *services.CreatorService
	baseURL        string
	imageURL       string
	log            *zap.Logger
}

func NewWidgetHandler(sessions *flow.WidgetSessions, creatorService *services.CreatorService, baseURL, imageURL string, log *zap.Logger) *WidgetHandler {
	return &WidgetHandler{
		sessions:       sessions,
		creatorService: creatorService,
		baseURL:        baseURL,
		imageURL:       imageURL,
		log:            log,
	}
}

func (h *WidgetHandler) embedCode(creatorID, width, height, theme string) string {
	src := fmt.Sprintf("%s/widget/%s?theme=%s", h.baseURL, creatorID, url.QueryEscape(theme))
	return fmt.Sprintf(`<iframe
  src="%s"
  width="%s"
  height="%s"
  frameborder="0"
  allow="clipboard-write; encrypted-media"
  style="border-radius: 10px; box-shadow: 0 4px 12px rgba(0, 0, 0, 0.1);"
></iframe>`, html.EscapeString(src), html.EscapeString(width), html.EscapeString(height))
}

func (h *WidgetHandler) frameCode(creatorID string) string {
	return fmt.Sprintf(`<meta property="fc:frame" content="vNext" />
<meta property="fc:frame:image" content="%s" />
<meta property="fc:frame:post_url" content="%s/api/frame?creatorId=%s" />
<meta property="fc:frame:button:1" content="Tip Creator" />`, html.EscapeString(h.imageURL), h.baseURL, creatorID)
}

// Embed returns the iframe and frame snippets for a creator.
// ?format=json (default), html or farcaster.
func (h *WidgetHandler) Embed(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "creatorId")
	if !ok {
		return notFoundResponse(c, "Creator not found")
	}
	creator, err := h.creatorService.GetByID(c.Context(), id)
	if err != nil {
		return notFoundResponse(c, "Creator not found")
	}

	creatorID := creator.ID.String()
	embed := h.embedCode(creatorID, c.Query("width", "100%"), c.Query("height", "400px"), c.Query("theme", "light"))
	frame := h.frameCode(creatorID)

	switch c.Query("format", "json") {
	case "html":
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTML)
		return c.SendString(embed)
	case "farcaster":
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTML)
		return c.SendString(frame)
	default:
		return c.JSON(dto.WidgetEmbedResponse{
			Creator: dto.WidgetCreator{
				ID:              creatorID,
				Username:        creator.Username,
				ProfileImageURL: creator.ProfileImageURL,
			},
			EmbedCode:          embed,
			FarcasterFrameCode: frame,
			WidgetURL:          h.baseURL + "/widget/" + creatorID,
			FrameURL:           h.baseURL + "/api/frame?creatorId=" + creatorID,
		})
	}
}

func (h *WidgetHandler) StartSession(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "creatorId")
	if !ok {
		return badRequest(c, "invalid creator id")
	}
	creator, err := h.creatorService.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}

	view, err := h.sessions.Start(c.Context(), creator.ID.String(), creator.DisplayName())
	if err != nil {
		return h.sessionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: view})
}

func (h *WidgetHandler) GetSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	view, err := h.sessions.Get(sessionID, h.creatorName(c, sessionID))
	if err != nil {
		return h.sessionError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: view})
}

// Dispatch applies one widget event. A submit blocks until the transaction
// is confirmed or the confirmation timeout passes.
func (h *WidgetHandler) Dispatch(c *fiber.Ctx) error {
	var req flow.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	ev, err := req.Event()
	if err != nil {
		return badRequest(c, err.Error())
	}

	sessionID := c.Params("id")
	view, err := h.sessions.Dispatch(c.Context(), sessionID, ev, h.creatorName(c, sessionID))
	if err != nil {
		return h.sessionError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: view})
}

func (h *WidgetHandler) creatorName(c *fiber.Ctx, sessionID string) string {
	creatorID, err := h.sessions.CreatorOf(sessionID)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(creatorID)
	if err != nil {
		return ""
	}
	creator, err := h.creatorService.GetByID(c.Context(), id)
	if err != nil {
		return ""
	}
	return creator.DisplayName()
}

func (h *WidgetHandler) sessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, flow.ErrSessionNotFound):
		return notFoundResponse(c, "widget session not found")
	case errors.Is(err, flow.ErrPresetNotOffered):
		return badRequest(c, err.Error())
	case errors.Is(err, flow.ErrTooManySessions):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: err.Error(), RequestID: requestID(c)})
	default:
		return respondError(c, h.log, err)
	}
}
