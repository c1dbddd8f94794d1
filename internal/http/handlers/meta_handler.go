package handlers

import (
	"github.com/base-creator-connect/backend/internal/config"
	"github.com/base-creator-connect/backend/internal/http/dto"
	"github.com/base-creator-connect/backend/internal/thankyou"
	"github.com/gofiber/fiber/v2"
)

type MetaHandler struct {
	cfg *config.Config
}

func NewMetaHandler(cfg *config.Config) *MetaHandler {
	return &MetaHandler{cfg: cfg}
}

type MetaStyle struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var styleLabels = map[thankyou.Style]string{
	thankyou.StyleCasual:       "Casual",
	thankyou.StyleFormal:       "Formal",
	thankyou.StyleFunny:        "Funny",
	thankyou.StyleGrateful:     "Grateful",
	thankyou.StyleEnthusiastic: "Enthusiastic",
}

func (h *MetaHandler) GetTipAmounts(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.TipAmountsResponse{
		Amounts:  h.cfg.DefaultTipAmounts,
		Currency: h.cfg.TipCurrency,
		ChainID:  h.cfg.ChainID,
	}})
}

func (h *MetaHandler) GetThankYouStyles(c *fiber.Ctx) error {
	styles := make([]MetaStyle, 0, len(thankyou.Styles))
	for _, s := range thankyou.Styles {
		styles = append(styles, MetaStyle{ID: string(s), Label: styleLabels[s]})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: styles})
}
