package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/internal/core"
	"github.com/aicuratorhub/curatorhub-admin/internal/db"
	"github.com/aicuratorhub/curatorhub-admin/internal/models"
)

type ToolTranslationHandler struct {
	translations *core.ToolTranslationService
	logger       *zap.Logger
}

func NewToolTranslationHandler(translations *core.ToolTranslationService, logger *zap.Logger) *ToolTranslationHandler {
	return &ToolTranslationHandler{translations: translations, logger: logger}
}

func (h *ToolTranslationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/" + h.translations.Entity())
	g.GET("", h.List)
	g.GET("/:toolId/:lang", h.Get)
	g.POST("/:toolId/:lang", h.Create)
	g.PUT("/:toolId/:lang", h.Update)
}

// List handles GET /tool-translations?toolId=&lang=
func (h *ToolTranslationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	toolID, lang := c.Query("toolId"), c.Query("lang")

	var (
		records []db.Record
		err     error
	)
	switch {
	case toolID != "":
		records, err = h.translations.ByTool(ctx, toolID)
		if lang != "" {
			records = filterLang(records, lang)
		}
	case lang != "":
		records, err = h.translations.ByLanguage(ctx, lang)
	default:
		records, err = h.translations.GetAll(ctx)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Items: records, Count: len(records)})
}

func filterLang(records []db.Record, lang string) []db.Record {
	out := make([]db.Record, 0, 1)
	for _, r := range records {
		if r.String("lang") == lang {
			out = append(out, r)
		}
	}
	return out
}

// Get handles GET /tool-translations/:toolId/:lang
func (h *ToolTranslationHandler) Get(c *gin.Context) {
	record, err := h.translations.Get(c.Request.Context(), c.Param("toolId"), c.Param("lang"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Create handles POST /tool-translations/:toolId/:lang
func (h *ToolTranslationHandler) Create(c *gin.Context) {
	data, ok := h.bind(c)
	if !ok {
		return
	}
	id, err := h.translations.CreateFor(c.Request.Context(), c.Param("toolId"), c.Param("lang"), data)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Message: "created", Data: gin.H{"id": id}})
}

// Update handles PUT /tool-translations/:toolId/:lang
func (h *ToolTranslationHandler) Update(c *gin.Context) {
	data, ok := h.bind(c)
	if !ok {
		return
	}
	toolID, lang := c.Param("toolId"), c.Param("lang")
	if err := h.translations.UpdateFor(c.Request.Context(), toolID, lang, data); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "updated", Data: gin.H{"id": core.ToolTranslationID(toolID, lang)}})
}

func (h *ToolTranslationHandler) bind(c *gin.Context) (map[string]any, bool) {
	var req models.ToolTranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return nil, false
	}
	if !models.IsLanguage(c.Param("lang")) {
		badRequest(c, "Unsupported language", nil)
		return nil, false
	}
	data := make(map[string]any, len(req.Data)+1)
	for k, v := range req.Data {
		data[k] = v
	}
	if req.Fields != nil {
		data["fields"] = req.Fields
	}
	return data, true
}
