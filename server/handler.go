package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ByLCY/cvpress/drafts"
	"github.com/ByLCY/cvpress/export"
	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/resume"
	"github.com/ByLCY/cvpress/storage"
)

const defaultMaxBody = 16 << 20

// Handler 提供导出与草稿接口。
type Handler struct {
	Exporter *export.Exporter
	Drafts   drafts.Store
	Sink     storage.ArtifactStore // 为空时不支持 ?store=true
	MaxBody  int64
}

// RegisterRoutes 在 rg 下注册全部接口。
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.health)

	rg.POST("/resumes/export", h.exportResume)
	rg.POST("/resumes/layout", h.layoutResume)

	rg.POST("/drafts", h.createDraft)
	rg.GET("/drafts", h.listDrafts)
	rg.GET("/drafts/:id", h.getDraft)
	rg.PUT("/drafts/:id", h.updateDraft)
	rg.DELETE("/drafts/:id", h.deleteDraft)
	rg.GET("/drafts/:id/export", h.exportDraft)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// readBody 读取请求体并检查是否为合法 JSON，失败时已写入错误响应。
func (h *Handler) readBody(c *gin.Context) ([]byte, bool) {
	limit := h.MaxBody
	if limit <= 0 {
		limit = defaultMaxBody
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", nil)
			return nil, false
		}
		respondError(c, http.StatusBadRequest, "invalid_body", "failed to read request body", nil)
		return nil, false
	}
	if !json.Valid(body) {
		respondError(c, http.StatusBadRequest, "invalid_json", "request body is not valid JSON", nil)
		return nil, false
	}
	return body, true
}

func (h *Handler) exportResume(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	h.sendPDF(c, body, c.Query("template"))
}

// sendPDF 导出并返回附件；带 ?store=true 且配置了 Sink 时保存产物并返回其位置。
func (h *Handler) sendPDF(c *gin.Context, data []byte, template string) {
	ctx := c.Request.Context()
	art, err := h.Exporter.ExportJSON(ctx, data, template)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "export_failed", "failed to export resume", nil)
		return
	}
	c.Header("X-Page-Count", strconv.Itoa(art.Pages))
	c.Header("X-Template", art.Template.String())
	if art.PhotoSkipped {
		c.Header("X-Photo-Skipped", "true")
	}
	if n := len(art.Overflows); n > 0 {
		c.Header("X-Overflow-Count", strconv.Itoa(n))
	}

	if c.Query("store") == "true" {
		if h.Sink == nil {
			respondError(c, http.StatusBadRequest, "store_unavailable", "no artifact store configured", nil)
			return
		}
		loc, err := h.Sink.Save(ctx, art.FileName, art.PDF)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "store_failed", "failed to store export", nil)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"fileName": art.FileName,
			"location": loc,
			"pages":    art.Pages,
			"template": art.Template,
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.FileName))
	c.Data(http.StatusOK, "application/pdf", art.PDF)
}

// layoutResume 返回布局调试 JSON，不渲染 PDF。
func (h *Handler) layoutResume(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	res, skipped, err := h.Exporter.Layout(c.Request.Context(), resume.NormalizeJSON(body), c.Query("template"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "export_failed", "failed to lay out resume", nil)
		return
	}
	if skipped {
		c.Header("X-Photo-Skipped", "true")
	}
	c.Header("X-Page-Count", strconv.Itoa(len(res.Pages)))
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Status(http.StatusOK)
	_ = layout.EncodeDebugJSON(c.Writer, res)
}

type draftRequest struct {
	Name     *string         `json:"name"`
	Template *string         `json:"template"`
	Data     json.RawMessage `json:"data"`
}

func (h *Handler) createDraft(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_json", "request body is not valid JSON", nil)
		return
	}
	d := drafts.Draft{Data: req.Data}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Template != nil {
		d.Template = *req.Template
	}
	created, err := h.Drafts.Create(c.Request.Context(), d)
	if err != nil {
		h.draftError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) listDrafts(c *gin.Context) {
	list, err := h.Drafts.List(c.Request.Context())
	if err != nil {
		h.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": list})
}

func (h *Handler) getDraft(c *gin.Context) {
	d, err := h.Drafts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) updateDraft(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_json", "request body is not valid JSON", nil)
		return
	}
	d, err := h.Drafts.Update(c.Request.Context(), c.Param("id"), drafts.Patch{
		Name:     req.Name,
		Template: req.Template,
		Data:     req.Data,
	})
	if err != nil {
		h.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) deleteDraft(c *gin.Context) {
	if err := h.Drafts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.draftError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) exportDraft(c *gin.Context) {
	d, err := h.Drafts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.draftError(c, err)
		return
	}
	template := c.Query("template")
	if template == "" {
		template = d.Template
	}
	h.sendPDF(c, d.Data, template)
}

func (h *Handler) draftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, drafts.ErrNotFound):
		respondError(c, http.StatusNotFound, "not_found", "draft not found", nil)
	case errors.Is(err, drafts.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, "invalid_input", "invalid draft", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "draft store unavailable", nil)
	}
}
