package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docchat/internal/models"
	"docchat/internal/service/extract"
	"docchat/internal/service/llm"
)

// errMarker prefixes failure text embedded in otherwise successful
// responses, so clients can detect failure by substring match.
const errMarker = "❌"

// pdfPromptFormat wraps extracted document text and the user's question into
// one combined prompt. The context comes first, verbatim.
const pdfPromptFormat = "You are reading the following document:\n\n%s\n\nBased on this, answer the question:\n%s"

// Handler wires HTTP routes to the model client and the PDF extractor.
type Handler struct {
	streamer       llm.Streamer
	extractor      *extract.PDFExtractor
	logger         *zap.SugaredLogger
	maxUploadBytes int64
}

// NewHandler constructs a Handler instance.
func NewHandler(streamer llm.Streamer, extractor *extract.PDFExtractor, logger *zap.SugaredLogger, maxUploadBytes int64) *Handler {
	return &Handler{
		streamer:       streamer,
		extractor:      extractor,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", h.health)
	router.POST("/chat", h.chat)
	router.POST("/upload-pdf", h.uploadPDF)
	router.POST("/ask-pdf", h.askPDF)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) chat(c *gin.Context) {
	var req models.Prompt
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	// The message is not validated; empty strings go upstream verbatim.
	h.relay(c, req.Message)
}

func (h *Handler) askPDF(c *gin.Context) {
	var req models.PDFPrompt
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.relay(c, fmt.Sprintf(pdfPromptFormat, req.Context, req.Message))
}

// relay streams completion fragments for the prompt to the caller as a
// chunked text/plain body, flushing per fragment. Upstream failure becomes a
// single in-band error fragment; the response still completes with HTTP 200.
func (h *Handler) relay(c *gin.Context, prompt string) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}
	c.Writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	// The request context cancels the upstream stream when the caller
	// disconnects mid-response.
	err := h.streamer.StreamComplete(c.Request.Context(), prompt, func(fragment string) error {
		if _, werr := io.WriteString(c.Writer, fragment); werr != nil {
			return werr
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		h.logger.Errorw("model stream failed", "error", err)
		_, _ = io.WriteString(c.Writer, fmt.Sprintf("%s Error: %v", errMarker, err))
		flusher.Flush()
	}
}

func (h *Handler) uploadPDF(c *gin.Context) {
	text, err := h.ingest(c)
	if err != nil {
		h.logger.Warnw("pdf ingest failed", "error", err)
		// Same response shape and status as success; the failure is data.
		c.JSON(http.StatusOK, models.Extraction{
			Text: fmt.Sprintf("%s Failed to read PDF: %v", errMarker, err),
		})
		return
	}
	c.JSON(http.StatusOK, models.Extraction{Text: text})
}

func (h *Handler) ingest(c *gin.Context) (string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		return "", fmt.Errorf("file exceeds %d bytes", h.maxUploadBytes)
	}
	f, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return h.extractor.Text(f)
}
