// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sim0nx/eml-parser/internal/analyzer"
	"github.com/sim0nx/eml-parser/internal/config"
)

// AnalyzeHandler accepts a raw message and returns the forensic
// report. The message arrives either as a multipart file upload under
// eml_file or as the message form field.
type AnalyzeHandler struct {
	Config *config.Config
}

func NewAnalyzeHandler(cfg *config.Config) *AnalyzeHandler {
	return &AnalyzeHandler{Config: cfg}
}

func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	raw, err := h.readMessage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "provide a message via the eml_file upload or the message field",
		})
		return
	}

	opts := analyzer.ParseOptions{
		IncludeRawBody:        boolParam(c, "include_raw_body"),
		IncludeAttachmentData: boolParam(c, "include_attachment_data"),
		WhitelistIPs:          h.Config.Profile.WhitelistIPs,
		WhitelistFor:          h.Config.Profile.WhitelistFor,
		GatewayHosts:          h.Config.Profile.GatewayHosts,
		Sniffer:               analyzer.MagicSniffer{},
	}

	report, err := analyzer.ParseBytes(raw, opts)
	if err != nil {
		traceID, _ := c.Get("trace_id")
		slog.Error("Message parse failed", "trace_id", traceID, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "message could not be parsed"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *AnalyzeHandler) readMessage(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Config.MaxMessageBytes)

	file, _, err := c.Request.FormFile("eml_file")
	if err == nil {
		defer file.Close()
		return io.ReadAll(io.LimitReader(file, h.Config.MaxMessageBytes))
	}

	if msg := c.PostForm("message"); msg != "" {
		return []byte(msg), nil
	}
	return nil, nil
}

func boolParam(c *gin.Context, name string) bool {
	v := strings.ToLower(c.PostForm(name))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
