package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vibemaker/internal/vibe"
)

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

type categoriesResponse struct {
	Categories map[string][]string `json:"categories"`
	Tones      []vibe.Tone         `json:"tones"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status: "ok",
		Uptime: time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, categoriesResponse{
		Categories: vibe.Categories(),
		Tones:      vibe.Tones(),
	})
}

func (s *Server) handleGenerateVibes(c *gin.Context) {
	var req vibe.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, vibe.Error{
			Code:    vibe.CodeValidationError,
			Message: "request body is not valid JSON: " + err.Error(),
		})
		return
	}

	resp, genErr := s.engine.GenerateVibes(c.Request.Context(), req)
	if genErr != nil {
		c.JSON(statusForError(genErr.Code), genErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func statusForError(code vibe.ErrorCode) int {
	switch code {
	case vibe.CodeValidationError:
		return http.StatusBadRequest
	case vibe.CodeGenerationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
