package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/queryweave/queryweave/pkg/logger"
)

type compileRequest struct {
	Workflow string `json:"workflow" binding:"required"`
}

type compileStep struct {
	ToolID   int      `json:"tool_id"`
	Kind     string   `json:"kind"`
	CTE      string   `json:"cte"`
	Columns  []string `json:"columns"`
	Fragment string   `json:"fragment"`
}

type compileResponse struct {
	Query   string        `json:"query"`
	Columns []string      `json:"columns"`
	Steps   []compileStep `json:"steps"`
}

// handleCompile accepts workflow markup, either as `{"workflow": "..."}` JSON
// or as a raw XML body, and responds with the assembled query.
func (s *Server) handleCompile(c *gin.Context) {
	var req compileRequest
	ct := c.ContentType()
	if strings.Contains(ct, "xml") {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil || len(body) == 0 {
			c.JSON(http.StatusBadRequest, Error{Code: ErrCodeBadRequest, Message: "request body must contain workflow markup"})
			return
		}
		req.Workflow = string(body)
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Error{Code: ErrCodeBadRequest, Message: "request body must be JSON with a non-empty 'workflow' field", Details: err.Error()})
		return
	}

	result, err := s.compiler.Compile(c.Request.Context(), req.Workflow)
	if err != nil {
		status, apiErr := classify(err)
		logger.FromContext(c.Request.Context()).Error("compilation failed", "code", apiErr.Code, "error", err)
		c.JSON(status, apiErr)
		return
	}

	resp := compileResponse{
		Query:   result.Query,
		Columns: result.FinalSchema.Names(),
		Steps:   make([]compileStep, 0, len(result.Steps)),
	}
	for _, step := range result.Steps {
		resp.Steps = append(resp.Steps, compileStep{
			ToolID:   step.Tool.ID,
			Kind:     string(step.Tool.Kind),
			CTE:      step.CTEName,
			Columns:  step.OutputSchema.Names(),
			Fragment: step.Fragment.SQL,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}
