package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queryweave/queryweave/engine/compiler"
	"github.com/queryweave/queryweave/engine/llm"
	"github.com/queryweave/queryweave/engine/schema"
	"github.com/queryweave/queryweave/pkg/config"
	"github.com/queryweave/queryweave/pkg/logger"
)

const salesWorkflow = `<AlteryxWorkflow>
  <Node ToolID="1" Type="Select">
    <Configuration>
      <Fields>
        <Field Name="OrderID" Selected="True" Rename="transaction_id" />
        <Field Name="CustomerName" Selected="True" />
        <Field Name="SalesAmount" Selected="True" Rename="total_sales" />
      </Fields>
    </Configuration>
  </Node>
  <Node ToolID="2" Type="Filter">
    <Configuration>
      <Expression>[total_sales] &gt; 1000</Expression>
    </Configuration>
  </Node>
</AlteryxWorkflow>`

func testServer(t *testing.T, client llm.Client) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Source.Table = "my_project.my_dataset.sales"
	comp := compiler.New(client, compiler.Config{
		SourceTable: cfg.Source.Table,
		SourceSchema: schema.Schema{
			{Name: "OrderID", Type: schema.TypeString},
			{Name: "CustomerName", Type: schema.TypeString},
			{Name: "SalesAmount", Type: schema.TypeFloat},
		},
		Retry: compiler.RetryPolicy{MaxAttempts: 1},
	})
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	return New(cfg, comp, log)
}

func postCompile(t *testing.T, s *Server, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v0/compile", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Compile(t *testing.T) {
	t.Run("Should compile a JSON request and return the assembled query", func(t *testing.T) {
		client := llm.NewMockClient(
			llm.MockResult{Text: "SELECT OrderID AS transaction_id, CustomerName, SalesAmount AS total_sales"},
			llm.MockResult{Text: "WHERE total_sales > 1000"},
		)
		body, err := json.Marshal(map[string]string{"workflow": salesWorkflow})
		require.NoError(t, err)

		rec := postCompile(t, testServer(t, client), "application/json", body)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp compileResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Query, "WITH cte_1 AS (")
		assert.Contains(t, resp.Query, "FROM `my_project.my_dataset.sales`")
		assert.Equal(t, []string{"transaction_id", "CustomerName", "total_sales"}, resp.Columns)
		require.Len(t, resp.Steps, 2)
		assert.Equal(t, "cte_1", resp.Steps[0].CTE)
		assert.Equal(t, "Filter", resp.Steps[1].Kind)
	})
	t.Run("Should accept raw XML bodies", func(t *testing.T) {
		client := llm.NewMockClient(
			llm.MockResult{Text: "SELECT OrderID AS transaction_id, CustomerName, SalesAmount AS total_sales"},
			llm.MockResult{Text: "WHERE total_sales > 1000"},
		)
		rec := postCompile(t, testServer(t, client), "application/xml", []byte(salesWorkflow))
		require.Equal(t, http.StatusOK, rec.Code)
	})
	t.Run("Should reject a body without a workflow field", func(t *testing.T) {
		rec := postCompile(t, testServer(t, llm.NewMockClient()), "application/json", []byte(`{}`))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var apiErr Error
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		assert.Equal(t, ErrCodeBadRequest, apiErr.Code)
	})
	t.Run("Should map malformed markup to 400 with a stable code", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"workflow": "<Workflow><Node>"})
		rec := postCompile(t, testServer(t, llm.NewMockClient()), "application/json", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var apiErr Error
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		assert.Equal(t, ErrCodeMalformedMarkup, apiErr.Code)
	})
	t.Run("Should map an empty pipeline to 400", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"workflow": `<Workflow><Node ToolID="1" Type="Join" /></Workflow>`})
		rec := postCompile(t, testServer(t, llm.NewMockClient()), "application/json", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var apiErr Error
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		assert.Equal(t, ErrCodeEmptyPipeline, apiErr.Code)
	})
	t.Run("Should map translation exhaustion to 502", func(t *testing.T) {
		client := llm.NewMockClient(llm.MockResult{Err: assert.AnError})
		body, _ := json.Marshal(map[string]string{"workflow": salesWorkflow})
		rec := postCompile(t, testServer(t, client), "application/json", body)
		require.Equal(t, http.StatusBadGateway, rec.Code)
		var apiErr Error
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		assert.Equal(t, ErrCodeTranslationExhausted, apiErr.Code)
	})
}

func TestServer_Misc(t *testing.T) {
	t.Run("Should report healthy", func(t *testing.T) {
		s := testServer(t, llm.NewMockClient())
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"ok"`)
	})
	t.Run("Should serve the playground page", func(t *testing.T) {
		s := testServer(t, llm.NewMockClient())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), "QueryWeave"))
	})
	t.Run("Should echo the request ID header", func(t *testing.T) {
		s := testServer(t, llm.NewMockClient())
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(requestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
	})
}
