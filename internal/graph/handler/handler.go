// Package handler serves GraphQL over HTTP with gin.
//
//	POST /graphql  {"query": "...", "operationName": "...", "variables": {...}}
//	GET  /graphql?query=...&operationName=...&variables={...}   (queries only)
package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"bookstore-graphql/internal/graph/gqlerr"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/location"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/rs/zerolog/log"
)

// Request is the standard GraphQL-over-HTTP body
type Request struct {
	Query         string                 `json:"query" form:"query"`
	OperationName string                 `json:"operationName" form:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// ErrorEntry is one element of "errors". Category duplicates
// extensions.classification at the top level for simple clients.
type ErrorEntry struct {
	Message    string                    `json:"message"`
	Locations  []location.SourceLocation `json:"locations,omitempty"`
	Path       []interface{}             `json:"path,omitempty"`
	Category   gqlerr.Category           `json:"category"`
	Extensions map[string]interface{}    `json:"extensions"`
}

// Response is the body of every /graphql reply
type Response struct {
	Data   interface{}  `json:"data"`
	Errors []ErrorEntry `json:"errors,omitempty"`
}

// RequestObserver records request outcomes
type RequestObserver interface {
	ObserveRequest(operation, status string, elapsed time.Duration)
}

type Handler struct {
	schema graphql.Schema
	mapper *gqlerr.Mapper
	obs    RequestObserver
}

// New creates a Handler. obs may be nil.
func New(schema graphql.Schema, mapper *gqlerr.Mapper, obs RequestObserver) *Handler {
	return &Handler{schema: schema, mapper: mapper, obs: obs}
}

// Post executes queries and mutations
func (h *Handler) Post(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.reject(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	h.execute(c, req, true)
}

// Get executes queries only
func (h *Handler) Get(c *gin.Context) {
	req := Request{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}
	if raw := c.Query("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
			h.reject(c, http.StatusBadRequest, "Invalid variables: "+err.Error())
			return
		}
	}
	h.execute(c, req, false)
}

func (h *Handler) execute(c *gin.Context, req Request, allowMutation bool) {
	start := time.Now()

	if strings.TrimSpace(req.Query) == "" {
		h.reject(c, http.StatusBadRequest, "Must provide query string")
		return
	}

	operation := OperationType(req.Query, req.OperationName)
	if operation == ast.OperationTypeMutation && !allowMutation {
		c.Header("Allow", http.MethodPost)
		h.reject(c, http.StatusMethodNotAllowed, "Mutations must be sent with POST")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request.Context(),
	})

	resp := Response{Data: result.Data}
	for _, fe := range result.Errors {
		resp.Errors = append(resp.Errors, h.entry(fe))
	}

	status := "ok"
	if len(resp.Errors) > 0 {
		status = "error"
		log.Debug().
			Str("request_id", c.GetString("request_id")).
			Str("operation", operation).
			Int("errors", len(resp.Errors)).
			Msg("graphql request finished with errors")
	}
	if h.obs != nil {
		h.obs.ObserveRequest(operation, status, time.Since(start))
	}

	c.JSON(http.StatusOK, resp)
}

// entry converts a graphql-go error. Errors raised by resolvers already carry
// mapped extensions; anything else is a request-level failure.
func (h *Handler) entry(fe gqlerrors.FormattedError) ErrorEntry {
	ext := fe.Extensions
	if len(ext) == 0 {
		ext = h.mapper.RequestError(fe.Message).Extensions()
	}
	return ErrorEntry{
		Message:    fe.Message,
		Locations:  fe.Locations,
		Path:       fe.Path,
		Category:   gqlerr.CategoryOf(ext),
		Extensions: ext,
	}
}

func (h *Handler) reject(c *gin.Context, code int, message string) {
	e := h.mapper.RequestError(message)
	c.AbortWithStatusJSON(code, Response{Errors: []ErrorEntry{{
		Message:    e.Message,
		Category:   e.Category,
		Extensions: e.Extensions(),
	}}})
	if h.obs != nil {
		h.obs.ObserveRequest("", "error", 0)
	}
}

// OperationType returns "query", "mutation" or "subscription" for the operation
// that would run, or "" when the document does not parse or the operation is ambiguous.
func OperationType(query, operationName string) string {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return ""
	}

	var found *ast.OperationDefinition
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName == "" {
			if found != nil {
				return ""
			}
			found = op
			continue
		}
		if op.Name != nil && op.Name.Value == operationName {
			found = op
			break
		}
	}
	if found == nil {
		return ""
	}
	return found.Operation
}
