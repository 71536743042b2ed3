package http

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-chi/chi/v5"
)

//go:embed openapi.yaml
var rawSpec []byte

// Spec returns the embedded OpenAPI document.
func Spec() []byte {
	return rawSpec
}

// contract resolves operations of the embedded document by operationId, so
// requests can be validated wherever the route is mounted.
type contract struct {
	doc    *openapi3.T
	routes map[string]*routers.Route
}

func loadContract(ctx context.Context) (*contract, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	c := &contract{doc: doc, routes: make(map[string]*routers.Route)}
	for path, item := range doc.Paths.Map() {
		for method, op := range item.Operations() {
			if op.OperationID == "" {
				continue
			}
			c.routes[op.OperationID] = &routers.Route{
				Spec:      doc,
				Path:      path,
				PathItem:  item,
				Method:    method,
				Operation: op,
			}
		}
	}
	return c, nil
}

// APIVersion returns info.version of the document.
func (c *contract) APIVersion() string {
	if c.doc.Info == nil {
		return "unknown"
	}
	return c.doc.Info.Version
}

// validate rejects requests that do not match the operation with a 400.
func (c *contract) validate(operationID string, onReject func(r *http.Request, err error)) func(http.Handler) http.Handler {
	route, ok := c.routes[operationID]
	if !ok {
		panic("openapi: unknown operation " + operationID)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			params := make(map[string]string)
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				for i, key := range rctx.URLParams.Keys {
					params[key] = rctx.URLParams.Values[i]
				}
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: params,
				Route:      route,
				Options: &openapi3filter.Options{
					MultiError:         true,
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				onReject(r, err)
				writeJSON(w, http.StatusBadRequest, NextQuestionResponse{OK: false, Error: firstLine(err.Error())})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
