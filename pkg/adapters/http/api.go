package http

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var openapiYAML []byte

var (
	swaggerOnce sync.Once
	swaggerDoc  *openapi3.T
	swaggerErr  error
)

// rawSpec returns the OpenAPI document served on GET /openapi.yaml.
func rawSpec() []byte {
	return append([]byte(nil), openapiYAML...)
}

// GetSwagger returns the parsed and validated OpenAPI document of the API.
// The document is shared; callers must not modify it.
func GetSwagger() (*openapi3.T, error) {
	swaggerOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(openapiYAML)
		if err != nil {
			swaggerErr = fmt.Errorf("error loading OpenAPI document: %w", err)
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			swaggerErr = fmt.Errorf("invalid OpenAPI document: %w", err)
			return
		}
		swaggerDoc = doc
	})
	return swaggerDoc, swaggerErr
}

// ServerInterface lists the operations of openapi.yaml.
type ServerInterface interface {
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (GET /graphs)
	ListGraphs(w http.ResponseWriter, r *http.Request)
	// (GET /graphs/{name})
	GetGraph(w http.ResponseWriter, r *http.Request, name string)
	// (GET /graphs/{name}/status)
	GetStatus(w http.ResponseWriter, r *http.Request, name string)
	// (POST /graphs/{name}/export)
	ExportGraph(w http.ResponseWriter, r *http.Request, name string)
	// (GET /events)
	SubscribeEvents(w http.ResponseWriter, r *http.Request, params SubscribeEventsParams)
}

// SubscribeEventsParams holds the query of GET /events.
type SubscribeEventsParams struct {
	Graph *string `form:"graph,omitempty" json:"graph,omitempty"`
}

// InvalidParamFormatError reports a parameter that could not be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// RequestValidationError reports a request the OpenAPI document rejects.
type RequestValidationError struct {
	Operation string
	Err       error
}

func (e *RequestValidationError) Error() string {
	return fmt.Sprintf("request does not match %s: %s", e.Operation, e.Err.Error())
}

func (e *RequestValidationError) Unwrap() error { return e.Err }

// ServerInterfaceWrapper binds parameters, validates requests against the
// OpenAPI document and dispatches to the ServerInterface.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	Doc              *openapi3.T
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) validate(r *http.Request, path string, pathParams map[string]string) error {
	if siw.Doc == nil {
		return nil
	}
	item := siw.Doc.Paths.Value(path)
	if item == nil {
		return nil
	}
	op := item.GetOperation(r.Method)
	if op == nil {
		return nil
	}
	route := &routers.Route{
		Spec:      siw.Doc,
		Path:      path,
		PathItem:  item,
		Method:    r.Method,
		Operation: op,
	}
	err := openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: pathParams,
		Route:      route,
		Options:    &openapi3filter.Options{MultiError: true},
	})
	if err != nil {
		return &RequestValidationError{Operation: op.OperationID, Err: err}
	}
	return nil
}

func (siw *ServerInterfaceWrapper) bindName(w http.ResponseWriter, r *http.Request, path string) (string, bool) {
	var name string
	err := runtime.BindStyledParameterWithOptions("simple", "name", chi.URLParam(r, "name"), &name,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "name", Err: err})
		return "", false
	}
	if err := siw.validate(r, path, map[string]string{"name": name}); err != nil {
		siw.ErrorHandlerFunc(w, r, err)
		return "", false
	}
	return name, true
}

// GetHealth operation middleware
func (siw *ServerInterfaceWrapper) GetHealth(w http.ResponseWriter, r *http.Request) {
	siw.Handler.GetHealth(w, r)
}

// ListGraphs operation middleware
func (siw *ServerInterfaceWrapper) ListGraphs(w http.ResponseWriter, r *http.Request) {
	siw.Handler.ListGraphs(w, r)
}

// GetGraph operation middleware
func (siw *ServerInterfaceWrapper) GetGraph(w http.ResponseWriter, r *http.Request) {
	if name, ok := siw.bindName(w, r, "/graphs/{name}"); ok {
		siw.Handler.GetGraph(w, r, name)
	}
}

// GetStatus operation middleware
func (siw *ServerInterfaceWrapper) GetStatus(w http.ResponseWriter, r *http.Request) {
	if name, ok := siw.bindName(w, r, "/graphs/{name}/status"); ok {
		siw.Handler.GetStatus(w, r, name)
	}
}

// ExportGraph operation middleware
func (siw *ServerInterfaceWrapper) ExportGraph(w http.ResponseWriter, r *http.Request) {
	if name, ok := siw.bindName(w, r, "/graphs/{name}/export"); ok {
		siw.Handler.ExportGraph(w, r, name)
	}
}

// SubscribeEvents operation middleware
func (siw *ServerInterfaceWrapper) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	var params SubscribeEventsParams
	if err := runtime.BindQueryParameter("form", true, false, "graph", r.URL.Query(), &params.Graph); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "graph", Err: err})
		return
	}
	if err := siw.validate(r, "/events", nil); err != nil {
		siw.ErrorHandlerFunc(w, r, err)
		return
	}
	siw.Handler.SubscribeEvents(w, r, params)
}

// HandlerFromMux registers the operations of si on r.
func HandlerFromMux(si ServerInterface, r chi.Router, doc *openapi3.T, errorHandler func(w http.ResponseWriter, r *http.Request, err error)) http.Handler {
	if errorHandler == nil {
		errorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{Handler: si, Doc: doc, ErrorHandlerFunc: errorHandler}

	r.Get("/health", wrapper.GetHealth)
	r.Get("/graphs", wrapper.ListGraphs)
	r.Get("/graphs/{name}", wrapper.GetGraph)
	r.Get("/graphs/{name}/status", wrapper.GetStatus)
	r.Post("/graphs/{name}/export", wrapper.ExportGraph)
	r.Get("/events", wrapper.SubscribeEvents)
	return r
}

const swaggerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Blocksmith API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
        window.ui = SwaggerUIBundle({
            url: '/openapi.yaml',
            dom_id: '#swagger-ui',
        });
    };
</script>
</body>
</html>
`
