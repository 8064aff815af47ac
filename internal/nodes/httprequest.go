package nodes

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flowforge/engine/internal/engctx"
	"github.com/flowforge/engine/internal/registry"
)

// HTTPRequestActionType performs a generic HTTP call. Adapted from the
// teacher's node_weather.go/node_flood.go "resolve options, call an
// HTTP client" shape (both hardcode an Open-Meteo endpoint), generalized
// into a schema-driven method/url/body node grounded in
// auto-engine-core's http node (method/url/status/body fields).
const HTTPRequestActionType = "HTTPRequest"

func newHTTPRequestDefine() *define {
	return &define{
		actionType: HTTPRequestActionType,
		name:       registry.Text{EN: "HTTP Request", ZH: "HTTP 请求"},
		icon:       "globe",
		category:   registry.Text{EN: "Network", ZH: "网络"},
		description: registry.Text{
			EN: "Issues an HTTP request and publishes its status and body.",
			ZH: "发起一个 HTTP 请求，并发布其状态码和响应体。",
		},
		inputs: []registry.SchemaField{
			{Name: "method", Type: registry.FieldString, Default: "GET"},
			{Name: "url", Type: registry.FieldString},
			{Name: "body", Type: registry.FieldString, Default: ""},
			{Name: "timeout_ms", Type: registry.FieldNumber, Default: "5000"},
		},
		outputsFn: staticOutputs(
			registry.SchemaField{Name: "status", Type: registry.FieldNumber},
			registry.SchemaField{Name: "body", Type: registry.FieldString},
		),
	}
}

// httpRequestRunner issues one HTTP call per invocation. A fresh
// instance is constructed per node execution; each call's timeout is
// applied through the request's context, not the client.
type httpRequestRunner struct {
	client *http.Client
}

func newHTTPRequestRunner() registry.Runner {
	return &httpRequestRunner{client: &http.Client{}}
}

func (r *httpRequestRunner) Run(ctx context.Context, _ *engctx.Context, _ string, params map[string]any) (map[string]any, error) {
	method, _ := params["method"].(string)
	if method == "" {
		method = http.MethodGet
	}
	url, _ := params["url"].(string)
	if url == "" {
		return nil, fmt.Errorf("nodes: HTTPRequest: url is required")
	}
	body, _ := params["body"].(string)

	timeout := 5 * time.Second
	if ms, ok := params["timeout_ms"].(int64); ok && ms > 0 {
		timeout = time.Duration(ms) * time.Millisecond
	} else if ms, ok := params["timeout_ms"].(float64); ok && ms > 0 {
		timeout = time.Duration(ms) * time.Millisecond
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, strings.ToUpper(method), url, bytes.NewBufferString(body))
	if err != nil {
		return nil, fmt.Errorf("nodes: HTTPRequest: build request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nodes: HTTPRequest: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nodes: HTTPRequest: read response: %w", err)
	}

	return map[string]any{
		"status": resp.StatusCode,
		"body":   string(respBody),
	}, nil
}
