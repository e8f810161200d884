package common

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/johanforsgren/vsoitems/internal/logger"
)

const maxLoggedBody = 10000

var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"x-api-key":     true,
	"api-key":       true,
	"x-auth-token":  true,
	"cookie":        true,
	"set-cookie":    true,
}

// LoggingTransport wraps an http.RoundTripper and writes every request and
// response to the session log with credentials redacted.
type LoggingTransport struct {
	Transport http.RoundTripper
}

func NewLoggingTransport(transport http.RoundTripper) *LoggingTransport {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &LoggingTransport{
		Transport: transport,
	}
}

// InstallDefault wraps http.DefaultTransport. The Azure DevOps SDK builds its
// own http.Client on top of the default transport, so this is the only hook
// for tracing its traffic.
func InstallDefault() {
	if _, ok := http.DefaultTransport.(*LoggingTransport); ok {
		return
	}
	http.DefaultTransport = NewLoggingTransport(http.DefaultTransport)
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger.Log("%s", formatRequest(req))

	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		logger.LogError("HTTP_REQUEST", fmt.Sprintf("%s %s", req.Method, req.URL.Redacted()), err)
		return nil, err
	}

	logger.Log("%s", formatResponse(req, resp, duration))
	return resp, nil
}

func formatRequest(req *http.Request) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "=== HTTP REQUEST ===\n%s %s %s\n", req.Method, req.URL.Redacted(), req.Proto)
	writeHeaders(&buf, req.Header)

	if req.Body != nil && req.ContentLength > 0 && req.ContentLength < maxLoggedBody {
		if body, err := io.ReadAll(req.Body); err == nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
			fmt.Fprintf(&buf, "Body (%d bytes):\n%s\n", len(body), body)
		}
	} else if req.ContentLength > 0 {
		fmt.Fprintf(&buf, "Body: (%d bytes, too large to log)\n", req.ContentLength)
	}

	buf.WriteString("===================")
	return buf.String()
}

func formatResponse(req *http.Request, resp *http.Response, duration time.Duration) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "=== HTTP RESPONSE ===\n%s %s - %s (%v)\n", req.Method, req.URL.Path, resp.Status, duration)
	writeHeaders(&buf, resp.Header)

	if resp.Body != nil && resp.ContentLength != 0 {
		if body, err := io.ReadAll(resp.Body); err == nil {
			resp.Body = io.NopCloser(bytes.NewReader(body))
			switch {
			case len(body) > 0 && len(body) < maxLoggedBody:
				fmt.Fprintf(&buf, "Body (%d bytes):\n%s\n", len(body), body)
			case len(body) > 0:
				fmt.Fprintf(&buf, "Body: (%d bytes, too large to log)\n", len(body))
			}
		}
	}

	buf.WriteString("====================")
	return buf.String()
}

func writeHeaders(buf *bytes.Buffer, header http.Header) {
	buf.WriteString("Headers:\n")
	for name, values := range header {
		if isSensitiveHeader(name) {
			fmt.Fprintf(buf, "  %s: [REDACTED]\n", name)
			continue
		}
		for _, value := range values {
			fmt.Fprintf(buf, "  %s: %s\n", name, value)
		}
	}
}

func isSensitiveHeader(name string) bool {
	return sensitiveHeaders[strings.ToLower(name)]
}
