package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"GroveWorld/internal/shared/transport"
	"GroveWorld/modules/kit/logx"
	"GroveWorld/modules/kit/tracex"
)

const traceHeader = "X-Trace-Id"

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	_, _ = w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	_, _ = w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// AccessLog writes one access log line per request, taking the biz code
// from the response body's `code` field when present.
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		action := c.Request.Method + " " + route

		parent := c.Request.Context()
		if id := c.GetHeader(traceHeader); id != "" {
			parent = tracex.WithTraceID(parent, id)
		}
		ctx := transport.NewContextWithParent(parent, action)
		c.Request = c.Request.WithContext(ctx)
		if id, ok := tracex.TraceIDFrom(ctx); ok {
			c.Header(traceHeader, id)
		}

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		if bizCode, ok := parseBizCode(bw.body.Bytes()); ok {
			transport.SetBizCode(ctx, transport.BizCode(bizCode))
		} else if c.Writer.Status() >= http.StatusBadRequest {
			transport.SetBizCode(ctx, transport.BizCode(transport.SystemError))
		} else {
			transport.SetBizCode(ctx, transport.BizCode(transport.OK))
		}

		transport.WriteAccessLog(ctx, log)
	}
}

func parseBizCode(body []byte) (int, bool) {
	if len(body) == 0 {
		return 0, false
	}

	var payload struct {
		Code *int `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, false
	}
	if payload.Code == nil {
		return 0, false
	}
	return *payload.Code, true
}
