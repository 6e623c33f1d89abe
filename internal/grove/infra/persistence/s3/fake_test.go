package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeObject struct {
	body    []byte
	version string
	etag    string
}

// fakeS3 is an in-memory round tripper for HEAD/GET/PUT with conditional headers.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	seq     int
}

func newFakeClient(t *testing.T) *s3.Client {
	t.Helper()
	rt := &fakeS3{objects: make(map[string]fakeObject)}
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	if err != nil {
		t.Fatalf("aws config: %v", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://fake.s3.local")
	})
}

func xmlError(status int, code string) *http.Response {
	body := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>%s</Code><Message>%s</Message></Error>`, code, code)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": {"application/xml"}},
	}
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	obj, exists := f.objects[key]

	switch req.Method {
	case http.MethodHead, http.MethodGet:
		if !exists {
			if req.Method == http.MethodHead {
				return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
			}
			return xmlError(http.StatusNotFound, "NoSuchKey"), nil
		}
		h := http.Header{
			"Content-Length":           {strconv.Itoa(len(obj.body))},
			"Content-Type":             {"application/json"},
			"Etag":                     {obj.etag},
			"X-Amz-Meta-Grove-Version": {obj.version},
		}
		body := obj.body
		if req.Method == http.MethodHead {
			body = nil
		}
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(body)), Header: h}, nil

	case http.MethodPut:
		if m := req.Header.Get("If-None-Match"); m == "*" && exists {
			return xmlError(http.StatusPreconditionFailed, "PreconditionFailed"), nil
		}
		if m := req.Header.Get("If-Match"); m != "" && (!exists || m != obj.etag) {
			return xmlError(http.StatusPreconditionFailed, "PreconditionFailed"), nil
		}
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeChunked(body); ok {
			body = dec
		}
		f.seq++
		etag := fmt.Sprintf("\"e%d\"", f.seq)
		f.objects[key] = fakeObject{body: body, version: req.Header.Get("X-Amz-Meta-Grove-Version"), etag: etag}
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{"Etag": {etag}}}, nil
	}
	return &http.Response{StatusCode: http.StatusNotImplemented, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
}

// decodeChunked unwraps a single-chunk aws-chunked payload: <hex>\r\n<body>\r\n0\r\n...
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 || parts[2] != "0" {
		return nil, false
	}
	size, err := strconv.ParseInt(parts[0], 16, 64)
	if err != nil || int64(len(parts[1])) != size {
		return nil, false
	}
	return []byte(parts[1]), true
}
