package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"GroveWorld/internal/grove/app/port"
	"GroveWorld/internal/grove/errs"
)

const (
	OpGet = "store.s3.Get"
	OpSet = "store.s3.Set"
	OpCAS = "store.s3.CompareAndSwap"
)

// versionMeta is the user metadata key holding the record version.
const versionMeta = "grove-version"

var _ port.Store = (*Store)(nil)

// Store keeps one object per record. Conditional writes use S3
// If-Match / If-None-Match so CAS holds across processes.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewStore(client *s3.Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *Store) objectKey(key string) *string {
	return aws.String(s.prefix + key)
}

func (s *Store) Get(ctx context.Context, key string) (port.Record, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: s.objectKey(key)})
	if err != nil {
		if isNotFound(err) {
			return port.Record{}, port.ErrNotFound
		}
		return port.Record{}, errs.Wrap(OpGet, errs.KindInfra, err, map[string]any{"key": key})
	}
	defer out.Body.Close()
	body, err := io.ReadAll(out.Body)
	if err != nil {
		return port.Record{}, errs.Wrap(OpGet, errs.KindInfra, err, map[string]any{"key": key})
	}
	return port.Record{Value: body, Version: parseVersion(out.Metadata)}, nil
}

// head returns the current version and etag; version 0 when absent.
func (s *Store) head(ctx context.Context, key string) (uint64, string, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(s.bucket), Key: s.objectKey(key)})
	if err != nil {
		if isNotFound(err) {
			return 0, "", nil
		}
		return 0, "", err
	}
	return parseVersion(out.Metadata), aws.ToString(out.ETag), nil
}

func (s *Store) put(ctx context.Context, key string, value []byte, version uint64, ifMatch, ifNoneMatch string) error {
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         s.objectKey(key),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/json"),
		Metadata:    map[string]string{versionMeta: strconv.FormatUint(version, 10)},
	}
	if ifMatch != "" {
		in.IfMatch = aws.String(ifMatch)
	}
	if ifNoneMatch != "" {
		in.IfNoneMatch = aws.String(ifNoneMatch)
	}
	_, err := s.client.PutObject(ctx, in)
	return err
}

// Set is last-write-wins; the version it reports is read-then-bumped.
func (s *Store) Set(ctx context.Context, key string, value []byte) (uint64, error) {
	cur, _, err := s.head(ctx, key)
	if err != nil {
		return 0, errs.Wrap(OpSet, errs.KindInfra, err, map[string]any{"key": key})
	}
	next := cur + 1
	if err := s.put(ctx, key, value, next, "", ""); err != nil {
		return 0, errs.Wrap(OpSet, errs.KindInfra, err, map[string]any{"key": key})
	}
	return next, nil
}

func (s *Store) CompareAndSwap(ctx context.Context, key string, expected uint64, value []byte) (uint64, error) {
	var err error
	if expected == 0 {
		err = s.put(ctx, key, value, 1, "", "*")
	} else {
		cur, etag, herr := s.head(ctx, key)
		if herr != nil {
			return 0, errs.Wrap(OpCAS, errs.KindInfra, herr, map[string]any{"key": key})
		}
		if cur != expected || etag == "" {
			return 0, port.ErrVersionConflict
		}
		err = s.put(ctx, key, value, expected+1, etag, "")
	}
	if err != nil {
		if isPreconditionFailed(err) {
			return 0, port.ErrVersionConflict
		}
		return 0, errs.Wrap(OpCAS, errs.KindInfra, err, map[string]any{"key": key, "expected": expected})
	}
	return expected + 1, nil
}

func (s *Store) Close(context.Context) error {
	return nil
}

func parseVersion(meta map[string]string) uint64 {
	v, err := strconv.ParseUint(meta[versionMeta], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return true
		}
	}
	return false
}
