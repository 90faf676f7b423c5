package http

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/smithy-lang/smithy-go-client/middleware"
)

func TestRequestCompression(t *testing.T) {
	cases := map[string]struct {
		Ctx            context.Context
		Options        RequestCompressionOptions
		Stream         io.Reader
		ExpectCompress bool
		ExpectLength   int64
	}{
		"below minimum": {
			Options: RequestCompressionOptions{RequestMinCompressSizeBytes: 10, Encodings: []string{"gzip"}},
			Stream:  strings.NewReader(strings.Repeat("a", 9)),
		},
		"at minimum": {
			Options:        RequestCompressionOptions{RequestMinCompressSizeBytes: 10, Encodings: []string{"gzip"}},
			Stream:         strings.NewReader(strings.Repeat("a", 10)),
			ExpectCompress: true,
		},
		"zero minimum": {
			Options:        RequestCompressionOptions{Encodings: []string{"gzip"}},
			Stream:         strings.NewReader("a"),
			ExpectCompress: true,
		},
		"unknown length always compressed": {
			Options:        RequestCompressionOptions{RequestMinCompressSizeBytes: MaxRequestMinCompressSizeBytes, Encodings: []string{"gzip"}},
			Stream:         &basicEOFReader{buf: []byte("abc")},
			ExpectCompress: true,
			ExpectLength:   -1,
		},
		"disabled by option": {
			Options: RequestCompressionOptions{DisableRequestCompression: true, Encodings: []string{"gzip"}},
			Stream:  strings.NewReader("abc"),
		},
		"disabled by context": {
			Ctx:     WithRequestCompressionDisabled(context.Background()),
			Options: RequestCompressionOptions{Encodings: []string{"gzip"}},
			Stream:  strings.NewReader("abc"),
		},
		"unsupported encoding first": {
			Options:        RequestCompressionOptions{Encodings: []string{"br", "gzip"}},
			Stream:         strings.NewReader("abc"),
			ExpectCompress: true,
		},
		"no supported encoding": {
			Options: RequestCompressionOptions{Encodings: []string{"br"}},
			Stream:  strings.NewReader("abc"),
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := c.Ctx
			if ctx == nil {
				ctx = context.Background()
			}

			stack := middleware.NewStack("test", NewStackRequest)
			if err := AddRequestCompressionMiddleware(stack, c.Options); err != nil {
				t.Fatalf("expect no error, got %v", err)
			}

			raw, _ := io.ReadAll(c.Stream)
			var stream io.Reader = bytes.NewReader(raw)
			if _, ok := c.Stream.(*basicEOFReader); ok {
				stream = &basicEOFReader{buf: raw}
			}

			var sent *Request
			handler := middleware.DecorateHandler(middleware.HandlerFunc(
				func(ctx context.Context, input interface{}) (interface{}, middleware.Metadata, error) {
					sent = input.(*Request)
					return nil, middleware.Metadata{}, nil
				}), stack)

			stack.Serialize.Add(middleware.SerializeMiddlewareFunc("setStream",
				func(ctx context.Context, in middleware.SerializeInput, next middleware.SerializeHandler) (
					middleware.SerializeOutput, middleware.Metadata, error,
				) {
					req, err := in.Request.(*Request).SetStream(stream)
					if err != nil {
						return middleware.SerializeOutput{}, middleware.Metadata{}, err
					}
					in.Request = req
					return next.HandleSerialize(ctx, in)
				}), middleware.After)

			if _, _, err := handler.Handle(ctx, struct{}{}); err != nil {
				t.Fatalf("expect no error, got %v", err)
			}

			body, err := io.ReadAll(sent.GetStream())
			if err != nil {
				t.Fatalf("read body, %v", err)
			}

			if !c.ExpectCompress {
				if e, a := string(raw), string(body); e != a {
					t.Errorf("expect body unchanged %q, got %q", e, a)
				}
				if v := sent.Header.Get("Content-Encoding"); len(v) != 0 {
					t.Errorf("expect no content encoding, got %v", v)
				}
				return
			}

			if e, a := "gzip", sent.Header.Get("Content-Encoding"); e != a {
				t.Errorf("expect content encoding %v, got %v", e, a)
			}
			if c.ExpectLength == 0 {
				if e, a := int64(len(body)), sent.ContentLength; e != a {
					t.Errorf("expect content length %v, got %v", e, a)
				}
			} else if e, a := c.ExpectLength, sent.ContentLength; e != a {
				t.Errorf("expect content length %v, got %v", e, a)
			}

			zr, err := gzip.NewReader(bytes.NewReader(body))
			if err != nil {
				t.Fatalf("expect gzip body, %v", err)
			}
			decoded, err := io.ReadAll(zr)
			if err != nil {
				t.Fatalf("decode gzip body, %v", err)
			}
			if e, a := string(raw), string(decoded); e != a {
				t.Errorf("expect decoded %q, got %q", e, a)
			}
		})
	}
}

func TestAddRequestCompressionMiddleware_InvalidMinSize(t *testing.T) {
	for _, size := range []int64{-1, MaxRequestMinCompressSizeBytes + 1} {
		stack := middleware.NewStack("test", NewStackRequest)
		err := AddRequestCompressionMiddleware(stack, RequestCompressionOptions{
			RequestMinCompressSizeBytes: size,
			Encodings:                   []string{"gzip"},
		})
		if err == nil {
			t.Errorf("expect error for min size %d", size)
		}
	}
}

type basicEOFReader struct {
	buf []byte
}

func (r *basicEOFReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
