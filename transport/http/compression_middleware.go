package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/klauspost/compress/gzip"

	"github.com/smithy-lang/smithy-go-client/middleware"
	"github.com/smithy-lang/smithy-go-client/middleware/id"
)

// Request compression limits, in bytes.
const (
	DefaultRequestMinCompressSizeBytes int64 = 10240
	MaxRequestMinCompressSizeBytes     int64 = 10485760
)

const encodingGzip = "gzip"

var supportedEncodings = map[string]func(io.Writer) (io.WriteCloser, error){
	encodingGzip: func(w io.Writer) (io.WriteCloser, error) {
		return gzip.NewWriter(w), nil
	},
}

// RequestCompressionOptions configures request body compression.
type RequestCompressionOptions struct {
	// Disables compression for every operation of the client.
	DisableRequestCompression bool

	// Known-length bodies smaller than this are sent uncompressed. Must be in
	// the range [0, 10485760].
	RequestMinCompressSizeBytes int64

	// Encodings the operation accepts, in preference order, as listed by its
	// requestCompression trait.
	Encodings []string
}

type disableCompressionKey struct{}

// WithRequestCompressionDisabled returns a context that turns off request
// compression for the calls made with it.
func WithRequestCompressionDisabled(ctx context.Context) context.Context {
	return middleware.WithStackValue(ctx, disableCompressionKey{}, true)
}

func isCompressionDisabled(ctx context.Context) bool {
	v, _ := middleware.GetStackValue(ctx, disableCompressionKey{}).(bool)
	return v
}

type requestCompression struct {
	disabled     bool
	minSizeBytes int64
	encoding     string
}

// AddRequestCompressionMiddleware adds the middleware that compresses the
// request body with the first supported encoding of the operation. Returns an
// error if the minimum size is out of range.
func AddRequestCompressionMiddleware(stack *middleware.Stack, o RequestCompressionOptions) error {
	if o.RequestMinCompressSizeBytes < 0 || o.RequestMinCompressSizeBytes > MaxRequestMinCompressSizeBytes {
		return fmt.Errorf("invalid range for min request compression size bytes %d, must be within 0 and 10485760 inclusively",
			o.RequestMinCompressSizeBytes)
	}

	var encoding string
	for _, e := range o.Encodings {
		if _, ok := supportedEncodings[e]; ok {
			encoding = e
			break
		}
	}
	if len(encoding) == 0 {
		return nil
	}

	return stack.Build.Add(&requestCompression{
		disabled:     o.DisableRequestCompression,
		minSizeBytes: o.RequestMinCompressSizeBytes,
		encoding:     encoding,
	}, middleware.Before)
}

func (m *requestCompression) ID() string { return id.RequestCompression }

func (m *requestCompression) HandleBuild(
	ctx context.Context, in middleware.BuildInput, next middleware.BuildHandler,
) (
	out middleware.BuildOutput, metadata middleware.Metadata, err error,
) {
	if m.disabled || isCompressionDisabled(ctx) {
		return next.HandleBuild(ctx, in)
	}

	req, ok := in.Request.(*Request)
	if !ok {
		return out, metadata, fmt.Errorf("unknown request type %T", in.Request)
	}

	stream := req.GetStream()
	if stream == nil {
		return next.HandleBuild(ctx, in)
	}

	size, known, err := req.StreamLength()
	if err != nil {
		return out, metadata, fmt.Errorf("get request stream length, %w", err)
	}
	if known && size < m.minSizeBytes {
		return next.HandleBuild(ctx, in)
	}

	newWriter := supportedEncodings[m.encoding]
	if known {
		var buf bytes.Buffer
		w, err := newWriter(&buf)
		if err != nil {
			return out, metadata, err
		}
		if _, err := io.Copy(w, stream); err != nil {
			return out, metadata, fmt.Errorf("compress request stream, %w", err)
		}
		if err := w.Close(); err != nil {
			return out, metadata, fmt.Errorf("close %s writer, %w", m.encoding, err)
		}

		if req, err = req.SetStream(bytes.NewReader(buf.Bytes())); err != nil {
			return out, metadata, err
		}
		req.ContentLength = int64(buf.Len())
	} else {
		pr, pw := io.Pipe()
		go func() {
			w, err := newWriter(pw)
			if err == nil {
				_, err = io.Copy(w, stream)
				if cerr := w.Close(); err == nil {
					err = cerr
				}
			}
			pw.CloseWithError(err)
		}()

		if req, err = req.SetStream(pr); err != nil {
			return out, metadata, err
		}
		req.ContentLength = -1
	}

	if encodings := req.Header.Values("Content-Encoding"); !slices.Contains(encodings, m.encoding) {
		req.Header.Add("Content-Encoding", m.encoding)
	}
	in.Request = req

	return next.HandleBuild(ctx, in)
}
