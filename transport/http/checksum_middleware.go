package http

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/smithy-lang/smithy-go-client/middleware"
	"github.com/smithy-lang/smithy-go-client/middleware/id"
)

const contentMD5Header = "Content-Md5"

// checksumMiddleware computes the Content-MD5 of the request body for
// operations that carry the httpChecksumRequired trait.
type checksumMiddleware struct{}

// AddContentChecksumMiddleware adds checksum middleware to middleware's
// build step.
func AddContentChecksumMiddleware(stack *middleware.Stack) error {
	return stack.Build.Add(&checksumMiddleware{}, middleware.After)
}

// ID the identifier for the checksum middleware
func (m *checksumMiddleware) ID() string { return id.ContentChecksum }

// HandleBuild computes the md5 checksum of the request stream and sets the
// Content-MD5 header. The stream is replaced with a seekable copy so it can
// still be sent and rewound.
func (m *checksumMiddleware) HandleBuild(
	ctx context.Context, in middleware.BuildInput, next middleware.BuildHandler,
) (
	out middleware.BuildOutput, metadata middleware.Metadata, err error,
) {
	req, ok := in.Request.(*Request)
	if !ok {
		return out, metadata, fmt.Errorf("unknown request type %T", in.Request)
	}

	// if Content-MD5 header is already present, return
	if v := req.Header.Get(contentMD5Header); len(v) != 0 {
		return next.HandleBuild(ctx, in)
	}

	var body []byte
	if stream := req.GetStream(); stream != nil {
		if body, err = io.ReadAll(stream); err != nil {
			return out, metadata, fmt.Errorf("error reading request stream for md5 checksum, %w", err)
		}
	}

	sum := md5.Sum(body)
	req.Header.Set(contentMD5Header, base64.StdEncoding.EncodeToString(sum[:]))

	if req, err = req.SetStream(bytes.NewReader(body)); err != nil {
		return out, metadata, fmt.Errorf("error resetting request stream, %w", err)
	}
	in.Request = req

	return next.HandleBuild(ctx, in)
}
