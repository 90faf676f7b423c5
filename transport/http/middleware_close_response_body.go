package http

import (
	"context"
	"fmt"
	"io"

	"github.com/smithy-lang/smithy-go-client/logging"
	"github.com/smithy-lang/smithy-go-client/middleware"
	"github.com/smithy-lang/smithy-go-client/middleware/id"
)

// maxDrainBytes bounds how much of an unread body is discarded before close
// so the connection can return to the pool.
const maxDrainBytes = 512

// AddErrorCloseResponseBodyMiddleware closes the response body when the
// operation fails, including failures after a streaming output was handed
// back to the caller.
func AddErrorCloseResponseBodyMiddleware(stack *middleware.Stack) error {
	return stack.Deserialize.Add(&errorCloseResponseBodyMiddleware{}, middleware.Before)
}

type errorCloseResponseBodyMiddleware struct{}

func (*errorCloseResponseBodyMiddleware) ID() string {
	return id.ErrorCloseResponseBody
}

func (m *errorCloseResponseBodyMiddleware) HandleDeserialize(
	ctx context.Context, input middleware.DeserializeInput, next middleware.DeserializeHandler,
) (
	output middleware.DeserializeOutput, metadata middleware.Metadata, err error,
) {
	out, metadata, err := next.HandleDeserialize(ctx, input)
	if err != nil {
		if resp, ok := out.RawResponse.(*Response); ok && resp != nil && resp.Body != nil {
			if cerr := drainAndClose(resp.Body); cerr != nil {
				middleware.GetLogger(ctx).Logf(logging.Debug, "close failed response body, %v", cerr)
			}
		}
	}

	return out, metadata, err
}

// AddCloseResponseBodyMiddleware closes the response body once a
// non-streaming output has been deserialized.
func AddCloseResponseBodyMiddleware(stack *middleware.Stack) error {
	return stack.Deserialize.Add(&closeResponseBody{}, middleware.Before)
}

type closeResponseBody struct{}

func (*closeResponseBody) ID() string {
	return id.CloseResponseBody
}

func (m *closeResponseBody) HandleDeserialize(
	ctx context.Context, input middleware.DeserializeInput, next middleware.DeserializeHandler,
) (
	output middleware.DeserializeOutput, metadata middleware.Metadata, err error,
) {
	out, metadata, err := next.HandleDeserialize(ctx, input)
	if err != nil {
		return out, metadata, err
	}

	if resp, ok := out.RawResponse.(*Response); ok && resp != nil && resp.Body != nil {
		if err = drainAndClose(resp.Body); err != nil {
			return out, metadata, fmt.Errorf("close response body, %w", err)
		}
	}

	return out, metadata, err
}

func drainAndClose(body io.ReadCloser) error {
	_, _ = io.CopyN(io.Discard, body, maxDrainBytes)
	return body.Close()
}
