package httpbinding

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/traits"
	"github.com/smithy-lang/smithy-go-client/transport"
	smithyhttp "github.com/smithy-lang/smithy-go-client/transport/http"
)

// Options configures a Protocol.
type Options struct {
	// Response header holding the error discriminator. Checked before the
	// payload.
	ErrorTypeHeader string

	// JMESPath expressions evaluated in order against the decoded error
	// payload to find the error discriminator.
	ErrorDiscriminators []string

	// JMESPath expressions evaluated in order against the decoded error
	// payload to find the error message.
	ErrorMessageFields []string
}

// Protocol is an HTTP binding client protocol. Members bound with the HTTP
// binding traits are carried in the request line, query string, headers and
// status code, everything else is encoded by the codec into the message body.
type Protocol struct {
	id      string
	codec   smithy.Codec
	options Options
}

// New returns an HTTP binding protocol with the given shape ID that encodes
// message bodies with codec.
func New(id string, codec smithy.Codec, optFns ...func(*Options)) *Protocol {
	o := Options{
		ErrorTypeHeader:     "X-Amzn-Errortype",
		ErrorDiscriminators: []string{"__type", "code"},
		ErrorMessageFields:  []string{"message", "Message", "errorMessage"},
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return &Protocol{id: id, codec: codec, options: o}
}

// ID identifies the protocol.
func (p *Protocol) ID() string { return p.id }

// CreateRequest serializes input into an unsigned request for op against
// endpoint.
func (p *Protocol) CreateRequest(
	ctx context.Context, op *smithy.Operation, input smithy.Serializable, endpoint transport.Endpoint,
) (*smithyhttp.Request, error) {
	req, err := p.createRequest(ctx, op, input, endpoint)
	if err != nil {
		return nil, &smithy.SerializationError{Err: err}
	}
	return req, nil
}

func (p *Protocol) createRequest(
	ctx context.Context, op *smithy.Operation, input smithy.Serializable, endpoint transport.Endpoint,
) (*smithyhttp.Request, error) {
	h, ok := smithy.SchemaTrait[*traits.HTTP](op.Schema)
	if !ok {
		return nil, fmt.Errorf("operation %s has no http binding", op.Name)
	}

	path, query, _ := strings.Cut(h.URI, "?")
	path = strings.TrimSuffix(endpoint.URI.Path, "/") + path
	if len(endpoint.URI.RawQuery) != 0 {
		query = strings.TrimSuffix(endpoint.URI.RawQuery+"&"+query, "&")
	}

	headers := http.Header{}
	for k, vs := range endpoint.Headers {
		headers[k] = append([]string(nil), vs...)
	}

	enc, err := NewEncoder(path, query, headers)
	if err != nil {
		return nil, err
	}

	bs := newBindingSerializer(enc, p.codec)
	input.Serialize(bs)
	if err := bs.finish(); err != nil {
		return nil, err
	}

	req := smithyhttp.NewStackRequest().(*smithyhttp.Request)
	req.Method = h.Method
	u := endpoint.URI
	req.URL = &u
	if _, err := enc.Encode(req.Request); err != nil {
		return nil, err
	}

	if es := op.InputEventStream(); es != nil {
		return p.attachEventStream(ctx, req, es, input)
	}

	body, contentType := bs.payload, bs.payloadType
	if !bs.hasPayload && hasBodyMembers(op.InputSchema) {
		ser := p.codec.Serializer()
		ser.WriteStruct(op.InputSchema, bodyMembers{v: input, keep: isBodyMember})
		body, contentType = ser.Bytes(), p.codec.MediaType()
	}
	if body == nil {
		return req, nil
	}

	if !hasHeader(req.Header, "Content-Type") {
		req.Header.Set("Content-Type", contentType)
	}
	req, err = req.SetStream(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.ContentLength = int64(len(body))
	return req, nil
}

func hasHeader(h http.Header, name string) bool {
	for k := range h {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

func isBodyMember(m *smithy.Schema) bool {
	return bindingOf(m) == locationBody
}

// IsSuccess returns whether the response status is 2xx.
func (p *Protocol) IsSuccess(resp *smithyhttp.Response) bool {
	return resp.IsSuccess()
}

// EventStreamOutput is implemented by operation outputs carrying an event
// stream.
type EventStreamOutput interface {
	SetEventStream(*EventStreamReader)
}

// StreamingBodyOutput is implemented by operation outputs whose payload is a
// streaming blob. The output takes ownership of the response body.
type StreamingBodyOutput interface {
	SetBody(io.ReadCloser)
}

// DeserializeResponse decodes resp into out. A non-success response is
// returned as an error, always wrapped in *smithyhttp.ResponseError.
func (p *Protocol) DeserializeResponse(
	ctx context.Context, op *smithy.Operation, resp *smithyhttp.Response, out smithy.Deserializable,
) error {
	if !p.IsSuccess(resp) {
		return p.deserializeError(ctx, op, resp)
	}

	if op.OutputEventStream() != nil {
		if err := p.deserializeBound(resp, out); err != nil {
			return err
		}
		es, ok := out.(EventStreamOutput)
		if !ok {
			return &smithy.DeserializationError{Err: fmt.Errorf("output %T cannot hold an event stream", out)}
		}
		es.SetEventStream(newEventStreamReader(op, p.codec, resp.Body))
		return nil
	}

	if m := payloadMember(op.OutputSchema); m != nil && m.Type() == smithy.ShapeTypeBlob && m.HasTrait("smithy.api#streaming") {
		if err := p.deserializeBound(resp, out); err != nil {
			return err
		}
		bs, ok := out.(StreamingBodyOutput)
		if !ok {
			return &smithy.DeserializationError{Err: fmt.Errorf("output %T cannot hold a streaming body", out)}
		}
		bs.SetBody(resp.Body)
		return nil
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &smithy.DeserializationError{Err: fmt.Errorf("read response body, %w", err)}
	}

	d := newBindingDeserializer(p.codec, payload, &httpSource{resp: resp.Response, payload: payload})
	if err := out.Deserialize(d); err != nil {
		return &smithy.DeserializationError{Err: err, Snapshot: snapshot(payload)}
	}
	if c, ok := out.(smithy.ErrorCorrectable); ok {
		c.CorrectErrors()
	}
	return nil
}

// deserializeBound reads the members bound to the status line and headers,
// leaving the body untouched.
func (p *Protocol) deserializeBound(resp *smithyhttp.Response, out smithy.Deserializable) error {
	d := newBindingDeserializer(p.codec, nil, &httpSource{resp: resp.Response})
	if err := out.Deserialize(d); err != nil {
		return &smithy.DeserializationError{Err: err}
	}
	return nil
}

const snapshotSize = 1024

func snapshot(p []byte) []byte {
	if len(p) > snapshotSize {
		p = p[:snapshotSize]
	}
	return append([]byte(nil), p...)
}
