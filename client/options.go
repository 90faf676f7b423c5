package client

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/smithy-lang/smithy-go-client/auth"
	"github.com/smithy-lang/smithy-go-client/httpbinding"
	"github.com/smithy-lang/smithy-go-client/logging"
	"github.com/smithy-lang/smithy-go-client/middleware"
	"github.com/smithy-lang/smithy-go-client/rand"
	"github.com/smithy-lang/smithy-go-client/retry"
	"github.com/smithy-lang/smithy-go-client/transport"
	smithyhttp "github.com/smithy-lang/smithy-go-client/transport/http"
)

// Options configures a Client and the operations it invokes.
type Options struct {
	// ServiceID names the service in errors and spans.
	ServiceID string

	// The client protocol. Required.
	Protocol *httpbinding.Protocol

	// Resolves the endpoint of each call. Takes precedence over BaseEndpoint.
	EndpointResolver transport.EndpointResolver

	// Static endpoint used when no EndpointResolver is set.
	BaseEndpoint string

	// Resolves the priority-ordered auth options of each call. Defaults to
	// auth.DefaultSchemeResolver.
	AuthSchemeResolver auth.SchemeResolver

	// Auth schemes available to the client, in addition to the anonymous,
	// bearer and basic schemes. A scheme replaces a default with the same ID.
	AuthSchemes []smithyhttp.AuthScheme

	// Identity resolvers keyed by auth scheme ID.
	IdentityResolvers map[string]auth.IdentityResolver

	// Signer properties applied on top of the selected scheme's defaults and
	// option properties.
	SignerProperties auth.Properties

	// The HTTP client requests are sent with.
	HTTPClient smithyhttp.ClientDo

	// The retry strategy. Defaults to retry.Standard with RetryMaxAttempts.
	Retryer retry.Strategy

	// Maximum attempts of the default retry strategy. Ignored when Retryer
	// is set.
	RetryMaxAttempts int

	// Log retry attempts at debug level.
	LogRetryAttempts bool

	Logger logging.Logger

	// Provides idempotency tokens for members the caller left empty.
	IdempotencyTokenProvider rand.IdempotencyTokenProvider

	DisableRequestCompression bool

	// Minimum body size in bytes that is compressed. Nil uses
	// smithyhttp.DefaultRequestMinCompressSizeBytes, zero compresses every
	// eligible body.
	RequestMinCompressSizeBytes *int64

	// Application ID added to the User-Agent header.
	AppID string

	TracerProvider trace.TracerProvider

	// Records call duration and attempt counts. Defaults to the global
	// provider.
	MeterProvider metric.MeterProvider

	// Functions applied to the middleware stack of every operation.
	APIOptions []func(*middleware.Stack) error

	// set when Retryer was built from RetryMaxAttempts
	defaultRetryer bool
}

// GetIdentityResolver returns the identity resolver configured for schemeID.
func (o Options) GetIdentityResolver(schemeID string) auth.IdentityResolver {
	return o.IdentityResolvers[schemeID]
}

var _ auth.IdentityResolverOptions = Options{}

// Copy returns a copy of the options. Slices and maps are copied so the
// copy can be modified without affecting o.
func (o Options) Copy() Options {
	to := o
	to.AuthSchemes = append([]smithyhttp.AuthScheme(nil), o.AuthSchemes...)
	to.APIOptions = append([]func(*middleware.Stack) error(nil), o.APIOptions...)
	if o.RequestMinCompressSizeBytes != nil {
		v := *o.RequestMinCompressSizeBytes
		to.RequestMinCompressSizeBytes = &v
	}
	if o.IdentityResolvers != nil {
		to.IdentityResolvers = make(map[string]auth.IdentityResolver, len(o.IdentityResolvers))
		for k, v := range o.IdentityResolvers {
			to.IdentityResolvers[k] = v
		}
	}
	return to
}

func resolveDefaults(o *Options) error {
	if o.EndpointResolver == nil && len(o.BaseEndpoint) != 0 {
		r, err := transport.NewStaticEndpointResolver(o.BaseEndpoint)
		if err != nil {
			return err
		}
		o.EndpointResolver = r
	}
	if o.AuthSchemeResolver == nil {
		o.AuthSchemeResolver = &auth.DefaultSchemeResolver{}
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	if o.Retryer == nil {
		o.Retryer = newDefaultRetryer(o.RetryMaxAttempts)
		o.defaultRetryer = true
	}
	if o.Logger == nil {
		o.Logger = logging.Noop{}
	}
	if o.IdempotencyTokenProvider == nil {
		o.IdempotencyTokenProvider = rand.NewUUID(rand.Reader)
	}
	if o.TracerProvider == nil {
		o.TracerProvider = otel.GetTracerProvider()
	}
	if o.MeterProvider == nil {
		o.MeterProvider = otel.GetMeterProvider()
	}
	return nil
}

func (o Options) minCompressSize() int64 {
	if o.RequestMinCompressSizeBytes == nil {
		return smithyhttp.DefaultRequestMinCompressSizeBytes
	}
	return *o.RequestMinCompressSizeBytes
}

func newDefaultRetryer(maxAttempts int) retry.Strategy {
	return retry.NewStandard(func(o *retry.StandardOptions) {
		if maxAttempts != 0 {
			o.MaxAttempts = maxAttempts
		}
	})
}

func defaultAuthSchemes() []smithyhttp.AuthScheme {
	return []smithyhttp.AuthScheme{
		smithyhttp.NewAnonymousScheme(),
		smithyhttp.NewBearerScheme(),
		smithyhttp.NewBasicScheme(),
	}
}

// authScheme returns the scheme registered for id. Client schemes win over
// the defaults.
func (o Options) authScheme(id string) (smithyhttp.AuthScheme, bool) {
	for i := len(o.AuthSchemes) - 1; i >= 0; i-- {
		if s := o.AuthSchemes[i]; s != nil && s.SchemeID() == id {
			return s, true
		}
	}
	for _, s := range defaultAuthSchemes() {
		if s.SchemeID() == id {
			return s, true
		}
	}
	return nil, false
}
