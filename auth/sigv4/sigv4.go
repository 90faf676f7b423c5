// Package sigv4 implements the aws.auth#sigv4 auth scheme over the AWS SDK
// request signer.
package sigv4

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/smithy-lang/smithy-go-client/auth"
	smithyhttp "github.com/smithy-lang/smithy-go-client/transport/http"
)

// Signer properties understood by Signer.
var (
	// SigningName is the service name the signature is scoped to. Required.
	SigningName = auth.NewProperty[string]("SigningName")

	// SigningRegion is the region the signature is scoped to. Required.
	SigningRegion = auth.NewProperty[string]("SigningRegion")

	// UnsignedPayload excludes the body from the signature.
	UnsignedPayload = auth.NewProperty[bool]("UnsignedPayload")

	// PayloadHashHeader adds the X-Amz-Content-Sha256 header.
	PayloadHashHeader = auth.NewProperty[bool]("PayloadHashHeader")

	// DisableDoubleEncoding signs the request path as is rather than escaping
	// it a second time.
	DisableDoubleEncoding = auth.NewProperty[bool]("DisableDoubleEncoding")
)

const (
	unsignedPayload = "UNSIGNED-PAYLOAD"
	contentSHA256   = "X-Amz-Content-Sha256"
)

// Signer signs requests with AWS credentials.
type Signer struct {
	signer *v4.Signer
}

var _ smithyhttp.Signer = (*Signer)(nil)

// New returns a Signer.
func New(optFns ...func(*v4.SignerOptions)) *Signer {
	return &Signer{signer: v4.NewSigner(optFns...)}
}

// NewScheme returns the aws.auth#sigv4 auth scheme for a service. The
// signing name and region become the scheme's default signer properties.
func NewScheme(signingName, region string, optFns ...func(*v4.SignerOptions)) (smithyhttp.AuthScheme, error) {
	b := auth.NewPropertiesBuilder()
	auth.SetProperty(b, SigningName, signingName)
	auth.SetProperty(b, SigningRegion, region)
	return smithyhttp.NewAuthScheme(auth.SchemeIDSigV4, auth.IdentityKindAWSCredentials, New(optFns...), b.Build())
}

// IdentityKind returns the AWS credentials kind.
func (*Signer) IdentityKind() auth.IdentityKind { return auth.IdentityKindAWSCredentials }

// SignRequest signs r in place with the Authorization, X-Amz-Date and, for
// session credentials, X-Amz-Security-Token headers.
func (s *Signer) SignRequest(ctx context.Context, r *smithyhttp.Request, id auth.Identity, props auth.Properties) error {
	creds, ok := id.(*auth.AWSCredentials)
	if !ok {
		return fmt.Errorf("sigv4 signer: unexpected identity type %T", id)
	}

	name, _ := auth.GetProperty(props, SigningName)
	if len(name) == 0 {
		return fmt.Errorf("sigv4 signer: signing name is required")
	}
	region, _ := auth.GetProperty(props, SigningRegion)
	if len(region) == 0 {
		return fmt.Errorf("sigv4 signer: signing region is required")
	}

	clock := time.Now
	if c, ok := auth.GetProperty(props, auth.SigningClock); ok {
		clock = c
	}

	payloadHash := unsignedPayload
	if unsigned, _ := auth.GetProperty(props, UnsignedPayload); !unsigned {
		var err error
		if payloadHash, err = hashPayload(r); err != nil {
			return fmt.Errorf("sigv4 signer: failed to hash payload, %w", err)
		}
	}
	if add, _ := auth.GetProperty(props, PayloadHashHeader); add || payloadHash == unsignedPayload {
		r.Header.Set(contentSHA256, payloadHash)
	}

	disableEscaping, _ := auth.GetProperty(props, DisableDoubleEncoding)
	err := s.signer.SignHTTP(ctx, aws.Credentials{
		AccessKeyID:     creds.AccessKeyID,
		SecretAccessKey: creds.SecretAccessKey,
		SessionToken:    creds.SessionToken,
		AccountID:       creds.AccountID,
		CanExpire:       !creds.Expires.IsZero(),
		Expires:         creds.Expires,
	}, r.Request, payloadHash, name, region, clock().UTC(), func(o *v4.SignerOptions) {
		o.DisableURIPathEscaping = disableEscaping
	})
	if err != nil {
		return fmt.Errorf("sigv4 signer: %w", err)
	}
	return nil
}

// hashPayload returns the hex SHA-256 of the request stream. A stream that
// cannot be rewound is buffered and replaced so the body can still be sent.
func hashPayload(r *smithyhttp.Request) (string, error) {
	h := sha256.New()

	stream := r.GetStream()
	switch {
	case stream == nil:
	case r.IsStreamSeekable():
		if _, err := io.Copy(h, stream); err != nil {
			return "", err
		}
		if err := r.RewindStream(); err != nil {
			return "", err
		}
	default:
		b, err := io.ReadAll(stream)
		if err != nil {
			return "", err
		}
		h.Write(b)

		rc, err := r.SetStream(bytes.NewReader(b))
		if err != nil {
			return "", err
		}
		*r = *rc
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
