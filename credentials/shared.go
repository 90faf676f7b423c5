package credentials

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/smithy-lang/smithy-go-client/auth"
)

// DefaultProfile is the profile read when neither the resolver nor AWS_PROFILE
// name one.
const DefaultProfile = "default"

// SharedFileResolver resolves AWS credentials from a profile of the shared
// credentials file.
type SharedFileResolver struct {
	// Filename of the credentials file. Defaults to
	// AWS_SHARED_CREDENTIALS_FILE, then ~/.aws/credentials.
	Filename string

	// Profile to read. Defaults to AWS_PROFILE, then DefaultProfile.
	Profile string

	lookupEnv func(string) (string, bool)
}

var _ auth.IdentityResolver = (*SharedFileResolver)(nil)

// IdentityKind returns the AWS credentials kind.
func (*SharedFileResolver) IdentityKind() auth.IdentityKind { return auth.IdentityKindAWSCredentials }

// ResolveIdentity reads the profile's credentials. A missing file, profile, or
// key pair is reported as *auth.IdentityNotFoundError, a malformed file is
// an error.
func (r *SharedFileResolver) ResolveIdentity(context.Context, auth.Properties) (auth.Identity, error) {
	filename, err := r.filename()
	if err != nil {
		return nil, notFound("SharedFileResolver", err.Error())
	}
	profile := r.profile()

	b, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound("SharedFileResolver", fmt.Sprintf("%s does not exist", filename))
	} else if err != nil {
		return nil, fmt.Errorf("failed to read shared credentials file %s, %w", filename, err)
	}

	f, err := ini.LoadSources(ini.LoadOptions{
		// profile names are case sensitive, key names are not
		InsensitiveKeys:     true,
		IgnoreInlineComment: true,
	}, b)
	if err != nil {
		return nil, fmt.Errorf("failed to parse shared credentials file %s, %w", filename, err)
	}

	sec, err := f.GetSection(profile)
	if err != nil {
		return nil, notFound("SharedFileResolver", fmt.Sprintf("profile %q not found in %s", profile, filename))
	}
	key := func(k string) string { return sec.Key(k).String() }

	creds := &auth.AWSCredentials{
		AccessKeyID:     key("aws_access_key_id"),
		SecretAccessKey: key("aws_secret_access_key"),
		SessionToken:    key("aws_session_token"),
		AccountID:       key("aws_account_id"),
	}
	if len(creds.AccessKeyID) == 0 || len(creds.SecretAccessKey) == 0 {
		return nil, notFound("SharedFileResolver", fmt.Sprintf("profile %q has no access key pair", profile))
	}
	return creds, nil
}

func (r *SharedFileResolver) env(k string) string {
	lookup := r.lookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, _ := lookup(k)
	return v
}

func (r *SharedFileResolver) filename() (string, error) {
	if len(r.Filename) != 0 {
		return r.Filename, nil
	}
	if f := r.env("AWS_SHARED_CREDENTIALS_FILE"); len(f) != 0 {
		return f, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".aws", "credentials"), nil
}

func (r *SharedFileResolver) profile() string {
	p := r.Profile
	if len(p) == 0 {
		p = r.env("AWS_PROFILE")
	}
	if len(p) == 0 {
		p = DefaultProfile
	}
	return p
}
