package http

import (
	"context"
	"fmt"
	"strings"

	"github.com/smithy-lang/smithy-go-client/middleware"
	"github.com/smithy-lang/smithy-go-client/middleware/id"
)

var validChars = map[rune]bool{
	'!': true, '#': true, '$': true, '%': true, '&': true, '\'': true, '*': true, '+': true,
	'-': true, '.': true, '^': true, '_': true, '`': true, '|': true, '~': true,
}

// UserAgentBuilder is a builder for a HTTP User-Agent string.
type UserAgentBuilder struct {
	sb strings.Builder
}

// NewUserAgentBuilder returns a new UserAgentBuilder.
func NewUserAgentBuilder() *UserAgentBuilder {
	return &UserAgentBuilder{sb: strings.Builder{}}
}

// AddKey adds the named component/product to the agent string
func (u *UserAgentBuilder) AddKey(key string) {
	u.appendTo(key)
}

// AddKeyValue adds the named key to the agent string with the given value.
func (u *UserAgentBuilder) AddKeyValue(key, value string) {
	u.appendTo(key + "#" + strings.Map(rules, value))
}

// Build returns the constructed User-Agent string. May be called multiple times.
func (u *UserAgentBuilder) Build() string {
	return u.sb.String()
}

func (u *UserAgentBuilder) appendTo(value string) {
	if u.sb.Len() > 0 {
		u.sb.WriteRune(' ')
	}
	u.sb.WriteString(value)
}

func rules(r rune) rune {
	switch {
	case r >= '0' && r <= '9':
		return r
	case r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z':
		return r
	case validChars[r]:
		return r
	default:
		return '-'
	}
}

// userAgent appends its value to the request's User-Agent header.
type userAgent struct {
	value string
}

// AddUserAgentMiddleware adds a build step middleware that appends the agent
// string built from keys to the request's User-Agent header. Keys in the
// "name/value" form have their value sanitized.
func AddUserAgentMiddleware(stack *middleware.Stack, keys ...string) error {
	b := NewUserAgentBuilder()
	for _, k := range keys {
		if name, value, ok := strings.Cut(k, "#"); ok {
			b.AddKeyValue(name, value)
		} else {
			b.AddKey(k)
		}
	}
	return stack.Build.Add(&userAgent{value: b.Build()}, middleware.After)
}

func (*userAgent) ID() string { return id.UserAgent }

func (m *userAgent) HandleBuild(ctx context.Context, in middleware.BuildInput, next middleware.BuildHandler) (
	out middleware.BuildOutput, metadata middleware.Metadata, err error,
) {
	req, ok := in.Request.(*Request)
	if !ok {
		return out, metadata, fmt.Errorf("unknown request type %T", in.Request)
	}

	if len(m.value) != 0 {
		if current := req.Header.Get("User-Agent"); len(current) != 0 {
			req.Header.Set("User-Agent", current+" "+m.value)
		} else {
			req.Header.Set("User-Agent", m.value)
		}
	}
	return next.HandleBuild(ctx, in)
}
