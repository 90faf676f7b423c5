// Package uri validates the host names a client resolves endpoints and host
// prefixes to.
package uri

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

const maxHostLen = 255

// ValidPortNumber reports whether port is a decimal port in [0, 65535].
func ValidPortNumber(port string) bool {
	i, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return i >= 0 && i <= 65535
}

// ValidHostLabel reports whether label is a single RFC 1123 DNS label. Labels
// substituted into host prefixes are checked with it before being sent.
func ValidHostLabel(label string) bool {
	if l := len(label); l < 1 || l > 63 {
		return false
	}
	if !isAlphaNum(label[0]) || !isAlphaNum(label[len(label)-1]) {
		return false
	}
	for i := 1; i < len(label)-1; i++ {
		if c := label[i]; !isAlphaNum(c) && c != '-' {
			return false
		}
	}
	return true
}

// ValidateHost checks an endpoint host with an optional port. A single
// trailing dot is allowed for fully qualified names, and an empty host is
// left for the transport to fill from the URL. Every problem found is
// reported in the returned error.
func ValidateHost(host string) error {
	hostname, port := host, ""
	var errs []error

	if strings.Contains(host, ":") {
		var err error
		hostname, port, err = net.SplitHostPort(host)
		if err != nil {
			errs = append(errs, fmt.Errorf("parse %q, %w", host, err))
		}
		if !ValidPortNumber(port) {
			errs = append(errs, fmt.Errorf("port number should be in range [0-65535], got %q", port))
		}
	}

	labels := strings.Split(hostname, ".")
	for i, label := range labels {
		if i == len(labels)-1 && len(label) == 0 {
			continue
		}
		if !ValidHostLabel(label) {
			errs = append(errs, fmt.Errorf("host label %q must match [a-zA-Z0-9-]{1,63}", label))
		}
	}

	if len(hostname) == 0 && len(port) != 0 {
		errs = append(errs, errors.New("host with port must not be empty"))
	}
	if len(hostname) > maxHostLen {
		errs = append(errs, fmt.Errorf("host must be at most %d characters, got %d", maxHostLen, len(hostname)))
	}

	if len(errs) != 0 {
		return fmt.Errorf("invalid endpoint host %q, %w", host, errors.Join(errs...))
	}
	return nil
}

func isAlphaNum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
