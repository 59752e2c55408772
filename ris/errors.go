package ris

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrorKind classifies why a call failed. The set is closed.
type ErrorKind int

const (
	KindUnclassified ErrorKind = iota
	KindTransport
	KindHTTPStatus
	KindTLSVerification
	KindParse
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTPStatus:
		return "http_status"
	case KindTLSVerification:
		return "tls_verification"
	case KindParse:
		return "parse"
	default:
		return "unclassified"
	}
}

var ErrNoHost = errors.New("no cluster host configured")

// Error is returned by every failed call.
type Error struct {
	Kind       ErrorKind
	Op         string // selectCmDeviceExt or getServerInfo
	URL        string
	StatusCode int    // set for KindHTTPStatus
	Status     string // set for KindHTTPStatus
	Fault      string // SOAP faultstring, when the server sent one
	PeerCert   string // SHA-256 fingerprint of the rejected certificate, set for KindTLSVerification
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.String())
	switch {
	case e.Kind == KindHTTPStatus:
		fmt.Fprintf(&b, " error: server returned %s", e.Status)
		if e.Fault != "" {
			fmt.Fprintf(&b, " (%s)", e.Fault)
		}
	case e.Err != nil:
		fmt.Fprintf(&b, " error: %v", e.Err)
	default:
		b.WriteString(" error")
	}
	if e.Kind == KindTLSVerification {
		if e.PeerCert != "" {
			fmt.Fprintf(&b, "; server certificate SHA-256 %s", e.PeerCert)
		}
		b.WriteString("; trust the cluster certificate with caCertFile, or set insecureSkipVerify (not recommended)")
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a non-nil error. Errors not produced by this package are unclassified.
func KindOf(err error) ErrorKind {
	var risErr *Error
	if errors.As(err, &risErr) {
		return risErr.Kind
	}
	return KindUnclassified
}

// peerCertificate returns the leaf certificate a verification error was raised for.
func peerCertificate(err error) *x509.Certificate {
	var verifyErr *tls.CertificateVerificationError
	if errors.As(err, &verifyErr) && len(verifyErr.UnverifiedCertificates) > 0 {
		return verifyErr.UnverifiedCertificates[0]
	}
	var authorityErr x509.UnknownAuthorityError
	if errors.As(err, &authorityErr) {
		return authorityErr.Cert
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return hostnameErr.Certificate
	}
	return nil
}

// classifyTransport sorts an error returned by http.Client.Do.
func classifyTransport(err error) ErrorKind {
	var (
		verifyErr   *tls.CertificateVerificationError
		authorityEr x509.UnknownAuthorityError
		hostnameErr x509.HostnameError
		invalidErr  x509.CertificateInvalidError
		netErr      net.Error
		urlErr      *url.Error
	)
	switch {
	case errors.As(err, &verifyErr),
		errors.As(err, &authorityEr),
		errors.As(err, &hostnameErr),
		errors.As(err, &invalidErr):
		return KindTLSVerification
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr),
		errors.As(err, &urlErr):
		return KindTransport
	default:
		return KindUnclassified
	}
}
