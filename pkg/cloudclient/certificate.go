package cloudclient

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

const pemCertificateType = "CERTIFICATE"

var pemCertificateHeader = []byte("-----BEGIN " + pemCertificateType + "-----")

// Certificate is a parsed X.509 certificate that can be added to the trusted
// roots of a client. A Certificate is immutable and safe to share.
type Certificate struct {
	cert *x509.Certificate
}

// CertificateFromPEM parses exactly one PEM encoded certificate.
func CertificateFromPEM(data []byte) (*Certificate, error) {
	block, rest := pem.Decode(data)
	if block == nil || block.Type != pemCertificateType {
		return nil, fmt.Errorf("%w: no PEM certificate found", ErrInvalidCertificate)
	}

	if bytes.Contains(rest, pemCertificateHeader) {
		return nil, fmt.Errorf("%w: expected a single certificate", ErrInvalidCertificate)
	}

	return CertificateFromDER(block.Bytes)
}

// CertificatesFromPEMBundle parses every certificate in a PEM bundle, in the
// order they appear. An empty bundle yields an empty slice. Any block that
// cannot be decoded fails the whole bundle.
func CertificatesFromPEMBundle(data []byte) ([]*Certificate, error) {
	expected := bytes.Count(data, pemCertificateHeader)
	certs := make([]*Certificate, 0, expected)

	rest := data
	for {
		var block *pem.Block

		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}

		if block.Type != pemCertificateType {
			continue
		}

		cert, err := CertificateFromDER(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("certificate %d in bundle: %w", len(certs)+1, err)
		}

		certs = append(certs, cert)
	}

	if len(certs) != expected {
		return nil, fmt.Errorf("%w: decoded %d of %d certificates in bundle", ErrInvalidCertificate, len(certs), expected)
	}

	return certs, nil
}

// CertificateFromDER parses a single DER encoded certificate.
func CertificateFromDER(der []byte) (*Certificate, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCertificate, err)
	}

	return &Certificate{cert: cert}, nil
}

// X509 returns the parsed certificate. Callers must not modify it.
func (c *Certificate) X509() *x509.Certificate {
	return c.cert
}
