package cloudclient_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/uc-client/pkg/cloudclient"
)

func TestCertificateFromPEM(t *testing.T) {
	t.Parallel()

	t.Run("single certificate", func(t *testing.T) {
		t.Parallel()

		cert, err := cloudclient.CertificateFromPEM(newTestCertificatePEM(t, "root-a"))
		require.NoError(t, err)
		assert.Equal(t, "root-a", cert.X509().Subject.CommonName)
	})

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()

		_, err := cloudclient.CertificateFromPEM([]byte("not a certificate"))
		require.ErrorIs(t, err, cloudclient.ErrInvalidCertificate)
	})

	t.Run("more than one certificate", func(t *testing.T) {
		t.Parallel()

		bundle := append(newTestCertificatePEM(t, "a"), newTestCertificatePEM(t, "b")...)
		_, err := cloudclient.CertificateFromPEM(bundle)
		require.ErrorIs(t, err, cloudclient.ErrInvalidCertificate)
	})
}

func TestCertificatesFromPEMBundle(t *testing.T) {
	t.Parallel()

	names := []string{"root-a", "root-b", "root-c"}

	var bundle bytes.Buffer
	for _, name := range names {
		bundle.Write(newTestCertificatePEM(t, name))
	}

	t.Run("preserves order", func(t *testing.T) {
		t.Parallel()

		certs, err := cloudclient.CertificatesFromPEMBundle(bundle.Bytes())
		require.NoError(t, err)
		require.Len(t, certs, len(names))

		for i, cert := range certs {
			assert.Equal(t, names[i], cert.X509().Subject.CommonName)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		certs, err := cloudclient.CertificatesFromPEMBundle([]byte("\n  \n"))
		require.NoError(t, err)
		assert.Empty(t, certs)
	})

	t.Run("corrupted block", func(t *testing.T) {
		t.Parallel()

		corrupted := bytes.Join([][]byte{
			newTestCertificatePEM(t, "a"),
			[]byte("-----BEGIN CERTIFICATE-----\n%%%not base64%%%\n-----END CERTIFICATE-----\n"),
			newTestCertificatePEM(t, "c"),
		}, nil)

		_, err := cloudclient.CertificatesFromPEMBundle(corrupted)
		require.ErrorIs(t, err, cloudclient.ErrInvalidCertificate)
	})

	t.Run("truncated", func(t *testing.T) {
		t.Parallel()

		data := bundle.Bytes()
		_, err := cloudclient.CertificatesFromPEMBundle(data[:len(data)-40])
		require.ErrorIs(t, err, cloudclient.ErrInvalidCertificate)
	})
}

func TestCertificateFromDER(t *testing.T) {
	t.Parallel()

	cert, err := cloudclient.CertificateFromDER(newTestCertificateDER(t, "der"))
	require.NoError(t, err)
	assert.Equal(t, "der", cert.X509().Subject.CommonName)

	_, err = cloudclient.CertificateFromDER([]byte{0x30, 0x01})
	require.ErrorIs(t, err, cloudclient.ErrInvalidCertificate)
}
