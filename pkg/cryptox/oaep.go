package cryptox

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"strings"
)

const (
	pemCertBegin = "-----BEGIN CERTIFICATE-----"
	pemCertEnd   = "-----END CERTIFICATE-----"
)

// NormalizeCertificatePEM ensures the given key material carries PEM armor.
// The KSeF certificate listing sometimes returns raw base64 DER without
// delimiters; in that case the body is wrapped in CERTIFICATE armor so it can
// be decoded uniformly.
func NormalizeCertificatePEM(material string) string {
	material = strings.TrimSpace(material)
	if strings.Contains(material, "BEGIN CERTIFICATE") {
		return material
	}
	return pemCertBegin + "\n" + material + "\n" + pemCertEnd
}

// ParseEncryptionKey extracts the RSA public key from PEM-armored certificate
// or public key material. Raw base64 DER (no armor) is accepted and treated as
// a certificate body.
func ParseEncryptionKey(material string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(NormalizeCertificatePEM(material)))
	if block == nil {
		return nil, fmt.Errorf("cryptox: key material is not valid PEM or base64 DER")
	}

	if cert, err := x509.ParseCertificate(block.Bytes); err == nil {
		pub, ok := cert.PublicKey.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("cryptox: certificate does not carry an RSA public key")
		}
		return pub, nil
	}

	// Not a certificate; try bare public key encodings.
	if pub, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		rsaPub, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("cryptox: public key is not RSA")
		}
		return rsaPub, nil
	}
	if pub, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return pub, nil
	}

	return nil, fmt.Errorf("cryptox: unable to parse RSA public key from key material")
}

// EncryptOAEP encrypts plaintext with RSA-OAEP using a SHA-256 digest and
// returns the ciphertext base64-encoded for JSON transport.
func EncryptOAEP(pub *rsa.PublicKey, plaintext []byte) (string, error) {
	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, plaintext, nil)
	if err != nil {
		return "", fmt.Errorf("cryptox: RSA-OAEP encryption failed: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
