package apple

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt"
)

const appleRootCAG3RootPem = `-----BEGIN CERTIFICATE-----
MIICQzCCAcmgAwIBAgIILcX8iNLFS5UwCgYIKoZIzj0EAwMwZzEbMBkGA1UEAwwS
QXBwbGUgUm9vdCBDQSAtIEczMSYwJAYDVQQLDB1BcHBsZSBDZXJ0aWZpY2F0aW9u
IEF1dGhvcml0eTETMBEGA1UECgwKQXBwbGUgSW5jLjELMAkGA1UEBhMCVVMwHhcN
MTQwNDMwMTgxOTA2WhcNMzkwNDMwMTgxOTA2WjBnMRswGQYDVQQDDBJBcHBsZSBS
b290IENBIC0gRzMxJjAkBgNVBAsMHUFwcGxlIENlcnRpZmljYXRpb24gQXV0aG9y
aXR5MRMwEQYDVQQKDApBcHBsZSBJbmMuMQswCQYDVQQGEwJVUzB2MBAGByqGSM49
AgEGBSuBBAAiA2IABJjpLz1AcqTtkyJygRMc3RCV8cWjTnHcFBbZDuWmBSp3ZHtf
TjjTuxxEtX/1H7YyYl3J6YRbTzBPEVoA/VhYDKX1DyxNB0cTddqXl5dvMVztK517
IDvYuVTZXpmkOlEKMaNCMEAwHQYDVR0OBBYEFLuw3qFYM4iapIqZ3r6966/ayySr
MA8GA1UdEwEB/wQFMAMBAf8wDgYDVR0PAQH/BAQDAgEGMAoGCCqGSM49BAMDA2gA
MGUCMQCD6cHEFl4aXTQY2e3v9GwOAEZLuN+yRhHFD/3meoyhpmvOwgPUnPWTxnS4
at+qIxUCMG1mihDK1A3UT82NQz60imOlM27jbdoXt2QfyFMm+YhidDkLF1vLUagM
6BgD56KyKA==
-----END CERTIFICATE-----`

// ServerNotificationRequest is the webhook body Apple posts.
type ServerNotificationRequest struct {
	SignedPayload string `json:"signedPayload"`
}

type notificationHeader struct {
	Alg string   `json:"alg"`
	X5c []string `json:"x5c"`
}

// NotificationPayload is the decoded responseBodyV2 payload.
type NotificationPayload struct {
	NotificationType string `json:"notificationType"`
	Subtype          string `json:"subtype"`
	NotificationUUID string `json:"notificationUUID"`
	Data             struct {
		Environment           string `json:"environment"`
		BundleID              string `json:"bundleId"`
		SignedTransactionInfo string `json:"signedTransactionInfo"`
		SignedRenewalInfo     string `json:"signedRenewalInfo"`
	} `json:"data"`
	SignedDate int64 `json:"signedDate"`
}

func (p *NotificationPayload) Valid() error { return nil }

// TransactionInfo is the decoded JWSTransactionDecodedPayload.
type TransactionInfo struct {
	TransactionID         string  `json:"transactionId"`
	OriginalTransactionID string  `json:"originalTransactionId"`
	BundleID              string  `json:"bundleId"`
	ProductID             string  `json:"productId"`
	AppAccountToken       string  `json:"appAccountToken"`
	PurchaseDate          int64   `json:"purchaseDate"`
	ExpiresDate           int64   `json:"expiresDate"`
	RevocationDate        int64   `json:"revocationDate"`
	Price                 float64 `json:"price"`
	Currency              string  `json:"currency"`
}

func (t *TransactionInfo) Valid() error { return nil }

// RenewalInfo is the decoded JWSRenewalInfoDecodedPayload.
type RenewalInfo struct {
	OriginalTransactionID string `json:"originalTransactionId"`
	AutoRenewProductID    string `json:"autoRenewProductId"`
	AutoRenewStatus       int    `json:"autoRenewStatus"`
	RenewalDate           int64  `json:"renewalDate"`
}

func (r *RenewalInfo) Valid() error { return nil }

// ServerNotification is a parsed and signature-verified App Store server
// notification.
type ServerNotification struct {
	Payload            *NotificationPayload
	TransactionInfo    *TransactionInfo
	RenewalInfo        *RenewalInfo
	IsValid            bool
	IsTestNotification bool
	IsSandbox          bool

	appleRootCert string
}

// ParseServerNotification verifies the x5c certificate chain of the signed
// payload against the Apple Root CA and decodes the nested transaction and
// renewal JWS tokens.
func ParseServerNotification(signedPayload string) (*ServerNotification, error) {
	n := &ServerNotification{appleRootCert: appleRootCAG3RootPem}
	if err := n.parseSignedPayload(signedPayload); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *ServerNotification) extractHeaderByIndex(payload string, index int) ([]byte, error) {
	parts := strings.Split(payload, ".")
	if len(parts) < 2 {
		return nil, errors.New("malformed jws payload")
	}

	headerByte, err := base64.RawStdEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, err
	}

	var header notificationHeader
	if err := json.Unmarshal(headerByte, &header); err != nil {
		return nil, err
	}
	if index >= len(header.X5c) {
		return nil, errors.New("x5c chain shorter than expected")
	}

	return base64.StdEncoding.DecodeString(header.X5c[index])
}

func (n *ServerNotification) verifyCertificate(certByte []byte, intermediateCert []byte) error {
	roots := x509.NewCertPool()
	if ok := roots.AppendCertsFromPEM([]byte(n.appleRootCert)); !ok {
		return errors.New("root certificate couldn't be parsed")
	}

	interCert, err := x509.ParseCertificate(intermediateCert)
	if err != nil {
		return errors.New("intermediate certificate couldn't be parsed")
	}
	intermediate := x509.NewCertPool()
	intermediate.AddCert(interCert)

	cert, err := x509.ParseCertificate(certByte)
	if err != nil {
		return err
	}

	opts := x509.VerifyOptions{Roots: roots, Intermediates: intermediate}
	if _, err := cert.Verify(opts); err != nil {
		return err
	}
	return nil
}

func (n *ServerNotification) extractPublicKeyFromPayload(payload string) (*ecdsa.PublicKey, error) {
	certStr, err := n.extractHeaderByIndex(payload, 0)
	if err != nil {
		return nil, err
	}

	cert, err := x509.ParseCertificate(certStr)
	if err != nil {
		return nil, err
	}

	switch pk := cert.PublicKey.(type) {
	case *ecdsa.PublicKey:
		return pk, nil
	default:
		return nil, errors.New("appstore public key must be of type ecdsa.PublicKey")
	}
}

func (n *ServerNotification) parseSignedPayload(payload string) error {
	rootCertStr, err := n.extractHeaderByIndex(payload, 2)
	if err != nil {
		return err
	}
	intermediateCertStr, err := n.extractHeaderByIndex(payload, 1)
	if err != nil {
		return err
	}
	if err = n.verifyCertificate(rootCertStr, intermediateCertStr); err != nil {
		return err
	}

	notificationPayload := &NotificationPayload{}
	_, err = jwt.ParseWithClaims(payload, notificationPayload, func(token *jwt.Token) (interface{}, error) {
		return n.extractPublicKeyFromPayload(payload)
	})
	if err != nil {
		return err
	}
	n.Payload = notificationPayload
	n.IsTestNotification = notificationPayload.NotificationType == "TEST"
	n.IsSandbox = notificationPayload.Data.Environment == "Sandbox"

	if n.IsTestNotification {
		n.IsValid = true
		return nil
	}

	transactionInfo := &TransactionInfo{}
	signedTx := notificationPayload.Data.SignedTransactionInfo
	_, err = jwt.ParseWithClaims(signedTx, transactionInfo, func(token *jwt.Token) (interface{}, error) {
		return n.extractPublicKeyFromPayload(signedTx)
	})
	if err != nil {
		return err
	}
	n.TransactionInfo = transactionInfo

	if signedRenewal := notificationPayload.Data.SignedRenewalInfo; signedRenewal != "" {
		renewalInfo := &RenewalInfo{}
		_, err = jwt.ParseWithClaims(signedRenewal, renewalInfo, func(token *jwt.Token) (interface{}, error) {
			return n.extractPublicKeyFromPayload(signedRenewal)
		})
		if err != nil {
			return err
		}
		n.RenewalInfo = renewalInfo
	}

	n.IsValid = true
	return nil
}
