package gamestream

import (
	"context"
	"crypto/hmac"
	"crypto/x509"
	"encoding/hex"
	"fmt"

	"gostream/crypto"
)

// pairingSession is the transient state of one pairing attempt. It lives on
// the stack of Pair, is owned by a single caller, and must never be
// persisted or reused across attempts.
type pairingSession struct {
	suite  crypto.Suite
	aesKey []byte

	salt            crypto.Salt
	clientChallenge crypto.Challenge
	clientSecret    crypto.Secret

	serverCert      *x509.Certificate
	serverProof     []byte
	serverChallenge []byte
}

// Pair runs the five-stage handshake that establishes certificate-based
// mutual trust with a host. pin is the short code the user typed on the
// host side. On any failure after the precondition checks, a best-effort
// unpair request is issued so the host is not left half-paired under this
// client's identity.
func (c *Client) Pair(ctx context.Context, srv *Server, pin string) (err error) {
	if srv.Paired {
		return fmt.Errorf("%w: already paired with %s", ErrWrongState, srv.Address)
	}
	if srv.CurrentGame != 0 {
		return fmt.Errorf("%w: the host is running an application; quit it before pairing", ErrWrongState)
	}

	c.logger.Info("pairing with host",
		"host", srv.Address,
		"generation", srv.MajorVersion())

	defer func() {
		if err == nil {
			return
		}
		// The unpair must run even when the failure was a cancelled or
		// expired context, hence the detached context.
		if unpairErr := c.Unpair(context.WithoutCancel(ctx), srv); unpairErr != nil {
			c.logger.Warn("best-effort unpair after failed pairing",
				"host", srv.Address,
				"error", unpairErr)
		}
	}()

	session := &pairingSession{suite: crypto.SuiteFor(srv.MajorVersion())}

	if err := c.pairGetServerCert(ctx, srv, session, pin); err != nil {
		return err
	}
	if err := c.pairSendChallenge(ctx, srv, session); err != nil {
		return err
	}
	if err := c.pairSendChallengeResponse(ctx, srv, session); err != nil {
		return err
	}
	if err := c.pairSendPairingSecret(ctx, srv, session); err != nil {
		return err
	}
	if err := c.pairChallenge(ctx, srv); err != nil {
		return err
	}

	srv.Paired = true
	return nil
}

// pairGetServerCert is stage 1: send the salt and our certificate with the
// getservercert phrase, derive the handshake key, and receive the host's
// certificate. The digest family picked here is fixed for the whole
// attempt.
func (c *Client) pairGetServerCert(ctx context.Context, srv *Server, session *pairingSession, pin string) error {
	salt, err := crypto.NewSalt()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPairingFailed, err)
	}
	session.salt = salt
	session.aesKey = session.suite.PINKey(salt, pin)

	url := fmt.Sprintf("http://%s:%d/pair?uniqueid=%s&devicename=%s&updateState=1&phrase=getservercert&salt=%s&clientcert=%s",
		srv.Address, srv.HTTPPort, c.uniqueID, c.deviceName,
		hex.EncodeToString(salt[:]), hex.EncodeToString(c.identity.CertPEM))
	doc, err := c.pairExchange(ctx, url)
	if err != nil {
		return err
	}

	certHex, err := doc.requiredField("plaincert")
	if err != nil {
		return err
	}
	certPEM, err := hex.DecodeString(certHex)
	if err != nil {
		return fmt.Errorf("%w: undecodable plaincert: %v", ErrInvalidResponse, err)
	}
	serverCert, err := crypto.ParseCertPEM(certPEM)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	session.serverCert = serverCert

	return nil
}

// pairSendChallenge is stage 2: send our encrypted random challenge and
// split the host's encrypted reply into its proof hash and its challenge.
func (c *Client) pairSendChallenge(ctx context.Context, srv *Server, session *pairingSession) error {
	challenge, err := crypto.NewChallenge()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPairingFailed, err)
	}
	session.clientChallenge = challenge

	encrypted, err := crypto.EncryptAES(session.aesKey, challenge[:])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPairingFailed, err)
	}

	url := fmt.Sprintf("http://%s:%d/pair?uniqueid=%s&devicename=%s&updateState=1&clientchallenge=%s",
		srv.Address, srv.HTTPPort, c.uniqueID, c.deviceName, hex.EncodeToString(encrypted))
	doc, err := c.pairExchange(ctx, url)
	if err != nil {
		return err
	}

	responseHex, err := doc.requiredField("challengeresponse")
	if err != nil {
		return err
	}
	encryptedResponse, err := hex.DecodeString(responseHex)
	if err != nil {
		return fmt.Errorf("%w: undecodable challengeresponse: %v", ErrInvalidResponse, err)
	}
	response, err := crypto.DecryptAES(session.aesKey, encryptedResponse)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	hashLen := session.suite.Size()
	if len(response) < hashLen+crypto.SecretSize {
		return fmt.Errorf("%w: short challenge response", ErrInvalidResponse)
	}
	session.serverProof = response[:hashLen]
	session.serverChallenge = response[hashLen : hashLen+crypto.SecretSize]

	return nil
}

// pairSendChallengeResponse is stage 3: answer the host's challenge, then
// verify the secret the host discloses. The signature check guards against
// a man-in-the-middle; the proof check catches a mistyped PIN before we
// reveal anything signed by our key.
func (c *Client) pairSendChallengeResponse(ctx context.Context, srv *Server, session *pairingSession) error {
	secret, err := crypto.NewSecret()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPairingFailed, err)
	}
	session.clientSecret = secret

	responseHash := session.suite.Sum(
		session.serverChallenge,
		crypto.CertSignature(c.identity.Cert),
		secret[:])
	encrypted, err := crypto.EncryptAES(session.aesKey, responseHash)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPairingFailed, err)
	}

	url := fmt.Sprintf("http://%s:%d/pair?uniqueid=%s&devicename=%s&updateState=1&serverchallengeresp=%s",
		srv.Address, srv.HTTPPort, c.uniqueID, c.deviceName, hex.EncodeToString(encrypted))
	doc, err := c.pairExchange(ctx, url)
	if err != nil {
		return err
	}

	secretHex, err := doc.requiredField("pairingsecret")
	if err != nil {
		return err
	}
	pairingSecret, err := hex.DecodeString(secretHex)
	if err != nil {
		return fmt.Errorf("%w: undecodable pairingsecret: %v", ErrInvalidResponse, err)
	}
	if len(pairingSecret) < crypto.SecretSize+crypto.SignatureSize {
		return fmt.Errorf("%w: short pairingsecret", ErrInvalidResponse)
	}
	serverSecret := pairingSecret[:crypto.SecretSize]
	serverSignature := pairingSecret[crypto.SecretSize : crypto.SecretSize+crypto.SignatureSize]

	if !crypto.Verify(session.serverCert, serverSecret, serverSignature) {
		return fmt.Errorf("%w: host signature verification failed, possible man-in-the-middle", ErrPairingFailed)
	}

	expectedProof := session.suite.Sum(
		session.clientChallenge[:],
		crypto.CertSignature(session.serverCert),
		serverSecret)
	if !hmac.Equal(session.serverProof, expectedProof) {
		return fmt.Errorf("%w: host proof mismatch, check the PIN and try again", ErrPairingFailed)
	}

	return nil
}

// pairSendPairingSecret is stage 4: disclose our secret together with its
// signature so the host can run the mirror of the stage 3 checks.
func (c *Client) pairSendPairingSecret(ctx context.Context, srv *Server, session *pairingSession) error {
	signature, err := crypto.Sign(c.identity.Key, session.clientSecret[:])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPairingFailed, err)
	}

	pairingSecret := make([]byte, 0, crypto.SecretSize+len(signature))
	pairingSecret = append(pairingSecret, session.clientSecret[:]...)
	pairingSecret = append(pairingSecret, signature...)

	url := fmt.Sprintf("http://%s:%d/pair?uniqueid=%s&devicename=%s&updateState=1&clientpairingsecret=%s",
		srv.Address, srv.HTTPPort, c.uniqueID, c.deviceName, hex.EncodeToString(pairingSecret))
	_, err = c.pairExchange(ctx, url)
	return err
}

// pairChallenge is stage 5: the final confirmation phrase, sent over the
// secure channel now that both sides hold each other's certificate.
func (c *Client) pairChallenge(ctx context.Context, srv *Server) error {
	url := fmt.Sprintf("https://%s:%d/pair?uniqueid=%s&devicename=%s&updateState=1&phrase=pairchallenge",
		srv.Address, srv.HTTPSPort, c.uniqueID, c.deviceName)
	_, err := c.pairExchange(ctx, url)
	return err
}

// pairExchange performs one handshake round-trip and validates the host's
// status and paired acknowledgment.
func (c *Client) pairExchange(ctx context.Context, url string) (*document, error) {
	doc, err := c.getDocument(ctx, url, c.timeouts.Long)
	if err != nil {
		return nil, err
	}

	ack, err := doc.requiredField("paired")
	if err != nil {
		return nil, err
	}
	if ack != "1" {
		return nil, fmt.Errorf("%w: host refused the handshake stage", ErrPairingFailed)
	}
	return doc, nil
}

// Unpair asks the host to drop this client's pairing. It is idempotent and
// safe to call whether or not a pairing exists.
func (c *Client) Unpair(ctx context.Context, srv *Server) error {
	url := fmt.Sprintf("http://%s:%d/unpair?uniqueid=%s", srv.Address, srv.HTTPPort, c.uniqueID)
	if _, err := c.get(ctx, url, c.timeouts.Short); err != nil {
		return err
	}
	srv.Paired = false
	return nil
}
