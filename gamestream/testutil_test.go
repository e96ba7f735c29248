package gamestream

import (
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"gostream/crypto"
)

// fakeTransport records every request URL and delegates to a scripted
// handler, standing in for the HTTP backend.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []string
	handler func(req *http.Request) (*http.Response, error)
}

func (f *fakeTransport) Do(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.URL.String())
	f.mu.Unlock()
	return f.handler(req)
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeTransport) callsMatching(substr string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, call := range f.calls {
		if strings.Contains(call, substr) {
			out = append(out, call)
		}
	}
	return out
}

func xmlResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func rawResponse(body []byte) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(string(body))),
	}
}

func okFields(fields ...string) string {
	return `<root status_code="200">` + strings.Join(fields, "") + `</root>`
}

func newTestClient(t *testing.T, transport Doer, opts Options) *Client {
	t.Helper()
	identity, err := crypto.GenerateIdentity()
	if err != nil {
		t.Fatalf("generate client identity: %v", err)
	}
	opts.Transport = transport
	client, err := NewClient(identity, opts)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

// fakeHost implements the host side of the five-stage handshake so the
// whole exchange can run against real crypto.
type fakeHost struct {
	t        *testing.T
	identity *crypto.Identity
	suite    crypto.Suite
	pin      string

	// refuseAt makes the host answer paired=0 at the given stage (1-5).
	refuseAt int
	// forgeSignature signs the server secret with an unrelated key.
	forgeSignature bool

	aesKey          []byte
	clientChallenge []byte
	serverSecret    crypto.Secret
}

func newFakeHost(t *testing.T, majorVersion int, pin string) *fakeHost {
	t.Helper()
	identity, err := crypto.GenerateIdentity()
	if err != nil {
		t.Fatalf("generate host identity: %v", err)
	}
	return &fakeHost{
		t:        t,
		identity: identity,
		suite:    crypto.SuiteFor(majorVersion),
		pin:      pin,
	}
}

func (h *fakeHost) refuse() *http.Response {
	return xmlResponse(okFields("<paired>0</paired>"))
}

func (h *fakeHost) handle(req *http.Request) (*http.Response, error) {
	if req.URL.Path == "/unpair" {
		return xmlResponse(okFields()), nil
	}
	if req.URL.Path != "/pair" {
		h.t.Fatalf("unexpected request path %q", req.URL.Path)
	}

	query := req.URL.Query()
	switch {
	case query.Get("phrase") == "getservercert":
		return h.stageServerCert(query.Get("salt"))
	case query.Get("clientchallenge") != "":
		return h.stageChallengeResponse(query.Get("clientchallenge"))
	case query.Get("serverchallengeresp") != "":
		return h.stagePairingSecret()
	case query.Get("clientpairingsecret") != "":
		if h.refuseAt == 4 {
			return h.refuse(), nil
		}
		return xmlResponse(okFields("<paired>1</paired>")), nil
	case query.Get("phrase") == "pairchallenge":
		if h.refuseAt == 5 {
			return h.refuse(), nil
		}
		return xmlResponse(okFields("<paired>1</paired>")), nil
	}

	h.t.Fatalf("unrecognized pair request %q", req.URL.String())
	return nil, nil
}

func (h *fakeHost) stageServerCert(saltHex string) (*http.Response, error) {
	if h.refuseAt == 1 {
		return h.refuse(), nil
	}

	saltBytes, err := hex.DecodeString(saltHex)
	if err != nil || len(saltBytes) != crypto.SecretSize {
		h.t.Fatalf("bad salt %q", saltHex)
	}
	var salt crypto.Salt
	copy(salt[:], saltBytes)
	h.aesKey = h.suite.PINKey(salt, h.pin)

	return xmlResponse(okFields(
		"<paired>1</paired>",
		fmt.Sprintf("<plaincert>%s</plaincert>", hex.EncodeToString(h.identity.CertPEM)),
	)), nil
}

func (h *fakeHost) stageChallengeResponse(challengeHex string) (*http.Response, error) {
	if h.refuseAt == 2 {
		return h.refuse(), nil
	}

	encrypted, err := hex.DecodeString(challengeHex)
	if err != nil {
		h.t.Fatalf("bad clientchallenge %q", challengeHex)
	}
	decrypted, err := crypto.DecryptAES(h.aesKey, encrypted)
	if err != nil {
		h.t.Fatalf("decrypt client challenge: %v", err)
	}
	h.clientChallenge = decrypted[:crypto.SecretSize]

	serverChallenge, err := crypto.NewChallenge()
	if err != nil {
		h.t.Fatalf("generate server challenge: %v", err)
	}
	h.serverSecret, err = crypto.NewSecret()
	if err != nil {
		h.t.Fatalf("generate server secret: %v", err)
	}

	proof := h.suite.Sum(h.clientChallenge, crypto.CertSignature(h.identity.Cert), h.serverSecret[:])
	payload := append(append([]byte{}, proof...), serverChallenge[:]...)
	encryptedPayload, err := crypto.EncryptAES(h.aesKey, payload)
	if err != nil {
		h.t.Fatalf("encrypt challenge response: %v", err)
	}

	return xmlResponse(okFields(
		"<paired>1</paired>",
		fmt.Sprintf("<challengeresponse>%s</challengeresponse>", hex.EncodeToString(encryptedPayload)),
	)), nil
}

func (h *fakeHost) stagePairingSecret() (*http.Response, error) {
	if h.refuseAt == 3 {
		return h.refuse(), nil
	}

	signingKey := h.identity.Key
	if h.forgeSignature {
		forged, err := crypto.GenerateIdentity()
		if err != nil {
			h.t.Fatalf("generate forged identity: %v", err)
		}
		signingKey = forged.Key
	}
	signature, err := crypto.Sign(signingKey, h.serverSecret[:])
	if err != nil {
		h.t.Fatalf("sign server secret: %v", err)
	}

	secret := append(append([]byte{}, h.serverSecret[:]...), signature...)
	return xmlResponse(okFields(
		"<paired>1</paired>",
		fmt.Sprintf("<pairingsecret>%s</pairingsecret>", hex.EncodeToString(secret)),
	)), nil
}
