package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/cryzo-storefront/internal/model"
)

// RESTProvider talks to an identity-toolkit style REST API
// (accounts:signUp, accounts:signInWithPassword) authenticated by API key.
type RESTProvider struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewRESTProvider returns a provider rooted at baseURL. A nil client selects a
// traced client with a 10s timeout.
func NewRESTProvider(baseURL, apiKey string, hc *http.Client) *RESTProvider {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second, Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &RESTProvider{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, http: hc}
}

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type tokenResponse struct {
	IDToken      string `json:"idToken"`
	Email        string `json:"email"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
	DisplayName  string `json:"displayName"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *RESTProvider) SignUp(ctx context.Context, email, password string) (Credentials, error) {
	return p.call(ctx, "accounts:signUp", email, password)
}

func (p *RESTProvider) SignIn(ctx context.Context, email, password string) (Credentials, error) {
	return p.call(ctx, "accounts:signInWithPassword", email, password)
}

// SignOut is local only; ID tokens expire on their own.
func (p *RESTProvider) SignOut(context.Context, string) error {
	return nil
}

func (p *RESTProvider) call(ctx context.Context, method, email, password string) (Credentials, error) {
	body, err := json.Marshal(passwordRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return Credentials{}, errors.Wrap(err, "encode request")
	}
	u := p.baseURL + "/" + method + "?key=" + url.QueryEscape(p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return Credentials{}, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return Credentials{}, errors.Wrap(err, method)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Credentials{}, errors.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		if jerr := json.Unmarshal(raw, &er); jerr != nil || er.Error.Message == "" {
			return Credentials{}, errors.Errorf("%s: unexpected status %d", method, resp.StatusCode)
		}
		return Credentials{}, mapProviderError(er.Error.Message)
	}

	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return Credentials{}, errors.Wrap(err, "decode response")
	}
	creds := Credentials{
		User:         model.User{ID: tr.LocalID, Email: tr.Email, DisplayName: tr.DisplayName},
		IDToken:      tr.IDToken,
		RefreshToken: tr.RefreshToken,
	}
	if sec, err := strconv.Atoi(tr.ExpiresIn); err == nil {
		creds.ExpiresIn = time.Duration(sec) * time.Second
	}
	return creds, nil
}

// mapProviderError translates provider codes such as
// "TOO_MANY_ATTEMPTS_TRY_LATER : Access disabled" to sentinel errors.
func mapProviderError(msg string) error {
	code := strings.TrimSpace(strings.SplitN(msg, ":", 2)[0])
	switch code {
	case "EMAIL_EXISTS":
		return errors.Wrap(ErrEmailInUse, code)
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return errors.Wrap(ErrInvalidCredentials, code)
	case "EMAIL_NOT_FOUND":
		return errors.Wrap(ErrUserNotFound, code)
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return errors.Wrap(ErrTooManyAttempts, code)
	default:
		return errors.Errorf("identity provider: %s", msg)
	}
}
