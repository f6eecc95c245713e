package httpapi

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/fairyhunter13/cryzo-storefront/internal/cart"
	"github.com/fairyhunter13/cryzo-storefront/internal/identity"
	"github.com/fairyhunter13/cryzo-storefront/internal/model"
	"github.com/fairyhunter13/cryzo-storefront/internal/obs"
	"github.com/fairyhunter13/cryzo-storefront/internal/state"
	"github.com/fairyhunter13/cryzo-storefront/internal/view"
)

type viewState struct {
	View        view.View `json:"view"`
	ShowsChrome bool      `json:"shows_chrome"`
	Legal       bool      `json:"legal"`
	CartUnits   int       `json:"cart_units"`
	Saved       int       `json:"saved"`
}

type setViewRequest struct {
	View string `json:"view"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	User *model.User `json:"user"`
}

func describe(s state.AppState) viewState {
	v := s.View()
	return viewState{
		View:        v,
		ShowsChrome: view.ShowsChrome(v),
		Legal:       view.IsLegal(v),
		CartUnits:   cart.Units(s.Cart),
		Saved:       len(s.Saved),
	}
}

func (a *App) getViewHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, describe(a.Sessions.Get(SessionIDFromContext(r.Context()))))
}

func (a *App) setViewHandler(w http.ResponseWriter, r *http.Request) {
	var req setViewRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeDecodeError(w, err)
		return
	}
	v, err := view.Parse(req.View)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "unknown_view", err.Error())
		return
	}
	s := a.Sessions.Update(SessionIDFromContext(r.Context()), func(s state.AppState) state.AppState {
		return state.SetView(s, v)
	})
	writeJSON(w, http.StatusOK, describe(s))
}

// writeAuthError maps identity failures to responses. Validation failures are
// reported per field.
func writeAuthError(w http.ResponseWriter, err error) {
	var fe identity.FieldErrors
	if errors.As(err, &fe) {
		writeFieldErrors(w, fe)
		return
	}
	msg := identity.Message(err)
	switch {
	case errors.Is(err, identity.ErrEmailInUse):
		WriteJSONError(w, http.StatusConflict, "email_in_use", msg)
	case errors.Is(err, identity.ErrInvalidCredentials), errors.Is(err, identity.ErrUserNotFound):
		WriteJSONError(w, http.StatusUnauthorized, "invalid_credentials", msg)
	case errors.Is(err, identity.ErrTooManyAttempts):
		WriteJSONError(w, http.StatusTooManyRequests, "too_many_attempts", msg)
	case errors.Is(err, identity.ErrNotSignedIn):
		WriteJSONError(w, http.StatusUnauthorized, "not_signed_in", "")
	default:
		obs.Logger.Error("identity_provider_error", zap.Error(err))
		WriteJSONError(w, http.StatusBadGateway, "identity_unavailable", msg)
	}
}

func (a *App) signUpHandler(w http.ResponseWriter, r *http.Request) {
	a.authenticate(w, r, a.Auth.SignUp, http.StatusCreated)
}

func (a *App) signInHandler(w http.ResponseWriter, r *http.Request) {
	a.authenticate(w, r, a.Auth.SignIn, http.StatusOK)
}

type authFunc func(ctx context.Context, sessionID, email, password string) (model.User, error)

func (a *App) authenticate(w http.ResponseWriter, r *http.Request, fn authFunc, status int) {
	var req credentialsRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeDecodeError(w, err)
		return
	}
	sid := SessionIDFromContext(r.Context())
	u, err := fn(r.Context(), sid, req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	a.Sessions.Update(sid, func(s state.AppState) state.AppState { return state.SetView(s, view.Home) })
	obs.Logger.Info("user_signed_in", zap.String("session_id", sid), zap.String("user_id", u.ID))
	writeJSON(w, status, userResponse{User: &u})
}

func (a *App) signOutHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.Auth.SignOut(r.Context(), SessionIDFromContext(r.Context())); err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{})
}

func (a *App) meHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userResponse{User: a.Auth.Current(SessionIDFromContext(r.Context()))})
}
