package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"

	"github.com/filxconnect/cli/pkg/config"
	"github.com/filxconnect/cli/pkg/logger"
)

// AuthUser is the external auth provider's view of a signed-in account
type AuthUser struct {
	UID          string
	Email        string
	IDToken      string
	RefreshToken string
}

// StateListener receives user-presence changes from the provider.
// A nil user means signed out.
type StateListener func(user *AuthUser)

var (
	providerClient *resty.Client

	mu          sync.Mutex
	listeners   map[int]StateListener
	nextID      int
	currentUser *AuthUser
)

func getProviderClient() *resty.Client {
	if providerClient == nil {
		providerClient = resty.New()
		providerClient.SetBaseURL(config.GetString("auth.base_url"))
		providerClient.SetTimeout(time.Duration(config.GetInt("api.timeout")) * time.Second)
		providerClient.SetHeader("Content-Type", "application/json")
	}
	return providerClient
}

// SetProviderURL points the bridge at a different provider origin (tests)
func SetProviderURL(url string) {
	getProviderClient().SetBaseURL(url)
}

type credentialsRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type credentialsResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func callProvider(ctx context.Context, endpoint, email, password string) (*AuthUser, error) {
	req := credentialsRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	resp, err := getProviderClient().
		R().
		SetContext(ctx).
		SetQueryParam("key", config.GetString("auth.api_key")).
		SetBody(reqBody).
		Post(endpoint)

	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		var perr providerError
		if json.Unmarshal(resp.Body(), &perr) == nil && perr.Error.Message != "" {
			return nil, fmt.Errorf("auth provider: %s", perr.Error.Message)
		}
		return nil, fmt.Errorf("auth provider: %s", resp.Status())
	}

	var credResp credentialsResponse
	if err := json.Unmarshal(resp.Body(), &credResp); err != nil {
		return nil, err
	}

	return &AuthUser{
		UID:          credResp.LocalID,
		Email:        credResp.Email,
		IDToken:      credResp.IDToken,
		RefreshToken: credResp.RefreshToken,
	}, nil
}

// SignUp registers a new email/password account with the provider
func SignUp(ctx context.Context, email, password string) (*AuthUser, error) {
	logger.Debug("Provider sign-up", "email", email)

	user, err := callProvider(ctx, "/accounts:signUp", email, password)
	if err != nil {
		return nil, err
	}

	notify(user)
	return user, nil
}

// SignIn authenticates an existing email/password account
func SignIn(ctx context.Context, email, password string) (*AuthUser, error) {
	logger.Debug("Provider sign-in", "email", email)

	user, err := callProvider(ctx, "/accounts:signInWithPassword", email, password)
	if err != nil {
		return nil, err
	}

	notify(user)
	return user, nil
}

// Lookup resolves the account behind an ID token. Used to validate
// that a cached session still maps to a live provider account.
func Lookup(ctx context.Context, idToken string) (*AuthUser, error) {
	logger.Debug("Provider account lookup")

	body, err := json.Marshal(map[string]string{"idToken": idToken})
	if err != nil {
		return nil, err
	}

	resp, err := getProviderClient().
		R().
		SetContext(ctx).
		SetQueryParam("key", config.GetString("auth.api_key")).
		SetBody(body).
		Post("/accounts:lookup")

	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		var perr providerError
		if json.Unmarshal(resp.Body(), &perr) == nil && perr.Error.Message != "" {
			return nil, fmt.Errorf("auth provider: %s", perr.Error.Message)
		}
		return nil, fmt.Errorf("auth provider: %s", resp.Status())
	}

	var lookupResp struct {
		Users []struct {
			LocalID string `json:"localId"`
			Email   string `json:"email"`
		} `json:"users"`
	}
	if err := json.Unmarshal(resp.Body(), &lookupResp); err != nil {
		return nil, err
	}
	if len(lookupResp.Users) == 0 {
		return nil, fmt.Errorf("auth provider: no account for token")
	}

	return &AuthUser{
		UID:     lookupResp.Users[0].LocalID,
		Email:   lookupResp.Users[0].Email,
		IDToken: idToken,
	}, nil
}

// SignOut drops the provider session and notifies listeners
func SignOut() {
	logger.Debug("Provider sign-out")
	notify(nil)
}

// OnAuthStateChanged subscribes to user-presence changes. The listener
// fires immediately with the current state, then on every change. The
// returned function unsubscribes.
func OnAuthStateChanged(fn StateListener) func() {
	mu.Lock()
	if listeners == nil {
		listeners = make(map[int]StateListener)
	}
	id := nextID
	nextID++
	listeners[id] = fn
	user := currentUser
	mu.Unlock()

	fn(user)

	return func() {
		mu.Lock()
		delete(listeners, id)
		mu.Unlock()
	}
}

func notify(user *AuthUser) {
	mu.Lock()
	currentUser = user
	subscribed := make([]StateListener, 0, len(listeners))
	for _, fn := range listeners {
		subscribed = append(subscribed, fn)
	}
	mu.Unlock()

	for _, fn := range subscribed {
		fn(user)
	}
}
