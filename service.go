package main

import (
	"context"
	"fmt"
	"time"
)

// Federation authenticates an OAuth authorization code against an external
// identity provider and returns the verified profile.
type Federation interface {
	Authenticate(ctx context.Context, code string) (*FederatedProfile, error)
}

// AccountService orchestrates registration, login, federated login and
// profile reads/updates. It is the only component touching the store, the
// hasher, the token service and the federation adapter together.
type AccountService struct {
	store      Store
	federation Federation
}

func NewAccountService(store Store, federation Federation) *AccountService {
	return &AccountService{store: store, federation: federation}
}

// Register creates a new local account and issues a session token.
func (s *AccountService) Register(req RegisterRequest) (*ProfileResponse, error) {
	existing, err := s.store.GetAccount(req.Email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	account := &Account{
		Email:          req.Email,
		HashedPassword: hashed,
		Name:           req.Name,
		Company:        req.Company,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.PutAccount(account); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	return s.respondWithToken(account)
}

// Login authenticates local credentials. Unknown email and wrong password
// fail identically so callers cannot probe which emails are registered.
func (s *AccountService) Login(req LoginRequest) (*ProfileResponse, error) {
	account, err := s.store.GetAccount(req.Email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if account == nil || !comparePassword(account.HashedPassword, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.respondWithToken(account)
}

// FederatedLogin logs in (or first registers) a user through the identity
// provider. A brand-new email gets an account with an empty password hash
// and the federation-derived name and company. An existing account is
// reused as-is; federation fields are never merged into it.
func (s *AccountService) FederatedLogin(ctx context.Context, code string) (*ProfileResponse, error) {
	profile, err := s.federation.Authenticate(ctx, code)
	if err != nil {
		return nil, err
	}

	account, err := s.store.GetAccount(profile.Email)
	if err != nil {
		return nil, fmt.Errorf("federated login: %w", err)
	}
	if account == nil {
		now := time.Now().UTC()
		account = &Account{
			Email:     profile.Email,
			Name:      profile.DisplayName(),
			Company:   profile.Company,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.PutAccount(account); err != nil {
			return nil, fmt.Errorf("federated login: %w", err)
		}
	}
	return s.respondWithToken(account)
}

// GetProfile verifies the token and returns the subject's profile. The
// token field in the response stays empty.
func (s *AccountService) GetProfile(token string) (*ProfileResponse, error) {
	account, err := s.currentAccount(token)
	if err != nil {
		return nil, err
	}
	return profileOf(account), nil
}

// UpdateProfile applies the non-empty fields of the patch and bumps the
// modification timestamp. Email and password hash are never touched.
// An empty patch field is indistinguishable from an absent one, so a
// field cannot be cleared to empty through this call.
func (s *AccountService) UpdateProfile(token string, patch ProfilePatch) (*ProfileResponse, error) {
	account, err := s.currentAccount(token)
	if err != nil {
		return nil, err
	}

	if patch.Name != "" {
		account.Name = patch.Name
	}
	if patch.Company != "" {
		account.Company = patch.Company
	}
	if patch.APIKey != "" {
		account.APIKey = patch.APIKey
	}
	account.UpdatedAt = time.Now().UTC()

	if err := s.store.PutAccount(account); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profileOf(account), nil
}

// currentAccount resolves a session token to its account record. The
// subject may have vanished if the store was cleared out from under us.
func (s *AccountService) currentAccount(token string) (*Account, error) {
	email, err := verifyToken(token)
	if err != nil {
		return nil, err
	}
	account, err := s.store.GetAccount(email)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if account == nil {
		return nil, ErrUserNotFound
	}
	return account, nil
}

func (s *AccountService) respondWithToken(account *Account) (*ProfileResponse, error) {
	token, err := issueToken(account.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	resp := profileOf(account)
	resp.Token = token
	return resp, nil
}

func profileOf(a *Account) *ProfileResponse {
	return &ProfileResponse{
		Email:   a.Email,
		Name:    a.Name,
		Company: a.Company,
	}
}
