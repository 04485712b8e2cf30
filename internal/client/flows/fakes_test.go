package flows

import (
	"context"
	"errors"

	"github.com/pitchview/client/internal/client/api"
	"github.com/pitchview/client/internal/client/models"
	"github.com/pitchview/client/internal/client/notify"
)

// fakeClient implements api.Client for flow unit tests. Ret/Err fields set
// the scripted response; Last/Calls fields record what the flow did.
type fakeClient struct {
	CheckTokenRet *api.TokenInfo
	CheckTokenErr error

	VerifyRet *api.VerifyEmailResponse
	VerifyErr error

	RegenerateRet *api.RegenerateResponse
	RegenerateErr error

	ResendErr error

	ConfirmRet *api.ResetConfirmResponse
	ConfirmErr error

	MeRet *models.User
	MeErr error

	LastCheckToken  string
	LastVerifyToken string
	LastResendEmail string
	LastConfirm     [3]string

	CheckTokenCalls int
	VerifyCalls     int
	RegenerateCalls int
	ResendCalls     int
	ConfirmCalls    int
	MeCalls         int
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (*api.LoginResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) Logout(ctx context.Context, accessToken string) error {
	return errors.New("not implemented")
}

func (f *fakeClient) Me(ctx context.Context, accessToken string) (*models.User, error) {
	f.MeCalls++
	return f.MeRet, f.MeErr
}

func (f *fakeClient) ChangePassword(ctx context.Context, accessToken, oldPassword, newPassword, confirmPassword string) (*api.ChangePasswordResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) CheckToken(ctx context.Context, token string) (*api.TokenInfo, error) {
	f.CheckTokenCalls++
	f.LastCheckToken = token
	return f.CheckTokenRet, f.CheckTokenErr
}

func (f *fakeClient) VerifyEmail(ctx context.Context, token string) (*api.VerifyEmailResponse, error) {
	f.VerifyCalls++
	f.LastVerifyToken = token
	return f.VerifyRet, f.VerifyErr
}

func (f *fakeClient) RegenerateVerification(ctx context.Context, email string) (*api.RegenerateResponse, error) {
	f.RegenerateCalls++
	return f.RegenerateRet, f.RegenerateErr
}

func (f *fakeClient) ResendVerification(ctx context.Context, email string) error {
	f.ResendCalls++
	f.LastResendEmail = email
	return f.ResendErr
}

func (f *fakeClient) RequestPasswordReset(ctx context.Context, email string) error {
	return errors.New("not implemented")
}

func (f *fakeClient) ConfirmPasswordReset(ctx context.Context, token, newPassword, confirmPassword string) (*api.ResetConfirmResponse, error) {
	f.ConfirmCalls++
	f.LastConfirm = [3]string{token, newPassword, confirmPassword}
	return f.ConfirmRet, f.ConfirmErr
}

// memStore implements session.Store in memory.
type memStore struct {
	pair    models.TokenPair
	scratch map[string]string

	SetErr    error
	TokensErr error

	SetCalls int
}

func newMemStore() *memStore {
	return &memStore{scratch: make(map[string]string)}
}

func (s *memStore) Set(ctx context.Context, pair models.TokenPair) error {
	s.SetCalls++
	if s.SetErr != nil {
		return s.SetErr
	}
	s.pair = pair
	return nil
}

func (s *memStore) Clear(ctx context.Context) error {
	s.pair = models.TokenPair{}
	return nil
}

func (s *memStore) Tokens(ctx context.Context) (models.TokenPair, error) {
	if s.TokensErr != nil {
		return models.TokenPair{}, s.TokensErr
	}
	return s.pair, nil
}

func (s *memStore) PutScratch(key, value string) { s.scratch[key] = value }

func (s *memStore) TakeScratch(key string) string {
	v := s.scratch[key]
	delete(s.scratch, key)
	return v
}

type captureNotifier struct {
	levels   []notify.Level
	messages []string
}

func (n *captureNotifier) Notify(level notify.Level, message string) {
	n.levels = append(n.levels, level)
	n.messages = append(n.messages, message)
}
