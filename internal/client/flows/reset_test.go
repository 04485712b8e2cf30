package flows

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchview/client/internal/client/api"
	"github.com/pitchview/client/internal/client/models"
	"github.com/pitchview/client/internal/client/nav"
	"github.com/pitchview/client/internal/client/notify"
	"github.com/pitchview/client/internal/logging"
)

func newReset(f *fakeClient, s *memStore, n notify.Notifier) *ResetPassword {
	return NewResetPassword(f, s, n, logging.NewNopLogger())
}

func TestResetPassword_Start(t *testing.T) {
	t.Run("empty token fails without a network call", func(t *testing.T) {
		f := &fakeClient{}
		res := newReset(f, newMemStore(), &captureNotifier{}).Start(context.Background(), "  ")

		assert.Equal(t, ResetStateError, res.State)
		assert.Equal(t, 0, f.CheckTokenCalls)
	})

	t.Run("invalid token checks exactly once", func(t *testing.T) {
		f := &fakeClient{CheckTokenErr: &api.Error{Kind: api.KindNotFound, StatusCode: 404}}
		res := newReset(f, newMemStore(), &captureNotifier{}).Start(context.Background(), testToken)

		assert.Equal(t, ResetStateError, res.State)
		assert.Equal(t, 1, f.CheckTokenCalls)
	})

	t.Run("token rejected by the backend", func(t *testing.T) {
		f := &fakeClient{CheckTokenRet: &api.TokenInfo{TokenValid: false}}
		res := newReset(f, newMemStore(), &captureNotifier{}).Start(context.Background(), testToken)

		assert.Equal(t, ResetStateError, res.State)
	})

	t.Run("valid token goes idle", func(t *testing.T) {
		f := &fakeClient{CheckTokenRet: &api.TokenInfo{TokenValid: true}}
		res := newReset(f, newMemStore(), &captureNotifier{}).Start(context.Background(), testToken)

		assert.Equal(t, ResetStateIdle, res.State)
		assert.Equal(t, testToken, f.LastCheckToken)
	})

	t.Run("unverified account may still reset", func(t *testing.T) {
		f := &fakeClient{CheckTokenRet: &api.TokenInfo{TokenValid: true, IsVerified: false}}
		res := newReset(f, newMemStore(), &captureNotifier{}).Start(context.Background(), testToken)

		assert.Equal(t, ResetStateIdle, res.State)
	})
}

func TestResetPassword_Submit_LocalGates(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		wantMsg  string
	}{
		{name: "empty password", password: "", confirm: "", wantMsg: "Please enter a new password"},
		{name: "mismatch", password: "Abc12345", confirm: "Abc12346", wantMsg: "Passwords do not match"},
		{name: "weak password", password: "abcdefgh", confirm: "abcdefgh", wantMsg: "Please use a stronger password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeClient{}
			res := newReset(f, newMemStore(), &captureNotifier{}).
				Submit(context.Background(), testToken, tt.password, tt.confirm)

			assert.Equal(t, ResetStateIdle, res.State, "local rejections keep the form usable")
			assert.Equal(t, tt.wantMsg, res.Message)
			assert.Equal(t, 0, f.ConfirmCalls, "no request may be sent")
		})
	}
}

func TestResetPassword_Submit_Success(t *testing.T) {
	f := &fakeClient{ConfirmRet: &api.ResetConfirmResponse{
		TokenPair: models.TokenPair{Access: "acc", Refresh: "ref"},
	}}
	store := newMemStore()
	notes := &captureNotifier{}

	res := newReset(f, store, notes).Submit(context.Background(), testToken, "Abc12345", "Abc12345")

	assert.Equal(t, ResetStateSuccess, res.State)
	assert.Equal(t, [3]string{testToken, "Abc12345", "Abc12345"}, f.LastConfirm)
	assert.Equal(t, "acc", store.pair.Access)
	require.NotNil(t, res.Navigation)
	assert.Equal(t, nav.RouteDashboard, res.Navigation.Route)
	assert.Equal(t, 3*time.Second, res.Navigation.Delay)
	require.NotEmpty(t, notes.levels)
	assert.Equal(t, notify.LevelSuccess, notes.levels[0])
}

func TestResetPassword_Submit_SuccessWithoutTokens(t *testing.T) {
	f := &fakeClient{ConfirmRet: &api.ResetConfirmResponse{}}
	store := newMemStore()

	res := newReset(f, store, &captureNotifier{}).
		Submit(context.Background(), testToken, "Abc12345", "Abc12345")

	assert.Equal(t, ResetStateSuccess, res.State)
	assert.Equal(t, 0, store.SetCalls)
}

func TestResetPassword_Submit_Rejected(t *testing.T) {
	f := &fakeClient{ConfirmErr: &api.Error{
		Kind: api.KindBadRequest, StatusCode: 400, Detail: "Reset link has expired.",
	}}
	store := newMemStore()

	res := newReset(f, store, &captureNotifier{}).
		Submit(context.Background(), testToken, "Abc12345", "Abc12345")

	assert.Equal(t, ResetStateError, res.State, "a rejected confirmation is terminal")
	assert.Equal(t, "Reset link has expired.", res.Message)
	assert.Equal(t, 0, store.SetCalls)
	assert.Nil(t, res.Navigation)
}
