package account

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/store"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	backend, err := store.NewSQLiteBackend(":memory:")
	if err != nil {
		t.Fatalf("backend open error: %v", err)
	}
	s := store.New(backend)
	t.Cleanup(func() { s.Close() })
	svc := NewService(s)
	if err := svc.Seed("justo@example.com", "12345678"); err != nil {
		t.Fatalf("seed error: %v", err)
	}
	return svc
}

func TestSeedHashesPasswordAndIsIdempotent(t *testing.T) {
	svc := setupTestService(t)

	acc, err := svc.Get()
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if acc.Email != "justo@example.com" {
		t.Errorf("unexpected email %q", acc.Email)
	}
	if acc.PasswordHash == "12345678" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte("12345678")); err != nil {
		t.Errorf("hash does not verify: %v", err)
	}

	// A second seed must not overwrite the existing account.
	if err := svc.Seed("other@example.com", "different1"); err != nil {
		t.Fatalf("reseed error: %v", err)
	}
	acc, _ = svc.Get()
	if acc.Email != "justo@example.com" {
		t.Error("reseed overwrote the existing account")
	}
}

func TestChangePassword(t *testing.T) {
	svc := setupTestService(t)

	cases := []struct {
		name    string
		old     string
		new     string
		confirm string
		want    error
	}{
		{"wrong old password", "nope", "newpassword", "newpassword", ErrWrongPassword},
		{"confirmation mismatch", "12345678", "newpassword", "different", ErrPasswordMismatch},
		{"too short", "12345678", "short", "short", ErrPasswordTooShort},
		{"success", "12345678", "newpassword", "newpassword", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.ChangePassword(tc.old, tc.new, tc.confirm)
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}

	// The new password is in effect now.
	if err := svc.ChangePassword("newpassword", "anotherpass", "anotherpass"); err != nil {
		t.Errorf("new password not accepted: %v", err)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	svc := setupTestService(t)

	code, err := svc.RequestReset()
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if len(code) != 8 {
		t.Errorf("unexpected code length %d", len(code))
	}

	if err := svc.ResetPassword("WRONG123", "newpassword"); !errors.Is(err, ErrBadResetCode) {
		t.Errorf("expected ErrBadResetCode, got %v", err)
	}
	if err := svc.ResetPassword(code, "newpassword"); err != nil {
		t.Fatalf("reset error: %v", err)
	}

	// The code is single use.
	if err := svc.ResetPassword(code, "yetanother1"); !errors.Is(err, ErrBadResetCode) {
		t.Errorf("reset code should be consumed, got %v", err)
	}
	if err := svc.ChangePassword("newpassword", "finalpass1", "finalpass1"); err != nil {
		t.Errorf("reset password not in effect: %v", err)
	}
}

func TestDeleteRequiresPhraseAndPassword(t *testing.T) {
	svc := setupTestService(t)

	if err := svc.Delete("BORRAR", "12345678"); !errors.Is(err, ErrWrongPhrase) {
		t.Errorf("expected ErrWrongPhrase, got %v", err)
	}
	if err := svc.Delete("ELIMINAR", "wrong"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}

	// The phrase is trimmed and case-folded.
	if err := svc.Delete("  eliminar  ", "12345678"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, err := svc.Get(); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("account should be gone, got %v", err)
	}
}

func TestSettingsDefaults(t *testing.T) {
	svc := setupTestService(t)

	got := svc.Settings()
	if !got.Notifications || !got.AutoplayMedia {
		t.Errorf("expected notification defaults on, got %+v", got)
	}

	if err := svc.SaveSettings(models.Settings{Notifications: false, Theme: "dark"}); err != nil {
		t.Fatalf("save error: %v", err)
	}
	got = svc.Settings()
	if got.Notifications || got.Theme != "dark" {
		t.Errorf("settings not persisted: %+v", got)
	}
}

func TestLegalAcceptance(t *testing.T) {
	svc := setupTestService(t)

	if svc.LegalAccepted() {
		t.Error("legal terms should start unaccepted")
	}
	if err := svc.AcceptLegal(); err != nil {
		t.Fatalf("accept error: %v", err)
	}
	if !svc.LegalAccepted() {
		t.Error("acceptance not recorded")
	}
}
