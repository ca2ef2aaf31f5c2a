// Package account manages the demo credentials, settings preferences and
// the destructive flows that gate on them.
package account

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/store"
)

// DeleteConfirmPhrase must be typed verbatim to delete the account.
const DeleteConfirmPhrase = "ELIMINAR"

var (
	ErrWrongPassword    = errors.New("account: wrong password")
	ErrPasswordMismatch = errors.New("account: password confirmation does not match")
	ErrPasswordTooShort = errors.New("account: password too short")
	ErrWrongPhrase      = errors.New("account: confirmation phrase does not match")
	ErrBadResetCode     = errors.New("account: invalid reset code")
)

const minPasswordLen = 8

type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// Seed creates the demo account if none exists yet.
func (s *Service) Seed(email, password string) error {
	var existing models.Account
	if err := store.Decode(s.store, store.KeyAccount, &existing); err == nil {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return store.Write(s.store, store.KeyAccount, models.Account{
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
	})
}

// Get returns the stored account.
func (s *Service) Get() (models.Account, error) {
	var acc models.Account
	err := store.Decode(s.store, store.KeyAccount, &acc)
	return acc, err
}

func (s *Service) checkPassword(password string) error {
	acc, err := s.Get()
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return ErrWrongPassword
	}
	return nil
}

// ChangePassword replaces the password after verifying the old one and
// the confirmation.
func (s *Service) ChangePassword(oldPwd, newPwd, confirm string) error {
	if err := s.checkPassword(oldPwd); err != nil {
		return err
	}
	if newPwd != confirm {
		return ErrPasswordMismatch
	}
	if len(newPwd) < minPasswordLen {
		return ErrPasswordTooShort
	}
	return s.setPassword(newPwd, "")
}

// RequestReset issues a one-time reset code. A real deployment would mail
// it; the demo returns it to the caller.
func (s *Service) RequestReset() (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	code := strings.ToUpper(hex.EncodeToString(buf[:]))
	acc, err := s.Get()
	if err != nil {
		return "", err
	}
	acc.ResetCode = code
	if err := store.Write(s.store, store.KeyAccount, acc); err != nil {
		return "", err
	}
	return code, nil
}

// ResetPassword consumes a reset code to set a new password.
func (s *Service) ResetPassword(code, newPwd string) error {
	acc, err := s.Get()
	if err != nil {
		return err
	}
	if acc.ResetCode == "" || acc.ResetCode != code {
		return ErrBadResetCode
	}
	if len(newPwd) < minPasswordLen {
		return ErrPasswordTooShort
	}
	return s.setPassword(newPwd, "")
}

func (s *Service) setPassword(newPwd, resetCode string) error {
	acc, err := s.Get()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	acc.PasswordHash = string(hash)
	acc.ResetCode = resetCode
	return store.Write(s.store, store.KeyAccount, acc)
}

// Delete removes the account and its preference keys. It requires the
// typed confirmation phrase plus the current password; posts and stories
// survive deliberately.
func (s *Service) Delete(confirmPhrase, password string) error {
	if strings.ToUpper(strings.TrimSpace(confirmPhrase)) != DeleteConfirmPhrase {
		return ErrWrongPhrase
	}
	if err := s.checkPassword(password); err != nil {
		return err
	}
	for _, key := range []string{store.KeyAccount, store.KeySettings, store.KeyLegalAccept} {
		if err := s.store.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// Settings returns the stored preferences, with notification defaults on.
func (s *Service) Settings() models.Settings {
	return store.Read(s.store, store.KeySettings, models.Settings{Notifications: true, AutoplayMedia: true})
}

// SaveSettings persists preferences verbatim.
func (s *Service) SaveSettings(v models.Settings) error {
	return store.Write(s.store, store.KeySettings, v)
}

// AcceptLegal records that the legal terms were accepted.
func (s *Service) AcceptLegal() error {
	return store.Write(s.store, store.KeyLegalAccept, true)
}

// LegalAccepted reports whether the terms were accepted.
func (s *Service) LegalAccepted() bool {
	return store.Read(s.store, store.KeyLegalAccept, false)
}
