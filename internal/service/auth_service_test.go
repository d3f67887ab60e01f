package service

import (
	"errors"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/util"
	"testing"
)

func newAuthService(env *testEnv) *AuthService {
	return NewAuthService(env.userRepo, testConfig())
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	result, err := auth.Register(RegisterRequest{
		FullName: "Sita Sharma",
		Email:    "Sita.Sharma@Example.com",
		Password: "strong-password",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.User.Email != "sita.sharma@example.com" {
		t.Errorf("stored email = %q, want lowercased", result.User.Email)
	}
	if result.User.Role != model.Student {
		t.Errorf("role = %s, want STUDENT", result.User.Role)
	}
	if result.User.PreferredLanguage != util.LanguageEnglish {
		t.Errorf("language = %q, want default %q", result.User.PreferredLanguage, util.LanguageEnglish)
	}

	claims, err := util.ParseJWT(result.Token, "test-secret")
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != result.User.ID || claims.Role != model.Student {
		t.Errorf("claims = %+v, want user %d role STUDENT", claims, result.User.ID)
	}

	login, err := auth.Login(LoginRequest{Email: "SITA.SHARMA@example.com", Password: "strong-password"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != result.User.ID {
		t.Errorf("login user = %d, want %d", login.User.ID, result.User.ID)
	}

	if _, err := auth.Login(LoginRequest{Email: "sita.sharma@example.com", Password: "wrong"}); !errors.Is(err, util.ErrValidation) {
		t.Errorf("wrong password error = %v, want validation failure", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	req := RegisterRequest{FullName: "Ram Thapa", Email: "ram@example.com", Password: "strong-password"}
	if _, err := auth.Register(req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := auth.Register(req); !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("duplicate register error = %v, want ErrEmailRegistered", err)
	}
}

func TestRegisterLanguage(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	result, err := auth.Register(RegisterRequest{
		FullName:          "Gita KC",
		Email:             "gita@example.com",
		Password:          "strong-password",
		PreferredLanguage: "np",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.User.PreferredLanguage != util.LanguageNepali {
		t.Errorf("language = %q, want %q", result.User.PreferredLanguage, util.LanguageNepali)
	}

	_, err = auth.Register(RegisterRequest{
		FullName:          "Hari Rai",
		Email:             "hari@example.com",
		Password:          "strong-password",
		PreferredLanguage: "FR",
	})
	if !errors.Is(err, util.ErrValidation) {
		t.Errorf("unsupported language error = %v, want validation failure", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	result, err := auth.Register(RegisterRequest{FullName: "Bina Gurung", Email: "bina@example.com", Password: "strong-password"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	result.User.Disabled = true
	if err := env.userRepo.Update(result.User); err != nil {
		t.Fatalf("disabling account: %v", err)
	}

	if _, err := auth.Login(LoginRequest{Email: "bina@example.com", Password: "strong-password"}); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("disabled login error = %v, want permission denied", err)
	}
}
