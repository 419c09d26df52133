package service

import (
	"context"
	"strings"
	"testing"

	"github.com/polas15-707-eng/teachassist-app/internal/apperr"
	"github.com/polas15-707-eng/teachassist-app/internal/config"
	"github.com/polas15-707-eng/teachassist-app/internal/event"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func newAccountService(publisher *recordingPublisher) (*AccountService, *fakeUserRepo, *fakeTeacherRepo) {
	cfg := &config.Config{
		BcryptCost: bcrypt.MinCost,
		AdminEmail: "admin@example.com",
	}
	users := newFakeUserRepo()
	teachers := newFakeTeacherRepo()
	auth := NewAuthService(cfg, nil)
	svc := NewAccountService(cfg, users, teachers, auth, publisher, zerolog.Nop())
	return svc, users, teachers
}

func TestRegisterStudent(t *testing.T) {
	publisher := &recordingPublisher{}
	svc, _, _ := newAccountService(publisher)

	account, err := svc.Register(context.Background(), "Siti", "Siti@Example.com", "Passw0rd", "student")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if account.User.Role != model.RoleStudent {
		t.Errorf("role = %s, want student", account.User.Role)
	}
	if account.User.Email != "siti@example.com" {
		t.Errorf("email = %s, want lowercased", account.User.Email)
	}
	if account.Teacher != nil {
		t.Error("student registration must not create a teacher profile")
	}
	if len(publisher.published()) != 0 {
		t.Error("student registration must not publish events")
	}
}

func TestRegisterTeacher(t *testing.T) {
	publisher := &recordingPublisher{}
	svc, _, _ := newAccountService(publisher)

	account, err := svc.Register(context.Background(), "Pak Budi", "budi@example.com", "Passw0rd", "teacher")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if account.Teacher == nil {
		t.Fatal("teacher registration must create a profile")
	}
	if account.Teacher.AccountStatus != model.AccountStatusPending {
		t.Errorf("account status = %s, want Pending", account.Teacher.AccountStatus)
	}
	if !strings.HasPrefix(account.Teacher.TeacherCode, "TCH-") {
		t.Errorf("teacher code = %s, want TCH- prefix", account.Teacher.TeacherCode)
	}

	events := publisher.published()
	if len(events) != 1 {
		t.Fatalf("published %d events, want 1", len(events))
	}
	if events[0].Type != event.TypeTeacherRegistered {
		t.Errorf("event type = %s, want %s", events[0].Type, event.TypeTeacherRegistered)
	}
	if got := events[0].Payload[event.KeyRecipientEmail]; got != "admin@example.com" {
		t.Errorf("recipient = %s, want the admin address", got)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAccountService(&recordingPublisher{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Siti", "siti@example.com", "Passw0rd", "student"); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	// Same address, different case.
	_, err := svc.Register(ctx, "Other", "SITI@example.com", "Passw0rd", "student")
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("duplicate email err = %v, want conflict", err)
	}
}

func TestRegisterRejectsInvalidRole(t *testing.T) {
	svc, _, _ := newAccountService(&recordingPublisher{})

	// Role values are lowercase; admin accounts are CLI-provisioned only.
	for _, role := range []string{"admin", "Teacher", "Student", "superuser", ""} {
		_, err := svc.Register(context.Background(), "X", "x@example.com", "Passw0rd", role)
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("role %q err = %v, want validation error", role, err)
		}
	}
}

// The name bound counts characters, not bytes.
func TestRegisterMultibyteName(t *testing.T) {
	svc, _, _ := newAccountService(&recordingPublisher{})

	if _, err := svc.Register(context.Background(), strings.Repeat("ü", 100), "u@example.com", "Passw0rd", "student"); err != nil {
		t.Errorf("100-rune name: %v", err)
	}

	_, err := svc.Register(context.Background(), strings.Repeat("ü", 101), "v@example.com", "Passw0rd", "student")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("101-rune name err = %v, want validation error", err)
	}
}

func TestPasswordPolicy(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"typical", "Passw0rd", true},
		{"exactly six", "aB3def", true},
		{"too short", "Ab1", false},
		{"too long", strings.Repeat("Ab1", 43), false},
		{"no uppercase", "alllowercase1", false},
		{"no lowercase", "ALLUPPERCASE1", false},
		{"no digit", "NoDigitsHere", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(tc.password)
			if tc.ok && err != nil {
				t.Errorf("validatePassword(%q) = %v, want nil", tc.password, err)
			}
			if !tc.ok && !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("validatePassword(%q) = %v, want validation error", tc.password, err)
			}
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAccountService(&recordingPublisher{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Siti", "siti@example.com", "Passw0rd", "student"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, err := svc.Login(ctx, "siti@example.com", "wrong")
	if !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("wrong password err = %v, want unauthorized", err)
	}

	_, _, err = svc.Login(ctx, "nobody@example.com", "Passw0rd")
	if !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("unknown email err = %v, want unauthorized", err)
	}
}
