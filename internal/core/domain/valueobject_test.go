package domain

import (
	"errors"
	"testing"
)

func TestNewEmail(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		valid bool
	}{
		{"alice@example.com", "alice@example.com", true},
		{"  alice@example.com  ", "alice@example.com", true},
		{"a.b+tag@sub.example.io", "a.b+tag@sub.example.io", true},
		{"", "", false},
		{"   ", "", false},
		{"not-an-email", "", false},
		{"missing@domain", "", false},
		{"@example.com", "", false},
	}

	for _, tc := range cases {
		got, err := NewEmail(tc.in)
		if tc.valid {
			if err != nil {
				t.Fatalf("NewEmail(%q) returned error: %v", tc.in, err)
			}
			if got.String() != tc.want {
				t.Fatalf("NewEmail(%q) = %q, want %q", tc.in, got, tc.want)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("NewEmail(%q): expected ErrInvalidEmail, got %v", tc.in, err)
		}
	}
}

func TestNewPlainPassword(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		valid bool
	}{
		{"valid", "Str0ng@Pwd1", true},
		{"trimmed", "  Str0ng@Pwd1  ", true},
		{"too short", "S0r@t", false},
		{"too long", "Aa1!" + string(make([]byte, 70)), false},
		{"no uppercase", "str0ng@pwd1", false},
		{"no lowercase", "STR0NG@PWD1", false},
		{"no digit", "Strong@Pwdx", false},
		{"no special", "Str0ngPwd11", false},
		{"blank", "   ", false},
	}

	for _, tc := range cases {
		_, err := NewPlainPassword(tc.in)
		if tc.valid && err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !tc.valid && !errors.Is(err, ErrInvalidPassword) {
			t.Fatalf("%s: expected ErrInvalidPassword, got %v", tc.name, err)
		}
	}
}

func TestNewPasswordHash(t *testing.T) {
	if _, err := NewPasswordHash("$2a$10$abcdefghijklmnopqrstuv"); err != nil {
		t.Fatalf("valid bcrypt hash rejected: %v", err)
	}
	if _, err := NewPasswordHash("plaintext"); !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
	if _, err := NewPasswordHash(""); !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash for blank, got %v", err)
	}

	h, _ := NewPasswordHash("$2a$10$abcdefghijklmnopqrstuv")
	if h.String() != "[PROTECTED]" {
		t.Fatalf("hash String() must be masked, got %q", h.String())
	}
}

func TestNewPermission(t *testing.T) {
	valid := []string{"iam.user.read", "billing.invoice.create", "a.b", "multi-word.seg-ment.ok"}
	for _, in := range valid {
		if _, err := NewPermission(in); err != nil {
			t.Fatalf("NewPermission(%q) returned error: %v", in, err)
		}
	}

	invalid := []string{"", "single", "Upper.case", "dots..double", ".leading", "trailing.", "1numeric.start"}
	for _, in := range invalid {
		if _, err := NewPermission(in); !errors.Is(err, ErrInvalidPermission) {
			t.Fatalf("NewPermission(%q): expected ErrInvalidPermission, got %v", in, err)
		}
	}

	long := "a." + string(make([]byte, 120))
	if _, err := NewPermission(long); !errors.Is(err, ErrInvalidPermission) {
		t.Fatalf("expected length cap violation")
	}
}

func TestNewRoleName(t *testing.T) {
	valid := []string{"ADMIN", "ROLE_ADMIN", "SUPPORT_AGENT", "TIER2_SUPPORT", "ROLE_AUDIT_READER"}
	for _, in := range valid {
		if _, err := NewRoleName(in); err != nil {
			t.Fatalf("NewRoleName(%q) returned error: %v", in, err)
		}
	}

	invalid := []string{"", "admin", "ROLE_", "_ADMIN", "ROLE__ADMIN", "2FA_ADMIN", "ROLE_ADMIN_"}
	for _, in := range invalid {
		if _, err := NewRoleName(in); !errors.Is(err, ErrInvalidRoleName) {
			t.Fatalf("NewRoleName(%q): expected ErrInvalidRoleName, got %v", in, err)
		}
	}
}

func TestParseIdentifiers(t *testing.T) {
	uid := NewUserID()
	parsed, err := ParseUserID(uid.String())
	if err != nil {
		t.Fatalf("ParseUserID round trip failed: %v", err)
	}
	if parsed != uid {
		t.Fatalf("round trip mismatch: %s != %s", parsed, uid)
	}

	if _, err := ParseUserID("not-a-uuid"); !errors.Is(err, ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
	if _, err := ParseRoleID("nope"); !errors.Is(err, ErrInvalidRoleID) {
		t.Fatalf("expected ErrInvalidRoleID, got %v", err)
	}
}
