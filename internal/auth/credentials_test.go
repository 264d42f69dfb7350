package auth

import (
	"os"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestCredentialStoreRoundTrip(t *testing.T) {
	store := NewCredentialStore(t.TempDir())

	rec := &CredentialRecord{
		AccessToken:  "ya29.access",
		RefreshToken: "1//refresh",
		ExpiresAt:    time.Now().Add(time.Hour).UnixMilli(),
		TokenType:    "Bearer",
		Scope:        "https://www.googleapis.com/auth/tagmanager.readonly",
		UserEmail:    "user@example.com",
		UserName:     "Test User",
		UserID:       "1234567890",
	}

	if err := store.Save(rec); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() returned nil record after Save")
	}
	if !reflect.DeepEqual(rec, loaded) {
		t.Errorf("Load() = %+v, want %+v", loaded, rec)
	}
}

func TestCredentialStoreLoadAbsent(t *testing.T) {
	store := NewCredentialStore(t.TempDir())

	rec, err := store.Load()
	if err != nil {
		t.Fatalf("Load() on absent file returned error: %v", err)
	}
	if rec != nil {
		t.Errorf("Load() on absent file = %+v, want nil", rec)
	}
}

func TestCredentialStoreLoadCorrupt(t *testing.T) {
	store := NewCredentialStore(t.TempDir())
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := store.Load()
	if err == nil {
		t.Fatal("Load() on corrupt file returned nil error")
	}
	if !strings.Contains(err.Error(), "failed to parse credentials") {
		t.Errorf("Load() error = %v, want parse failure", err)
	}
}

func TestCredentialStoreDeleteIdempotent(t *testing.T) {
	store := NewCredentialStore(t.TempDir())

	if err := store.Delete(); err != nil {
		t.Fatalf("Delete() on absent file returned error: %v", err)
	}

	if err := store.Save(&CredentialRecord{AccessToken: "tok", ExpiresAt: 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	rec, err := store.Load()
	if err != nil || rec != nil {
		t.Errorf("Load() after Delete = %+v, %v; want nil, nil", rec, err)
	}
	if err := store.Delete(); err != nil {
		t.Fatalf("second Delete() returned error: %v", err)
	}
}

func TestCredentialStoreFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	store := NewCredentialStore(t.TempDir())
	if err := store.Save(&CredentialRecord{AccessToken: "tok", ExpiresAt: 1}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("credential file mode = %o, want 600", perm)
	}
}

func TestCredentialExpiryWindows(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		expiresIn   time.Duration
		wantExpired bool
		wantRefresh bool
	}{
		{name: "fresh token", expiresIn: time.Hour, wantExpired: false, wantRefresh: false},
		{name: "outside both windows", expiresIn: 11 * time.Minute, wantExpired: false, wantRefresh: false},
		{name: "exactly at refresh boundary", expiresIn: 10 * time.Minute, wantExpired: false, wantRefresh: true},
		{name: "inside refresh window only", expiresIn: 7 * time.Minute, wantExpired: false, wantRefresh: true},
		{name: "exactly at expiry boundary", expiresIn: 5 * time.Minute, wantExpired: true, wantRefresh: true},
		{name: "nearly expired", expiresIn: time.Minute, wantExpired: true, wantRefresh: true},
		{name: "already expired", expiresIn: -time.Minute, wantExpired: true, wantRefresh: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewCredentialStore(t.TempDir())
			store.now = func() time.Time { return now }

			rec := &CredentialRecord{ExpiresAt: now.Add(tt.expiresIn).UnixMilli()}
			if got := store.IsExpired(rec); got != tt.wantExpired {
				t.Errorf("IsExpired() = %v, want %v", got, tt.wantExpired)
			}
			if got := store.NeedsRefresh(rec); got != tt.wantRefresh {
				t.Errorf("NeedsRefresh() = %v, want %v", got, tt.wantRefresh)
			}
		})
	}
}

func TestExpiryTime(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := &CredentialRecord{ExpiresAt: at.UnixMilli()}
	if !rec.ExpiryTime().Equal(at) {
		t.Errorf("ExpiryTime() = %v, want %v", rec.ExpiryTime(), at)
	}
}
