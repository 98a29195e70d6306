package config

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestParseUsers(t *testing.T) {
	users, err := ParseUsers(" Alice:pw1 , bob:pw2,, ")
	if err != nil {
		t.Fatalf("ParseUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("users: want=2 got=%d", len(users))
	}
	hash, ok := users["alice"]
	if !ok {
		t.Fatalf("expected lower-cased alice in %v", users)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("pw1")); err != nil {
		t.Fatalf("alice hash does not match: %v", err)
	}
}

func TestParseUsersMalformed(t *testing.T) {
	for _, raw := range []string{"alice", "alice:", ":pw"} {
		if _, err := ParseUsers(raw); err == nil {
			t.Fatalf("ParseUsers(%q): expected error, got nil", raw)
		}
	}
}

func TestLoadSQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/tracker.db")
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("TRACKER_USERS", "carol:secret")

	if err := Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if AppConfig.DBDriver != DriverSQLite {
		t.Fatalf("DBDriver: want=%q got=%q", DriverSQLite, AppConfig.DBDriver)
	}
	if AppConfig.DBConnStr != "/tmp/tracker.db" {
		t.Fatalf("DBConnStr: want=%q got=%q", "/tmp/tracker.db", AppConfig.DBConnStr)
	}
	if AppConfig.SessionTTL != 2*time.Hour {
		t.Fatalf("SessionTTL: want=%v got=%v", 2*time.Hour, AppConfig.SessionTTL)
	}
	if _, ok := AppConfig.Users["carol"]; !ok {
		t.Fatalf("expected carol in roster")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("TRACKER_USERS", "carol:secret")
	if err := Load(); err == nil {
		t.Fatalf("Load: expected error for mysql driver")
	}
}
