package profile

import (
	"testing"
)

func setupTestConfig(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	origFunc := configDirFunc
	configDirFunc = func() (string, error) {
		return tmpDir, nil
	}
	t.Cleanup(func() {
		configDirFunc = origFunc
	})
}

func TestAdd_NewProfile(t *testing.T) {
	setupTestConfig(t)

	if err := Add("prod", "postgres://localhost/prod"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	profiles, err := List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
	if profiles[0].Name != "prod" {
		t.Errorf("Name = %q, want prod", profiles[0].Name)
	}
	if profiles[0].ConnStr != "postgres://localhost/prod" {
		t.Errorf("ConnStr = %q", profiles[0].ConnStr)
	}
}

func TestAdd_UpdateExisting(t *testing.T) {
	setupTestConfig(t)

	if err := Add("prod", "postgres://localhost/prod_v1"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := Add("prod", "postgres://localhost/prod_v2"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	profiles, err := List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile after update, got %d", len(profiles))
	}
	if profiles[0].ConnStr != "postgres://localhost/prod_v2" {
		t.Errorf("ConnStr not updated: %q", profiles[0].ConnStr)
	}
}

func TestRemove_Existing(t *testing.T) {
	setupTestConfig(t)

	if err := Add("prod", "postgres://localhost/prod"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := Add("dev", "postgres://localhost/dev"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := Remove("prod"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	profiles, err := List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile after remove, got %d", len(profiles))
	}
	if profiles[0].Name != "dev" {
		t.Errorf("remaining profile = %q, want dev", profiles[0].Name)
	}
}

func TestRemove_NonExistent(t *testing.T) {
	setupTestConfig(t)

	if err := Add("prod", "postgres://localhost/prod"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := Remove("staging"); err == nil {
		t.Fatal("expected error when removing non-existent profile")
	}
}

func TestResolve_ExistingProfile(t *testing.T) {
	setupTestConfig(t)

	if err := Add("prod", "postgres://prod-host/db"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	connStr, err := Resolve("prod")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if connStr != "postgres://prod-host/db" {
		t.Errorf("ConnStr = %q", connStr)
	}
}

func TestResolve_NoConfigFile(t *testing.T) {
	setupTestConfig(t)

	if _, err := Resolve("anything"); err == nil {
		t.Fatal("expected error when no config file exists")
	}
}

func TestDefaultLifecycle(t *testing.T) {
	setupTestConfig(t)

	if err := Add("prod", "postgres://prod-host/db"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := SetDefault("prod"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	name, err := GetDefault()
	if err != nil {
		t.Fatalf("GetDefault failed: %v", err)
	}
	if name != "prod" {
		t.Errorf("default = %q, want prod", name)
	}

	if err := ClearDefault(); err != nil {
		t.Fatalf("ClearDefault failed: %v", err)
	}
	name, err = GetDefault()
	if err != nil {
		t.Fatalf("GetDefault failed: %v", err)
	}
	if name != "" {
		t.Errorf("default = %q, want empty", name)
	}
}

func TestSetDefault_NonExistent(t *testing.T) {
	setupTestConfig(t)

	if err := SetDefault("nonexistent"); err == nil {
		t.Fatal("expected error when setting non-existent profile as default")
	}
}

func TestRemove_ClearsDefault(t *testing.T) {
	setupTestConfig(t)

	if err := Add("prod", "postgres://prod-host/db"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := SetDefault("prod"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if err := Remove("prod"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	name, err := GetDefault()
	if err != nil {
		t.Fatalf("GetDefault failed: %v", err)
	}
	if name != "" {
		t.Errorf("default = %q, want cleared", name)
	}
}

func TestResolveConnStr_DbFlag(t *testing.T) {
	connStr, err := ResolveConnStr("postgres://direct/db", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if connStr != "postgres://direct/db" {
		t.Errorf("ConnStr = %q", connStr)
	}
}

func TestResolveConnStr_ProfileFlag(t *testing.T) {
	setupTestConfig(t)

	if err := Add("prod", "postgres://prod-host/db"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	connStr, err := ResolveConnStr("", "prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if connStr != "postgres://prod-host/db" {
		t.Errorf("ConnStr = %q", connStr)
	}
}

func TestResolveConnStr_DefaultFallback(t *testing.T) {
	setupTestConfig(t)

	if err := Add("prod", "postgres://prod-host/db"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := SetDefault("prod"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}

	connStr, err := ResolveConnStr("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if connStr != "postgres://prod-host/db" {
		t.Errorf("ConnStr = %q, want prod connection", connStr)
	}
}

func TestResolveConnStr_NoFlags_NoDefault(t *testing.T) {
	setupTestConfig(t)

	connStr, err := ResolveConnStr("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if connStr != "" {
		t.Errorf("ConnStr = %q, want empty", connStr)
	}
}

func TestList_EmptyConfig(t *testing.T) {
	setupTestConfig(t)

	profiles, err := List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profiles != nil {
		t.Errorf("expected nil profiles, got %v", profiles)
	}
}
