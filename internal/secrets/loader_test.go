package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "key")
	if err := os.WriteFile(file, []byte(" from-file \n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	t.Setenv("TEST_API_KEY", "from-env")

	src := Source{
		Name:  "test api key",
		Value: "from-value",
		File:  file,
		Env:   "TEST_API_KEY",
	}

	secret, err := Load(src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if secret != "from-file" {
		t.Fatalf("file must win and be trimmed, got %q", secret)
	}

	src.File = ""
	if secret, _ = Load(src); secret != "from-value" {
		t.Fatalf("value must win over env, got %q", secret)
	}

	src.Value = ""
	if secret, _ = Load(src); secret != "from-env" {
		t.Fatalf("env must be the last resort, got %q", secret)
	}
}

func TestLoadEnvUnsetFails(t *testing.T) {
	t.Setenv("TEST_API_KEY", "")

	if _, err := Load(Source{Name: "test api key", Env: "TEST_API_KEY"}); err == nil {
		t.Fatal("expected an error when no source yields a secret")
	}
}

func TestLoadEmptyFileFails(t *testing.T) {
	file := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(file, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	if _, err := Load(Source{Name: "test api key", File: file}); err == nil {
		t.Fatal("expected an error for an empty key file")
	}
}
