package crypto

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreateKey_CreateAndReuse(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "john")
	// создаст новый ключ
	k1, err := LoadOrCreateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrCreateKey create: %v", err)
	}
	if len(k1) != 32 {
		t.Fatalf("key len want 32, got %d", len(k1))
	}
	st, err := os.Stat(filepath.Join(dir, KeyFile))
	if err != nil {
		t.Fatalf("key file: %v", err)
	}
	if st.Mode().Perm()&0o077 != 0 {
		t.Fatalf("key file must be private, got %v", st.Mode().Perm())
	}
	// повторное получение — тот же ключ
	k2, err := LoadOrCreateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrCreateKey reuse: %v", err)
	}
	if string(k1) != string(k2) {
		t.Fatalf("expected same key contents on reuse")
	}
}

func TestLoadOrCreateKey_Errors(t *testing.T) {
	if _, err := LoadOrCreateKey(""); err == nil {
		t.Fatalf("empty dir must fail")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, KeyFile), []byte("short"), 0o600); err != nil {
		t.Fatalf("write bad key: %v", err)
	}
	if _, err := LoadOrCreateKey(dir); err == nil {
		t.Fatalf("invalid key length should error")
	}
}

func TestEncryptDecrypt_RoundTrip_AndErrors(t *testing.T) {
	key, err := LoadOrCreateKey(filepath.Join(t.TempDir(), "alice"))
	if err != nil {
		t.Fatal(err)
	}

	cipher, nonce, err := Encrypt([]byte("hello"), key)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	plain, err := Decrypt(cipher, nonce, key)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if string(plain) != "hello" {
		t.Fatalf("round-trip failed: %q", string(plain))
	}

	// неправильный ключ
	other, _ := LoadOrCreateKey(filepath.Join(t.TempDir(), "bob"))
	if _, err := Decrypt(cipher, nonce, other); err == nil {
		t.Fatalf("decrypt with wrong key should fail")
	}
	// неверный размер nonce
	if _, err := Decrypt(cipher, []byte{1, 2, 3}, key); err == nil {
		t.Fatalf("decrypt with bad nonce size should fail")
	}
}
