package crypto

import (
	"os"
	"path/filepath"
	"testing"
)

// Доп.кейс: Encrypt с ключом неправильной длины
func TestEncrypt_InvalidKeyLen(t *testing.T) {
	_, _, err := Encrypt([]byte("data"), []byte("short"))
	if err == nil {
		t.Fatalf("expected error for invalid key length in Encrypt")
	}
}

// Доп.кейс: Decrypt с ключом неправильной длины
func TestDecrypt_InvalidKeyLen(t *testing.T) {
	if _, err := Decrypt([]byte{1, 2, 3}, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, []byte("short")); err == nil {
		t.Fatalf("expected error for invalid key length in Decrypt")
	}
}

// Доп.кейс: каталог ключа указывает на файл
func TestLoadOrCreateKey_FailsWhenDirIsFile(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "not_dir")
	if err := os.WriteFile(bad, []byte("x"), 0o600); err != nil {
		t.Fatalf("prepare tmp file: %v", err)
	}
	if _, err := LoadOrCreateKey(bad); err == nil {
		t.Fatalf("expected error when key dir is a file")
	}
}
