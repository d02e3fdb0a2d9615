package testsupport

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
)

// WriteCredentials writes a service account key file with a freshly generated
// RSA private key and returns its path.
func WriteCredentials(t testing.TB, path string) string {
	t.Helper()
	WriteFile(t, path, ServiceAccountKey(t))
	return path
}

// ServiceAccountKey returns a service account JSON key that parses locally.
// The key is not registered anywhere, so token exchange would fail.
func ServiceAccountKey(t testing.TB) []byte {
	t.Helper()
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(rsaKey)
	if err != nil {
		t.Fatalf("marshal rsa key: %v", err)
	}
	data, err := json.MarshalIndent(map[string]string{
		"type":           "service_account",
		"project_id":     "routemigrate-test",
		"private_key_id": "test",
		"private_key":    string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})),
		"client_email":   "test@routemigrate-test.iam.gserviceaccount.com",
		"token_uri":      "https://oauth2.googleapis.com/token",
	}, "", "  ")
	if err != nil {
		t.Fatalf("marshal key file: %v", err)
	}
	return data
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
