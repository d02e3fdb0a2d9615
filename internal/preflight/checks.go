package preflight

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"golang.org/x/sys/unix"
)

const datastoreScope = "https://www.googleapis.com/auth/datastore"

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCredentialsFile verifies that a key file exists, is readable, and
// loads as Google credentials. Service account keys must also carry a client
// email and a parseable PEM private key.
func CheckCredentialsFile(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "credential reference missing"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a regular file)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: unreadable: %v)", path, err)}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: read: %v)", path, err)}
	}
	var key struct {
		Type        string `json:"type"`
		ClientEmail string `json:"client_email"`
		PrivateKey  string `json:"private_key"`
	}
	if err := json.Unmarshal(data, &key); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a JSON key file: %v)", path, err)}
	}
	if key.Type == "" {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: key file has no type)", path)}
	}
	if _, err := google.CredentialsFromJSON(context.Background(), data, datastoreScope); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: unusable credentials: %v)", path, err)}
	}
	if key.Type == "service_account" {
		if key.ClientEmail == "" {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: service account key has no client_email)", path)}
		}
		if err := parsePrivateKey(key.PrivateKey); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: private_key: %v)", path, err)}
		}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, key.Type)}
}

// parsePrivateKey accepts PKCS#8 and PKCS#1 PEM blocks, the two encodings
// Google issues service account keys in.
func parsePrivateKey(key string) error {
	if key == "" {
		return errors.New("missing")
	}
	block, _ := pem.Decode([]byte(key))
	if block == nil {
		return errors.New("not PEM encoded")
	}
	if _, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		return nil
	}
	if _, err := x509.ParsePKCS1PrivateKey(block.Bytes); err != nil {
		return fmt.Errorf("could not parse key: %w", err)
	}
	return nil
}
