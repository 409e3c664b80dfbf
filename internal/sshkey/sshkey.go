// Package sshkey provisions an SSH key pair for the newly created user
// inside the target system.
package sshkey

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"

	"archup/internal/chroot"
)

// Deploy generates an RSA key pair in the target user's ~/.ssh and
// authorizes the public key for login. Existing keys are left alone.
var Deploy = func(root, username string) error {
	sshDir := filepath.Join(root, "home", username, ".ssh")
	privateKeyPath := filepath.Join(sshDir, "id_rsa")

	if _, err := os.Stat(privateKeyPath); err == nil {
		return nil
	}

	if err := os.MkdirAll(sshDir, 0700); err != nil {
		return err
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, 4096)
	if err != nil {
		return fmt.Errorf("failed to generate SSH key: %w", err)
	}

	privateKeyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})
	if err := os.WriteFile(privateKeyPath, privateKeyPEM, 0600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}

	publicKey, err := ssh.NewPublicKey(&privateKey.PublicKey)
	if err != nil {
		return fmt.Errorf("failed to derive public key: %w", err)
	}
	pubBytes := ssh.MarshalAuthorizedKey(publicKey)
	if err := os.WriteFile(privateKeyPath+".pub", pubBytes, 0644); err != nil {
		return fmt.Errorf("failed to write public key: %w", err)
	}
	if err := os.WriteFile(filepath.Join(sshDir, "authorized_keys"), pubBytes, 0600); err != nil {
		return fmt.Errorf("failed to write authorized_keys: %w", err)
	}

	// Files were written as root; hand ownership to the user.
	return chroot.Exec(root, fmt.Sprintf("chown -R %s:%s /home/%s/.ssh", username, username, username))
}
