package credstore

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kypgh/fitbook-client/internal/domain"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32
)

// argon2id parameters for deriving the file key from the passphrase
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// File stores the credential pair encrypted at rest. The serialized pair
// is sealed with nacl/secretbox under a key derived from the passphrase
// via argon2id. File layout: salt || nonce || box.
type File struct {
	path       string
	passphrase []byte
}

// NewFile creates a file-backed store at path, encrypting with passphrase
func NewFile(path, passphrase string) *File {
	return &File{path: path, passphrase: []byte(passphrase)}
}

// Load reads and decrypts the stored pair. A missing, truncated or
// undecryptable file reports ErrNotFound: a credential file we cannot
// read is indistinguishable from no credentials.
func (f *File) Load(ctx context.Context) (*domain.TokenPair, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	if len(raw) < saltSize+nonceSize+secretbox.Overhead {
		return nil, ErrNotFound
	}

	var salt [saltSize]byte
	var nonce [nonceSize]byte
	copy(salt[:], raw[:saltSize])
	copy(nonce[:], raw[saltSize:saltSize+nonceSize])

	key := f.deriveKey(salt[:])
	plaintext, ok := secretbox.Open(nil, raw[saltSize+nonceSize:], &nonce, key)
	if !ok {
		return nil, ErrNotFound
	}

	var pair domain.TokenPair
	if err := json.Unmarshal(plaintext, &pair); err != nil {
		return nil, ErrNotFound
	}
	return &pair, nil
}

// Save encrypts and writes the pair. The write is atomic: a temp file is
// written and renamed over the target, so a crash never leaves a torn
// credential file.
func (f *File) Save(ctx context.Context, pair *domain.TokenPair) error {
	plaintext, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("failed to serialize credentials: %w", err)
	}

	var salt [saltSize]byte
	var nonce [nonceSize]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	key := f.deriveKey(salt[:])
	sealed := secretbox.Seal(nil, plaintext, &nonce, key)

	out := make([]byte, 0, saltSize+nonceSize+len(sealed))
	out = append(out, salt[:]...)
	out = append(out, nonce[:]...)
	out = append(out, sealed...)

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("failed to create credential file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set credential file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close credential file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}

// Delete removes the credential file. Deleting an absent file is a no-op.
func (f *File) Delete(ctx context.Context) error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete credential file: %w", err)
	}
	return nil
}

func (f *File) deriveKey(salt []byte) *[keySize]byte {
	derived := argon2.IDKey(f.passphrase, salt, argonTime, argonMemory, argonThreads, keySize)
	var key [keySize]byte
	copy(key[:], derived)
	return &key
}
