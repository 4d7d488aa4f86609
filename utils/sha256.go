package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Sha256SumFile returns the hex encoded SHA-256 of the file at path.
func Sha256SumFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// Sha256SumVerify compares the file digest with checksum, ignoring hex case.
func Sha256SumVerify(path string, checksum string) error {
	targetHash, err := Sha256SumFile(path)
	if err != nil {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(checksum), targetHash) {
		return fmt.Errorf("invalid checksum: got %s want %s", targetHash, checksum)
	}
	return nil
}
