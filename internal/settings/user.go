package settings

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UserID returns the persistent anonymous user id, generating and
// storing one on first use. The id is sent to the worker so it can
// avoid serving the same image twice in a row.
func UserID(path string) (string, error) {
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o644); err != nil {
		return "", err
	}
	return id, nil
}
