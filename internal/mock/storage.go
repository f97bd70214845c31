package mock

import (
	"context"
	"strings"
)

// Storage implements the storage gateway for tests.
type Storage struct {
	LocalPaths map[string]string
	EnsureErr  error
	UploadErr  error
	RemoveErr  error

	EnsureCalls  []string
	Uploads      []Upload
	RemovedKeys  []string
	EnsureCalled bool
}

type Upload struct {
	FileKey     string
	LocalPath   string
	ContentType string
}

func (m *Storage) EnsureLocalCopy(ctx context.Context, fileKey string) (string, error) {
	m.EnsureCalled = true
	m.EnsureCalls = append(m.EnsureCalls, fileKey)
	if m.EnsureErr != nil {
		return "", m.EnsureErr
	}
	if p, ok := m.LocalPaths[fileKey]; ok {
		return p, nil
	}
	return "/tmp/cache/" + fileKey, nil
}

func (m *Storage) UploadFromFile(ctx context.Context, fileKey, localPath, contentType string) error {
	m.Uploads = append(m.Uploads, Upload{FileKey: fileKey, LocalPath: localPath, ContentType: contentType})
	return m.UploadErr
}

func (m *Storage) RemoveFile(ctx context.Context, fileKey string) error {
	m.RemovedKeys = append(m.RemovedKeys, fileKey)
	return m.RemoveErr
}

func (m *Storage) NormalizeKey(fileKey string) string {
	key := strings.ReplaceAll(fileKey, `\`, "/")
	for strings.Contains(key, "//") {
		key = strings.ReplaceAll(key, "//", "/")
	}
	return strings.TrimPrefix(key, "/")
}
