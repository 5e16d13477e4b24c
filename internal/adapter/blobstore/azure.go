package blobstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"certprep/internal/config"
	"certprep/internal/domain"
	"certprep/internal/logger"

	"go.uber.org/zap"
)

// AzureBlobStorage implements domain.BlobStorage against an Azure Blob
// Storage account. Blobs are publicly readable, so resolution builds a
// direct account URL instead of going through the SDK:
//
//	https://{account}.blob.core.windows.net/{container}/{folder}/{token}
//
// When VerifyBlobs is enabled, each resolution issues a HEAD request to
// confirm the blob exists before the URL is handed out.
type AzureBlobStorage struct {
	accountName string
	container   string
	verify      bool
	httpClient  *http.Client
}

// NewAzureBlobStorage parses the connection string and prepares the
// HTTP client used for existence checks. An unusable configuration is
// not an error here: the adapter reports it per-resolution so the
// caller can fall back.
func NewAzureBlobStorage(cfg config.StorageConfig) *AzureBlobStorage {
	s := &AzureBlobStorage{
		container: cfg.Container,
		verify:    cfg.VerifyBlobs,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
	s.accountName = parseAccountName(cfg.ConnectionString)
	return s
}

// parseAccountName extracts AccountName from an Azure storage
// connection string of the form "Key1=Val1;Key2=Val2;...".
func parseAccountName(connectionString string) string {
	for _, part := range strings.Split(connectionString, ";") {
		if name, ok := strings.CutPrefix(part, "AccountName="); ok {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

// defaultBlobExtension is appended to extension-less tokens. Hash
// tokens are stored as .png blobs; legacy tokens already carry their
// extension.
const defaultBlobExtension = ".png"

// ResolveURL maps a (folder, token) pair to a direct blob URL.
// Failures are returned as *domain.ResolveError; the caller decides
// what to do with them.
func (s *AzureBlobStorage) ResolveURL(ctx context.Context, folder, token string) (string, error) {
	if s.accountName == "" || s.container == "" {
		return "", domain.NewResolveError(domain.ResolveNotConfigured, folder, token,
			errors.New("storage account or container not configured"))
	}
	if folder == "" {
		return "", domain.NewResolveError(domain.ResolveNotConfigured, folder, token,
			errors.New("container has no storage folder"))
	}

	blobName := token
	if path.Ext(blobName) == "" {
		blobName += defaultBlobExtension
	}

	blobURL := fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s/%s",
		s.accountName,
		url.PathEscape(s.container),
		url.PathEscape(folder),
		url.PathEscape(blobName),
	)

	if !s.verify {
		return blobURL, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, blobURL, nil)
	if err != nil {
		return "", domain.NewResolveError(domain.ResolveBadConfig, folder, token, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		reason := domain.ResolveBackendError
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			reason = domain.ResolveTimeout
		}
		return "", domain.NewResolveError(reason, folder, token, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return blobURL, nil
	case resp.StatusCode == http.StatusNotFound:
		return "", domain.NewResolveError(domain.ResolveNotFound, folder, token,
			fmt.Errorf("blob not found: %s/%s", folder, token))
	default:
		logger.Get().Warn("Unexpected status from blob backend",
			zap.Int("status", resp.StatusCode),
			zap.String("folder", folder),
			zap.String("token", token))
		return "", domain.NewResolveError(domain.ResolveBackendError, folder, token,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
