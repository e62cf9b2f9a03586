// Package provision makes sure the model artifact exists in the local cache.
package provision

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"llmsvc/internal/common/fsutil"
)

// Downloader fetches one file of a hub repository into destDir.
// *hub.Client satisfies it.
type Downloader interface {
	Download(ctx context.Context, repoID, filename, destDir string) (string, error)
}

// ProvisioningError reports that the artifact could be neither found nor fetched.
type ProvisioningError struct {
	RepoID   string
	Filename string
	Err      error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provision %s/%s: %v", e.RepoID, e.Filename, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// IsProvisioningError reports whether err is or wraps a *ProvisioningError.
func IsProvisioningError(err error) bool {
	var pe *ProvisioningError
	return errors.As(err, &pe)
}

// Provisioner resolves artifacts against a cache directory.
type Provisioner struct {
	dl Downloader
}

// New returns a Provisioner that downloads through dl.
func New(dl Downloader) *Provisioner { return &Provisioner{dl: dl} }

// LocalPath returns where filename lives inside cacheDir.
func LocalPath(cacheDir, filename string) (string, error) {
	dir, err := fsutil.ResolveDir(cacheDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}

// Cached reports whether filename is already present in cacheDir.
func Cached(cacheDir, filename string) bool {
	p, err := LocalPath(cacheDir, filename)
	return err == nil && fsutil.FileExists(p)
}

// EnsureArtifact returns the local path of filename, downloading it once from
// repoID when it is not cached. A present file is trusted as is.
func (p *Provisioner) EnsureArtifact(ctx context.Context, repoID, filename, cacheDir string) (string, error) {
	wrap := func(err error) error {
		return &ProvisioningError{RepoID: repoID, Filename: filename, Err: err}
	}
	local, err := LocalPath(cacheDir, filename)
	if err != nil {
		return "", wrap(err)
	}
	if fsutil.FileExists(local) {
		return local, nil
	}
	if p.dl == nil {
		return "", wrap(errors.New("no downloader configured"))
	}
	got, err := p.dl.Download(ctx, repoID, filename, filepath.Dir(local))
	if err != nil {
		return "", wrap(err)
	}
	if !fsutil.FileExists(got) {
		return "", wrap(fmt.Errorf("downloaded file missing at %s", got))
	}
	return got, nil
}
