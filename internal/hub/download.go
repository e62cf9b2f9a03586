package hub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PartialSuffix is appended to in-flight downloads.
const PartialSuffix = ".download"

const progressInterval = 500 * time.Millisecond

// Download fetches filename from repoID into destDir and returns the final
// path. The body is streamed to <filename>.download and renamed on success;
// a failed attempt leaves the partial file for the next attempt to truncate.
func (c *Client) Download(ctx context.Context, repoID, filename, destDir string) (string, error) {
	if err := validateRepoID(repoID); err != nil {
		return "", err
	}
	if filename == "" || strings.ContainsAny(filename, `/\`) {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ResolveURL(repoID, filename), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s/%s: %w", repoID, filename, err)
	}
	defer resp.Body.Close()
	if err := checkResponse(resp); err != nil {
		return "", fmt.Errorf("fetch %s/%s: %w", repoID, filename, err)
	}

	target := filepath.Join(destDir, filename)
	partial := target + PartialSuffix
	f, err := os.Create(partial)
	if err != nil {
		return "", fmt.Errorf("create partial file: %w", err)
	}
	var src io.Reader = resp.Body
	if c.progress != nil {
		src = &progressReader{r: resp.Body, total: resp.ContentLength, fn: c.progress}
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write %s: %w", partial, err)
	}
	if resp.ContentLength >= 0 && n != resp.ContentLength {
		return "", fmt.Errorf("short download: got %d of %d bytes", n, resp.ContentLength)
	}
	if err := os.Rename(partial, target); err != nil {
		return "", fmt.Errorf("finalize download: %w", err)
	}
	if c.progress != nil {
		c.progress(n, n)
	}
	return target, nil
}

type progressReader struct {
	r       io.Reader
	total   int64
	written int64
	last    time.Time
	fn      ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.written += int64(n)
	if now := time.Now(); now.Sub(p.last) >= progressInterval {
		p.last = now
		p.fn(p.written, p.total)
	}
	return n, err
}
