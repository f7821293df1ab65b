// Package site provides handles on the content stores pages are migrated
// between. A handle is bound to one web inside a site collection.
package site

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/contentmigrate/pageheader/errors"
	"github.com/contentmigrate/pageheader/internal/fold"
	"github.com/contentmigrate/pageheader/system"
)

const (
	ErrInvalidURL  = errors.Error("invalid site url")
	ErrInvalidPath = errors.Error("invalid server relative path")
)

// Context is a handle on one web of a content store.
type Context interface {
	// WebServerRelativeURL returns the path of the web, e.g. "/sites/a/news".
	WebServerRelativeURL(ctx context.Context) (string, error)
	// SiteURL returns the absolute URL of the site collection's root web.
	SiteURL(ctx context.Context) (string, error)
	// Clone returns a handle on another web of the same store.
	Clone(webURL string) (Context, error)
	Open(ctx context.Context, serverRelativePath string) (io.ReadCloser, error)
	Exists(ctx context.Context, serverRelativePath string) (bool, error)
	// Upload stores content as fileName in folder and returns its server relative path.
	Upload(ctx context.Context, folderServerRelativeURL, fileName string, content io.Reader) (string, error)
}

// Web is a Context over a file system where the server relative path
// "/sites/a/Images/hero.jpg" is stored as "sites/a/Images/hero.jpg".
type Web struct {
	fsys    system.WritableFS
	siteURL *url.URL
	webURL  *url.URL
}

var _ Context = (*Web)(nil)

// NewWeb returns a handle on webURL, which must live inside siteURL.
func NewWeb(fsys system.WritableFS, siteURL, webURL string) (*Web, error) {
	site, err := parseAbsolute(siteURL)
	if err != nil {
		return nil, err
	}
	web, err := parseAbsolute(webURL)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(site.Host, web.Host) || !isWithin(web.Path, site.Path) {
		return nil, ErrInvalidURL.Wrapf("web %q is not inside site %q", webURL, siteURL)
	}
	return &Web{fsys: fsys, siteURL: site, webURL: web}, nil
}

func (w *Web) WebServerRelativeURL(context.Context) (string, error) {
	return serverRelative(w.webURL), nil
}

func (w *Web) SiteURL(context.Context) (string, error) {
	return w.siteURL.String(), nil
}

func (w *Web) Clone(webURL string) (Context, error) {
	return NewWeb(w.fsys, w.siteURL.String(), webURL)
}

func (w *Web) Open(_ context.Context, serverRelativePath string) (io.ReadCloser, error) {
	name, err := fsName(serverRelativePath)
	if err != nil {
		return nil, err
	}
	f, err := w.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", serverRelativePath, err)
	}
	return f, nil
}

func (w *Web) Exists(_ context.Context, serverRelativePath string) (bool, error) {
	name, err := fsName(serverRelativePath)
	if err != nil {
		return false, err
	}
	_, err = fs.Stat(w.fsys, name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (w *Web) Upload(_ context.Context, folderServerRelativeURL, fileName string, content io.Reader) (string, error) {
	if fileName == "" || strings.ContainsAny(fileName, `/\`) {
		return "", ErrInvalidPath.Wrapf("file name %q", fileName)
	}

	folder, err := fsName(folderServerRelativeURL)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, content); err != nil {
		return "", fmt.Errorf("failed to read upload content for %q: %w", fileName, err)
	}

	if err := w.fsys.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder %q: %w", folderServerRelativeURL, err)
	}
	if err := w.fsys.WriteFile(path.Join(folder, fileName), buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", fileName, err)
	}

	return path.Join("/", folder, fileName), nil
}

func parseAbsolute(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, ErrInvalidURL.Wrap(err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, ErrInvalidURL.Wrapf("%q is not absolute", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery, u.Fragment = "", ""
	return u, nil
}

func serverRelative(u *url.URL) string {
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

func isWithin(p, parent string) bool {
	return parent == "" || fold.Equal(p, parent) || fold.HasPrefix(p, parent+"/")
}

func fsName(serverRelativePath string) (string, error) {
	if !strings.HasPrefix(serverRelativePath, "/") {
		return "", ErrInvalidPath.Wrapf("%q is not server relative", serverRelativePath)
	}
	name := strings.TrimPrefix(path.Clean(serverRelativePath), "/")
	if name == "" {
		name = "."
	}
	if !fs.ValidPath(name) {
		return "", ErrInvalidPath.Wrapf("%q", serverRelativePath)
	}
	return name, nil
}
