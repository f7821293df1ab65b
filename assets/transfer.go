// Package assets copies binary assets such as header images from the source
// content store into the target web.
package assets

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/contentmigrate/pageheader/errors"
	"github.com/contentmigrate/pageheader/internal/fold"
	"github.com/contentmigrate/pageheader/logging"
	"github.com/contentmigrate/pageheader/site"
	"golang.org/x/sync/singleflight"
)

// SitePagesAssetFolder is where page assets land, relative to the target web.
const SitePagesAssetFolder = "SiteAssets/SitePages"

const ErrInvalidAsset = errors.Error("invalid asset")

// Transferer copies assets between webs. Copies are memoized per source
// asset, target web and page, so a Transferer shared by many pages copies each
// of them once. It is safe for concurrent use; copies to the same destination
// are serialized.
type Transferer struct {
	logger logging.Logger
	copies singleflight.Group

	mu          sync.Mutex
	transferred map[string]string
}

func NewTransferer(logger logging.Logger) *Transferer {
	if logger == nil {
		logger = logging.Discard
	}
	return &Transferer{logger: logger, transferred: map[string]string{}}
}

// TransferAsset copies the asset at serverRelativePath from source into
// SiteAssets/SitePages/<fileNameHint>/ of target and returns the new server
// relative path. An asset already present at the destination is reused.
func (t *Transferer) TransferAsset(ctx context.Context, source, target site.Context, serverRelativePath, fileNameHint string) (string, error) {
	fileName := path.Base(serverRelativePath)
	if !strings.HasPrefix(serverRelativePath, "/") || fileName == "/" || fileName == "." {
		return "", ErrInvalidAsset.Wrapf("%q is not a server relative file path", serverRelativePath)
	}
	if fileNameHint == "" || strings.ContainsAny(fileNameHint, `/\`) {
		return "", ErrInvalidAsset.Wrapf("page folder name %q", fileNameHint)
	}

	sourceSite, err := source.SiteURL(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read source site url: %w", err)
	}
	targetSite, err := target.SiteURL(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read target site url: %w", err)
	}
	targetWeb, err := target.WebServerRelativeURL(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read target web url: %w", err)
	}

	key := fold.String(sourceSite + "|" + serverRelativePath + "|" + targetSite + "|" + targetWeb + "|" + fileNameHint)
	if done, ok := t.lookup(key); ok {
		return done, nil
	}

	folder := path.Join(targetWeb, SitePagesAssetFolder, fileNameHint)
	destination := path.Join(folder, fileName)

	v, err, _ := t.copies.Do(fold.String(targetSite+"|"+destination), func() (any, error) {
		return t.copy(ctx, source, target, serverRelativePath, folder, destination)
	})
	if err != nil {
		return "", err
	}

	uploaded := v.(string)
	t.remember(key, uploaded)
	return uploaded, nil
}

// copy uploads the asset unless destination already exists.
func (t *Transferer) copy(ctx context.Context, source, target site.Context, serverRelativePath, folder, destination string) (string, error) {
	exists, err := target.Exists(ctx, destination)
	if err != nil {
		return "", fmt.Errorf("failed to check %q: %w", destination, err)
	}
	if exists {
		t.logger.Info(logging.CategoryAssets, fmt.Sprintf("asset %s already present at %s", serverRelativePath, destination))
		return destination, nil
	}

	r, err := source.Open(ctx, serverRelativePath)
	if err != nil {
		return "", fmt.Errorf("failed to read asset: %w", err)
	}
	defer r.Close()

	uploaded, err := target.Upload(ctx, folder, path.Base(destination), r)
	if err != nil {
		return "", fmt.Errorf("failed to upload asset: %w", err)
	}

	t.logger.Info(logging.CategoryAssets, fmt.Sprintf("copied %s to %s", serverRelativePath, uploaded))
	return uploaded, nil
}

func (t *Transferer) lookup(key string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.transferred[key]
	return v, ok
}

func (t *Transferer) remember(key, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.transferred[key] = value
}
