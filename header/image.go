package header

import (
	"context"
	"fmt"
	"strings"

	"github.com/contentmigrate/pageheader/errors"
	"github.com/contentmigrate/pageheader/internal/fold"
	"github.com/contentmigrate/pageheader/legacy"
	"github.com/contentmigrate/pageheader/site"
)

const (
	ErrInvalidImagePath = errors.Error("header image is not a server relative path")
	ErrMissingFileName  = errors.Error("page has no file name to name the image folder after")
	ErrNoImageLocation  = errors.Error("asset transfer returned no location")
)

// AssetTransferer copies an asset between content stores and returns its new
// server relative path. assets.Transferer implements it.
type AssetTransferer interface {
	TransferAsset(ctx context.Context, source, target site.Context, serverRelativePath, fileNameHint string) (string, error)
}

// ImageResult is the outcome of resolving a header image: either the URL of
// the transferred image or the cause of the failure. The zero value means no
// image was requested.
type ImageResult struct {
	URL string
	Err error
}

func imageFailure(err error) ImageResult {
	return ImageResult{Err: err}
}

// OK reports whether an image URL was produced.
func (r ImageResult) OK() bool {
	return r.Err == nil && r.URL != ""
}

type imageResolver struct {
	source site.Context
	target site.Context
	assets AssetTransferer
}

// resolve transfers the image at imageValue into the target. Images whose
// folder is outside the source web are read through the site collection's
// root web instead.
func (r imageResolver) resolve(ctx context.Context, imageValue string, page legacy.Page) ImageResult {
	i := strings.LastIndex(imageValue, "/")
	if i < 0 {
		return imageFailure(ErrInvalidImagePath.Wrapf("%q", imageValue))
	}
	folder := imageValue[:i]

	hint := legacy.FileNameWithoutExtension(page.FieldValues()[legacy.FieldFileLeafRef])
	if hint == "" {
		return imageFailure(ErrMissingFileName)
	}

	webURL, err := r.source.WebServerRelativeURL(ctx)
	if err != nil {
		return imageFailure(fmt.Errorf("failed to read source web url: %w", err))
	}

	source := r.source
	if !fold.HasPrefix(folder, webURL) {
		siteURL, err := r.source.SiteURL(ctx)
		if err != nil {
			return imageFailure(fmt.Errorf("failed to read source site url: %w", err))
		}
		source, err = r.source.Clone(siteURL)
		if err != nil {
			return imageFailure(fmt.Errorf("failed to open site root %q: %w", siteURL, err))
		}
	}

	url, err := r.assets.TransferAsset(ctx, source, r.target, imageValue, hint)
	if err != nil {
		return imageFailure(err)
	}
	if url == "" {
		return imageFailure(ErrNoImageLocation.Wrapf("%q", imageValue))
	}

	return ImageResult{URL: url}
}
