package assets_test

import (
	"context"
	"io"
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/contentmigrate/pageheader/assets"
	"github.com/contentmigrate/pageheader/logging"
	"github.com/contentmigrate/pageheader/site"
	"github.com/contentmigrate/pageheader/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebs(t *testing.T) (*system.MemFS, *site.Web, *system.MemFS, *site.Web) {
	t.Helper()

	srcFS := system.NewMemFS()
	require.NoError(t, srcFS.WriteFile("sites/a/Images/hero.jpg", []byte("hero"), 0o644))
	src, err := site.NewWeb(srcFS, "https://contoso.sharepoint.com/sites/a", "https://contoso.sharepoint.com/sites/a")
	require.NoError(t, err)

	tgtFS := system.NewMemFS()
	tgt, err := site.NewWeb(tgtFS, "https://contoso.sharepoint.com/sites/modern", "https://contoso.sharepoint.com/sites/modern")
	require.NoError(t, err)

	return srcFS, src, tgtFS, tgt
}

func TestTransferer_TransferAsset_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, src, tgtFS, tgt := newWebs(t)
	rec := &logging.Recorder{}
	tr := assets.NewTransferer(rec)

	got, err := tr.TransferAsset(ctx, src, tgt, "/sites/a/Images/hero.jpg", "welcome-news")
	require.NoError(t, err)
	assert.Equal(t, "/sites/modern/SiteAssets/SitePages/welcome-news/hero.jpg", got)

	data, err := fs.ReadFile(tgtFS, "sites/modern/SiteAssets/SitePages/welcome-news/hero.jpg")
	require.NoError(t, err)
	assert.Equal(t, "hero", string(data))
	assert.Len(t, rec.Filter(logging.LevelInfo), 1)
}

func TestTransferer_TransferAsset_Memoized(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srcFS, src, _, tgt := newWebs(t)
	tr := assets.NewTransferer(nil)

	first, err := tr.TransferAsset(ctx, src, tgt, "/sites/a/Images/hero.jpg", "news")
	require.NoError(t, err)

	// a changed source is not copied again once the transfer is known
	require.NoError(t, srcFS.WriteFile("sites/a/Images/hero.jpg", []byte("changed"), 0o644))
	second, err := tr.TransferAsset(ctx, src, tgt, "/SITES/A/Images/HERO.jpg", "NEWS")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTransferer_TransferAsset_SharedAcrossTargets(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, src, tgtFS, tgt := newWebs(t)
	other, err := site.NewWeb(tgtFS, "https://contoso.sharepoint.com/sites/other", "https://contoso.sharepoint.com/sites/other")
	require.NoError(t, err)

	tr := assets.NewTransferer(nil)

	first, err := tr.TransferAsset(ctx, src, tgt, "/sites/a/Images/hero.jpg", "news")
	require.NoError(t, err)
	assert.Equal(t, "/sites/modern/SiteAssets/SitePages/news/hero.jpg", first)

	second, err := tr.TransferAsset(ctx, src, other, "/sites/a/Images/hero.jpg", "news")
	require.NoError(t, err)
	assert.Equal(t, "/sites/other/SiteAssets/SitePages/news/hero.jpg", second)

	data, err := fs.ReadFile(tgtFS, "sites/other/SiteAssets/SitePages/news/hero.jpg")
	require.NoError(t, err)
	assert.Equal(t, "hero", string(data))
}

// countingWeb counts uploads and slows them down so concurrent transfers overlap.
type countingWeb struct {
	site.Context
	uploads atomic.Int32
}

func (w *countingWeb) Upload(ctx context.Context, folder, fileName string, content io.Reader) (string, error) {
	w.uploads.Add(1)
	time.Sleep(10 * time.Millisecond)
	return w.Context.Upload(ctx, folder, fileName, content)
}

func TestTransferer_TransferAsset_ConcurrentSingleUpload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, src, tgtFS, tgt := newWebs(t)
	counting := &countingWeb{Context: tgt}
	tr := assets.NewTransferer(nil)

	const callers = 8
	results := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = tr.TransferAsset(ctx, src, counting, "/sites/a/Images/hero.jpg", "news")
		}()
	}
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, "/sites/modern/SiteAssets/SitePages/news/hero.jpg", results[i])
	}
	assert.Equal(t, int32(1), counting.uploads.Load())

	data, err := fs.ReadFile(tgtFS, "sites/modern/SiteAssets/SitePages/news/hero.jpg")
	require.NoError(t, err)
	assert.Equal(t, "hero", string(data))
}

func TestTransferer_TransferAsset_ReusesExisting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, src, tgtFS, tgt := newWebs(t)
	require.NoError(t, tgtFS.WriteFile("sites/modern/SiteAssets/SitePages/news/hero.jpg", []byte("already there"), 0o644))

	got, err := assets.NewTransferer(nil).TransferAsset(ctx, src, tgt, "/sites/a/Images/hero.jpg", "news")
	require.NoError(t, err)
	assert.Equal(t, "/sites/modern/SiteAssets/SitePages/news/hero.jpg", got)

	data, err := fs.ReadFile(tgtFS, "sites/modern/SiteAssets/SitePages/news/hero.jpg")
	require.NoError(t, err)
	assert.Equal(t, "already there", string(data), "existing files are never overwritten")
}

func TestTransferer_TransferAsset_Error(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, src, _, tgt := newWebs(t)
	tr := assets.NewTransferer(nil)

	tests := []struct {
		name     string
		path     string
		hint     string
		expected error
	}{
		{name: "relative path", path: "Images/hero.jpg", hint: "news", expected: assets.ErrInvalidAsset},
		{name: "root path", path: "/", hint: "news", expected: assets.ErrInvalidAsset},
		{name: "empty hint", path: "/sites/a/Images/hero.jpg", hint: "", expected: assets.ErrInvalidAsset},
		{name: "hint with separator", path: "/sites/a/Images/hero.jpg", hint: "a/b", expected: assets.ErrInvalidAsset},
		{name: "missing source", path: "/sites/a/Images/missing.jpg", hint: "news", expected: fs.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tr.TransferAsset(ctx, src, tgt, tt.path, tt.hint)
			require.ErrorIs(t, err, tt.expected)
		})
	}
}
