package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fairyhunter13/cryzo-storefront/internal/model"
	"github.com/fairyhunter13/cryzo-storefront/internal/obs"
)

// Fetcher retrieves the remote product list.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]model.Product, error)
}

// Loader fills a Store from the remote catalog, falling back to the bundled
// list when the remote call fails or returns nothing.
type Loader struct {
	Fetcher      Fetcher
	FallbackFile string
	Timeout      time.Duration
}

// Load replaces the store contents and reports the source used. It only fails
// when the fallback list itself cannot be read.
func (l Loader) Load(ctx context.Context, st *Store) (Source, error) {
	if l.Fetcher != nil {
		fctx := ctx
		if l.Timeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(ctx, l.Timeout)
			defer cancel()
		}
		products, err := l.Fetcher.FetchProducts(fctx)
		switch {
		case err != nil:
			obs.Logger.Warn("catalog_remote_failed", zap.Error(err))
		case len(products) == 0:
			obs.Logger.Warn("catalog_remote_empty")
		default:
			st.Replace(products, SourceRemote)
			obs.Logger.Info("catalog_loaded", zap.String("source", string(SourceRemote)), zap.Int("count", st.Len()))
			return SourceRemote, nil
		}
	}
	products, err := Fallback(l.FallbackFile)
	if err != nil {
		return SourceNone, err
	}
	st.Replace(products, SourceFallback)
	obs.Logger.Info("catalog_loaded", zap.String("source", string(SourceFallback)), zap.Int("count", st.Len()))
	return SourceFallback, nil
}
