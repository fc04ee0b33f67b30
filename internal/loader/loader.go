package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/erni27/imcache"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Loader implements schema.Loader by delegating to file, fs.FS or HTTP
// strategies. Successful loads are optionally cached by source location.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	cacheTTL  time.Duration
	cache     *imcache.Cache[string, []byte]
}

var _ schema.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options schema.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	l := &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
		cacheTTL:  options.CacheTTL,
	}
	if options.CacheTTL != 0 {
		l.cache = imcache.New[string, []byte]()
	}
	return l
}

// Load fetches a document from src and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("loader: source is nil")
	}
	key := string(src.Kind()) + "|" + src.Location()
	if l.cache != nil {
		if data, ok := l.cache.Get(key); ok {
			return schema.NewDocument(src, data)
		}
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case schema.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case schema.SourceKindURL:
		if !l.allowHTTP {
			return schema.Document{}, errors.New("loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("loader: unsupported source kind")
	}
	if err != nil {
		return schema.Document{}, err
	}

	doc, err := schema.NewDocument(src, data)
	if err != nil {
		return schema.Document{}, err
	}
	if l.cache != nil {
		l.cache.Set(key, doc.Raw(), l.expiration())
	}
	return doc, nil
}

// Invalidate drops a cached document.
func (l *Loader) Invalidate(src schema.Source) {
	if l.cache == nil || src == nil {
		return
	}
	l.cache.Remove(string(src.Kind()) + "|" + src.Location())
}

func (l *Loader) expiration() imcache.Expiration {
	if l.cacheTTL < 0 {
		return imcache.WithNoExpiration()
	}
	return imcache.WithExpiration(l.cacheTTL)
}
