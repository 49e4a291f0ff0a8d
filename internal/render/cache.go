package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// maxPools bounds the number of option sets kept at once. Every terminal
// resize produces a new width, so long chat sessions would otherwise
// accumulate one pool per width they ever saw.
const maxPools = 16

// poolKey identifies renderers that can be shared. Style is normalized so
// aliases such as "tokyo-night" and "tokyonight" share a pool.
type poolKey struct {
	style            string
	width            int
	emoji            bool
	preserveNewLines bool
	tableWrap        bool
	inlineTableLinks bool
}

// rendererPool hands out glamour renderers per option set. A TermRenderer
// must not be used by two goroutines at once, so each is checked out with
// get and handed back with put.
type rendererPool struct {
	mu    sync.Mutex
	pools map[poolKey]*sync.Pool
}

var globalPool = &rendererPool{
	pools: make(map[poolKey]*sync.Pool),
}

func cacheKey(opts Options) poolKey {
	return poolKey{
		style:            normalizeStyle(opts.Style),
		width:            opts.Width,
		emoji:            opts.EnableEmoji,
		preserveNewLines: opts.PreserveNewLines,
		tableWrap:        opts.TableWrap,
		inlineTableLinks: opts.InlineTableLinks,
	}
}

// getPool returns or creates the pool for opts. When the bound is reached
// all pools are dropped; renderers checked out at that moment are simply
// not returned anywhere.
func (p *rendererPool) getPool(opts Options) *sync.Pool {
	key := cacheKey(opts)

	p.mu.Lock()
	defer p.mu.Unlock()

	if pool, ok := p.pools[key]; ok {
		return pool
	}
	if len(p.pools) >= maxPools {
		p.pools = make(map[poolKey]*sync.Pool)
	}

	pool := &sync.Pool{
		New: func() interface{} {
			renderer, err := createRenderer(opts)
			if err != nil {
				return nil
			}
			return renderer
		},
	}
	p.pools[key] = pool
	return pool
}

// get checks out a renderer for opts.
func (p *rendererPool) get(opts Options) (*glamour.TermRenderer, error) {
	if r, ok := p.getPool(opts).Get().(*glamour.TermRenderer); ok && r != nil {
		return r, nil
	}
	// New returned nil; build directly to surface the error.
	return createRenderer(opts)
}

// put returns a renderer obtained from get.
func (p *rendererPool) put(opts Options, renderer *glamour.TermRenderer) {
	if renderer == nil {
		return
	}
	p.getPool(opts).Put(renderer)
}

// createRenderer builds a TermRenderer for opts. Built-in style names
// resolve in memory; anything else is read as a JSON style file.
func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	styleOpt := glamour.WithStylePath(opts.Style)
	if cfg, ok := GetBuiltinTheme(opts.Style); ok {
		styleOpt = glamour.WithStyles(cfg)
	}

	rendererOpts := []glamour.TermRendererOption{
		styleOpt,
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(rendererOpts...)
}

// ClearCache drops every pooled renderer.
func ClearCache() {
	globalPool.mu.Lock()
	globalPool.pools = make(map[poolKey]*sync.Pool)
	globalPool.mu.Unlock()
}

// CacheSize returns the number of option sets currently pooled.
func CacheSize() int {
	globalPool.mu.Lock()
	defer globalPool.mu.Unlock()
	return len(globalPool.pools)
}
