// Package mapimage composes a member's owned segments into one map picture.
//
// Segment n is read from <dir>/<n>.jpg and pasted at column (n-1) % columns,
// row (n-1) / columns. Unowned cells stay black.
package mapimage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/logger"
	"github.com/osse101/MapBot_Go/internal/metrics"
	"github.com/osse101/MapBot_Go/internal/utils"
)

// Options configures a Renderer. Zero values fall back to the defaults.
type Options struct {
	Dir           string
	Columns       int
	Rows          int
	TileSize      int
	Quality       int
	TileCacheSize int
	MapCacheSize  int
	MapCacheTTL   time.Duration
}

func (o *Options) applyDefaults() {
	if o.Columns == 0 {
		o.Columns = domain.DefaultMapColumns
	}
	if o.Rows == 0 {
		o.Rows = domain.DefaultMapRows
	}
	if o.TileSize == 0 {
		o.TileSize = DefaultTileSize
	}
	if o.Quality == 0 {
		o.Quality = DefaultJPEGQuality
	}
	o.Quality = utils.Clamp(o.Quality, MinJPEGQuality, MaxJPEGQuality)
	if o.TileCacheSize == 0 {
		o.TileCacheSize = DefaultTileCacheSize
	}
	if o.MapCacheSize == 0 {
		o.MapCacheSize = DefaultMapCacheSize
	}
	if o.MapCacheTTL == 0 {
		o.MapCacheTTL = DefaultMapCacheTTL
	}
}

// Renderer draws maps from segment tiles on disk. It is safe for concurrent use.
type Renderer struct {
	opts  Options
	tiles *lru.Cache[int, image.Image]
	maps  *expirable.LRU[string, []byte]
}

// New creates a renderer reading tiles from opts.Dir
func New(opts Options) (*Renderer, error) {
	opts.applyDefaults()
	if opts.Columns < 1 || opts.Rows < 1 {
		return nil, fmt.Errorf(ErrMsgInvalidGridFmt, opts.Columns, opts.Rows)
	}

	info, err := os.Stat(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgSegmentsDirFmt, opts.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf(ErrMsgSegmentsDirFmt, opts.Dir, os.ErrInvalid)
	}

	tiles, err := lru.New[int, image.Image](opts.TileCacheSize)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgTileCacheFmt, err)
	}

	return &Renderer{
		opts:  opts,
		tiles: tiles,
		maps:  expirable.NewLRU[string, []byte](opts.MapCacheSize, nil, opts.MapCacheTTL),
	}, nil
}

// Bounds returns the size of a rendered map
func (r *Renderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.opts.Columns*r.opts.TileSize, r.opts.Rows*r.opts.TileSize)
}

// Position returns the top-left pixel of segment n
func (r *Renderer) Position(n int) image.Point {
	col := (n - 1) % r.opts.Columns
	row := (n - 1) / r.opts.Columns
	return image.Pt(col*r.opts.TileSize, row*r.opts.TileSize)
}

// Render composes the owned segments. Numbers outside the grid are ignored.
func (r *Renderer) Render(owned []int) (image.Image, error) {
	canvas := image.NewRGBA(r.Bounds())
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	total := r.opts.Columns * r.opts.Rows
	for _, n := range owned {
		if n < 1 || n > total {
			continue
		}
		tile, err := r.tile(n)
		if err != nil {
			return nil, err
		}
		at := r.Position(n)
		dst := image.Rectangle{Min: at, Max: at.Add(image.Pt(r.opts.TileSize, r.opts.TileSize))}
		draw.Draw(canvas, dst, tile, tile.Bounds().Min, draw.Src)
	}
	return canvas, nil
}

// RenderJPEG renders and encodes the map. Identical ownership sets share a
// cached encoding until it expires.
func (r *Renderer) RenderJPEG(ctx context.Context, owned []int) ([]byte, error) {
	key := cacheKey(owned)
	if data, ok := r.maps.Get(key); ok {
		return data, nil
	}

	start := time.Now()
	img, err := r.Render(owned)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: r.opts.Quality}); err != nil {
		return nil, fmt.Errorf(ErrMsgEncodeFmt, err)
	}

	elapsed := time.Since(start)
	metrics.MapRenderDuration.Observe(elapsed.Seconds())
	logger.FromContext(ctx).Debug(LogMsgMapRendered, "segments", len(owned), "bytes", buf.Len(), "duration", elapsed)

	data := buf.Bytes()
	r.maps.Add(key, data)
	return data, nil
}

func (r *Renderer) tile(n int) (image.Image, error) {
	if img, ok := r.tiles.Get(n); ok {
		return img, nil
	}

	f, err := os.Open(filepath.Join(r.opts.Dir, strconv.Itoa(n)+TileExtension))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgOpenTileFmt, n, err)
	}
	defer f.Close()

	img, err := jpeg.Decode(f)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgDecodeTileFmt, n, err)
	}
	r.tiles.Add(n, img)
	return img, nil
}

// cacheKey identifies an ownership set regardless of order
func cacheKey(owned []int) string {
	sorted := append([]int(nil), owned...)
	sort.Ints(sorted)

	var b strings.Builder
	for i, n := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}
