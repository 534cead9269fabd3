package mapimage

import "time"

// Rendering defaults
const (
	DefaultTileSize    = 250
	DefaultJPEGQuality = 85
	MinJPEGQuality     = 1
	MaxJPEGQuality     = 100
	DefaultFileName    = "mapa.jpg"
	ContentType        = "image/jpeg"
	TileExtension      = ".jpg"
)

// Cache sizing
const (
	DefaultTileCacheSize = 64
	DefaultMapCacheSize  = 128
	DefaultMapCacheTTL   = 10 * time.Minute
)

// Formatted error messages
const (
	ErrMsgSegmentsDirFmt = "map segments directory %q not usable: %w"
	ErrMsgInvalidGridFmt = "invalid map grid %dx%d"
	ErrMsgTileCacheFmt   = "failed to create tile cache: %w"
	ErrMsgOpenTileFmt    = "failed to open tile %d: %w"
	ErrMsgDecodeTileFmt  = "failed to decode tile %d: %w"
	ErrMsgEncodeFmt      = "failed to encode map: %w"
)

// Log messages
const (
	LogMsgMapRendered = "Map rendered"
)
