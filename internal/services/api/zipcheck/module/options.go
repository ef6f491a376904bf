package module

import "pfascheck/internal/platform/config"

// DefaultMaxUpload caps batch uploads
const DefaultMaxUpload int64 = 32 << 20

// Options configures the zipcheck module
type Options struct {
	MaxUploadBytes int64
}

// FromConfig reads CORE_API_MAX_UPLOAD_BYTES
func FromConfig(cfg config.Conf) Options {
	return Options{MaxUploadBytes: cfg.Prefix("CORE_API_").MayBytes("MAX_UPLOAD_BYTES", DefaultMaxUpload)}
}
