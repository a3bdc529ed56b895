//go:build cow_cachelinesize_64

package opt

// CacheLineSize_ forced to 64 bytes by the cow_cachelinesize_64 tag.
const CacheLineSize_ = 64
