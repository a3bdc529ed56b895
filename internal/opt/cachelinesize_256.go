//go:build cow_cachelinesize_256

package opt

// CacheLineSize_ forced to 256 bytes by the cow_cachelinesize_256 tag.
const CacheLineSize_ = 256
