//go:build cow_cachelinesize_32

package opt

// CacheLineSize_ forced to 32 bytes by the cow_cachelinesize_32 tag.
const CacheLineSize_ = 32
