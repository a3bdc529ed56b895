//go:build cow_cachelinesize_128

package opt

// CacheLineSize_ forced to 128 bytes by the cow_cachelinesize_128 tag.
const CacheLineSize_ = 128
