// Package cache provides a bounded least-recently-used cache.
//
// LRU is used by the drawing manager to keep software-rasterized coverage
// masks between draws of the same shape:
//
//	masks := cache.New[maskKey, *image.Alpha](64)
//	masks.Put(key, mask)
//	mask, ok := masks.Get(key)
//
// LRU is safe for concurrent use and must not be copied after creation.
package cache
