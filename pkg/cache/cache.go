package cache

// Cache defines the interface for in-process caches.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Delete(key K)
	Clearer
}

// Clearer is anything that can drop all of its entries.
type Clearer interface {
	Clear()
}
