package cache

// MemoryCache is an in-process map cache, used when no Redis address is
// configured and as a stand-in in tests.
type MemoryCache struct {
	Data map[string]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		Data: make(map[string]string),
	}
}

func (m *MemoryCache) Get(key string) (string, bool) {
	val, ok := m.Data[key]
	return val, ok
}

func (m *MemoryCache) Set(key string, value string) error {
	m.Data[key] = value
	return nil
}
