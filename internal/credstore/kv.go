package credstore

import "github.com/seren-dev/songhop/internal/repositories"

// kvPrefix namespaces credential slots within the shared kv table.
const kvPrefix = "credstore:"

// KV adapts [repositories.KVRepository] into a storage [Medium]. It carries
// no expiry; secrets live until cleared.
type KV struct {
	repo *repositories.KVRepository
}

// NewKV creates a key-value medium backed by the given repository.
func NewKV(repo *repositories.KVRepository) *KV {
	return &KV{repo: repo}
}

// Available reports whether the backing repository exists.
func (m *KV) Available() bool {
	return m.repo != nil
}

func (m *KV) Write(key, value string) error {
	return m.repo.Set(kvPrefix+key, value)
}

func (m *KV) Read(key string) (string, error) {
	return m.repo.Get(kvPrefix + key)
}

func (m *KV) Remove(key string) error {
	return m.repo.Delete(kvPrefix + key)
}
