package storage

import "context"

type scopedStore struct {
	base      Store
	namespace string
}

// Scope returns a view of base whose keys are prefixed with the client namespace,
// so that each browser client gets its own token, cart and favorites keys.
func Scope(base Store, namespace string) Store {
	return &scopedStore{base: base, namespace: namespace}
}

func (s *scopedStore) key(k string) string {
	return "client:" + s.namespace + ":" + k
}

func (s *scopedStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.base.Get(ctx, s.key(key))
}

func (s *scopedStore) Set(ctx context.Context, key string, value []byte) error {
	return s.base.Set(ctx, s.key(key), value)
}

func (s *scopedStore) Delete(ctx context.Context, key string) error {
	return s.base.Delete(ctx, s.key(key))
}
