// Package digests estimates quantiles of values recorded concurrently under
// string keys.
package digests

import (
	"fmt"
	"sync"

	"github.com/caio/go-tdigest/v4"
	"github.com/puzpuzpuz/xsync/v4"
)

const compression = 1000

// DigestMap holds one t-digest per key. Keys are created on first Add and
// live until Delete.
type DigestMap struct {
	m *xsync.Map[string, *lockedDigest]
}

type lockedDigest struct {
	sync.Mutex
	digest *tdigest.TDigest // GUARDED_BY(Mutex)
}

func NewDigestMap() *DigestMap {
	return &DigestMap{m: xsync.NewMap[string, *lockedDigest]()}
}

// Add records value under key.
func (dm *DigestMap) Add(key string, value float64) error {
	var createErr error
	ld, _ := dm.m.LoadOrCompute(key, func() (*lockedDigest, bool) {
		digest, err := tdigest.New(tdigest.Compression(compression))
		if err != nil {
			createErr = err
			return nil, true
		}
		return &lockedDigest{digest: digest}, false
	})
	if createErr != nil {
		return fmt.Errorf("unable to create digest for %q: %w", key, createErr)
	}

	ld.Lock()
	defer ld.Unlock()
	return ld.digest.Add(value)
}

// Quantile estimates the value at quantile q of everything recorded under
// key. It reports false when nothing was recorded.
func (dm *DigestMap) Quantile(key string, q float64) (float64, bool) {
	ld, ok := dm.m.Load(key)
	if !ok {
		return 0, false
	}

	ld.Lock()
	defer ld.Unlock()
	return ld.digest.Quantile(q), true
}

// Delete forgets key.
func (dm *DigestMap) Delete(key string) {
	dm.m.Delete(key)
}
