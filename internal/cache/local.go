package cache

import (
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	localDefaultTTL      = 5 * time.Minute
	localCleanupInterval = 10 * time.Minute
)

var localStore = gocache.New(localDefaultTTL, localCleanupInterval)

// ResetLocal 清空进程内缓存
func ResetLocal() {
	localStore.Flush()
}

func localGetJSON(key string, dest interface{}) (bool, error) {
	raw, ok := localStore.Get(key)
	if !ok {
		return false, nil
	}
	payload, ok := raw.([]byte)
	if !ok {
		localStore.Delete(key)
		return false, nil
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

func localSet(key string, payload []byte, ttl time.Duration) {
	if ttl <= 0 {
		localStore.Set(key, payload, gocache.NoExpiration)
		return
	}
	localStore.Set(key, payload, ttl)
}

func localDel(key string) {
	localStore.Delete(key)
}

func localGetVersion(key string) int64 {
	raw, ok := localStore.Get(key)
	if !ok {
		return 0
	}
	version, _ := raw.(int64)
	return version
}

func localBumpVersion(key string) int64 {
	// 键已存在时 Add 返回错误，忽略即可
	_ = localStore.Add(key, int64(0), gocache.NoExpiration)
	next, err := localStore.IncrementInt64(key, 1)
	if err != nil {
		localStore.Set(key, int64(1), gocache.NoExpiration)
		return 1
	}
	return next
}
