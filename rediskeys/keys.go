// Package rediskeys names the Redis keys shared by the kiosk services.
// agg-svc writes the aggregates, kiosk-svc and analytics-svc read them.
package rediskeys

import "time"

const DateLayout = "2006-01-02"

const (
	Catalog = "catalog:v1"

	popularPrefix   = "kiosk:popular:"
	completedPrefix = "kiosk:orders:completed:"
	revenuePrefix   = "kiosk:revenue:"
	eventPrefix     = "kiosk:events:"
)

// Popular is the sorted set of units sold per item for one store.
func Popular(store string) string {
	return popularPrefix + store
}

// PopularPattern matches every store's popularity set.
func PopularPattern() string {
	return popularPrefix + "*"
}

// StoreFromPopular is the inverse of Popular.
func StoreFromPopular(key string) string {
	return key[len(popularPrefix):]
}

func Completed(day time.Time) string {
	return completedPrefix + day.Format(DateLayout)
}

func Revenue(day time.Time) string {
	return revenuePrefix + day.Format(DateLayout)
}

func Event(id string) string {
	return eventPrefix + id
}
