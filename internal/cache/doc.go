// Package cache is the cross-process Mode A loop-set cache (§10.3): a
// Redis-backed store, keyed by a compiled model's content hash
// (model.Model.Hash), wrapped in a circuit breaker so a Redis outage
// degrades to local Mode A enumeration instead of failing a run.
//
// Grounded on cryptorun's infrastructure/cache.RedisCache (the
// get/set-with-TTL client shape) and infra/breakers.Breaker (the gobreaker
// wrapper with a consecutive-failure trip rule), adapted from caching
// arbitrary string payloads to caching a gob-encoded loop set.
package cache
