package cache

import (
	"fmt"
	"strings"
)

// Cache keys are canonical strings: resource name plus query parameters in a
// fixed field order, so two reads of the same resource+filters+page always
// hit the same entry.

// KeyInstances is the cache key for the instance list.
const KeyInstances = "instances"

// Invalidation patterns covering every page of a paged resource.
const (
	PatternMetrics   = "metrics:*"
	PatternDecisions = "decisions:*"
)

// MetricsKey returns the cache key for one page of an instance's metrics.
func MetricsKey(instanceID string, page, pageSize int) string {
	return fmt.Sprintf("metrics:%s:%d:%d", instanceID, page, pageSize)
}

// DecisionsKey returns the cache key for one page of an instance's decisions.
func DecisionsKey(instanceID string, page, pageSize int) string {
	return fmt.Sprintf("decisions:%s:%d:%d", instanceID, page, pageSize)
}

// Match reports whether a key matches an invalidation pattern. A pattern is
// either an exact key, or "<resource>:*" which covers every key of that
// resource.
func Match(pattern, key string) bool {
	if prefix, ok := strings.CutSuffix(pattern, ":*"); ok {
		return key == prefix || strings.HasPrefix(key, prefix+":")
	}
	return key == pattern
}
