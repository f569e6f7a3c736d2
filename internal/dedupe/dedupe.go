// Package dedupe provides shared singleflight groups used to deduplicate
// concurrent work that must run once per key.
package dedupe

import "golang.org/x/sync/singleflight"

// ProfileGroup deduplicates first-visit profile bootstrap (profile row plus
// starter monsters) keyed by user id, so two concurrent first requests from
// the same user grant the starters only once.
var ProfileGroup singleflight.Group
