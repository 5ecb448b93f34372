package cache

import "time"

// Stage TTLs. Provider responses are the expensive stage and keep the
// longest TTL; layouts and artifacts are cheap to recompute but caching
// them keeps repeated serves snappy.
const (
	TTLGenerate = 7 * 24 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)
