package batch

import (
	"fmt"
	"sync"
	"time"

	"github.com/skillsenselab/batchscribe/util"
)

// JobNamer generates unique remote job identifiers of the form
// transcribe-<millis>-<sanitized name>. When ids are requested faster than
// the clock's resolution, the timestamp component is bumped past the last
// one issued, so no two jobs in one process ever share an id.
type JobNamer struct {
	mu   sync.Mutex
	last int64
}

// NewJobNamer creates a JobNamer.
func NewJobNamer() *JobNamer {
	return &JobNamer{}
}

// Next returns a fresh job id for the given display name.
func (n *JobNamer) Next(displayName string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= n.last {
		now = n.last + 1
	}
	n.last = now

	return fmt.Sprintf("transcribe-%d-%s", now, util.SanitizeJobName(displayName))
}
