package match

// Monitor provides hooks to observe the progressive search.
// Implement this interface to track funnel stages and cache behavior.
type Monitor interface {
	Start(entity string)
	CacheHit(entity string, negative bool)
	StageComplete(stage string, accumulated int)
	EarlyTerminated(entity string, kept int)
	Finish(entity string, result *Result)
}

// Funnel stage names reported to monitors.
const (
	StageExact = "exact"
	StageHigh  = "high_similarity"
	StageAlias = "alias"
)

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)               {}
func (n *noopMonitor) CacheHit(_ string, _ bool)    {}
func (n *noopMonitor) StageComplete(_ string, _ int) {}
func (n *noopMonitor) EarlyTerminated(_ string, _ int) {}
func (n *noopMonitor) Finish(_ string, _ *Result)   {}
