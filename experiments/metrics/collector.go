package metrics

import (
	"sync/atomic"
	"time"
)

// Fallback stages reported by the agents.
const (
	StageSingle  = "single"  // Only one legal move
	StageAStar   = "astar"   // First step of the A* path
	StageBFS     = "bfs"     // First step of the obstacle-blind BFS path
	StageSafe    = "safe"    // First move that keeps enough room
	StageAny     = "any"     // First legal move
	StageSearch  = "minimax" // Alpha-beta search
	StageRollout = "mcts"    // Tree search with random rollouts
	StagePolicy  = "policy"  // Learned action values
	StageNone    = "none"    // No legal move
)

type SearchMetric struct {
	Agent     string
	Depth     int
	Duration  time.Duration
	Nodes     int
	Leaves    int
	Cutoffs   int
	CacheHits int
	Stage     string
}

type MoveMetric struct {
	Step   int
	Move   string // Direction name
	Score  int
	Length int
	SearchMetric
}

type GameMetric struct {
	ID          string // uuid
	Agent       string
	Seed        string
	Width       int
	Height      int
	Score       int
	Length      int
	Ticks       int
	Termination string
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}

type Collector interface {
	Start(agent string, depth int)
	AddNode()
	AddLeaf()
	AddCutoff()
	AddCacheHit()
	SetStage(stage string)
	Complete() SearchMetric
}

type collector struct {
	agent     string
	depth     int
	startTime time.Time
	stage     atomic.Value
	nodes     atomic.Int32
	leaves    atomic.Int32
	cutoffs   atomic.Int32
	cacheHits atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets the counters for a new decision.
func (m *collector) Start(agent string, depth int) {
	m.startTime = time.Now()
	m.agent = agent
	m.depth = depth
	m.stage.Store(StageNone)
	m.nodes.Store(0)
	m.leaves.Store(0)
	m.cutoffs.Store(0)
	m.cacheHits.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddLeaf() {
	m.leaves.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) AddCacheHit() {
	m.cacheHits.Add(1)
}

func (m *collector) SetStage(stage string) {
	m.stage.Store(stage)
}

func (m *collector) Complete() SearchMetric {
	stage, _ := m.stage.Load().(string)
	return SearchMetric{
		Agent:     m.agent,
		Depth:     m.depth,
		Duration:  time.Since(m.startTime),
		Nodes:     int(m.nodes.Load()),
		Leaves:    int(m.leaves.Load()),
		Cutoffs:   int(m.cutoffs.Load()),
		CacheHits: int(m.cacheHits.Load()),
		Stage:     stage,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(agent string, depth int) {}
func (m *dummyCollector) AddNode()                      {}
func (m *dummyCollector) AddLeaf()                      {}
func (m *dummyCollector) AddCutoff()                    {}
func (m *dummyCollector) AddCacheHit()                  {}
func (m *dummyCollector) SetStage(stage string)         {}
func (m *dummyCollector) Complete() SearchMetric        { return SearchMetric{} }
