package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/uFincs/uFincs-sub004/output"
)

// TimingCollector collects hierarchical timing data. It is safe for concurrent use.
type TimingCollector struct {
	mu      sync.Mutex
	root    *timerNode
	current *timerNode
	styles  *output.Styles
	now     func() time.Time
}

type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	children []*timerNode
	parent   *timerNode
}

// CollectorOption configures a TimingCollector.
type CollectorOption func(*TimingCollector)

// WithStyles renders the report with terminal styling.
func WithStyles(styles *output.Styles) CollectorOption {
	return func(c *TimingCollector) {
		c.styles = styles
	}
}

// NewTimingCollector creates a new timing collector.
func NewTimingCollector(opts ...CollectorOption) *TimingCollector {
	c := &TimingCollector{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins timing an operation. The first timer becomes the root; later timers nest
// under whichever timer is currently open.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: c.now()}
	if c.root == nil {
		c.root = node
	} else {
		node.parent = c.current
		c.current.children = append(c.current.children, node)
	}
	c.current = node

	return &timingTimer{collector: c, node: node}
}

// Report writes the timing tree to w. Nothing is written before the first timer starts.
func (c *TimingCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}
	formatTimingTree(w, c.root, c.styles)
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.node.end = t.collector.now()
	if t.collector.current == t.node && t.node.parent != nil {
		t.collector.current = t.node.parent
	}
}

func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	node := &timerNode{name: name, start: t.collector.now(), parent: t.node}
	t.node.children = append(t.node.children, node)

	return &timingTimer{collector: t.collector, node: node}
}
