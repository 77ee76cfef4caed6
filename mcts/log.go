package mcts

import (
	"compress/gzip"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

// LogIteration is one search-trace record, serialized to Driver's log
// stream if one is set. It mirrors montecarlo.LogIteration/LogPlay
// (montecarlo/montecarlo.go): a per-iteration snapshot of the root's
// current child statistics, gzip+yaml encoded one document per line.
type LogIteration struct {
	Iteration int              `yaml:"iteration"`
	RootVisits uint64          `yaml:"root_visits"`
	Children  []LogChild       `yaml:"children"`
}

// LogChild is one root child's stats at the time of a trace record.
type LogChild struct {
	Visits   uint64  `yaml:"visits"`
	MeanValue float64 `yaml:"mean_value"`
}

var gzWriterPool = sync.Pool{
	New: func() any { return gzip.NewWriter(io.Discard) },
}

// traceIteration writes one LogIteration record to d's log stream, if
// set. Errors are swallowed: search-trace logging is diagnostic and must
// never abort or slow down the search loop on a bad writer.
func (d *Driver) traceIteration(n uint64, root *treeNode) {
	d.logMu.Lock()
	w := d.logStream
	d.logMu.Unlock()
	if w == nil {
		return
	}

	rec := LogIteration{Iteration: int(n), RootVisits: root.Visits}
	for _, c := range root.Children {
		mean := 0.0
		if c.Visits > 0 {
			mean = c.ValueSum / float64(c.Visits)
		}
		rec.Children = append(rec.Children, LogChild{Visits: c.Visits, MeanValue: mean})
	}

	out, err := yaml.Marshal(rec)
	if err != nil {
		return
	}

	gz := gzWriterPool.Get().(*gzip.Writer)
	gz.Reset(w)
	defer gzWriterPool.Put(gz)
	_, _ = gz.Write(out)
	_, _ = gz.Write([]byte("\n"))
	_ = gz.Close()
}
