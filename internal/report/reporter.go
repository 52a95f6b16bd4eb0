package report

// Reporter renders report snapshots. Progress is called once per
// aggregation window and Final exactly once when the run ends. Both are
// called from the aggregator goroutine, so a slow Reporter delays
// aggregation.
type Reporter interface {
	Progress(snapshot *Report)
	Final(snapshot *Report)
}

// NopReporter discards every snapshot.
type NopReporter struct{}

func (NopReporter) Progress(*Report) {}
func (NopReporter) Final(*Report)    {}

// MultiReporter fans snapshots out to several reporters in order.
type MultiReporter []Reporter

func (m MultiReporter) Progress(snapshot *Report) {
	for _, r := range m {
		r.Progress(snapshot)
	}
}

func (m MultiReporter) Final(snapshot *Report) {
	for _, r := range m {
		r.Final(snapshot)
	}
}
