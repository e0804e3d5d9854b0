package domain

import "context"

type SnapshotSource interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// StatusProvider may return a different reading on every call.
type StatusProvider interface {
	MachineStatus(ctx context.Context, machine string) (MachineStatus, error)
}

type AnalyticsSource interface {
	MachineDetail(ctx context.Context, machine string) (MachineDetail, error)
	TimeSeries(ctx context.Context, metric SeriesMetric, hours int, machine string) ([]SeriesPoint, error)
	ProductionCycles(ctx context.Context, machine string, count int) ([]ProductionCycle, error)
	Historical(ctx context.Context, metric HistoricalMetric, days int, machine string) ([]DailyValue, error)
	DowntimeEvents(ctx context.Context, days int) ([]DowntimeEvent, error)
}

type MetricsSource interface {
	SnapshotSource
	StatusProvider
	AnalyticsSource
	Machines(ctx context.Context) ([]string, error)
}
