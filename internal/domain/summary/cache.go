package summary

import "time"

// Cache keeps computed listings for a short while. Keys are derived from the
// listing filter. Set calls carry the Generation read before the listing was
// computed and are dropped when a Purge happened in between.
type Cache interface {
	Generation() uint64
	GetProjects(key string) ([]ProjectSummary, bool)
	SetProjects(key string, rows []ProjectSummary, ttl time.Duration, generation uint64)
	GetTeams(key string) ([]TeamSummary, bool)
	SetTeams(key string, rows []TeamSummary, ttl time.Duration, generation uint64)
	Purge()
}

// Observer is told how many rows each listing produced.
type Observer interface {
	SummariesComputed(kind string, rows int)
}

type noopCache struct{}

func (noopCache) Generation() uint64 {
	return 0
}

func (noopCache) GetProjects(string) ([]ProjectSummary, bool) {
	return nil, false
}

func (noopCache) SetProjects(string, []ProjectSummary, time.Duration, uint64) {}

func (noopCache) GetTeams(string) ([]TeamSummary, bool) {
	return nil, false
}

func (noopCache) SetTeams(string, []TeamSummary, time.Duration, uint64) {}

func (noopCache) Purge() {}

type noopObserver struct{}

func (noopObserver) SummariesComputed(string, int) {}
