package inmemory

import (
	"sync"
	"time"

	summarydomain "planner-go/internal/domain/summary"
)

type InMemorySummaryCache struct {
	mu         sync.RWMutex
	projects   map[string]projectsItem
	teams      map[string]teamsItem
	generation uint64
	now        func() time.Time
}

type projectsItem struct {
	value     []summarydomain.ProjectSummary
	expiresAt time.Time
}

type teamsItem struct {
	value     []summarydomain.TeamSummary
	expiresAt time.Time
}

func NewInMemorySummaryCache() *InMemorySummaryCache {
	return &InMemorySummaryCache{
		projects: make(map[string]projectsItem),
		teams:    make(map[string]teamsItem),
		now:      time.Now,
	}
}

// Generation counts purges so far.
func (c *InMemorySummaryCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

func (c *InMemorySummaryCache) GetProjects(key string) ([]summarydomain.ProjectSummary, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.projects[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.projects[key]
		if ok && !item.expiresAt.After(now) {
			delete(c.projects, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return cloneProjects(item.value), true
}

func (c *InMemorySummaryCache) SetProjects(key string, rows []summarydomain.ProjectSummary, ttl time.Duration, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return
	}
	if ttl <= 0 {
		delete(c.projects, key)
		return
	}
	c.projects[key] = projectsItem{
		value:     cloneProjects(rows),
		expiresAt: c.now().Add(ttl),
	}
}

func (c *InMemorySummaryCache) GetTeams(key string) ([]summarydomain.TeamSummary, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.teams[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.teams[key]
		if ok && !item.expiresAt.After(now) {
			delete(c.teams, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return cloneTeams(item.value), true
}

func (c *InMemorySummaryCache) SetTeams(key string, rows []summarydomain.TeamSummary, ttl time.Duration, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return
	}
	if ttl <= 0 {
		delete(c.teams, key)
		return
	}
	c.teams[key] = teamsItem{
		value:     cloneTeams(rows),
		expiresAt: c.now().Add(ttl),
	}
}

// Purge drops every cached listing and starts a new generation.
func (c *InMemorySummaryCache) Purge() {
	c.mu.Lock()
	c.generation++
	c.projects = make(map[string]projectsItem)
	c.teams = make(map[string]teamsItem)
	c.mu.Unlock()
}

func cloneProjects(rows []summarydomain.ProjectSummary) []summarydomain.ProjectSummary {
	if rows == nil {
		return nil
	}
	cloned := make([]summarydomain.ProjectSummary, len(rows))
	for i, row := range rows {
		row.BackEnd = cloneHours(row.BackEnd)
		row.FrontEnd = cloneHours(row.FrontEnd)
		row.Mobile = cloneHours(row.Mobile)
		row.Analysis = cloneHours(row.Analysis)
		row.TotalPlanned = cloneHours(row.TotalPlanned)
		row.TotalLogged = cloneHours(row.TotalLogged)
		row.TotalFact = cloneHours(row.TotalFact)
		cloned[i] = row
	}
	return cloned
}

func cloneTeams(rows []summarydomain.TeamSummary) []summarydomain.TeamSummary {
	if rows == nil {
		return nil
	}
	cloned := make([]summarydomain.TeamSummary, len(rows))
	for i, row := range rows {
		if row.Members != nil {
			row.Members = append(make([]summarydomain.MemberEntry, 0, len(row.Members)), row.Members...)
		}
		if row.Projects != nil {
			row.Projects = append(make([]summarydomain.ProjectRef, 0, len(row.Projects)), row.Projects...)
		}
		row.TotalPlanned = cloneHours(row.TotalPlanned)
		row.TotalLogged = cloneHours(row.TotalLogged)
		row.TotalFact = cloneHours(row.TotalFact)
		cloned[i] = row
	}
	return cloned
}

func cloneHours(value *float64) *float64 {
	if value == nil {
		return nil
	}
	hours := *value
	return &hours
}
