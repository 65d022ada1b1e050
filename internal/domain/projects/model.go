package projects

import "time"

type Manager struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	FullName  string    `gorm:"column:fullname;size:255;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Manager) TableName() string {
	return "project_managers"
}

type State struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (State) TableName() string {
	return "project_states"
}

type Project struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:255;not null;uniqueIndex"`
	StateID   string    `gorm:"type:uuid;index;not null"`
	ManagerID string    `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// ProjectDetails is a project joined with the names of its state and manager.
type ProjectDetails struct {
	Project
	StateName   string
	ManagerName string
}

type ManagerWithCount struct {
	Manager
	Projects int64
}

type StateWithCount struct {
	State
	Projects int64
}

type ListFilter struct {
	StateID   string
	ManagerID string
	Search    string
}

type CreateProjectInput struct {
	Name      string
	StateID   string
	ManagerID string
}

type UpdateProjectInput struct {
	ID        string
	Name      string
	StateID   string
	ManagerID string
}
