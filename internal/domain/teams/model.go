package teams

import "time"

type Tech struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Tech) TableName() string {
	return "techs"
}

type Team struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:255;not null;uniqueIndex"`
	TechID    string    `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type Member struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	FullName  string    `gorm:"column:fullname;size:255;not null;uniqueIndex"`
	TeamID    string    `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Member) TableName() string {
	return "team_members"
}

type TechWithCount struct {
	Tech
	Teams int64
}

type TeamDetails struct {
	Team
	TechName string
	Members  int64
}

// TeamWithMembers is the detail view of a team.
type TeamWithMembers struct {
	TeamDetails
	MemberList []MemberDetails
}

type MemberDetails struct {
	Member
	TeamName string
	// CurrentWeekLogged is nil when the member logged nothing this week.
	CurrentWeekLogged *float64
}

type TeamFilter struct {
	TechID string
	Search string
}

type MemberFilter struct {
	TeamID string
	Search string
}
