package teams

import "time"

type Team struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	TeamName      string    `gorm:"column:team_name;not null"`
	TeamPassword  string    `gorm:"column:team_password;not null"`
	PasswordHash  string    `gorm:"column:password_hash;not null" json:"-"`
	TeamMembers   string    `gorm:"column:team_members;not null"`
	BillableHours int       `gorm:"column:billable_hours;not null"`
	QRCode        *string   `gorm:"column:qr_code"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (Team) TableName() string {
	return "teams"
}

// Summary is the id/name projection used by pickers and embedded in
// employee rows.
type Summary struct {
	ID       int64  `gorm:"primaryKey"`
	TeamName string `gorm:"column:team_name"`
}

func (Summary) TableName() string {
	return "teams"
}
