package postgres

import "time"

type sourcePlayerTableModel struct {
	ID        int64      `db:"id"`
	PlayerTag string     `db:"player_tag"`
	Name      string     `db:"name"`
	Team      string     `db:"team"`
	Region    string     `db:"region"`
	Nation    string     `db:"nation"`
	ImageURL  string     `db:"image_url"`
	IsActive  bool       `db:"is_active"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}
