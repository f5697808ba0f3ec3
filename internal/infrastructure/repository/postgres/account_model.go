package postgres

import (
	"database/sql"
	"time"
)

type accountTableModel struct {
	ID          int64      `db:"id"`
	APIKey      string     `db:"api_key"`
	AccountName string     `db:"account_name"`
	Token       string     `db:"account_token"`
	Active      bool       `db:"active"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type accountInsertModel struct {
	APIKey      string `db:"api_key"`
	AccountName string `db:"account_name"`
	Token       string `db:"account_token"`
	Active      bool   `db:"active"`
}

type characterTableModel struct {
	ID             int64          `db:"id"`
	AccountID      int64          `db:"account_id"`
	Name           string         `db:"name"`
	Level          sql.NullInt64  `db:"level"`
	Profession     sql.NullString `db:"profession"`
	LastZoneID     sql.NullInt64  `db:"last_zone_id"`
	LastStatusBits sql.NullInt64  `db:"last_status_bits"`
	LastCheckAt    sql.NullTime   `db:"last_check_at"`
	Score          int            `db:"score"`
	DisqualifiedAt sql.NullTime   `db:"disqualified_at"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DeletedAt      *time.Time     `db:"deleted_at"`
}

type characterInsertModel struct {
	AccountID  int64          `db:"account_id"`
	Name       string         `db:"name"`
	Level      sql.NullInt64  `db:"level"`
	Profession sql.NullString `db:"profession"`
	Score      int            `db:"score"`
}

type characterEventTableModel struct {
	ID          int64           `db:"id"`
	CharacterID int64           `db:"character_id"`
	EventCode   string          `db:"event_code"`
	Title       string          `db:"title"`
	Details     sql.NullString  `db:"details"`
	Points      int             `db:"points"`
	ZoneID      int             `db:"zone_id"`
	ZoneType    sql.NullString  `db:"zone_type"`
	Profession  sql.NullInt64   `db:"profession_id"`
	EliteSpec   sql.NullInt64   `db:"elite_spec_id"`
	Race        sql.NullInt64   `db:"race_id"`
	StatusBits  int             `db:"status_bits"`
	GroupType   sql.NullString  `db:"group_type"`
	GroupSize   sql.NullInt64   `db:"group_size"`
	IsCommander sql.NullBool    `db:"is_commander"`
	IsLogin     sql.NullBool    `db:"is_login"`
	MountIndex  sql.NullInt64   `db:"mount_index"`
	PosX        sql.NullFloat64 `db:"pos_x"`
	PosY        sql.NullFloat64 `db:"pos_y"`
	PosZ        sql.NullFloat64 `db:"pos_z"`
	DetectedAt  time.Time       `db:"detected_at"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	DeletedAt   *time.Time      `db:"deleted_at"`
}

type characterEventInsertModel struct {
	CharacterID int64           `db:"character_id"`
	EventCode   string          `db:"event_code"`
	Title       string          `db:"title"`
	Details     sql.NullString  `db:"details"`
	Points      int             `db:"points"`
	ZoneID      int             `db:"zone_id"`
	ZoneType    sql.NullString  `db:"zone_type"`
	Profession  sql.NullInt64   `db:"profession_id"`
	EliteSpec   sql.NullInt64   `db:"elite_spec_id"`
	Race        sql.NullInt64   `db:"race_id"`
	StatusBits  int             `db:"status_bits"`
	GroupType   sql.NullString  `db:"group_type"`
	GroupSize   sql.NullInt64   `db:"group_size"`
	IsCommander sql.NullBool    `db:"is_commander"`
	IsLogin     sql.NullBool    `db:"is_login"`
	MountIndex  sql.NullInt64   `db:"mount_index"`
	PosX        sql.NullFloat64 `db:"pos_x"`
	PosY        sql.NullFloat64 `db:"pos_y"`
	PosZ        sql.NullFloat64 `db:"pos_z"`
	DetectedAt  time.Time       `db:"detected_at"`
}

type eventTypeTableModel struct {
	ID          int64      `db:"id"`
	Code        string     `db:"code"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Category    string     `db:"category"`
	Points      int        `db:"points"`
	IsCritical  bool       `db:"is_critical"`
	Color       string     `db:"color"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type forbiddenZoneTableModel struct {
	ID        int64      `db:"id"`
	ZoneID    int        `db:"zone_id"`
	Name      string     `db:"name"`
	Class     string     `db:"class"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}
