package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// Agent hierarchy roles, strictly ordered top to bottom.
const (
	RoleCoordinator = "coordinator"
	RoleSupervisor  = "supervisor"
	RoleGroupLeader = "group_leader"
	RolePro         = "pro"
)

// Principal roles carried in JWT claims.
const (
	RoleSuperAdmin = "super_admin"
	RoleLocalAdmin = "local_admin"
	RoleUserAdmin  = "user_admin"
	RoleTeamMember = "team_member"
	RoleGuest      = "guest"
)

// Panchayath is an administrative region grouping its own independent
// agent hierarchy. There is no hierarchy among panchayaths.
type Panchayath struct {
	BaseModel
	Name     string `json:"name" gorm:"size:255;not null"`
	District string `json:"district" gorm:"size:100;not null"`
	State    string `json:"state" gorm:"size:100;not null"`

	// Relationships
	Agents []Agent          `json:"agents,omitempty" gorm:"foreignKey:PanchayathID"`
	Notes  []PanchayathNote `json:"notes,omitempty" gorm:"foreignKey:PanchayathID"`
}

// Agent is a field-staff member. SuperiorID is a self-referential weak
// reference forming a forest rooted at coordinators. A dangling or
// cross-panchayath SuperiorID is accepted and rendered as "Unassigned".
type Agent struct {
	BaseModel
	Name         string `json:"name" gorm:"size:255;not null"`
	Role         string `json:"role" gorm:"size:50;not null;type:enum('coordinator','supervisor','group_leader','pro')"`
	PanchayathID uint   `json:"panchayath_id" gorm:"not null;index"`
	SuperiorID   *uint  `json:"superior_id" gorm:"index"`
	Phone        string `json:"phone" gorm:"size:20"`
	Email        string `json:"email" gorm:"size:255"`
	Ward         string `json:"ward" gorm:"size:100"`

	// Relationships
	Panchayath Panchayath `json:"panchayath,omitempty" gorm:"foreignKey:PanchayathID"`
	Superior   *Agent     `json:"superior,omitempty" gorm:"foreignKey:SuperiorID"`
}

// ManagementTeam is a named, password-gated group of agents usable as a
// task-allocation target distinct from the reporting hierarchy.
type ManagementTeam struct {
	BaseModel
	Name         string `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Description  string `json:"description" gorm:"type:text"`
	TeamPassword string `json:"-" gorm:"size:255"`

	// Relationships
	Members []ManagementTeamMember `json:"members,omitempty" gorm:"foreignKey:TeamID"`
}

type ManagementTeamMember struct {
	BaseModel
	TeamID  uint `json:"team_id" gorm:"not null;uniqueIndex:idx_team_agent"`
	AgentID uint `json:"agent_id" gorm:"not null;uniqueIndex:idx_team_agent"`

	// Relationships
	Team  ManagementTeam `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	Agent Agent          `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
}

// Task allocation is mutually exclusive: exactly one of AgentID or
// TeamID is set. Enforced in the handler, not as a database constraint.
type Task struct {
	BaseModel
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Priority    string     `json:"priority" gorm:"size:50;not null;default:'normal';type:enum('high','medium','normal')"`
	Status      string     `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','cancelled')"`
	AgentID     *uint      `json:"agent_id" gorm:"index"`
	TeamID      *uint      `json:"team_id" gorm:"index"`
	DueDate     *time.Time `json:"due_date"`
	CreatedBy   uint       `json:"created_by" gorm:"not null"`

	// Relationships
	Agent   *Agent          `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
	Team    *ManagementTeam `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	Remarks []TaskRemark    `json:"remarks,omitempty" gorm:"foreignKey:TaskID"`
}

// TaskRemark rows are strictly append-only; editing or deleting a
// remark is not exposed anywhere.
type TaskRemark struct {
	BaseModel
	TaskID    uint   `json:"task_id" gorm:"not null;index"`
	Remark    string `json:"remark" gorm:"type:text;not null"`
	UpdatedBy string `json:"updated_by" gorm:"size:255;not null"`

	// Relationships
	Task Task `json:"task,omitempty" gorm:"foreignKey:TaskID"`
}

// DailyActivity holds at most one row per (agent_id, activity_date),
// enforced by upsert-on-conflict semantics.
type DailyActivity struct {
	BaseModel
	AgentID             uint      `json:"agent_id" gorm:"not null;uniqueIndex:idx_agent_date"`
	MobileNumber        string    `json:"mobile_number" gorm:"size:20;not null"`
	ActivityDate        time.Time `json:"activity_date" gorm:"type:date;not null;uniqueIndex:idx_agent_date"`
	ActivityDescription string    `json:"activity_description" gorm:"type:text;not null"`

	// Relationships
	Agent Agent `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
}

// AgentRating holds at most one row per (agent_id, rated_by);
// re-rating overwrites, never duplicates.
type AgentRating struct {
	BaseModel
	AgentID uint   `json:"agent_id" gorm:"not null;uniqueIndex:idx_agent_rater"`
	RatedBy string `json:"rated_by" gorm:"size:255;not null;uniqueIndex:idx_agent_rater"`
	Rating  int    `json:"rating" gorm:"not null"`

	// Relationships
	Agent Agent `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
}

// PanchayathNote is a free-text log entry attached to a panchayath.
type PanchayathNote struct {
	BaseModel
	PanchayathID uint   `json:"panchayath_id" gorm:"not null;index"`
	Note         string `json:"note" gorm:"type:text;not null"`
	CreatedBy    string `json:"created_by" gorm:"size:255;not null"`

	// Relationships
	Panchayath Panchayath `json:"panchayath,omitempty" gorm:"foreignKey:PanchayathID"`
}

// RegistrationRequest is the guest self-registration workflow. A
// request must be approved by an admin before guest login succeeds.
type RegistrationRequest struct {
	BaseModel
	Username     string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	MobileNumber string `json:"mobile_number" gorm:"size:20;not null;uniqueIndex"`
	Status       string `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','approved','rejected')"`
	ApprovedBy   *uint  `json:"approved_by"`
}

// User is an administrative principal. Passwords are bcrypt hashes.
type User struct {
	BaseModel
	Username string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password string `json:"-" gorm:"size:255;not null"`
	Email    string `json:"email" gorm:"size:255"`
	Phone    string `json:"phone" gorm:"size:20"`
	Role     string `json:"role" gorm:"size:50;not null;default:'user_admin';type:enum('super_admin','local_admin','user_admin')"`
	Status   string `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','suspended')"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification model
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null;type:enum('info','warning','error','success')"`
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"`
	Error       string    `json:"error" gorm:"type:text"`
}
