// Package notification stores and delivers per-user event notifications:
// project lifecycle events, analysis completions and monitoring alerts,
// gated by per-user preference toggles and pushed live over websockets.
package notification

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPreferencesNotFound  = errors.New("notification preferences not found")
)

// DefaultListLimit caps how many notifications a single listing returns.
const DefaultListLimit = 50

// Type identifies what kind of event a notification describes.
type Type string

// Notification types.
const (
	TypeProjectCreated   Type = "project_created"
	TypeProjectUpdated   Type = "project_updated"
	TypeStatusChanged    Type = "status_changed"
	TypeProjectCompleted Type = "project_completed"
	TypeProjectDeleted   Type = "project_deleted"
	TypeProgressUpdated  Type = "progress_updated"
	TypeAnalysisComplete Type = "analysis_complete"
	TypeMilestoneReached Type = "milestone_reached"
	TypeMonitoringAlert  Type = "monitoring_alert"
	TypeSystem           Type = "system"
)

// Priority grades how urgently a notification should surface.
type Priority string

// Priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// typeConfig carries the display attributes stamped onto notifications of
// one type.
type typeConfig struct {
	Icon     string
	Color    string
	Title    string
	Priority Priority
}

var typeConfigs = map[Type]typeConfig{
	TypeProjectCreated:   {Icon: "check-circle", Color: "#10b981", Title: "Project Created", Priority: PriorityHigh},
	TypeProjectUpdated:   {Icon: "edit", Color: "#3b82f6", Title: "Project Updated", Priority: PriorityLow},
	TypeStatusChanged:    {Icon: "exchange-alt", Color: "#f59e0b", Title: "Status Changed", Priority: PriorityMedium},
	TypeProjectCompleted: {Icon: "trophy", Color: "#8b5cf6", Title: "Project Completed", Priority: PriorityHigh},
	TypeProjectDeleted:   {Icon: "trash", Color: "#ef4444", Title: "Project Deleted", Priority: PriorityMedium},
	TypeProgressUpdated:  {Icon: "chart-line", Color: "#06b6d4", Title: "Progress Updated", Priority: PriorityLow},
	TypeAnalysisComplete: {Icon: "brain", Color: "#8b5cf6", Title: "Analysis Complete", Priority: PriorityHigh},
	TypeMilestoneReached: {Icon: "flag-checkered", Color: "#ec4899", Title: "Milestone Reached", Priority: PriorityHigh},
	TypeMonitoringAlert:  {Icon: "exclamation-triangle", Color: "#ef4444", Title: "Monitoring Alert", Priority: PriorityHigh},
	TypeSystem:           {Icon: "info-circle", Color: "#6b7280", Title: "System Notification", Priority: PriorityLow},
}

// configFor returns the display attributes for a type, falling back to the
// system config for unknown types.
func configFor(t Type) typeConfig {
	if cfg, ok := typeConfigs[t]; ok {
		return cfg
	}
	return typeConfigs[TypeSystem]
}

// Notification is one stored event notification for a user.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	Priority  Priority  `json:"priority"`
	Link      string    `json:"link,omitempty"`
	ProjectID string    `json:"projectId,omitempty"`
	Read      bool      `json:"read"`
	Archived  bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`

	// ReadAt is set the first time the notification is marked read.
	ReadAt *time.Time `json:"readAt,omitempty"`
}

// Preferences are a user's notification toggles. A disabled toggle stops
// notifications of that type from being created at all.
type Preferences struct {
	UserID string `json:"-"`

	EmailEnabled bool `json:"emailNotifications"`
	PushEnabled  bool `json:"pushNotifications"`

	ProjectCreated   bool `json:"projectCreated"`
	ProjectUpdated   bool `json:"projectUpdated"`
	StatusChanged    bool `json:"statusChanged"`
	ProjectCompleted bool `json:"projectCompleted"`
	ProgressUpdated  bool `json:"progressUpdated"`
	AnalysisComplete bool `json:"analysisComplete"`
	MilestoneReached bool `json:"milestoneReached"`
	MonitoringAlert  bool `json:"monitoringAlert"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultPreferences returns the toggles a user starts with: everything on
// except the noisy per-update progress notifications.
func DefaultPreferences(userID string) *Preferences {
	now := time.Now().UTC()
	return &Preferences{
		UserID:           userID,
		EmailEnabled:     true,
		PushEnabled:      true,
		ProjectCreated:   true,
		ProjectUpdated:   true,
		StatusChanged:    true,
		ProjectCompleted: true,
		ProgressUpdated:  false,
		AnalysisComplete: true,
		MilestoneReached: true,
		MonitoringAlert:  true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Allows reports whether notifications of the given type should be created
// for this user. Unknown and system types are always allowed.
func (p *Preferences) Allows(t Type) bool {
	switch t {
	case TypeProjectCreated:
		return p.ProjectCreated
	case TypeProjectUpdated:
		return p.ProjectUpdated
	case TypeStatusChanged:
		return p.StatusChanged
	case TypeProjectCompleted:
		return p.ProjectCompleted
	case TypeProgressUpdated:
		return p.ProgressUpdated
	case TypeAnalysisComplete:
		return p.AnalysisComplete
	case TypeMilestoneReached:
		return p.MilestoneReached
	case TypeMonitoringAlert:
		return p.MonitoringAlert
	default:
		return true
	}
}

// PreferencesUpdate is a partial update to a user's toggles; nil fields are
// left unchanged.
type PreferencesUpdate struct {
	EmailEnabled     *bool `json:"emailNotifications,omitempty"`
	PushEnabled      *bool `json:"pushNotifications,omitempty"`
	ProjectCreated   *bool `json:"projectCreated,omitempty"`
	ProjectUpdated   *bool `json:"projectUpdated,omitempty"`
	StatusChanged    *bool `json:"statusChanged,omitempty"`
	ProjectCompleted *bool `json:"projectCompleted,omitempty"`
	ProgressUpdated  *bool `json:"progressUpdated,omitempty"`
	AnalysisComplete *bool `json:"analysisComplete,omitempty"`
	MilestoneReached *bool `json:"milestoneReached,omitempty"`
	MonitoringAlert  *bool `json:"monitoringAlert,omitempty"`
}

// apply copies the set fields onto the preferences.
func (u *PreferencesUpdate) apply(p *Preferences) {
	if u.EmailEnabled != nil {
		p.EmailEnabled = *u.EmailEnabled
	}
	if u.PushEnabled != nil {
		p.PushEnabled = *u.PushEnabled
	}
	if u.ProjectCreated != nil {
		p.ProjectCreated = *u.ProjectCreated
	}
	if u.ProjectUpdated != nil {
		p.ProjectUpdated = *u.ProjectUpdated
	}
	if u.StatusChanged != nil {
		p.StatusChanged = *u.StatusChanged
	}
	if u.ProjectCompleted != nil {
		p.ProjectCompleted = *u.ProjectCompleted
	}
	if u.ProgressUpdated != nil {
		p.ProgressUpdated = *u.ProgressUpdated
	}
	if u.AnalysisComplete != nil {
		p.AnalysisComplete = *u.AnalysisComplete
	}
	if u.MilestoneReached != nil {
		p.MilestoneReached = *u.MilestoneReached
	}
	if u.MonitoringAlert != nil {
		p.MonitoringAlert = *u.MonitoringAlert
	}
}
