package models

// Notification is one stored event notification. The same shape is pushed
// over the websocket feed and returned from the list endpoints.
type Notification struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Icon      string     `json:"icon"`
	Color     string     `json:"color"`
	Priority  string     `json:"priority"`
	Link      string     `json:"link,omitempty"`
	ProjectID string     `json:"projectId,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt Timestamp  `json:"createdAt"`
	ReadAt    *Timestamp `json:"readAt,omitempty"`
}

// NotificationList is the notification feed for a user.
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
}

// UnreadCountResponse carries just the unread counter for badge polling.
type UnreadCountResponse struct {
	UnreadCount int `json:"unreadCount"`
}

// NotificationActionResult reports how many notifications a bulk action touched.
type NotificationActionResult struct {
	Updated int `json:"updated"`
}

// NotificationPreferences are a user's notification toggles.
type NotificationPreferences struct {
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
}

// NotificationPreferencesUpdate is a partial update to the toggles; absent
// fields are left unchanged.
type NotificationPreferencesUpdate struct {
	EmailEnabled *bool `json:"emailNotifications,omitempty"`
	PushEnabled  *bool `json:"pushNotifications,omitempty"`

	ProjectCreated   *bool `json:"projectCreated,omitempty"`
	ProjectUpdated   *bool `json:"projectUpdated,omitempty"`
	StatusChanged    *bool `json:"statusChanged,omitempty"`
	ProjectCompleted *bool `json:"projectCompleted,omitempty"`
	ProgressUpdated  *bool `json:"progressUpdated,omitempty"`
	AnalysisComplete *bool `json:"analysisComplete,omitempty"`
	MilestoneReached *bool `json:"milestoneReached,omitempty"`
	MonitoringAlert  *bool `json:"monitoringAlert,omitempty"`
}
