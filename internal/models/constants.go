package models

// Row statuses as tracked through a reconciliation run
const (
	StatusTreated  RowStatus = "TREATED"
	StatusFaulted  RowStatus = "FAULTED"
	StatusFinished RowStatus = "FINISHED"
)

// Registry format markers
const (
	// ControlMarker is the literal line preceding the control line.
	ControlMarker = "="
)

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
