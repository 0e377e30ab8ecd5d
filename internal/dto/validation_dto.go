package dto

import "time"

type UsageInfo struct {
	Current   int `json:"current"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// ValidationResult is the answer to "may this user perform this action now".
// A denial is a normal outcome, not an error.
type ValidationResult struct {
	IsValid     bool       `json:"is_valid"`
	Reason      string     `json:"reason,omitempty"`
	CurrentPlan string     `json:"current_plan,omitempty"`
	UsageInfo   *UsageInfo `json:"usage_info,omitempty"`
}

type FeatureAccess struct {
	HasAccess  bool       `json:"has_access"`
	Reason     string     `json:"reason,omitempty"`
	UsageCount int        `json:"usage_count"`
	UsageLimit int        `json:"usage_limit"`
	Remaining  int        `json:"remaining"`
	ResetDate  *time.Time `json:"reset_date,omitempty"`
}

type ValidateActionRequest struct {
	FeatureName string `json:"feature_name" validate:"required"`
	Count       int    `json:"count" validate:"omitempty,min=1"`
}

type ValidateMultipleRequest struct {
	Actions []ValidateActionRequest `json:"actions" validate:"required,min=1,dive"`
}

type CheckFeaturesRequest struct {
	Features []string `json:"features" validate:"required,min=1"`
}

type ValidateMultipleResponse struct {
	AllValid bool                         `json:"all_valid"`
	Results  map[string]*ValidationResult `json:"results"`
}
