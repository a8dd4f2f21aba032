package dto

import "github.com/hongminglow/astra-console/internal/models"

// ProfileList is the payload of the admin list endpoint.
type ProfileList struct {
	Query    string           `json:"query"`
	Shown    int              `json:"shown"`
	Profiles []models.Profile `json:"profiles"`
}
