package utils

import (
	"encoding/json"
	"enrollsvc/config"
	"log"

	"github.com/go-resty/resty/v2"
)

// UserDirectory resolves learner contact details from the user service.
// Enrollment records only carry user IDs; email delivery needs the address.
type UserDirectory struct {
	client  *resty.Client
	baseUrl string
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{
		client:  resty.New(),
		baseUrl: config.AppConfig.UserServiceUrl,
	}
}

// ResolveEmail returns the user's email address, or the configured default
// recipient when the directory is unavailable or unset. An empty result
// means the caller should skip sending.
func (d *UserDirectory) ResolveEmail(userID string) string {
	if d.baseUrl == "" || userID == "" {
		return config.AppConfig.DefaultRecipient
	}

	resp, err := d.client.R().Get(d.baseUrl + "/users/" + userID)
	if err != nil || resp.StatusCode() != 200 {
		log.Printf("[EMAIL] User directory lookup failed for %s: %v %s", userID, err, resp.Status())
		return config.AppConfig.DefaultRecipient
	}

	var user struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(resp.Body(), &user); err != nil {
		log.Printf("[EMAIL] Invalid user directory response for %s: %v", userID, err)
		return config.AppConfig.DefaultRecipient
	}
	if user.Email == "" {
		return config.AppConfig.DefaultRecipient
	}
	return user.Email
}
