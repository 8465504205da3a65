// Входные/выходные модели под REST.
package models

import "time"

type RegisterRequest struct {
	Email       string       `json:"email"`
	Password    string       `json:"password"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PreferencesRequest принимает обе формы тела:
// {"preferences": {"categories": [...]}} и {"categories": [...]}.
// Если передана обёртка, поля верхнего уровня игнорируются.
type PreferencesRequest struct {
	Preferences *PreferencesUpdate `json:"preferences,omitempty"`
	PreferencesUpdate
}

// Update возвращает частичный апдейт из любой формы тела.
func (r PreferencesRequest) Update() PreferencesUpdate {
	if r.Preferences != nil {
		return *r.Preferences
	}
	return r.PreferencesUpdate
}

type UserView struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Preferences Preferences `json:"preferences"`
}

type ProfileView struct {
	UserView
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResponse struct {
	User  UserView `json:"user"`
	Token string   `json:"token"`
}

type PreferencesResponse struct {
	Preferences Preferences `json:"preferences"`
}

type HealthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
