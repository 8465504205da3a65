// models содержит доменные сущности news-gateway.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User — учётная запись пользователя.
// Email уникален в хранилище и сравнивается с учётом регистра.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Preferences  Preferences
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Preferences — набор предпочтений пользователя для персональной ленты.
type Preferences struct {
	Categories []string `json:"categories"`
	Sources    []string `json:"sources"`
	Countries  []string `json:"countries"`
	Languages  []string `json:"languages"`
}

// DefaultPreferences возвращает пустой набор предпочтений (все поля — пустые массивы).
func DefaultPreferences() Preferences {
	return Preferences{
		Categories: []string{},
		Sources:    []string{},
		Countries:  []string{},
		Languages:  []string{},
	}
}

// Normalize заменяет nil-срезы пустыми, чтобы наружу всегда уходили массивы, а не null.
func (p Preferences) Normalize() Preferences {
	if p.Categories == nil {
		p.Categories = []string{}
	}
	if p.Sources == nil {
		p.Sources = []string{}
	}
	if p.Countries == nil {
		p.Countries = []string{}
	}
	if p.Languages == nil {
		p.Languages = []string{}
	}

	return p
}

// Clone возвращает глубокую копию набора.
func (p Preferences) Clone() Preferences {
	return Preferences{
		Categories: cloneStrings(p.Categories),
		Sources:    cloneStrings(p.Sources),
		Countries:  cloneStrings(p.Countries),
		Languages:  cloneStrings(p.Languages),
	}.Normalize()
}

// PreferencesUpdate — частичный апдейт предпочтений.
// nil-указатель означает «поле не передано» (значение сохраняется),
// непустой указатель полностью заменяет прежнее значение.
type PreferencesUpdate struct {
	Categories *[]string `json:"categories,omitempty"`
	Sources    *[]string `json:"sources,omitempty"`
	Countries  *[]string `json:"countries,omitempty"`
	Languages  *[]string `json:"languages,omitempty"`
}

// IsEmpty — в апдейте нет ни одного поля.
func (u PreferencesUpdate) IsEmpty() bool {
	return u.Categories == nil && u.Sources == nil && u.Countries == nil && u.Languages == nil
}

// Apply выполняет поверхностное слияние: переданные поля заменяют текущие.
func (u PreferencesUpdate) Apply(p Preferences) Preferences {
	out := p.Clone()

	if u.Categories != nil {
		out.Categories = cloneStrings(*u.Categories)
	}
	if u.Sources != nil {
		out.Sources = cloneStrings(*u.Sources)
	}
	if u.Countries != nil {
		out.Countries = cloneStrings(*u.Countries)
	}
	if u.Languages != nil {
		out.Languages = cloneStrings(*u.Languages)
	}

	return out.Normalize()
}

// Identity — проверенные claims токена.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}

	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Session — результат регистрации/входа: пользователь и выданный токен.
type Session struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}
