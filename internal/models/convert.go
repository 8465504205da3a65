package models

// UserViewFrom — публичное представление пользователя (без хэша пароля).
func UserViewFrom(u *User) UserView {
	return UserView{
		ID:          u.ID.String(),
		Email:       u.Email,
		Preferences: u.Preferences.Normalize(),
	}
}

func ProfileViewFrom(u *User) ProfileView {
	return ProfileView{UserView: UserViewFrom(u), CreatedAt: u.CreatedAt}
}

func AuthResponseFrom(s *Session) AuthResponse {
	return AuthResponse{User: UserViewFrom(s.User), Token: s.Token}
}
