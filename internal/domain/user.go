package domain

// User is a forum user profile as stored in the "users" collection.
type User struct {
	ID                string
	FullName          string
	Email             string
	ProfilePictureURL string
	FCMToken          string
}

// HasPushToken reports whether the user can receive push notifications.
// A missing token is expected (logged-out devices, web-only users).
func (u User) HasPushToken() bool { return u.FCMToken != "" }

// UserFromFields maps a raw document into a User.
func UserFromFields(id string, fields map[string]any) User {
	return User{
		ID:                id,
		FullName:          StringField(fields, "fullName"),
		Email:             StringField(fields, "email"),
		ProfilePictureURL: StringField(fields, "profilePictureUrl"),
		FCMToken:          StringField(fields, "fcmToken"),
	}
}
