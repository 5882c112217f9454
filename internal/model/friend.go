package model

// Friend is a denormalized snapshot of another user, stored inside the
// owner's friend list. It is copied at add time and never refreshed; since
// users are immutable that drift cannot occur in practice.
type Friend struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar"`
}

// FriendSnapshot builds the list entry for a user.
func FriendSnapshot(u *User) Friend {
	return Friend{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

// AddFriendRequest carries the add-friend form field.
type AddFriendRequest struct {
	Username string `json:"username"`
}
