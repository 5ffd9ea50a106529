package entity

type User struct {
	ID       uint   `gorm:"primaryKey;column:id"`
	Name     string `gorm:"not null;column:name"`
	Email    string `gorm:"unique;not null;column:email"`
	Username string `gorm:"unique;column:username"`
	Password string `gorm:"not null;column:password"`
	Bio      string `gorm:"column:bio"`
	Avatar   string `gorm:"column:avatar"`
	Premium  bool   `gorm:"not null;column:premium"`
}

// Candidate is the public projection of a user profile, the unit the
// swipe queue is made of. Immutable once fetched by a client.
type Candidate struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

func (u *User) Candidate() Candidate {
	return Candidate{
		ID:     u.ID,
		Name:   u.Name,
		Bio:    u.Bio,
		Avatar: u.Avatar,
	}
}
