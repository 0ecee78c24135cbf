package models

import "time"

// Role is the marketplace role an authenticated profile acts under.
type Role string

const (
	// RoleNone marks a caller that has not authenticated yet. It is never persisted.
	RoleNone   Role = "NONE"
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

// Valid reports whether r is a role a stored profile may carry.
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// UserProfile is an actor account created on first sign-in.
// Saved and liked property ids have set semantics; entries may dangle after
// a listing is deleted and simply resolve to nothing on lookup.
type UserProfile struct {
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	ID              string    `json:"id" validate:"required"`
	Name            string    `json:"name" validate:"required,max=120"`
	Avatar          string    `json:"avatar,omitempty"`
	Phone           string    `json:"phone,omitempty" validate:"omitempty,max=20"`
	Role            Role      `json:"role" validate:"required,oneof=BUYER SELLER ADMIN"`
	SavedProperties []string  `json:"savedProperties"`
	LikedProperties []string  `json:"likedProperties"`
	Verified        bool      `json:"isVerified"`
	Banned          bool      `json:"isBanned"`

	// NotificationsMuted suppresses every notification addressed to the user.
	NotificationsMuted bool `json:"notificationsMuted"`
}

// Actor returns the identity this profile acts as.
func (u *UserProfile) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// HasSaved reports whether propertyID is in the saved set.
func (u *UserProfile) HasSaved(propertyID string) bool {
	return containsID(u.SavedProperties, propertyID)
}

// HasLiked reports whether propertyID is in the liked set.
func (u *UserProfile) HasLiked(propertyID string) bool {
	return containsID(u.LikedProperties, propertyID)
}

// Clone returns a deep copy of the profile.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	c.SavedProperties = append([]string{}, u.SavedProperties...)
	c.LikedProperties = append([]string{}, u.LikedProperties...)
	return &c
}

// Actor is the caller of a query: an id plus the role it resolved to.
// The zero value is the unauthenticated actor.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// Authenticated reports whether the actor resolved to a real role.
func (a Actor) Authenticated() bool {
	return a.ID != "" && a.Role.Valid()
}

// ToggleID adds id to set when absent and removes it when present.
// It reports whether id is in the returned set.
func ToggleID(set []string, id string) ([]string, bool) {
	out := make([]string, 0, len(set)+1)
	found := false
	for _, existing := range set {
		if existing == id {
			found = true
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, id)
	}
	return out, !found
}

func containsID(set []string, id string) bool {
	for _, existing := range set {
		if existing == id {
			return true
		}
	}
	return false
}
