package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/stwalsh4118/estatehub/internal/models"
)

// Identity is the profile payload taken from a verified identity provider
// assertion. Roles lists the roles the provider grants the user.
type Identity struct {
	ID       string
	Name     string
	Avatar   string
	Phone    string
	Verified bool
	Roles    []models.Role
}

// Grants reports whether the provider granted role.
func (i Identity) Grants(role models.Role) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ProfileUpdate is a self-service profile edit. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name               *string
	Phone              *string
	AllowNotifications *bool
}

// ProfileService defines sign-in, self-service profile commands and bans.
type ProfileService interface {
	// SignIn creates or refreshes the profile for identity acting as role.
	// Saved and liked lists, preferences and the banned flag survive repeat
	// sign-ins. Returns ErrValidation for RoleNone and ErrUnauthorized when
	// role is admin and the identity is not an admin, or when an existing
	// profile asks for a different role the identity does not grant.
	SignIn(ctx context.Context, identity Identity, role models.Role) (*models.UserProfile, error)

	// UpdateProfile edits the actor's own name, phone and notification
	// preference.
	UpdateProfile(ctx context.Context, actorID string, update ProfileUpdate) (*models.UserProfile, error)

	// ToggleSaved adds or removes propertyID from the actor's saved set and
	// notifies the actor. Adding requires the property to exist; removing
	// never fails.
	ToggleSaved(ctx context.Context, actorID, propertyID string) (*models.UserProfile, error)

	// ToggleLiked adds or removes propertyID from the actor's liked set.
	ToggleLiked(ctx context.Context, actorID, propertyID string) (*models.UserProfile, error)

	// ToggleBan flips the banned flag of userID. Admins cannot ban themselves.
	ToggleBan(ctx context.Context, adminID, userID string) (*models.UserProfile, error)

	// FindUser returns the profile with the given id.
	FindUser(ctx context.Context, id string) (*models.UserProfile, error)

	// SavedProperties resolves the actor's saved set, skipping ids whose
	// property is gone or no longer visible.
	SavedProperties(ctx context.Context, actorID string) ([]*models.Property, error)
}

type profileService struct {
	*Engine
	admins map[string]struct{}
}

// NewProfileService creates a ProfileService on top of e. adminIDs lists
// identities allowed to take the admin role on first sign-in; existing
// admin profiles keep the role regardless.
func NewProfileService(e *Engine, adminIDs []string) ProfileService {
	admins := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &profileService{Engine: e, admins: admins}
}

func (s *profileService) SignIn(ctx context.Context, identity Identity, role models.Role) (*models.UserProfile, error) {
	var profile *models.UserProfile
	err := s.command(ctx, func() ([]models.Notification, error) {
		if strings.TrimSpace(identity.ID) == "" {
			return nil, models.FieldErrors{"id": "is required"}
		}
		if !role.Valid() {
			return nil, models.FieldErrors{"role": "must be one of: BUYER SELLER ADMIN"}
		}

		existing, found := s.store.FindUser(identity.ID)
		if err := s.checkRole(identity, role, existing, found); err != nil {
			return nil, err
		}

		now := s.now()
		u := &models.UserProfile{CreatedAt: now}
		if found {
			u = existing
		}
		u.ID = identity.ID
		u.Name = strings.TrimSpace(identity.Name)
		u.Avatar = identity.Avatar
		u.Phone = strings.TrimSpace(identity.Phone)
		u.Verified = identity.Verified
		u.Role = role
		u.UpdatedAt = now
		if err := s.store.UpsertUser(u); err != nil {
			return nil, err
		}

		profile = u
		return nil, nil
	})
	if err != nil {
		return nil, s.rejected("sign_in", identity.ID, err)
	}

	s.log.Info("User signed in", map[string]interface{}{
		"user_id": profile.ID,
		"role":    profile.Role,
		"banned":  profile.Banned,
	})
	return profile, nil
}

// checkRole decides whether identity may sign in as role. A returning
// user keeps the stored role unless the provider grants the new one.
func (s *profileService) checkRole(identity Identity, role models.Role, existing *models.UserProfile, found bool) error {
	if found && existing.Role == role {
		return nil
	}
	if role == models.RoleAdmin {
		if _, allowed := s.admins[identity.ID]; !allowed && !identity.Grants(role) {
			return fmt.Errorf("%w: %s is not an administrator", models.ErrUnauthorized, identity.ID)
		}
		return nil
	}
	if found && !identity.Grants(role) {
		return fmt.Errorf("%w: %s is registered as %s", models.ErrUnauthorized, identity.ID, existing.Role)
	}
	return nil
}

// updateSelf applies mutate to the active actor's own profile and emits
// the notifications it returns.
func (s *profileService) updateSelf(ctx context.Context, op, actorID string, mutate func(u *models.UserProfile) ([]models.Notification, error)) (*models.UserProfile, error) {
	var updated *models.UserProfile
	err := s.command(ctx, func() ([]models.Notification, error) {
		u, err := s.activeActor(actorID, models.ErrUnauthorized)
		if err != nil {
			return nil, err
		}
		notes, err := mutate(u)
		if err != nil {
			return nil, err
		}
		u.UpdatedAt = s.now()
		if err := s.store.UpsertUser(u); err != nil {
			return nil, err
		}
		updated = u
		return notes, nil
	})
	if err != nil {
		return nil, s.rejected(op, actorID, err)
	}

	s.log.Debug("Profile updated", map[string]interface{}{
		"op":      op,
		"user_id": actorID,
	})
	return updated, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, actorID string, update ProfileUpdate) (*models.UserProfile, error) {
	return s.updateSelf(ctx, "update_profile", actorID, func(u *models.UserProfile) ([]models.Notification, error) {
		if update.Name == nil && update.Phone == nil && update.AllowNotifications == nil {
			return nil, fmt.Errorf("%w: update changes nothing", models.ErrValidation)
		}
		if update.Name != nil {
			u.Name = strings.TrimSpace(*update.Name)
		}
		if update.Phone != nil {
			u.Phone = strings.TrimSpace(*update.Phone)
		}
		if update.AllowNotifications != nil {
			u.NotificationsMuted = !*update.AllowNotifications
		}
		return nil, nil
	})
}

func (s *profileService) ToggleSaved(ctx context.Context, actorID, propertyID string) (*models.UserProfile, error) {
	return s.updateSelf(ctx, "toggle_saved", actorID, func(u *models.UserProfile) ([]models.Notification, error) {
		if !u.HasSaved(propertyID) {
			if _, err := s.visibleProperty(u.Actor(), propertyID); err != nil {
				return nil, err
			}
		}
		var added bool
		u.SavedProperties, added = models.ToggleID(u.SavedProperties, propertyID)
		return []models.Notification{savedToggledNote(u.ID, propertyID, added)}, nil
	})
}

func (s *profileService) ToggleLiked(ctx context.Context, actorID, propertyID string) (*models.UserProfile, error) {
	return s.updateSelf(ctx, "toggle_liked", actorID, func(u *models.UserProfile) ([]models.Notification, error) {
		if !u.HasLiked(propertyID) {
			if _, err := s.visibleProperty(u.Actor(), propertyID); err != nil {
				return nil, err
			}
		}
		u.LikedProperties, _ = models.ToggleID(u.LikedProperties, propertyID)
		return nil, nil
	})
}

func (s *profileService) ToggleBan(ctx context.Context, adminID, userID string) (*models.UserProfile, error) {
	var target *models.UserProfile
	err := s.command(ctx, func() ([]models.Notification, error) {
		if _, err := s.requireAdmin(adminID, true); err != nil {
			return nil, err
		}
		if adminID == userID {
			return nil, fmt.Errorf("%w: admins cannot ban themselves", models.ErrInvalidState)
		}
		u, ok := s.store.FindUser(userID)
		if !ok {
			return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, userID)
		}

		u.Banned = !u.Banned
		u.UpdatedAt = s.now()
		if err := s.store.UpsertUser(u); err != nil {
			return nil, err
		}
		target = u
		return nil, nil
	})
	if err != nil {
		return nil, s.rejected("toggle_ban", adminID, err)
	}

	s.log.Info("User ban toggled", map[string]interface{}{
		"user_id":  userID,
		"admin_id": adminID,
		"banned":   target.Banned,
	})
	return target, nil
}

func (s *profileService) FindUser(_ context.Context, id string) (*models.UserProfile, error) {
	u, ok := s.store.FindUser(id)
	if !ok {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, id)
	}
	return u, nil
}

func (s *profileService) SavedProperties(_ context.Context, actorID string) ([]*models.Property, error) {
	u, ok := s.store.FindUser(actorID)
	if !ok {
		return nil, fmt.Errorf("%w: user %s", models.ErrUnauthorized, actorID)
	}
	out := []*models.Property{}
	for _, id := range u.SavedProperties {
		if p, err := s.visibleProperty(u.Actor(), id); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}
