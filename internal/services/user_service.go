package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	apperrors "achievo/internal/errors"
	"achievo/internal/logger"
	"achievo/internal/models"
	"achievo/internal/repository"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
)

var usernameSanitizer = regexp.MustCompile(`[^a-z0-9_]+`)

// UserService implements UserServicer. It also owns the account delete
// cascade, so it holds every repository.
type UserService struct {
	users  repository.Users
	goals  repository.Goals
	habits repository.Habits
	logs   repository.HabitLogs
	bills  repository.Bills
	prefs  repository.Preferences
}

// NewUserService creates a UserService.
func NewUserService(
	users repository.Users,
	goals repository.Goals,
	habits repository.Habits,
	logs repository.HabitLogs,
	bills repository.Bills,
	prefs repository.Preferences,
) *UserService {
	return &UserService{users: users, goals: goals, habits: habits, logs: logs, bills: bills, prefs: prefs}
}

// Register creates a local account. Username and email must be unique.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, apperrors.ErrDuplicateUsername
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	logger.Get().Infow("user registered", "user_id", user.ID.Hex(), "username", user.Username)
	return user, nil
}

// Authenticate checks a username/password pair. Five consecutive
// failures lock the account for fifteen minutes; a successful login
// resets the counter.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if user.LockedUntil != nil {
		if time.Now().Before(*user.LockedUntil) {
			return nil, apperrors.ErrAccountLocked
		}
		user.LockedUntil = nil
		user.FailedLoginAttempts = 0
	}

	if !user.HasLocalPassword() {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= maxFailedLogins {
			until := time.Now().Add(lockoutDuration)
			user.LockedUntil = &until
			logger.Get().Warnw("account locked after repeated failures", "user_id", user.ID.Hex())
		}
		if uerr := s.users.Update(ctx, user); uerr != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, uerr)
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		user.FailedLoginAttempts = 0
		user.LockedUntil = nil
		if err := s.users.Update(ctx, user); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return user, nil
}

// GetByID looks up a user by id.
func (s *UserService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// SetRefreshTokenHash stores the hash of the user's current refresh
// token, replacing any previous one.
func (s *UserService) SetRefreshTokenHash(ctx context.Context, userID primitive.ObjectID, hash string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.RefreshTokenHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ClearRefreshToken revokes the user's refresh token server-side.
func (s *UserService) ClearRefreshToken(ctx context.Context, userID primitive.ObjectID) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.RefreshTokenHash = ""
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// VerifyRefreshHash checks a presented refresh token hash against the
// stored one. A mismatch means the token was rotated or revoked.
func (s *UserService) VerifyRefreshHash(ctx context.Context, userID primitive.ObjectID, hash string) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.RefreshTokenHash == "" || user.RefreshTokenHash != hash {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// UpdateProfile changes username, email and profile picture. Uniqueness
// is checked against other accounts only.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, username, email, profilePic string) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if username != "" && username != user.Username {
		taken, err := s.users.UsernameTakenByOther(ctx, username, userID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if taken {
			return nil, apperrors.ErrDuplicateUsername
		}
		user.Username = username
	}
	if email != "" && email != user.Email {
		taken, err := s.users.EmailTakenByOther(ctx, email, userID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if taken {
			return nil, apperrors.ErrDuplicateEmail
		}
		user.Email = email
	}
	if profilePic != "" {
		user.ProfilePic = profilePic
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// ChangePassword verifies the current password before setting a new one.
// Google-only accounts have no local password to change.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, current, newPassword string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasLocalPassword() {
		return apperrors.ErrPasswordManaged
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidCredentials, "Current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ResolveGoogleUser finds or creates the account behind a Google login.
// Matching order: google id, then email (linking the google id to an
// existing local account). New accounts get a username derived from the
// display name, suffixed _1, _2, ... on collision.
func (s *UserService) ResolveGoogleUser(ctx context.Context, googleID, email, name, picture string) (*models.User, error) {
	user, err := s.users.FindByGoogleID(ctx, googleID)
	if err == nil {
		if picture != "" && user.ProfilePic != picture {
			user.ProfilePic = picture
			if uerr := s.users.Update(ctx, user); uerr != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, uerr)
			}
		}
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user, err = s.users.FindByEmail(ctx, email)
	if err == nil {
		user.GoogleID = googleID
		if picture != "" {
			user.ProfilePic = picture
		}
		if uerr := s.users.Update(ctx, user); uerr != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, uerr)
		}
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	username, err := s.availableUsername(ctx, name, email)
	if err != nil {
		return nil, err
	}
	user = &models.User{
		Username:   username,
		Email:      email,
		GoogleID:   googleID,
		ProfilePic: picture,
		CreatedAt:  time.Now(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	logger.Get().Infow("google account created", "user_id", user.ID.Hex(), "username", user.Username)
	return user, nil
}

// availableUsername derives a username from the Google display name and
// appends a numeric suffix until it is free.
func (s *UserService) availableUsername(ctx context.Context, name, email string) (string, error) {
	base := usernameSanitizer.ReplaceAllString(strings.ToLower(strings.ReplaceAll(name, " ", "")), "")
	if base == "" {
		base = usernameSanitizer.ReplaceAllString(strings.ToLower(strings.Split(email, "@")[0]), "")
	}
	if base == "" {
		base = "user"
	}

	candidate := base
	for i := 1; ; i++ {
		_, err := s.users.FindByUsername(ctx, candidate)
		if errors.Is(err, repository.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
}

// DeleteAccount removes the user and everything they own. The caller
// must confirm by sending the literal string "delete".
func (s *UserService) DeleteAccount(ctx context.Context, userID primitive.ObjectID, confirmation string) error {
	if strings.ToLower(strings.TrimSpace(confirmation)) != "delete" {
		return apperrors.ErrConfirmRequired
	}
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}

	nGoals, err := s.goals.DeleteByOwner(ctx, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	nHabits, err := s.habits.DeleteByOwner(ctx, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	nLogs, err := s.logs.DeleteByOwner(ctx, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	nBills, err := s.bills.DeleteByOwner(ctx, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.prefs.DeleteByOwner(ctx, userID); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("account deleted",
		"user_id", userID.Hex(),
		"goals", nGoals,
		"habits", nHabits,
		"habit_logs", nLogs,
		"bills", nBills,
	)
	return nil
}
