package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/findin/findin-backend/internal/channels"
	"github.com/findin/findin-backend/internal/config"
	"github.com/findin/findin-backend/internal/dto"
	"github.com/findin/findin-backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInviteNotFound      = errors.New("invite not found")
	ErrInviteRedeemed      = errors.New("invite already redeemed")
	ErrInviteExpired       = errors.New("invite has expired")
	ErrInviteEmailMismatch = errors.New("email does not match invite")
	ErrInvalidRole         = errors.New("unsupported role for invite")
)

var invitableRoles = map[string]bool{
	models.RolePolice:     true,
	models.RoleGovernment: true,
	models.RoleNGO:        true,
	models.RoleMedical:    true,
	models.RoleSecurity:   true,
}

type InviteService struct {
	db    *gorm.DB
	cfg   *config.Config
	email channels.Sender
}

func NewInviteService(db *gorm.DB, cfg *config.Config, email channels.Sender) *InviteService {
	return &InviteService{db: db, cfg: cfg, email: email}
}

// Create issues a one-time responder invite and mails the token to the
// invitee. Mail failure does not fail the invite; the token is returned to
// the admin either way.
func (s *InviteService) Create(ctx context.Context, actor *models.User, req *dto.CreateInviteRequest) (*dto.CreateInviteResponse, error) {
	role := strings.ToUpper(req.Role)
	if !invitableRoles[role] {
		return nil, ErrInvalidRole
	}

	tokenBytes := make([]byte, 24)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, fmt.Errorf("failed to generate invite token: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)

	expiry := s.cfg.InviteExpiry
	if req.ExpiresInDays > 0 {
		expiry = time.Duration(req.ExpiresInDays) * 24 * time.Hour
	}

	invite := models.Invite{
		ID:        uuid.New(),
		Email:     strings.ToLower(req.Email),
		Role:      role,
		Token:     token,
		CreatedBy: actor.ID,
		Message:   req.Message,
		ExpiresAt: time.Now().UTC().Add(expiry),
	}
	if err := s.db.WithContext(ctx).Create(&invite).Error; err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	body := fmt.Sprintf(
		"You have been invited to join FindIn as a verified responder (%s).\n\n"+
			"Use the following invite token when creating your account: %s\n\n"+
			"This token expires on %s.",
		role, token, invite.ExpiresAt.Format("Jan 2, 2006"),
	)
	if req.Message != nil && *req.Message != "" {
		body += "\n\nMessage from admin: " + *req.Message
	}
	if err := s.email.Send(ctx, invite.Email, "FindIn responder invite", body); err != nil {
		slog.Error("invite email failed", "email", invite.Email, "error", err)
	}

	entityID := invite.ID.String()
	appendAudit(s.db, actor.ID, "CREATE_INVITE", models.AuditEntityUser, &entityID, map[string]interface{}{
		"email": invite.Email,
		"role":  role,
	})

	return &dto.CreateInviteResponse{Token: token, ExpiresAt: invite.ExpiresAt}, nil
}

// Accept redeems an invite, creating a pre-approved responder account.
func (s *InviteService) Accept(ctx context.Context, req *dto.AcceptInviteRequest) (*dto.UserResponse, error) {
	if len(req.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	var invite models.Invite
	if err := s.db.WithContext(ctx).Where("token = ?", req.Token).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}

	if invite.RedeemedAt != nil {
		return nil, ErrInviteRedeemed
	}
	if invite.ExpiresAt.Before(time.Now()) {
		return nil, ErrInviteExpired
	}
	if !strings.EqualFold(invite.Email, req.Email) {
		return nil, ErrInviteEmailMismatch
	}

	email := strings.ToLower(req.Email)
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	notes := "Joined via admin invite"
	user := models.User{
		ID:                 uuid.New(),
		Email:              email,
		Password:           string(hash),
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Phone:              req.Phone,
		City:               req.City,
		State:              req.State,
		UserType:           invite.Role,
		IsVerified:         true,
		VerificationStatus: models.VerificationApproved,
		VerificationNotes:  &notes,
		PreferredChannels:  datatypes.NewJSONType(models.DefaultPreferredChannels()),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		return tx.Model(&invite).Update("redeemed_at", now).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to accept invite: %w", err)
	}

	resp := userResponse(&user)
	return &resp, nil
}
