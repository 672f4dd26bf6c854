package application

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/idigest/idigest-server/internal/domain/entity"
	"github.com/idigest/idigest-server/internal/domain/repository"
	"github.com/idigest/idigest-server/pkg/helpers"
	"github.com/idigest/idigest-server/pkg/mailer"
)

const minCredentialLen = 6

// MailPublisher enqueues mail jobs for the email worker. Publishing is the
// only coupling to the broker; *helpers.RabbitPublisher satisfies it.
type MailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuthService orchestrates login, account creation, password reset and
// profile maintenance.
type AuthService struct {
	Repo        repository.UserRepository
	Orgs        repository.OrganizationRepository
	JWT         *helpers.JWTManager
	Mail        MailPublisher
	Logger      *logrus.Logger
	ResetTTL    time.Duration
	MailEnabled bool
}

func NewAuthService(repo repository.UserRepository, orgs repository.OrganizationRepository, jwt *helpers.JWTManager, mailPub MailPublisher, logger *logrus.Logger, resetTTL time.Duration, mailEnabled bool) *AuthService {
	return &AuthService{
		Repo:        repo,
		Orgs:        orgs,
		JWT:         jwt,
		Mail:        mailPub,
		Logger:      logger,
		ResetTTL:    resetTTL,
		MailEnabled: mailEnabled,
	}
}

// LoginResult is the flat body returned to the client on successful login.
type LoginResult struct {
	AccessToken   string             `json:"accessToken"`
	Reset         bool               `json:"reset,omitempty"`
	DisplayName   string             `json:"displayName"`
	IsChurchAdmin bool               `json:"isChurchAdmin,omitempty"`
	ChurchName    string             `json:"churchName,omitempty"`
	Organizations []helpers.OrgClaim `json:"organizations,omitempty"`
}

// resolveCredentialPath contains the dual-purpose credential field: the same
// request field carries either the password or a previously issued one-time
// reset token. Returns reset=true when the token path was taken.
func (s *AuthService) resolveCredentialPath(u *entity.User, credential string) (bool, error) {
	if u.ResetToken != "" && u.ResetToken == credential {
		if u.ResetTokenTime == nil || time.Since(*u.ResetTokenTime) > s.ResetTTL {
			return false, authFailure("Token is already expired")
		}
		return true, nil
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, credential) {
		return false, authFailure("Password is wrong")
	}
	return false, nil
}

// Login authenticates with a loginId plus either the password or a reset
// token and issues an access token.
func (s *AuthService) Login(ctx context.Context, loginID, password string) (*LoginResult, error) {
	loginID = strings.TrimSpace(loginID)
	if len(loginID) < minCredentialLen || password == "" {
		return nil, invalidInput("Invalid input")
	}

	u, err := s.Repo.GetByLoginOrResetToken(ctx, loginID, password)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, authFailure("User does not exist")
	}
	if err != nil {
		return nil, err
	}

	reset, err := s.resolveCredentialPath(u, password)
	if err != nil {
		return nil, err
	}

	orgs, err := s.Orgs.AdminOrganizations(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	res := &LoginResult{Reset: reset, DisplayName: u.DisplayName}
	claims := helpers.Claims{UserID: u.ID, LoginID: u.LoginID}
	if len(orgs) > 0 {
		res.IsChurchAdmin = true
		res.ChurchName = orgs[0].Name
		for _, o := range orgs {
			res.Organizations = append(res.Organizations, helpers.OrgClaim{ID: o.ID, Name: o.Name})
		}
		claims.IsChurchAdmin = true
		claims.Organizations = res.Organizations
	}

	token, err := s.JWT.Sign(claims)
	if err != nil {
		return nil, err
	}
	res.AccessToken = token
	return res, nil
}

// CreateInput carries the account creation request.
type CreateInput struct {
	DisplayName string
	LoginID     string
	LoginIDType string
	Password    string
}

// Create registers a new account and returns an access token for it.
func (s *AuthService) Create(ctx context.Context, in CreateInput) (string, error) {
	loginID := strings.TrimSpace(in.LoginID)
	if in.DisplayName == "" || len(loginID) < minCredentialLen || in.LoginIDType == "" || in.Password == "" {
		return "", invalidInput("Invalid input")
	}
	if len(in.Password) < minCredentialLen {
		return "", invalidInput("DisplayName, email or password is too short")
	}

	idType := entity.LoginIDTypeOther
	if strings.EqualFold(in.LoginIDType, "email") {
		if _, err := mail.ParseAddress(loginID); err != nil {
			return "", invalidInput("Invalid email")
		}
		idType = entity.LoginIDTypeEmail
	}

	exists, err := s.Repo.ExistsByLoginID(ctx, loginID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%w: User already exists", ErrConflict)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return "", err
	}

	u := &entity.User{
		LoginID:      loginID,
		LoginIDType:  idType,
		DisplayName:  in.DisplayName,
		PasswordHash: hash,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return "", err
	}

	return s.JWT.Sign(helpers.Claims{UserID: u.ID, LoginID: u.LoginID})
}

// generateResetToken draws each of the 8 decimal digits independently.
// Collisions across users are possible and accepted: the token only ever
// matches via the row it was written to or an equally fresh duplicate.
func generateResetToken() (string, error) {
	const digits = 8
	b := make([]byte, digits)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	out := make([]byte, digits)
	for i, v := range b {
		out[i] = '0' + v%10
	}
	return string(out), nil
}

// ResetPassword issues a one-time token valid for ResetTTL and mails it to
// the account's email loginId. The mail send is fire-and-forget: enqueue
// failures are logged and never surfaced to the caller.
func (s *AuthService) ResetPassword(ctx context.Context, loginID string) error {
	loginID = strings.TrimSpace(loginID)
	if len(loginID) < minCredentialLen {
		return invalidInput("Invalid input")
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	if err := s.Repo.SetResetToken(ctx, loginID, token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: User does not exist", ErrNotFound)
		}
		return err
	}

	s.dispatchResetMail(loginID, token)
	return nil
}

func (s *AuthService) dispatchResetMail(loginID, token string) {
	if s.Mail == nil || !s.MailEnabled {
		s.Logger.WithField("login_id", loginID).Info("mail sending disabled, skipping reset mail")
		return
	}
	job := mailer.EmailJob{
		To:      loginID,
		Subject: "From iDigest",
		Text:    fmt.Sprintf("Your temporary iDigest password is %s, it's valid for 1 hour, please login in iDigest and update your password. (This is an automatically generated email - please do not reply)", token),
		HTML:    fmt.Sprintf("Your temporary iDigest password is <b><font color='red'>%s</font></b>, it's valid for 1 hour, please login in iDigest and change your password. (This is an automatically generated email - please do not reply)", token),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Mail.PublishJSON(ctx, job); err != nil {
			s.Logger.WithError(err).WithField("login_id", loginID).Error("reset mail enqueue failed")
		}
	}()
}

// Refresh re-signs a token from the caller's already verified identity.
// No store access; org/admin claims are not carried over, matching the
// original token contents on refresh.
func (s *AuthService) Refresh(userID int64, loginID string) (string, error) {
	return s.JWT.Sign(helpers.Claims{UserID: userID, LoginID: loginID})
}

// Profile returns the display name for the authenticated user.
func (s *AuthService) Profile(ctx context.Context, userID int64) (string, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("%w: User does not exist", ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return u.DisplayName, nil
}

// UpdateProfileInput distinguishes absent fields from empty ones; each
// present field is validated and applied independently.
type UpdateProfileInput struct {
	DisplayName *string
	Password    *string
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) error {
	if in.DisplayName != nil {
		if *in.DisplayName == "" {
			return invalidInput("displayName cannot be empty")
		}
		if err := s.Repo.UpdateDisplayName(ctx, userID, *in.DisplayName); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: User does not exist", ErrNotFound)
			}
			return err
		}
	}

	if in.Password != nil {
		if len(*in.Password) < minCredentialLen {
			return invalidInput("Password is too short")
		}
		hash, err := helpers.HashPassword(*in.Password)
		if err != nil {
			return err
		}
		// Changing the password also invalidates any pending reset token.
		if err := s.Repo.UpdatePassword(ctx, userID, hash); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: User does not exist", ErrNotFound)
			}
			return err
		}
	}

	return nil
}
