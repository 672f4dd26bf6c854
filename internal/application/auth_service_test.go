package application

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/idigest/idigest-server/internal/domain/entity"
	"github.com/idigest/idigest-server/internal/domain/repository"
	"github.com/idigest/idigest-server/pkg/helpers"
)

type fakeUserRepo struct {
	users  map[string]*entity.User
	nextID int64

	lastResetLogin string
	lastResetToken string
	resetErr       error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	u.ID = f.nextID
	f.nextID++
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users[u.LoginID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByLoginOrResetToken(_ context.Context, loginID, credential string) (*entity.User, error) {
	for _, u := range f.users {
		if u.LoginID == loginID || (u.ResetToken != "" && u.ResetToken == credential) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) ExistsByLoginID(_ context.Context, loginID string) (bool, error) {
	_, ok := f.users[loginID]
	return ok, nil
}

func (f *fakeUserRepo) UpdateDisplayName(_ context.Context, id int64, displayName string) error {
	for _, u := range f.users {
		if u.ID == id {
			u.DisplayName = displayName
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	for _, u := range f.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			u.ResetToken = ""
			u.ResetTokenTime = nil
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeUserRepo) SetResetToken(_ context.Context, loginID, token string) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	u, ok := f.users[loginID]
	if !ok || u.LoginIDType != entity.LoginIDTypeEmail {
		return repository.ErrNotFound
	}
	now := time.Now()
	u.ResetToken = token
	u.ResetTokenTime = &now
	f.lastResetLogin = loginID
	f.lastResetToken = token
	return nil
}

type fakeOrgRepo struct {
	orgs map[int64][]entity.Organization
}

func (f *fakeOrgRepo) AdminOrganizations(_ context.Context, userID int64) ([]entity.Organization, error) {
	return f.orgs[userID], nil
}

type capturedJob struct {
	body any
}

type fakeMailPub struct {
	jobs chan capturedJob
	err  error
}

func (f *fakeMailPub) PublishJSON(_ context.Context, body any) error {
	if f.err != nil {
		return f.err
	}
	f.jobs <- capturedJob{body: body}
	return nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newAuthService(repo *fakeUserRepo, orgs *fakeOrgRepo, pub MailPublisher) *AuthService {
	if orgs == nil {
		orgs = &fakeOrgRepo{}
	}
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(repo, orgs, jwt, pub, testLogger(), time.Hour, pub != nil)
}

func seedUser(t *testing.T, repo *fakeUserRepo, loginID, password string, idType entity.LoginIDType) *entity.User {
	t.Helper()
	hash, err := helpers.HashPassword(password)
	require.NoError(t, err)
	u := &entity.User{
		LoginID:      loginID,
		LoginIDType:  idType,
		DisplayName:  "Someone",
		PasswordHash: hash,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLoginWithPassword(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "alice@example.com", "secret1", entity.LoginIDTypeEmail)
	svc := newAuthService(repo, nil, nil)

	res, err := svc.Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.False(t, res.Reset)
	require.Equal(t, "Someone", res.DisplayName)
	require.False(t, res.IsChurchAdmin)

	claims, err := svc.JWT.Parse(res.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(1), claims.UserID)
	require.Equal(t, "alice@example.com", claims.LoginID)
	require.Empty(t, claims.Organizations)
}

func TestLoginValidation(t *testing.T) {
	svc := newAuthService(newFakeUserRepo(), nil, nil)

	_, err := svc.Login(context.Background(), "short", "secret1")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Login(context.Background(), "alice@example.com", "")
	require.ErrorIs(t, err, ErrInvalidInput)

	// leading/trailing spaces do not rescue a too-short loginId
	_, err = svc.Login(context.Background(), "  abc  ", "secret1")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newAuthService(newFakeUserRepo(), nil, nil)

	_, err := svc.Login(context.Background(), "nobody@example.com", "secret1")
	require.ErrorIs(t, err, ErrAuthFailure)
	require.Equal(t, "User does not exist", Message(err))
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "alice@example.com", "secret1", entity.LoginIDTypeEmail)
	svc := newAuthService(repo, nil, nil)

	_, err := svc.Login(context.Background(), "alice@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrAuthFailure)
	require.Equal(t, "Password is wrong", Message(err))
}

func TestLoginWithResetToken(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "alice@example.com", "secret1", entity.LoginIDTypeEmail)
	now := time.Now()
	u.ResetToken = "12345678"
	u.ResetTokenTime = &now
	svc := newAuthService(repo, nil, nil)

	res, err := svc.Login(context.Background(), "alice@example.com", "12345678")
	require.NoError(t, err)
	require.True(t, res.Reset)
	require.NotEmpty(t, res.AccessToken)
}

func TestLoginWithExpiredResetToken(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "alice@example.com", "secret1", entity.LoginIDTypeEmail)
	stale := time.Now().Add(-2 * time.Hour)
	u.ResetToken = "12345678"
	u.ResetTokenTime = &stale
	svc := newAuthService(repo, nil, nil)

	_, err := svc.Login(context.Background(), "alice@example.com", "12345678")
	require.ErrorIs(t, err, ErrAuthFailure)
	require.Equal(t, "Token is already expired", Message(err))

	// the regular password still works
	res, err := svc.Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	require.False(t, res.Reset)
}

func TestLoginChurchAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "admin@example.com", "secret1", entity.LoginIDTypeEmail)
	orgs := &fakeOrgRepo{orgs: map[int64][]entity.Organization{
		u.ID: {{ID: 10, Name: "First Church"}, {ID: 11, Name: "Second Church"}},
	}}
	svc := newAuthService(repo, orgs, nil)

	res, err := svc.Login(context.Background(), "admin@example.com", "secret1")
	require.NoError(t, err)
	require.True(t, res.IsChurchAdmin)
	require.Equal(t, "First Church", res.ChurchName)
	require.Len(t, res.Organizations, 2)

	claims, err := svc.JWT.Parse(res.AccessToken)
	require.NoError(t, err)
	require.True(t, claims.IsChurchAdmin)
	require.Len(t, claims.Organizations, 2)
	require.Equal(t, int64(10), claims.Organizations[0].ID)
}

func TestCreate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo, nil, nil)

	token, err := svc.Create(context.Background(), CreateInput{
		DisplayName: "Bob",
		LoginID:     "bob@example.com",
		LoginIDType: "email",
		Password:    "secret1",
	})
	require.NoError(t, err)

	claims, err := svc.JWT.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "bob@example.com", claims.LoginID)

	u := repo.users["bob@example.com"]
	require.NotNil(t, u)
	require.Equal(t, entity.LoginIDTypeEmail, u.LoginIDType)
	require.True(t, helpers.CompareHashAndPassword(u.PasswordHash, "secret1"))
}

func TestCreateValidation(t *testing.T) {
	svc := newAuthService(newFakeUserRepo(), nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{DisplayName: "", LoginID: "bob@example.com", LoginIDType: "email", Password: "secret1"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, CreateInput{DisplayName: "Bob", LoginID: "bob", LoginIDType: "email", Password: "secret1"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, CreateInput{DisplayName: "Bob", LoginID: "bob@example.com", LoginIDType: "email", Password: "short"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, "DisplayName, email or password is too short", Message(err))

	_, err = svc.Create(ctx, CreateInput{DisplayName: "Bob", LoginID: "not-an-email", LoginIDType: "email", Password: "secret1"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, "Invalid email", Message(err))
}

func TestCreateNonEmailLoginID(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateInput{
		DisplayName: "Bob",
		LoginID:     "bob-handle",
		LoginIDType: "username",
		Password:    "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, entity.LoginIDTypeOther, repo.users["bob-handle"].LoginIDType)
}

func TestCreateDuplicate(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "bob@example.com", "secret1", entity.LoginIDTypeEmail)
	svc := newAuthService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateInput{
		DisplayName: "Bob",
		LoginID:     "bob@example.com",
		LoginIDType: "email",
		Password:    "secret1",
	})
	require.ErrorIs(t, err, ErrConflict)
	require.Equal(t, "User already exists", Message(err))
}

func TestResetPassword(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "alice@example.com", "secret1", entity.LoginIDTypeEmail)
	pub := &fakeMailPub{jobs: make(chan capturedJob, 1)}
	svc := newAuthService(repo, nil, pub)

	require.NoError(t, svc.ResetPassword(context.Background(), "alice@example.com"))

	require.Len(t, repo.lastResetToken, 8)
	for _, r := range repo.lastResetToken {
		require.True(t, r >= '0' && r <= '9', "token must be decimal digits, got %q", repo.lastResetToken)
	}

	select {
	case <-pub.jobs:
	case <-time.After(2 * time.Second):
		t.Fatal("reset mail job was never published")
	}
}

func TestResetPasswordUnknownUser(t *testing.T) {
	svc := newAuthService(newFakeUserRepo(), nil, nil)

	err := svc.ResetPassword(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, "User does not exist", Message(err))
}

func TestResetPasswordMailFailureIsSwallowed(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "alice@example.com", "secret1", entity.LoginIDTypeEmail)
	pub := &fakeMailPub{jobs: make(chan capturedJob, 1), err: errors.New("broker down")}
	svc := newAuthService(repo, nil, pub)

	// publish failure must not surface to the caller
	require.NoError(t, svc.ResetPassword(context.Background(), "alice@example.com"))
	require.NotEmpty(t, repo.lastResetToken)
}

func TestRefresh(t *testing.T) {
	svc := newAuthService(newFakeUserRepo(), nil, nil)

	token, err := svc.Refresh(42, "alice@example.com")
	require.NoError(t, err)

	claims, err := svc.JWT.Parse(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "alice@example.com", claims.LoginID)
	require.False(t, claims.IsChurchAdmin)
}

func TestProfile(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "alice@example.com", "secret1", entity.LoginIDTypeEmail)
	svc := newAuthService(repo, nil, nil)

	name, err := svc.Profile(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, "Someone", name)

	_, err = svc.Profile(context.Background(), 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "alice@example.com", "secret1", entity.LoginIDTypeEmail)
	now := time.Now()
	u.ResetToken = "12345678"
	u.ResetTokenTime = &now
	svc := newAuthService(repo, nil, nil)
	ctx := context.Background()

	name := "New Name"
	pwd := "newsecret"
	require.NoError(t, svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{DisplayName: &name, Password: &pwd}))

	require.Equal(t, "New Name", u.DisplayName)
	require.True(t, helpers.CompareHashAndPassword(u.PasswordHash, "newsecret"))
	// a password change consumes the pending reset token
	require.Empty(t, u.ResetToken)
	require.Nil(t, u.ResetTokenTime)
}

func TestUpdateProfileValidation(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "alice@example.com", "secret1", entity.LoginIDTypeEmail)
	svc := newAuthService(repo, nil, nil)
	ctx := context.Background()

	empty := ""
	err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{DisplayName: &empty})
	require.ErrorIs(t, err, ErrInvalidInput)

	short := "abc"
	err = svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Password: &short})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, "Password is too short", Message(err))

	// no fields present is a no-op
	require.NoError(t, svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{}))
}
