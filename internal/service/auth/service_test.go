package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/auth"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[string]user.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]user.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.nextID++
	u.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string, excludeID string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u user.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

type fakeJWTService struct{}

func (fakeJWTService) GenerateAccessToken(userID string, email string, isAdmin bool) (string, int64, error) {
	return "access-" + userID, time.Now().Add(time.Hour).Unix(), nil
}

func (fakeJWTService) GenerateRefreshToken(userID string) (string, int64, error) {
	return "refresh-" + userID, time.Now().Add(24 * time.Hour).Unix(), nil
}

func (fakeJWTService) JWTAuth() *jwtauth.JWTAuth { return nil }

func (fakeJWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{Name: "refresh_token", Value: token}
}

type fakeFileService struct{}

func (fakeFileService) UploadProfilePicture(ctx context.Context, userID string, file io.Reader, filename string) (string, error) {
	return "profiles/" + userID + "/" + filename, nil
}

func (fakeFileService) UploadAttendanceProof(ctx context.Context, userID string, date time.Time, file io.Reader, filename string, checkType string) (string, error) {
	return "", nil
}

func (fakeFileService) DeleteFile(ctx context.Context, path string) error { return nil }

func (fakeFileService) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return path, nil
}

func newTestService() (*AuthServiceImpl, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewAuthService(repo, fakeJWTService{}, fakeFileService{}), repo
}

func signupReq(email string) auth.SignupRequest {
	return auth.SignupRequest{
		FirstName:       "Ayesha",
		LastName:        "Khan",
		Email:           email,
		Password:        "correct-horse",
		ConfirmPassword: "correct-horse",
	}
}

func TestSignup(t *testing.T) {
	svc, repo := newTestService()

	result, err := svc.Signup(context.Background(), signupReq("ayesha@example.com"))
	require.NoError(t, err)

	assert.Equal(t, "ayesha@example.com", result.User.Email)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	stored, err := repo.GetByID(context.Background(), result.User.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasPassword())
	// Password is stored hashed, never verbatim
	assert.NotEqual(t, "correct-horse", *stored.PasswordHash)
}

func TestSignupPasswordMismatch(t *testing.T) {
	svc, _ := newTestService()

	req := signupReq("ayesha@example.com")
	req.ConfirmPassword = "different"

	_, err := svc.Signup(context.Background(), req)
	assert.ErrorIs(t, err, auth.ErrPasswordMismatch)
}

func TestSignupPasswordTooShort(t *testing.T) {
	svc, _ := newTestService()

	req := signupReq("ayesha@example.com")
	req.Password = "short"
	req.ConfirmPassword = "short"

	_, err := svc.Signup(context.Background(), req)
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestSignupEmailTaken(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Signup(context.Background(), signupReq("ayesha@example.com"))
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), signupReq("ayesha@example.com"))
	assert.ErrorIs(t, err, user.ErrEmailExists)
}

func TestSignupCompletesProvisionedAccount(t *testing.T) {
	svc, repo := newTestService()

	// Admin provisioned the account without a password
	provisioned, err := repo.Create(context.Background(), user.User{
		FirstName: "Placeholder",
		LastName:  "Name",
		Email:     "bilal@example.com",
	})
	require.NoError(t, err)

	req := signupReq("bilal@example.com")
	req.FirstName = "Bilal"
	req.LastName = "Ahmed"

	result, err := svc.Signup(context.Background(), req)
	require.NoError(t, err)

	// Same account, now set up
	assert.Equal(t, provisioned.ID, result.User.ID)
	assert.Equal(t, "Bilal", result.User.FirstName)

	stored, err := repo.GetByID(context.Background(), provisioned.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasPassword())
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Signup(context.Background(), signupReq("ayesha@example.com"))
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "ayesha@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Signup(context.Background(), signupReq("ayesha@example.com"))
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), auth.LoginRequest{
		Email:    "ayesha@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "irrelevant-pw",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginAccountNotSetUp(t *testing.T) {
	svc, repo := newTestService()

	_, err := repo.Create(context.Background(), user.User{
		FirstName: "Bilal",
		LastName:  "Ahmed",
		Email:     "bilal@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), auth.LoginRequest{
		Email:    "bilal@example.com",
		Password: "whatever-pw",
	})
	assert.ErrorIs(t, err, auth.ErrAccountNotSetUp)
}
