package account

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/420btc/mymac/internal/infrastructure/store"
	"github.com/420btc/mymac/internal/shared/id"
	"github.com/420btc/mymac/internal/shared/types"
	"github.com/420btc/mymac/internal/shared/utils"
	"golang.org/x/crypto/bcrypt"
)

const usersCollection = "users"

// DefaultSessionTTL is how long a login session stays valid.
const DefaultSessionTTL = 24 * time.Hour

// Provider implements local user accounts and login sessions.
type Provider struct {
	store    *store.Store
	users    sync.Map // username -> *User, and user ID -> *User
	sessions sync.Map // token -> *LoginSession
}

// User represents a local account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Email        string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginSession represents an active login.
type LoginSession struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewProvider creates an account provider. Existing users are loaded from
// the store when one is given.
func NewProvider(st *store.Store) *Provider {
	p := &Provider{store: st}
	p.loadUsers()
	return p
}

func (a *Provider) loadUsers() {
	if a.store == nil {
		return
	}
	ids, err := a.store.List(usersCollection)
	if err != nil {
		return
	}
	for _, userID := range ids {
		var user User
		if err := a.store.Get(usersCollection, userID, &user); err != nil {
			continue
		}
		u := user
		a.users.Store(u.Username, &u)
		a.users.Store(u.ID, &u)
	}
}

// Definition returns service metadata.
func (a *Provider) Definition() types.Service {
	return types.Service{
		ID:          "account",
		Name:        "Account Service",
		Description: "Local user accounts and login sessions",
		Category:    types.CategoryAccount,
		Capabilities: []string{
			"register",
			"login",
			"logout",
			"verify",
		},
		Tools: []types.Tool{
			{
				ID:          "account.register",
				Name:        "Register User",
				Description: "Create a new user account",
				Parameters: []types.Parameter{
					{Name: "username", Type: "string", Description: "Username", Required: true},
					{Name: "password", Type: "string", Description: "Password", Required: true},
					{Name: "email", Type: "string", Description: "Email address", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "account.login",
				Name:        "Login",
				Description: "Authenticate and create a login session",
				Parameters: []types.Parameter{
					{Name: "username", Type: "string", Description: "Username", Required: true},
					{Name: "password", Type: "string", Description: "Password", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "account.logout",
				Name:        "Logout",
				Description: "End the current login session",
				Parameters: []types.Parameter{
					{Name: "token", Type: "string", Description: "Session token", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "account.verify",
				Name:        "Verify Token",
				Description: "Check whether a session token is valid",
				Parameters: []types.Parameter{
					{Name: "token", Type: "string", Description: "Session token", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "account.current",
				Name:        "Current User",
				Description: "Get the authenticated user's details",
				Parameters: []types.Parameter{
					{Name: "token", Type: "string", Description: "Session token", Required: true},
				},
				Returns: "object",
			},
		},
	}
}

// Execute runs an account operation.
func (a *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "account.register":
		return a.register(params)
	case "account.login":
		return a.login(params)
	case "account.logout":
		return a.logout(params)
	case "account.verify":
		return a.verify(params)
	case "account.current":
		return a.current(params)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (a *Provider) register(params map[string]interface{}) (*types.Result, error) {
	username, ok := params["username"].(string)
	if !ok || username == "" {
		return failure("username required")
	}

	password, ok := params["password"].(string)
	if !ok || password == "" {
		return failure("password required")
	}

	if err := utils.ValidateUsername(username); err != nil {
		return failure(err.Error())
	}
	if err := utils.ValidatePassword(password); err != nil {
		return failure(err.Error())
	}
	if email, ok := params["email"].(string); ok && email != "" {
		if err := utils.ValidateEmail(email, false); err != nil {
			return failure(err.Error())
		}
	}

	if _, exists := a.users.Load(username); exists {
		return failure("username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return failure(fmt.Sprintf("password hashing failed: %v", err))
	}

	user := &User{
		ID:           id.NewUserID().String(),
		Username:     username,
		PasswordHash: string(hash),
		Email:        getStringParam(params, "email"),
		CreatedAt:    time.Now(),
	}

	a.users.Store(username, user)
	a.users.Store(user.ID, user)

	if a.store != nil {
		if err := a.store.Put(usersCollection, user.ID, user); err != nil {
			return failure(fmt.Sprintf("failed to persist user: %v", err))
		}
	}

	return success(map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func (a *Provider) login(params map[string]interface{}) (*types.Result, error) {
	username, ok := params["username"].(string)
	if !ok || username == "" {
		return failure("username required")
	}

	password, ok := params["password"].(string)
	if !ok || password == "" {
		return failure("password required")
	}

	// Validation failures look like bad credentials on purpose.
	if err := utils.ValidateUsername(username); err != nil {
		return failure("invalid credentials")
	}
	if err := utils.ValidatePassword(password); err != nil {
		return failure("invalid credentials")
	}

	userVal, exists := a.users.Load(username)
	if !exists {
		return failure("invalid credentials")
	}
	user := userVal.(*User)

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return failure("invalid credentials")
	}

	token := generateToken()
	session := &LoginSession{
		UserID:    user.ID,
		Token:     token,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(DefaultSessionTTL),
	}
	a.sessions.Store(token, session)

	return success(map[string]interface{}{
		"token":      token,
		"user_id":    user.ID,
		"username":   user.Username,
		"expires_at": session.ExpiresAt.Unix(),
	})
}

func (a *Provider) logout(params map[string]interface{}) (*types.Result, error) {
	token, ok := params["token"].(string)
	if !ok || token == "" {
		return failure("token required")
	}

	if err := utils.ValidateString(token, "token", 1, 128, true); err != nil {
		return failure("invalid token")
	}

	a.sessions.Delete(token)

	return success(map[string]interface{}{"logged_out": true})
}

func (a *Provider) verify(params map[string]interface{}) (*types.Result, error) {
	token, ok := params["token"].(string)
	if !ok || token == "" {
		return failure("token required")
	}

	if err := utils.ValidateString(token, "token", 1, 128, true); err != nil {
		return success(map[string]interface{}{"valid": false})
	}

	sessionVal, exists := a.sessions.Load(token)
	if !exists {
		return success(map[string]interface{}{"valid": false})
	}

	session := sessionVal.(*LoginSession)
	if time.Now().After(session.ExpiresAt) {
		a.sessions.Delete(token)
		return success(map[string]interface{}{"valid": false, "reason": "expired"})
	}

	return success(map[string]interface{}{
		"valid":      true,
		"user_id":    session.UserID,
		"expires_at": session.ExpiresAt.Unix(),
	})
}

func (a *Provider) current(params map[string]interface{}) (*types.Result, error) {
	token, ok := params["token"].(string)
	if !ok || token == "" {
		return failure("token required")
	}

	if err := utils.ValidateString(token, "token", 1, 128, true); err != nil {
		return failure("invalid token")
	}

	sessionVal, exists := a.sessions.Load(token)
	if !exists {
		return failure("invalid token")
	}

	session := sessionVal.(*LoginSession)
	if time.Now().After(session.ExpiresAt) {
		return failure("token expired")
	}

	userVal, exists := a.users.Load(session.UserID)
	if !exists {
		return failure("user not found")
	}
	user := userVal.(*User)

	return success(map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// Weak randomness is never an acceptable fallback for tokens.
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return base64.URLEncoding.EncodeToString(b)
}

func getStringParam(params map[string]interface{}, key string) string {
	if val, ok := params[key].(string); ok {
		return val
	}
	return ""
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}
