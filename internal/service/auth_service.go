package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"studybuddy/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = time.Hour

// Domain errors for auth flows. ErrInvalidCredentials deliberately
// covers both unknown-username and wrong-password so callers cannot
// enumerate accounts.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
)

// AuthService handles registration, credential verification and the
// session token lifecycle.
type AuthService struct {
	users      repository.Users
	sessions   repository.Sessions
	signingKey []byte
	tokenTTL   time.Duration
}

func NewAuthService(users repository.Users, sessions repository.Sessions, cfg AuthConfig) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		signingKey: []byte(cfg.SigningKey),
		tokenTTL:   ttl,
	}
}

// SignUp hashes the password and creates the user. Returns
// repository.ErrUserExists when the username is taken; the atomicity of
// create-if-absent lives in the repository.
func (s *AuthService) SignUp(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username is empty", ErrInvalidInput)
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: password is empty", ErrInvalidInput)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.Create(ctx, username, hash)
}

// Claims defines JWT claims. The jti (RegisteredClaims.ID) is what the
// revocation store tracks on sign-out.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// GenerateToken verifies credentials and returns a signed JWT. Stored
// credentials may still be in the legacy unsalted SHA-256 format; those
// verify against the legacy digest and are transparently re-hashed with
// bcrypt before the token is issued.
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrInvalidCredentials
	}

	if isLegacyDigest(u.PasswordHash) {
		if !verifyLegacyDigest(u.PasswordHash, password) {
			return "", ErrInvalidCredentials
		}
		if err := s.upgradeHash(ctx, username, password); err != nil {
			return "", err
		}
	} else if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.issueToken(username)
}

// ParseToken validates the JWT and the revocation store, returning the
// bound username.
func (s *AuthService) ParseToken(ctx context.Context, accessToken string) (string, error) {
	claims, err := s.parseClaims(accessToken)
	if err != nil {
		return "", err
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", ErrTokenRevoked
	}

	return claims.Username, nil
}

// RevokeToken marks the token's jti dead until the token would expire
// anyway (Authenticated -> Anonymous transition).
func (s *AuthService) RevokeToken(ctx context.Context, accessToken string) error {
	claims, err := s.parseClaims(accessToken)
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(s.tokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.sessions.Revoke(ctx, claims.ID, expiresAt)
}

func (s *AuthService) parseClaims(accessToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Username == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// issueToken signs a JWT bound to the username with a fresh jti.
func (s *AuthService) issueToken(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: username,
	})
	return token.SignedString(s.signingKey)
}

// upgradeHash replaces a legacy digest with bcrypt. A storage failure
// here fails the sign-in: proceeding would leave the account silently
// stuck on the weak format.
func (s *AuthService) upgradeHash(ctx context.Context, username, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("rehash password: %w", err)
	}
	return s.users.UpdatePasswordHash(ctx, username, hash)
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against bcrypt hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// isLegacyDigest reports whether the stored hash is an unsalted SHA-256
// hex digest from the pre-bcrypt credential format.
func isLegacyDigest(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

func verifyLegacyDigest(storedHex, password string) bool {
	sum := sha256.Sum256([]byte(password))
	digest := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(storedHex), []byte(digest)) == 1
}
