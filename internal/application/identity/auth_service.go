package identity

import (
	"context"
	"time"

	auditapp "github.com/fnbcost/backend/internal/application/audit"
	"github.com/fnbcost/backend/internal/domain/audit"
	"github.com/fnbcost/backend/internal/domain/identity"
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/fnbcost/backend/internal/infrastructure/auth"
	"github.com/fnbcost/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Maximum failed login attempts before lock
	LockDuration     time.Duration // How long to lock account after max attempts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     30 * time.Minute,
	}
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	roleRepo   identity.RoleRepository
	accessRepo identity.PropertyAccessRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	recorder   *auditapp.Recorder
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	accessRepo identity.PropertyAccessRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	recorder *auditapp.Recorder,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		accessRepo: accessRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		recorder:   recorder,
		config:     config,
		logger:     logger,
	}
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (result *LoginResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	s.logger.Info("Login attempt", zap.String("username", input.Username))

	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Warn("User not found during login", zap.String("username", input.Username))
		s.recordLoginFailure(ctx, nil, input)
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			s.logger.Warn("Login attempt for locked account", zap.String("username", input.Username))
			s.recordLoginFailure(ctx, user, input)
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later or contact an administrator")
		}
		if user.IsDeactivated() {
			s.logger.Warn("Login attempt for deactivated account", zap.String("username", input.Username))
			s.recordLoginFailure(ctx, user, input)
			return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
		}
		s.recordLoginFailure(ctx, user, input)
		return nil, shared.NewDomainError("ACCOUNT_PENDING", "Account is pending activation")
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error("Failed to update user after login failure", zap.Error(err))
		}
		s.recordLoginFailure(ctx, user, input)

		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("username", input.Username),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}

		s.logger.Warn("Invalid password attempt",
			zap.String("username", input.Username),
			zap.Int("failed_attempts", user.FailedAttempts))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if err := s.userRepo.LoadUserRoles(ctx, user); err != nil {
		s.logger.Error("Failed to load user roles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user roles")
	}

	permissions, err := s.collectUserPermissions(ctx, user.RoleIDs)
	if err != nil {
		s.logger.Error("Failed to collect user permissions", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user permissions")
	}

	propertyIDs, err := s.accessRepo.PropertyIDsForUser(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to load property grants", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load property access")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID:    user.TenantID,
		UserID:      user.ID,
		Username:    user.Username,
		RoleIDs:     user.RoleIDs,
		Permissions: permissions,
		PropertyIDs: propertyIDs,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Update(ctx, user); err != nil {
		// Login still succeeds, the stale counters will be fixed on next login
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}

	if log, err := audit.NewAuditLog(user.TenantID, audit.ActionLogin, "user"); err == nil {
		s.recorder.Record(ctx, log.
			WithUser(user.ID, user.Username).
			WithResourceID(user.ID.String()).
			WithRequest(input.IP, input.UserAgent))
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrUserID, user.ID.String())
	telemetry.SetOK(span)

	s.logger.Info("User logged in successfully",
		zap.String("username", input.Username),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User:                  s.toUserInfo(user, permissions, propertyIDs),
	}, nil
}

// RefreshToken refreshes the access token using a valid refresh token.
// Permissions and property grants are re-read so refreshed tokens pick up
// authorization changes made since the original login.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (result *RefreshTokenResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "refresh_token")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	refreshClaims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	userID, err := uuid.Parse(refreshClaims.UserID)
	if err != nil {
		s.logger.Error("Invalid user ID in refresh token", zap.Error(err))
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("User not found during token refresh", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if !user.CanLogin() {
		s.logger.Warn("Token refresh for inactive user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	if err := s.userRepo.LoadUserRoles(ctx, user); err != nil {
		s.logger.Error("Failed to load user roles during refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user roles")
	}

	permissions, err := s.collectUserPermissions(ctx, user.RoleIDs)
	if err != nil {
		s.logger.Error("Failed to collect permissions during refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user permissions")
	}

	propertyIDs, err := s.accessRepo.PropertyIDsForUser(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to load property grants during refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load property access")
	}

	propertyIDStrings := make([]string, len(propertyIDs))
	for i, pid := range propertyIDs {
		propertyIDStrings[i] = pid.String()
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, permissions, propertyIDStrings)
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrUserID, userID.String())
	telemetry.SetOK(span)

	s.logger.Info("Token refreshed successfully", zap.String("user_id", userID.String()))

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout revokes the current access token by blacklisting its JTI
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "logout")
	defer span.End()

	if input.JTI != "" && input.TokenTTL > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, input.JTI, input.TokenTTL); err != nil {
			s.logger.Error("Failed to blacklist token on logout",
				zap.String("user_id", input.UserID.String()),
				zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke token")
		}
	}

	if log, err := audit.NewAuditLog(input.TenantID, audit.ActionLogout, "user"); err == nil {
		s.recorder.Record(ctx, log.
			WithUser(input.UserID, "").
			WithResourceID(input.UserID.String()).
			WithRequest(input.IP, input.UserAgent))
	}

	telemetry.SetOK(span)

	s.logger.Info("User logged out",
		zap.String("user_id", input.UserID.String()),
		zap.String("tenant_id", input.TenantID.String()))

	return nil
}

// GetCurrentUser retrieves the current user's information
func (s *AuthService) GetCurrentUser(ctx context.Context, input GetCurrentUserInput) (*CurrentUserResult, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := s.userRepo.LoadUserRoles(ctx, user); err != nil {
		s.logger.Error("Failed to load user roles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user roles")
	}

	permissions, err := s.collectUserPermissions(ctx, user.RoleIDs)
	if err != nil {
		s.logger.Error("Failed to collect permissions", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user permissions")
	}

	propertyIDs, err := s.accessRepo.PropertyIDsForUser(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to load property grants", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load property access")
	}

	return &CurrentUserResult{
		User:        s.toUserInfo(user, permissions, propertyIDs),
		Permissions: permissions,
	}, nil
}

// ChangePassword changes a user's password
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	if log, err := audit.NewAuditLog(user.TenantID, audit.ActionUpdate, "user"); err == nil {
		s.recorder.Record(ctx, log.
			WithUser(user.ID, user.Username).
			WithResourceID(user.ID.String()).
			WithDetails(`{"change":"password"}`))
	}

	s.logger.Info("User password changed", zap.String("user_id", input.UserID.String()))

	return nil
}

// collectUserPermissions collects all unique permissions from the user's roles
func (s *AuthService) collectUserPermissions(ctx context.Context, roleIDs []uuid.UUID) ([]string, error) {
	if len(roleIDs) == 0 {
		return []string{}, nil
	}

	roles, err := s.roleRepo.FindByIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}

	permSet := make(map[string]struct{})
	for _, role := range roles {
		if !role.IsEnabled {
			continue
		}
		if err := s.roleRepo.LoadPermissions(ctx, role); err != nil {
			s.logger.Warn("Failed to load permissions for role",
				zap.String("role_id", role.ID.String()),
				zap.Error(err))
			continue
		}
		for _, perm := range role.Permissions {
			permSet[perm.Code] = struct{}{}
		}
	}

	permissions := make([]string, 0, len(permSet))
	for perm := range permSet {
		permissions = append(permissions, perm)
	}

	return permissions, nil
}

func (s *AuthService) toUserInfo(user *identity.User, permissions []string, propertyIDs []uuid.UUID) UserInfo {
	return UserInfo{
		ID:                 user.ID,
		TenantID:           user.TenantID,
		Username:           user.Username,
		DisplayName:        user.GetDisplayNameOrUsername(),
		Email:              user.Email,
		Phone:              user.Phone,
		Permissions:        permissions,
		RoleIDs:            user.RoleIDs,
		PropertyIDs:        propertyIDs,
		MustChangePassword: user.MustChangePassword,
	}
}

// recordLoginFailure writes a login_failed audit record. The username is kept
// even when no user matched so failed login clusters can include unknown names.
func (s *AuthService) recordLoginFailure(ctx context.Context, user *identity.User, input LoginInput) {
	tenantID := uuid.Nil
	if user != nil {
		tenantID = user.TenantID
	}

	log, err := audit.NewAuditLog(tenantID, audit.ActionLoginFailed, "user")
	if err != nil {
		return
	}

	log = log.WithRequest(input.IP, input.UserAgent)
	if user != nil {
		log = log.WithUser(user.ID, user.Username).WithResourceID(user.ID.String())
	} else {
		log.Username = input.Username
	}

	s.recorder.Record(ctx, log)
}

// mapTokenError translates JWT layer errors to domain errors
func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case auth.ErrInvalidToken:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}
