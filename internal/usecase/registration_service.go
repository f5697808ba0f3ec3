package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gw2hardcore/contest-server/internal/domain/account"
	"github.com/gw2hardcore/contest-server/internal/platform/logging"
	"github.com/gw2hardcore/contest-server/internal/platform/token"
)

// GameAccount is the identity the external game's API reports for an API key.
type GameAccount struct {
	ID          string
	Name        string
	Permissions []string
}

// AccountVerifier is the outbound integration that checks a contestant's API
// key against the game's public API. The core treats it as an opaque
// collaborator; achievement totals are an integer or an error.
type AccountVerifier interface {
	VerifyKey(ctx context.Context, apiKey string) (GameAccount, error)
	AchievementPoints(ctx context.Context, apiKey string) (int, error)
}

// RegistrationService creates contest accounts and resolves contest tokens.
// It never participates in event scoring and never holds character locks.
type RegistrationService struct {
	accountRepo account.Repository
	verifier    AccountVerifier
	tokens      token.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewRegistrationService(
	accountRepo account.Repository,
	verifier AccountVerifier,
	tokens token.Generator,
	logger *logging.Logger,
) *RegistrationService {
	if tokens == nil {
		tokens = token.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &RegistrationService{
		accountRepo: accountRepo,
		verifier:    verifier,
		tokens:      tokens,
		logger:      logger,
		now:         time.Now,
	}
}

// Register verifies the API key with the game API, binds it to a new account
// and issues the opaque contest token. One account per external credential;
// the token is generated once and never reissued.
func (s *RegistrationService) Register(ctx context.Context, apiKey, declaredName string) (account.Account, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.Register")
	defer span.End()

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return account.Account{}, fmt.Errorf("%w: api key is required", ErrInvalidInput)
	}

	if _, exists, err := s.accountRepo.GetByAPIKey(ctx, apiKey); err != nil {
		return account.Account{}, fmt.Errorf("check existing account: %w", err)
	} else if exists {
		return account.Account{}, ErrDuplicateAccount
	}

	verified, err := s.verifier.VerifyKey(ctx, apiKey)
	if err != nil {
		return account.Account{}, err
	}

	name := strings.TrimSpace(declaredName)
	if name == "" {
		name = verified.Name
	}

	points, err := s.verifier.AchievementPoints(ctx, apiKey)
	if err != nil {
		s.logger.WarnContext(ctx, "achievement point lookup failed during registration",
			"account", verified.Name, "error", err)
	} else {
		s.logger.InfoContext(ctx, "account verified",
			"account", verified.Name, "achievement_points", points)
	}

	contestToken, err := s.tokens.NewToken()
	if err != nil {
		return account.Account{}, fmt.Errorf("issue contest token: %w", err)
	}

	created, err := s.accountRepo.Create(ctx, account.Account{
		APIKey:      apiKey,
		AccountName: name,
		Token:       contestToken,
		Active:      true,
	})
	if err != nil {
		return account.Account{}, fmt.Errorf("create account: %w", err)
	}

	return created, nil
}

// Authenticate resolves a contest token back to its account.
func (s *RegistrationService) Authenticate(ctx context.Context, contestToken string) (account.Account, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.Authenticate")
	defer span.End()

	contestToken = strings.TrimSpace(contestToken)
	if contestToken == "" {
		return account.Account{}, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	acct, found, err := s.accountRepo.GetByToken(ctx, contestToken)
	if err != nil {
		return account.Account{}, fmt.Errorf("resolve contest token: %w", err)
	}
	if !found || !acct.Active {
		return account.Account{}, ErrUnknownToken
	}

	return acct, nil
}
