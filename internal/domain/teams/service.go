package teams

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo     Repository
	hashCost int
}

type ServiceOption func(*Service)

// WithHashCost overrides the bcrypt cost used for team password hashes.
func WithHashCost(cost int) ServiceOption {
	return func(s *Service) {
		s.hashCost = cost
	}
}

func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{repo: repo, hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context) ([]Team, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("teams: list: %w", err)
	}
	return items, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Team, error) {
	team, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("teams: get %d: %w", id, err)
	}
	return team, nil
}

// Search matches query case-insensitively against the team name. A blank
// query lists everything.
func (s *Service) Search(ctx context.Context, query string) ([]Team, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}
	items, err := s.repo.Search(ctx, strings.ToLower(query))
	if err != nil {
		return nil, fmt.Errorf("teams: search: %w", err)
	}
	return items, nil
}

// SearchByRange returns teams whose billable hours are at most maxHours.
func (s *Service) SearchByRange(ctx context.Context, maxHours int) ([]Team, error) {
	if maxHours < 0 {
		return nil, ErrInvalidRange
	}
	items, err := s.repo.ListByMaxHours(ctx, maxHours)
	if err != nil {
		return nil, fmt.Errorf("teams: search by range: %w", err)
	}
	return items, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("teams: count: %w", err)
	}
	return count, nil
}

func (s *Service) Options(ctx context.Context) ([]Summary, error) {
	items, err := s.repo.ListSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("teams: options: %w", err)
	}
	return items, nil
}

func (s *Service) Create(ctx context.Context, form Form) (*Team, error) {
	team, err := s.buildTeam(form)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("teams: create: %w", err)
	}
	return team, nil
}

// Update rewrites the whole record, including a freshly derived QR payload
// and password hash.
func (s *Service) Update(ctx context.Context, id int64, form Form) (*Team, error) {
	team, err := s.buildTeam(form)
	if err != nil {
		return nil, err
	}
	team.ID = id

	updated, err := s.repo.Update(ctx, team)
	if err != nil {
		return nil, fmt.Errorf("teams: update %d: %w", id, err)
	}
	if !updated {
		return nil, fmt.Errorf("teams: update %d: %w", id, ErrTeamNotFound)
	}

	return s.GetByID(ctx, id)
}

// Delete removes the team. Deleting a team that no longer exists succeeds.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("teams: delete %d: %w", id, err)
	}
	return nil
}

// VerifyCredentials resolves the team a scanned QR payload refers to.
func (s *Service) VerifyCredentials(ctx context.Context, name, password string) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	candidates, err := s.repo.ListByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("teams: verify: %w", err)
	}
	for i := range candidates {
		if passwordMatches(candidates[i], password) {
			return &candidates[i], nil
		}
	}
	return nil, ErrInvalidCredentials
}

func (s *Service) buildTeam(form Form) (*Team, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, errs
	}

	hours, err := strconv.Atoi(form.BillableHours)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword(passwordDigest(form.TeamPassword), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("teams: hash password: %w", err)
	}

	team := &Team{
		TeamName:      strings.TrimSpace(form.TeamName),
		TeamPassword:  form.TeamPassword,
		PasswordHash:  string(hash),
		TeamMembers:   strings.TrimSpace(form.TeamMembers),
		BillableHours: hours,
	}
	if payload, ok := QRPayload(team.TeamName, team.TeamPassword); ok {
		team.QRCode = &payload
	}
	return team, nil
}

func passwordMatches(team Team, password string) bool {
	if team.PasswordHash == "" {
		return subtle.ConstantTimeCompare([]byte(team.TeamPassword), []byte(password)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(team.PasswordHash), passwordDigest(password)) == nil
}

// passwordDigest folds a password of any length into the 44 bytes bcrypt
// hashes. bcrypt rejects inputs over 72 bytes and team passwords have no
// upper bound.
func passwordDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	digest := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(digest, sum[:])
	return digest
}
