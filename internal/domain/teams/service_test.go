package teams

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/crypto/bcrypt"
	"staff-console-go/internal/domain/validation"
)

type fakeTeamsRepo struct {
	teams  map[int64]*Team
	nextID int64
	err    error
}

func newFakeTeamsRepo() *fakeTeamsRepo {
	return &fakeTeamsRepo{teams: make(map[int64]*Team)}
}

func (r *fakeTeamsRepo) sorted(keep func(Team) bool) []Team {
	items := make([]Team, 0, len(r.teams))
	for _, team := range r.teams {
		if keep(*team) {
			items = append(items, *team)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID > items[j].ID
	})
	return items
}

func (r *fakeTeamsRepo) List(ctx context.Context) ([]Team, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(func(Team) bool { return true }), nil
}

func (r *fakeTeamsRepo) GetByID(ctx context.Context, id int64) (*Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *fakeTeamsRepo) Search(ctx context.Context, query string) ([]Team, error) {
	return r.sorted(func(team Team) bool {
		return strings.Contains(strings.ToLower(team.TeamName), query)
	}), nil
}

func (r *fakeTeamsRepo) ListByMaxHours(ctx context.Context, maxHours int) ([]Team, error) {
	return r.sorted(func(team Team) bool { return team.BillableHours <= maxHours }), nil
}

func (r *fakeTeamsRepo) ListByName(ctx context.Context, name string) ([]Team, error) {
	return r.sorted(func(team Team) bool { return team.TeamName == name }), nil
}

func (r *fakeTeamsRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.teams)), nil
}

func (r *fakeTeamsRepo) ListSummaries(ctx context.Context) ([]Summary, error) {
	items := r.sorted(func(Team) bool { return true })
	result := make([]Summary, 0, len(items))
	for _, team := range items {
		result = append(result, Summary{ID: team.ID, TeamName: team.TeamName})
	}
	return result, nil
}

func (r *fakeTeamsRepo) Create(ctx context.Context, team *Team) error {
	r.nextID++
	team.ID = r.nextID
	team.CreatedAt = time.Now().UTC()
	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *fakeTeamsRepo) Update(ctx context.Context, team *Team) (bool, error) {
	existing, ok := r.teams[team.ID]
	if !ok {
		return false, nil
	}
	copied := *team
	copied.CreatedAt = existing.CreatedAt
	r.teams[team.ID] = &copied
	return true, nil
}

func (r *fakeTeamsRepo) Delete(ctx context.Context, id int64) (bool, error) {
	_, ok := r.teams[id]
	delete(r.teams, id)
	return ok, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, WithHashCost(bcrypt.MinCost))
}

func validForm(name string) Form {
	return Form{TeamName: name, TeamPassword: "secret1", TeamMembers: "Ana Cruz", BillableHours: "120"}
}

func TestQRPayloadLiteral(t *testing.T) {
	payload, ok := QRPayload("Alpha", "secret1")
	if !ok {
		t.Fatalf("expected payload to be defined")
	}
	want := "\n    Team Name: Alpha\n    Team Password: secret1\n  "
	if payload != want {
		t.Fatalf("expected %q, got %q", want, payload)
	}
}

func TestQRPayloadRequiresNameAndPassword(t *testing.T) {
	for _, tc := range []struct{ name, password string }{{"", "pw"}, {"Alpha", ""}, {"", ""}} {
		if _, ok := QRPayload(tc.name, tc.password); ok {
			t.Fatalf("expected payload undefined for %+v", tc)
		}
	}
	form := validForm("Alpha")
	form.TeamPassword = ""
	if _, ok := form.QRPayload(); ok {
		t.Fatalf("expected clearing the password to remove the payload")
	}
}

func TestQRFilename(t *testing.T) {
	if got := QRFilename("Alpha"); got != "Alpha-qrcode.png" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestFormValidate(t *testing.T) {
	errs := Form{TeamName: "A", TeamPassword: "", TeamMembers: "ok", BillableHours: "4.5"}.Validate()
	want := validation.Errors{
		FieldTeamName:      validation.MsgTooShort,
		FieldTeamPassword:  validation.MsgRequired,
		FieldBillableHours: validation.MsgPositiveNumber,
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("unexpected errors (-want +got):\n%s", diff)
	}

	overflow := validForm("Alpha")
	overflow.BillableHours = "99999999999999999999"
	if msg := overflow.Validate()[FieldBillableHours]; msg != validation.MsgPositiveNumber {
		t.Fatalf("expected overflow rejected, got %q", msg)
	}
}

func TestCreateTeamDerivesQRAndHash(t *testing.T) {
	repo := newFakeTeamsRepo()
	svc := newTestService(repo)

	team, err := svc.Create(context.Background(), Form{TeamName: "  Alpha ", TeamPassword: "secret1", TeamMembers: "Ana Cruz", BillableHours: "40"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if team.TeamName != "Alpha" {
		t.Fatalf("expected trimmed name, got %q", team.TeamName)
	}
	if team.QRCode == nil || *team.QRCode != "\n    Team Name: Alpha\n    Team Password: secret1\n  " {
		t.Fatalf("unexpected qr payload %v", team.QRCode)
	}
	if team.BillableHours != 40 {
		t.Fatalf("expected 40 hours, got %d", team.BillableHours)
	}
	if !passwordMatches(*team, "secret1") {
		t.Fatalf("expected hash to match password")
	}
	if strings.Contains(team.PasswordHash, "secret1") {
		t.Fatalf("expected hash not to contain the password")
	}
}

func TestCreateTeamAcceptsPasswordOverBcryptLimit(t *testing.T) {
	repo := newFakeTeamsRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	long := strings.Repeat("p", 73)
	form := Form{TeamName: "Alpha", TeamPassword: long, TeamMembers: "Ana Cruz", BillableHours: "40"}
	if errs := form.Validate(); len(errs) > 0 {
		t.Fatalf("expected long password valid, got %v", errs)
	}

	team, err := svc.Create(ctx, form)
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if _, err := svc.Update(ctx, team.ID, form); err != nil {
		t.Fatalf("expected update to succeed, got %v", err)
	}
	if _, err := svc.VerifyCredentials(ctx, "Alpha", long); err != nil {
		t.Fatalf("expected long password verified, got %v", err)
	}
	// Only the first 72 bytes would reach bcrypt without the digest.
	if _, err := svc.VerifyCredentials(ctx, "Alpha", long+"x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected longer password rejected, got %v", err)
	}
}

func TestCreateTeamInvalidSkipsRepository(t *testing.T) {
	repo := newFakeTeamsRepo()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), Form{})
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if len(errs) != 4 {
		t.Fatalf("expected every field reported, got %v", errs)
	}
	if len(repo.teams) != 0 {
		t.Fatalf("expected nothing written")
	}
}

func TestCreateThenListShowsNewestFirst(t *testing.T) {
	repo := newFakeTeamsRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validForm("Alpha")); err != nil {
		t.Fatalf("create alpha: %v", err)
	}
	created, err := svc.Create(ctx, validForm("Bravo"))
	if err != nil {
		t.Fatalf("create bravo: %v", err)
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != created.ID {
		t.Fatalf("expected newest team first, got %+v", items)
	}
}

func TestSearchBlankEqualsList(t *testing.T) {
	repo := newFakeTeamsRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	for _, name := range []string{"Alpha", "Bravo", "alphabet"} {
		if _, err := svc.Create(ctx, validForm(name)); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	found, err := svc.Search(ctx, "ALPHA")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 case-insensitive matches, got %d", len(found))
	}

	all, err := svc.Search(ctx, "   ")
	if err != nil {
		t.Fatalf("search blank: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected blank search to list all, got %d", len(all))
	}
}

func TestSearchByRange(t *testing.T) {
	repo := newFakeTeamsRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	for _, hours := range []string{"100", "500", "900"} {
		form := validForm("Team " + hours)
		form.BillableHours = hours
		if _, err := svc.Create(ctx, form); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	items, err := svc.SearchByRange(ctx, 500)
	if err != nil {
		t.Fatalf("search by range: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 teams at or under 500 hours, got %d", len(items))
	}
	if _, err := svc.SearchByRange(ctx, -1); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestUpdateTeamRecomputesQR(t *testing.T) {
	repo := newFakeTeamsRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validForm("Alpha"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	form := FormFromTeam(*created)
	form.TeamPassword = "rotated"
	updated, err := svc.Update(ctx, created.ID, form)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.QRCode == nil || !strings.Contains(*updated.QRCode, "Team Password: rotated") {
		t.Fatalf("expected qr payload to follow the new password, got %v", updated.QRCode)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("expected created_at preserved")
	}
}

func TestUpdateMissingTeam(t *testing.T) {
	svc := newTestService(newFakeTeamsRepo())
	_, err := svc.Update(context.Background(), 42, validForm("Alpha"))
	if !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestGetMissingTeam(t *testing.T) {
	svc := newTestService(newFakeTeamsRepo())
	_, err := svc.GetByID(context.Background(), 7)
	if !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := newFakeTeamsRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validForm("Alpha"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("expected repeated delete to succeed, got %v", err)
	}
	items, _ := svc.List(ctx)
	if len(items) != 0 {
		t.Fatalf("expected team removed from list")
	}
}

func TestListWrapsBackendError(t *testing.T) {
	repo := newFakeTeamsRepo()
	repo.err = errors.New("connection refused")
	svc := newTestService(repo)

	_, err := svc.List(context.Background())
	if err == nil || !strings.Contains(err.Error(), "teams: list") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestVerifyCredentials(t *testing.T) {
	repo := newFakeTeamsRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validForm("Alpha"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	team, err := svc.VerifyCredentials(ctx, "Alpha", "secret1")
	if err != nil {
		t.Fatalf("expected credentials accepted, got %v", err)
	}
	if team.ID != created.ID {
		t.Fatalf("expected team %d, got %d", created.ID, team.ID)
	}
	if _, err := svc.VerifyCredentials(ctx, "Alpha", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	repo.teams[99] = &Team{ID: 99, TeamName: "Legacy", TeamPassword: "plain"}
	if _, err := svc.VerifyCredentials(ctx, "Legacy", "plain"); err != nil {
		t.Fatalf("expected legacy plaintext row accepted, got %v", err)
	}
}
