package employees

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"staff-console-go/internal/domain/teams"
	"staff-console-go/internal/domain/validation"
)

type fakeEmployeesRepo struct {
	employees map[int64]*Employee
	teams     map[int64]teams.Summary
	nextID    int64
	calls     int
	err       error
}

func newFakeEmployeesRepo() *fakeEmployeesRepo {
	return &fakeEmployeesRepo{
		employees: make(map[int64]*Employee),
		teams:     map[int64]teams.Summary{7: {ID: 7, TeamName: "Alpha"}},
	}
}

func (r *fakeEmployeesRepo) withTeam(e Employee) Employee {
	e.Team = nil
	if e.TeamID != nil {
		if team, ok := r.teams[*e.TeamID]; ok {
			e.Team = &team
		}
	}
	return e
}

func (r *fakeEmployeesRepo) sorted(keep func(Employee) bool) []Employee {
	items := make([]Employee, 0, len(r.employees))
	for _, e := range r.employees {
		if keep(*e) {
			items = append(items, r.withTeam(*e))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID > items[j].ID
	})
	return items
}

func (r *fakeEmployeesRepo) List(ctx context.Context) ([]Employee, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(func(Employee) bool { return true }), nil
}

func (r *fakeEmployeesRepo) GetByID(ctx context.Context, id int64) (*Employee, error) {
	r.calls++
	e, ok := r.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	copied := r.withTeam(*e)
	return &copied, nil
}

func (r *fakeEmployeesRepo) Search(ctx context.Context, query string) ([]Employee, error) {
	r.calls++
	return r.sorted(func(e Employee) bool {
		for _, field := range []string{e.FirstName, e.MiddleName, e.LastName, e.Email, e.JobPosition, e.Phone} {
			if strings.Contains(strings.ToLower(field), query) {
				return true
			}
		}
		return false
	}), nil
}

func (r *fakeEmployeesRepo) Count(ctx context.Context) (int64, error) {
	r.calls++
	return int64(len(r.employees)), nil
}

func (r *fakeEmployeesRepo) ListNames(ctx context.Context) ([]Employee, error) {
	r.calls++
	return r.sorted(func(Employee) bool { return true }), nil
}

func (r *fakeEmployeesRepo) Create(ctx context.Context, e *Employee) error {
	r.calls++
	if e.TeamID != nil {
		if _, ok := r.teams[*e.TeamID]; !ok {
			return ErrTeamNotFound
		}
	}
	r.nextID++
	e.ID = r.nextID
	copied := *e
	r.employees[e.ID] = &copied
	return nil
}

func (r *fakeEmployeesRepo) Update(ctx context.Context, e *Employee) (bool, error) {
	r.calls++
	if _, ok := r.employees[e.ID]; !ok {
		return false, nil
	}
	copied := *e
	r.employees[e.ID] = &copied
	return true, nil
}

func (r *fakeEmployeesRepo) Delete(ctx context.Context, id int64) (bool, error) {
	r.calls++
	_, ok := r.employees[id]
	delete(r.employees, id)
	return ok, nil
}

var testNow = time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	return NewService(repo, clockwork.NewFakeClockAt(testNow))
}

func anaForm() Form {
	form := NewForm()
	form.Avatar = "https://example.supabase.co/storage/v1/object/public/avatars/ana.png"
	form.FirstName = "Ana"
	form.LastName = "Cruz"
	form.Email = "ana@x.com"
	form.DOB = "2000-01-01"
	form.Gender = "Female"
	form.JobPosition = "Engineer"
	form.StartAt = "9:00 AM"
	form.EndsIn = "5:00 PM"
	form.BillableHours = "40"
	return form
}

func TestCreateAnaShowsAvailable(t *testing.T) {
	repo := newFakeEmployeesRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, anaForm())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.BillableHours != 40 {
		t.Fatalf("expected 40 billable hours, got %d", created.BillableHours)
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one employee, got %d", len(items))
	}
	if items[0].FullName() != "Ana Cruz" {
		t.Fatalf("unexpected name %q", items[0].FullName())
	}
	if items[0].TeamLabel() != AvailableLabel {
		t.Fatalf("expected %q, got %q", AvailableLabel, items[0].TeamLabel())
	}
}

func TestCreateWithTeamEmbedsSummary(t *testing.T) {
	repo := newFakeEmployeesRepo()
	svc := newTestService(repo)

	form := anaForm()
	form.Team = "7"
	created, err := svc.Create(context.Background(), form)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.TeamLabel() != "Alpha" {
		t.Fatalf("expected team label Alpha, got %q", created.TeamLabel())
	}
}

func TestCreateWithMissingTeam(t *testing.T) {
	svc := newTestService(newFakeEmployeesRepo())

	form := anaForm()
	form.Team = "99"
	_, err := svc.Create(context.Background(), form)
	if !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestCreateInvalidSkipsRepository(t *testing.T) {
	repo := newFakeEmployeesRepo()
	svc := newTestService(repo)

	form := anaForm()
	form.DOB = "2010-01-01"
	form.Email = "ana"
	form.Avatar = ""
	_, err := svc.Create(context.Background(), form)

	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	want := validation.Errors{
		FieldAvatar: validation.MsgAvatarRequired,
		FieldDOB:    validation.MsgUnderage,
		FieldEmail:  validation.MsgInvalidEmail,
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("unexpected errors (-want +got):\n%s", diff)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no repository calls, got %d", repo.calls)
	}
}

func TestValidateEveryFieldIndependently(t *testing.T) {
	errs := Form{Billable: true}.Validate(testNow)
	for _, field := range []string{
		FieldAvatar, FieldFirstName, FieldLastName, FieldDOB, FieldGender,
		FieldEmail, FieldJobPosition, FieldStartAt, FieldEndsIn, FieldBillableHours,
	} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("expected error on %s, got %v", field, errs)
		}
	}
	for _, field := range []string{FieldMiddleName, FieldAddress, FieldPhone, FieldTeam} {
		if msg, ok := errs[field]; ok {
			t.Fatalf("expected optional %s to pass, got %q", field, msg)
		}
	}
}

func TestValidateTimeMessages(t *testing.T) {
	form := anaForm()
	form.StartAt = "13:00 PM"
	form.EndsIn = ""
	errs := form.Validate(testNow)
	if errs[FieldStartAt] != validation.MsgTimeFormat {
		t.Fatalf("unexpected start message %q", errs[FieldStartAt])
	}
	if errs[FieldEndsIn] != validation.MsgRequired {
		t.Fatalf("unexpected end message %q", errs[FieldEndsIn])
	}

	form = anaForm()
	form.StartAt = "5:00 PM"
	form.EndsIn = "9:00 AM"
	if errs := form.Validate(testNow); len(errs) != 0 {
		t.Fatalf("expected start after end to be accepted, got %v", errs)
	}
}

func TestValidateTeamAndHours(t *testing.T) {
	form := anaForm()
	form.Team = "abc"
	form.BillableHours = "4O"
	errs := form.Validate(testNow)
	if errs[FieldTeam] != msgInvalidTeam {
		t.Fatalf("expected invalid team, got %q", errs[FieldTeam])
	}
	if errs[FieldBillableHours] != validation.MsgPositiveNumber {
		t.Fatalf("expected invalid hours, got %q", errs[FieldBillableHours])
	}

	form.Team = ""
	form.Billable = false
	if errs := form.Validate(testNow); len(errs) != 0 {
		t.Fatalf("expected non-billable form to skip hours, got %v", errs)
	}
}

func TestNonBillableStoresZeroHours(t *testing.T) {
	svc := newTestService(newFakeEmployeesRepo())

	form := anaForm()
	form.Billable = false
	form.BillableHours = "garbage"
	created, err := svc.Create(context.Background(), form)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.BillableHours != 0 {
		t.Fatalf("expected 0 hours, got %d", created.BillableHours)
	}
}

func TestAgeBoundaryUsesClock(t *testing.T) {
	form := anaForm()
	form.DOB = "2006-06-15"
	if errs := form.Validate(testNow); len(errs) != 0 {
		t.Fatalf("expected exactly 18 accepted, got %v", errs)
	}
	if errs := form.Validate(testNow.AddDate(0, 0, -1)); errs[FieldDOB] != validation.MsgUnderage {
		t.Fatalf("expected one day earlier to be underage, got %v", errs)
	}
}

func TestAgeBoundaryFollowsClockLocation(t *testing.T) {
	form := anaForm()
	form.DOB = "2006-06-15"
	// Still June 14 in New York time while UTC has reached June 15.
	evening := time.Date(2024, time.June, 14, 22, 0, 0, 0, time.FixedZone("EST", -5*60*60))
	if errs := form.Validate(evening); errs[FieldDOB] != validation.MsgUnderage {
		t.Fatalf("expected birthday tomorrow to be underage, got %v", errs)
	}
}

func TestSearch(t *testing.T) {
	repo := newFakeEmployeesRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, anaForm()); err != nil {
		t.Fatalf("create: %v", err)
	}
	other := anaForm()
	other.FirstName = "Ben"
	other.LastName = "Reyes"
	other.Email = "ben@x.com"
	other.Phone = "555-123-4567"
	if _, err := svc.Create(ctx, other); err != nil {
		t.Fatalf("create: %v", err)
	}

	for query, want := range map[string]int{"CRUZ": 1, "x.com": 2, "123-45": 1, "engineer": 2, "zzz": 0, "  ": 2} {
		items, err := svc.Search(ctx, query)
		if err != nil {
			t.Fatalf("search %q: %v", query, err)
		}
		if len(items) != want {
			t.Fatalf("search %q: expected %d, got %d", query, want, len(items))
		}
	}
}

func TestOptionsUseFullName(t *testing.T) {
	repo := newFakeEmployeesRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	form := anaForm()
	form.MiddleName = "Maria"
	if _, err := svc.Create(ctx, form); err != nil {
		t.Fatalf("create: %v", err)
	}

	options, err := svc.Options(ctx)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	want := []Option{{ID: 1, FullName: "Ana Maria Cruz"}}
	if diff := cmp.Diff(want, options); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}
}

func TestUpdateRoundTripsForm(t *testing.T) {
	repo := newFakeEmployeesRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, anaForm())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	form := FormFromEmployee(*created)
	if form.DOB != "2000-01-01" || form.Team != "" || !form.Billable {
		t.Fatalf("unexpected seeded form %+v", form)
	}
	form.Team = "7"
	form.JobPosition = "Lead"

	updated, err := svc.Update(ctx, created.ID, form)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.JobPosition != "Lead" || updated.TeamLabel() != "Alpha" {
		t.Fatalf("unexpected updated record %+v", updated)
	}
}

func TestUpdateMissingEmployee(t *testing.T) {
	svc := newTestService(newFakeEmployeesRepo())
	if _, err := svc.Update(context.Background(), 5, anaForm()); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := newFakeEmployeesRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, anaForm())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := svc.Delete(ctx, created.ID); err != nil {
			t.Fatalf("delete #%d: %v", i+1, err)
		}
	}
	if _, err := svc.GetByID(ctx, created.ID); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestListWrapsBackendError(t *testing.T) {
	repo := newFakeEmployeesRepo()
	repo.err = errors.New("boom")
	svc := newTestService(repo)
	if _, err := svc.List(context.Background()); err == nil || !strings.HasPrefix(err.Error(), "employees: list") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestJoinName(t *testing.T) {
	if got := JoinName("Ana", " ", "Cruz"); got != "Ana Cruz" {
		t.Fatalf("unexpected %q", got)
	}
}
