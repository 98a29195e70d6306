package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"leet_tracker/internal/app/session"
	"leet_tracker/internal/common"
	"leet_tracker/internal/common/security"
	"leet_tracker/internal/domain/model"
	"leet_tracker/internal/domain/repository"
	"leet_tracker/internal/platform/database/dbtest"
	"leet_tracker/internal/platform/logger"
)

func strPtr(s string) *string { return &s }

// fakeClock hands out a fixed instant that tests advance explicitly.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	clock      *fakeClock
	questions  *QuestionService
	progress   *ProgressService
	interviews *InterviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	questionRepo := repository.NewQuestionRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)
	log := logger.Nop()

	clock := &fakeClock{t: time.UnixMilli(1_700_000_000_000).UTC()}
	f := &fixture{
		clock:      clock,
		questions:  NewQuestionService(questionRepo, progressRepo, log),
		progress:   NewProgressService(progressRepo, questionRepo, log),
		interviews: NewInterviewService(interviewRepo, questionRepo, log),
	}
	f.questions.now = clock.now
	f.progress.now = clock.now
	f.interviews.now = clock.now
	return f
}

func (f *fixture) addQuestion(t *testing.T, title string, company *string) *model.Question {
	t.Helper()
	q, err := f.questions.AddQuestion(context.Background(), AddQuestionRequest{
		Title:      title,
		Difficulty: model.DifficultyEasy,
		Category:   "Array",
		Company:    company,
	})
	if err != nil {
		t.Fatalf("AddQuestion(%q): %v", title, err)
	}
	f.clock.advance(time.Second)
	return q
}

func (f *fixture) upsert(t *testing.T, req UpsertProgressRequest) string {
	t.Helper()
	id, err := f.progress.UpsertProgress(context.Background(), req)
	if err != nil {
		t.Fatalf("UpsertProgress(%+v): %v", req, err)
	}
	return id
}

func TestUpsertProgressLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	q := f.addQuestion(t, "Two Sum", strPtr("Google"))

	startedAt := f.clock.t
	id := f.upsert(t, UpsertProgressRequest{QuestionID: q.ID, Username: "pedraza", Status: model.ProgressInProgress})

	eq, err := f.questions.GetQuestion(ctx, q.ID, "pedraza")
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if eq.Status != model.ProgressInProgress || eq.StartedAt == nil || !eq.StartedAt.Equal(startedAt) || eq.CompletedAt != nil {
		t.Fatalf("after IN_PROGRESS: %+v", eq)
	}

	f.clock.advance(time.Hour)
	doneAt := f.clock.t
	again := f.upsert(t, UpsertProgressRequest{
		QuestionID: q.ID, Username: "pedraza", Status: model.ProgressDone,
		Annotations: model.Annotations{TimeComplexity: strPtr("O(n)"), Topics: []string{"hash map"}},
	})
	if again != id {
		t.Fatalf("second upsert created a new record: first=%s second=%s", id, again)
	}

	eq, err = f.questions.GetQuestion(ctx, q.ID, "pedraza")
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if eq.Status != model.ProgressDone || !eq.StartedAt.Equal(startedAt) || eq.CompletedAt == nil || !eq.CompletedAt.Equal(doneAt) {
		t.Fatalf("after DONE: %+v", eq)
	}
	if eq.TimeComplexity != "O(n)" || len(eq.Topics) != 1 || eq.TotalCompletions != 1 {
		t.Fatalf("after DONE annotations: %+v", eq)
	}

	// Staying DONE keeps the first completion time.
	f.clock.advance(time.Hour)
	f.upsert(t, UpsertProgressRequest{QuestionID: q.ID, Username: "pedraza", Status: model.ProgressDone})
	eq, _ = f.questions.GetQuestion(ctx, q.ID, "pedraza")
	if eq.CompletedAt == nil || !eq.CompletedAt.Equal(doneAt) {
		t.Fatalf("re-DONE moved completedAt: want=%v got=%v", doneAt, eq.CompletedAt)
	}
	if eq.TimeComplexity != "" || len(eq.Topics) != 0 {
		t.Fatalf("omitted annotations should be cleared, got %+v", eq)
	}

	f.clock.advance(time.Hour)
	f.upsert(t, UpsertProgressRequest{QuestionID: q.ID, Username: "pedraza", Status: model.ProgressTodo})
	eq, _ = f.questions.GetQuestion(ctx, q.ID, "pedraza")
	if eq.Status != model.ProgressTodo || eq.CompletedAt != nil || eq.StartedAt == nil || !eq.StartedAt.Equal(startedAt) {
		t.Fatalf("after TODO: %+v", eq)
	}
	if eq.TotalCompletions != 0 || len(eq.CompletedByUsers) != 0 {
		t.Fatalf("TODO record still counted as completion: %+v", eq.CompletedByUsers)
	}

	records, err := f.progress.ListProgress(ctx)
	if err != nil {
		t.Fatalf("ListProgress: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one record for (pedraza, q), got %d", len(records))
	}
}

func TestUpsertProgressValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	q := f.addQuestion(t, "Valid Parentheses", nil)

	cases := []struct {
		name string
		req  UpsertProgressRequest
		want error
	}{
		{"missing question id", UpsertProgressRequest{Status: model.ProgressDone}, common.ErrValidation},
		{"bad status", UpsertProgressRequest{QuestionID: q.ID, Status: "FINISHED"}, common.ErrValidation},
		{"unknown question", UpsertProgressRequest{QuestionID: "nope", Status: model.ProgressDone}, common.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.progress.UpsertProgress(ctx, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

// pedraza finishes Two Sum, daniel has not touched it.
func TestTwoSumViewedByEachUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	q := f.addQuestion(t, "Two Sum", strPtr("Google"))
	f.upsert(t, UpsertProgressRequest{
		QuestionID: q.ID, Username: "pedraza", Status: model.ProgressDone,
		Annotations: model.Annotations{Notes: strPtr("hash map one pass")},
	})

	forDaniel, err := f.questions.ListQuestionsWithProgress(ctx, "daniel")
	if err != nil {
		t.Fatalf("ListQuestionsWithProgress: %v", err)
	}
	if len(forDaniel) != 1 {
		t.Fatalf("want 1 question, got %d", len(forDaniel))
	}
	d := forDaniel[0]
	if d.Status != model.ProgressTodo || d.Notes != "" || d.TotalCompletions != 1 {
		t.Fatalf("daniel view: %+v", d)
	}
	if d.CompletedByUsers[0].Username != "pedraza" || d.CompletedByUsers[0].Notes == nil {
		t.Fatalf("daniel should see pedraza's completion, got %+v", d.CompletedByUsers)
	}

	forPedraza, err := f.questions.ListQuestionsWithProgress(ctx, "pedraza")
	if err != nil {
		t.Fatalf("ListQuestionsWithProgress: %v", err)
	}
	p := forPedraza[0]
	if p.Status != model.ProgressDone || p.Notes != "hash map one pass" || p.CompletedAt == nil {
		t.Fatalf("pedraza view: %+v", p)
	}

	if q.Slug != "two-sum" {
		t.Fatalf("slug: want two-sum got %q", q.Slug)
	}
	bySlug, err := f.questions.GetQuestionBySlug(ctx, "two-sum", "daniel")
	if err != nil || bySlug.ID != q.ID {
		t.Fatalf("GetQuestionBySlug: got %+v err=%v", bySlug, err)
	}
}

func TestAllUsersProgressSortedAndLegacyNamed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	q := f.addQuestion(t, "Merge Intervals", nil)

	f.upsert(t, UpsertProgressRequest{QuestionID: q.ID, Username: "sebas", Status: model.ProgressDone})
	f.upsert(t, UpsertProgressRequest{QuestionID: q.ID, Status: model.ProgressInProgress})
	f.upsert(t, UpsertProgressRequest{QuestionID: q.ID, Username: "daniel", Status: model.ProgressDone})

	eq, err := f.questions.GetQuestion(ctx, q.ID, "daniel")
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	var names []string
	for _, u := range eq.AllUsersProgress {
		names = append(names, u.Username)
	}
	want := []string{"daniel", model.LegacyUsername, "sebas"}
	if len(names) != len(want) {
		t.Fatalf("allUsersProgress: want %v got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("allUsersProgress: want %v got %v", want, names)
		}
	}
	if eq.TotalCompletions != 2 || eq.CompletedByUsers[0].Username != "daniel" || eq.CompletedByUsers[1].Username != "sebas" {
		t.Fatalf("completedByUsers: %+v", eq.CompletedByUsers)
	}

	// A blank current user sees the legacy slot, a named one never does.
	legacy, _ := f.questions.GetQuestion(ctx, q.ID, "")
	if legacy.Status != model.ProgressInProgress {
		t.Fatalf("legacy view: want IN_PROGRESS got %s", legacy.Status)
	}
	pedraza, _ := f.questions.GetQuestion(ctx, q.ID, "pedraza")
	if pedraza.Status != model.ProgressTodo {
		t.Fatalf("pedraza view: want TODO got %s", pedraza.Status)
	}
}

func TestListCompaniesSortedAndDistinct(t *testing.T) {
	f := newFixture(t)
	f.addQuestion(t, "A", strPtr("Meta"))
	f.addQuestion(t, "B", strPtr("Amazon"))
	f.addQuestion(t, "C", strPtr("Meta"))
	f.addQuestion(t, "D", nil)
	f.addQuestion(t, "E", strPtr("   "))

	got, err := f.questions.ListCompanies(context.Background())
	if err != nil {
		t.Fatalf("ListCompanies: %v", err)
	}
	if len(got) != 2 || got[0] != "Amazon" || got[1] != "Meta" {
		t.Fatalf("want [Amazon Meta] got %v", got)
	}
}

func TestAddQuestionValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.questions.AddQuestion(context.Background(), AddQuestionRequest{Title: "X", Category: "Array", Difficulty: "Insane"})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	_, err = f.questions.AddQuestion(context.Background(), AddQuestionRequest{Title: "  ", Category: "Array", Difficulty: model.DifficultyHard})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want validation error for blank title, got %v", err)
	}
}

func TestProgressSummary(t *testing.T) {
	f := newFixture(t)
	a := f.addQuestion(t, "A", nil)
	b := f.addQuestion(t, "B", nil)
	f.addQuestion(t, "C", nil)
	f.upsert(t, UpsertProgressRequest{QuestionID: a.ID, Username: "sebas", Status: model.ProgressDone})
	f.upsert(t, UpsertProgressRequest{QuestionID: b.ID, Username: "sebas", Status: model.ProgressInProgress})
	f.upsert(t, UpsertProgressRequest{QuestionID: b.ID, Username: "daniel", Status: model.ProgressDone})

	got, err := f.questions.ProgressSummary(context.Background(), "sebas")
	if err != nil {
		t.Fatalf("ProgressSummary: %v", err)
	}
	want := model.ProgressSummary{Todo: 1, InProgress: 1, Done: 1, Total: 3}
	if *got != want {
		t.Fatalf("want %+v got %+v", want, *got)
	}
}

func TestMigrateLegacyUsernames(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.addQuestion(t, "A", nil)
	b := f.addQuestion(t, "B", nil)
	f.upsert(t, UpsertProgressRequest{QuestionID: a.ID, Status: model.ProgressDone})
	f.upsert(t, UpsertProgressRequest{QuestionID: b.ID, Status: model.ProgressTodo})
	f.upsert(t, UpsertProgressRequest{QuestionID: a.ID, Username: "daniel", Status: model.ProgressDone})

	res, err := f.progress.MigrateLegacyUsernames(ctx, "pedraza")
	if err != nil {
		t.Fatalf("MigrateLegacyUsernames: %v", err)
	}
	if res.TotalRecords != 3 || res.UpdatedRecords != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Message != "Migration completed. Updated 2 records with username: pedraza" {
		t.Fatalf("message: %q", res.Message)
	}

	eq, _ := f.questions.GetQuestion(ctx, a.ID, "pedraza")
	if eq.Status != model.ProgressDone {
		t.Fatalf("pedraza should own the migrated record, got %s", eq.Status)
	}

	res, err = f.progress.MigrateLegacyUsernames(ctx, "pedraza")
	if err != nil || res.UpdatedRecords != 0 {
		t.Fatalf("second migration: %+v err=%v", res, err)
	}

	if _, err := f.progress.MigrateLegacyUsernames(ctx, " "); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("blank default username: want validation error, got %v", err)
	}
}

func TestInterviewLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	q1 := f.addQuestion(t, "LRU Cache", nil)
	q2 := f.addQuestion(t, "Word Ladder", nil)

	date := f.clock.t.Add(48 * time.Hour)
	iv, err := f.interviews.CreateInterview(ctx, CreateInterviewRequest{
		Title:        "Mock #1",
		Date:         date,
		Duration:     60,
		Participants: []string{"pedraza", "  ", "daniel"},
		QuestionIDs:  []string{q2.ID, "deleted-question", q1.ID},
	})
	if err != nil {
		t.Fatalf("CreateInterview: %v", err)
	}
	if iv.Status != model.InterviewScheduled || len(iv.Participants) != 2 {
		t.Fatalf("created interview: %+v", iv)
	}

	all, err := f.interviews.ListInterviews(ctx)
	if err != nil {
		t.Fatalf("ListInterviews: %v", err)
	}
	if len(all) != 1 || len(all[0].Questions) != 2 || all[0].Questions[0].ID != q2.ID || all[0].Questions[1].ID != q1.ID {
		t.Fatalf("joined questions should skip the missing id and keep order, got %+v", all)
	}
	if len(all[0].QuestionIDs) != 3 {
		t.Fatalf("stored question ids must stay untouched, got %v", all[0].QuestionIDs)
	}

	upcoming, err := f.interviews.ListUpcomingInterviews(ctx)
	if err != nil || len(upcoming) != 1 {
		t.Fatalf("ListUpcomingInterviews: %d err=%v", len(upcoming), err)
	}

	updated, err := f.interviews.SetInterviewStatus(ctx, iv.ID, UpdateInterviewStatusRequest{
		Status: model.InterviewCompleted, Notes: strPtr("went well"),
	})
	if err != nil {
		t.Fatalf("SetInterviewStatus: %v", err)
	}
	if updated.Status != model.InterviewCompleted || updated.Notes == nil || *updated.Notes != "went well" {
		t.Fatalf("updated interview: %+v", updated)
	}

	upcoming, _ = f.interviews.ListUpcomingInterviews(ctx)
	if len(upcoming) != 0 {
		t.Fatalf("completed interview is not upcoming, got %d", len(upcoming))
	}

	if _, err := f.interviews.SetInterviewStatus(ctx, iv.ID, UpdateInterviewStatusRequest{Status: "DONE"}); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("bad status: want validation error, got %v", err)
	}

	if err := f.interviews.DeleteInterview(ctx, iv.ID); err != nil {
		t.Fatalf("DeleteInterview: %v", err)
	}
	all, _ = f.interviews.ListInterviews(ctx)
	if len(all) != 0 {
		t.Fatalf("deleted interview still listed: %+v", all)
	}
	if err := f.interviews.DeleteInterview(ctx, iv.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("second delete: want not found, got %v", err)
	}
	if _, err := f.interviews.SetInterviewStatus(ctx, iv.ID, UpdateInterviewStatusRequest{Status: model.InterviewCancelled}); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("status on deleted: want not found, got %v", err)
	}
}

func TestInterviewDateQueries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	march := time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)
	april := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	for _, d := range []time.Time{april, march} {
		if _, err := f.interviews.CreateInterview(ctx, CreateInterviewRequest{Title: "Mock", Date: d, Duration: 45}); err != nil {
			t.Fatalf("CreateInterview: %v", err)
		}
	}

	inRange, err := f.interviews.ListInterviewsByDateRange(ctx, march, april)
	if err != nil {
		t.Fatalf("ListInterviewsByDateRange: %v", err)
	}
	if len(inRange) != 2 || !inRange[0].Date.Equal(march) {
		t.Fatalf("inclusive range ordered by date: %+v", inRange)
	}

	reversed, err := f.interviews.ListInterviewsByDateRange(ctx, april, march)
	if err != nil || len(reversed) != 0 {
		t.Fatalf("start after end should be empty, got %d err=%v", len(reversed), err)
	}

	month, err := f.interviews.ListInterviewsForMonth(ctx, 2025, time.March, time.UTC)
	if err != nil || len(month) != 1 || !month[0].Date.Equal(march) {
		t.Fatalf("ListInterviewsForMonth: %+v err=%v", month, err)
	}
	if _, err := f.interviews.ListInterviewsForMonth(ctx, 2025, 13, time.UTC); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("month 13: want validation error, got %v", err)
	}
}

func TestCreateInterviewValidation(t *testing.T) {
	f := newFixture(t)
	date := f.clock.t
	cases := map[string]CreateInterviewRequest{
		"blank title":   {Title: " ", Date: date, Duration: 30},
		"missing date":  {Title: "Mock", Duration: 30},
		"zero duration": {Title: "Mock", Date: date},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := f.interviews.CreateInterview(context.Background(), req); !errors.Is(err, common.ErrValidation) {
				t.Fatalf("want validation error, got %v", err)
			}
		})
	}
}

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := security.HashPassword("54321")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	issuer := security.NewTokenIssuer([]byte("test-key"), time.Hour)
	return NewAuthService(map[string]string{"pedraza": hash}, session.NewMemoryStore(), issuer, time.Hour, logger.Nop())
}

func TestAuthLoginLogout(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService(t)

	if _, err := auth.Login(ctx, LoginRequest{Username: "pedraza", Password: "wrong"}); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("wrong password: want unauthorized, got %v", err)
	}
	if _, err := auth.Login(ctx, LoginRequest{Username: "ghost", Password: "54321"}); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("unknown user: want unauthorized, got %v", err)
	}

	resp, err := auth.Login(ctx, LoginRequest{Username: "  Pedraza ", Password: "54321"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.Username != "pedraza" || resp.Token == "" {
		t.Fatalf("unexpected auth response %+v", resp)
	}

	token, err := auth.tokens.Auth().Decode(resp.Token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	claims, err := token.AsMap(ctx)
	if err != nil {
		t.Fatalf("AsMap: %v", err)
	}
	sid, err := security.GetSessionIDFromClaims(claims)
	if err != nil {
		t.Fatalf("GetSessionIDFromClaims: %v", err)
	}

	sess, err := auth.Session(ctx, sid)
	if err != nil || sess.Username != "pedraza" {
		t.Fatalf("Session: %+v err=%v", sess, err)
	}

	if err := auth.Logout(ctx, sid); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := auth.Session(ctx, sid); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("session after logout: want unauthorized, got %v", err)
	}
}
