package commands_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"taskhub/internal/commands"
	"taskhub/internal/config"
	"taskhub/internal/exitcode"
	"taskhub/internal/service"
	"taskhub/internal/session"
	"taskhub/internal/testutil"
)

type testEnv struct {
	cfg  *config.Config
	sess *session.Store
	fake *testutil.FakeService
	out  strings.Builder
	err  strings.Builder
}

// newTestEnv builds a config, a logged-in session and a fake backend
// rooted in a temp directory.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg, err := config.New(t.TempDir(), "http://fake")
	if err != nil {
		t.Fatal(err)
	}
	sess, err := session.Load(cfg.SessionPath())
	if err != nil {
		t.Fatal(err)
	}
	if err := sess.Login(testutil.FakeUser); err != nil {
		t.Fatal(err)
	}
	return &testEnv{cfg: cfg, sess: sess, fake: testutil.NewFakeService()}
}

func (e *testEnv) run(t *testing.T, cmd commands.Command, args ...string) int {
	t.Helper()
	return cmd.Run(context.Background(), e.cfg, e.sess, e.fake, args, &e.out, &e.err)
}

func strptr(s string) *string { return &s }

func seedDashboard(f *testutil.FakeService) {
	f.AddTask(service.Task{Title: "Write report", Description: "quarterly numbers", Priority: service.PriorityHigh, DueDate: "2026-03-05"})
	f.AddTask(service.Task{Title: "Buy milk", Description: "groceries", Status: service.StatusCompleted})
	f.AddTask(service.Task{Title: "Walk dog", Description: "evening walk", Priority: service.PriorityLow})
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	if err := env.sess.Logout(); err != nil {
		t.Fatal(err)
	}

	code := env.run(t, &commands.LoginCmd{}, testutil.FakeUser.Email, testutil.FakePassword)
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr: %s", code, env.err.String())
	}
	if got, want := env.out.String(), "logged in as test@example.com\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if u, ok := env.sess.Current(); !ok || u.ID != testutil.FakeUser.ID {
		t.Errorf("session user = %+v, ok = %v", u, ok)
	}

	// The session survives a fresh load from disk.
	reloaded, err := session.Load(env.cfg.SessionPath())
	if err != nil {
		t.Fatal(err)
	}
	if u, ok := reloaded.Current(); !ok || u.Email != testutil.FakeUser.Email {
		t.Errorf("reloaded user = %+v, ok = %v", u, ok)
	}
}

func TestLogin_InvalidEmailBlockedLocally(t *testing.T) {
	env := newTestEnv(t)

	code := env.run(t, &commands.LoginCmd{}, "not-an-email", "secret1")
	if code != exitcode.UserError {
		t.Fatalf("exit = %d", code)
	}
	if got, want := env.err.String(), "error: email: Invalid email address\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
	if env.fake.LoginCalls != 0 {
		t.Errorf("LoginCalls = %d, validation should short-circuit", env.fake.LoginCalls)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)

	code := env.run(t, &commands.LoginCmd{}, testutil.FakeUser.Email, "wrongpw")
	if code != exitcode.AuthError {
		t.Fatalf("exit = %d", code)
	}
	if got, want := env.err.String(), "error: Invalid email or password\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
}

func TestLogin_WrongArgCount(t *testing.T) {
	env := newTestEnv(t)
	if code := env.run(t, &commands.LoginCmd{}, "only-email"); code != exitcode.UserError {
		t.Fatalf("exit = %d", code)
	}
	if !strings.HasPrefix(env.err.String(), "error: usage:") {
		t.Errorf("stderr = %q", env.err.String())
	}
}

func TestRegister_Success(t *testing.T) {
	env := newTestEnv(t)
	if err := env.sess.Logout(); err != nil {
		t.Fatal(err)
	}

	code := env.run(t, &commands.RegisterCmd{}, "New User", "new@example.com", "secret1")
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr: %s", code, env.err.String())
	}
	if got, want := env.out.String(), "registered new@example.com\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if u, ok := env.sess.Current(); !ok || u.Email != "new@example.com" {
		t.Errorf("session user = %+v, ok = %v", u, ok)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	env := newTestEnv(t)

	code := env.run(t, &commands.RegisterCmd{}, "New User", "new@example.com", "abc")
	if code != exitcode.UserError {
		t.Fatalf("exit = %d", code)
	}
	if got, want := env.err.String(), "error: password: Password must be at least 6 characters\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
}

func TestLogout_ClearsSessionEvenWhenBackendFails(t *testing.T) {
	env := newTestEnv(t)
	env.fake.LogoutErr = testutil.ErrBadCredentials

	code := env.run(t, &commands.LogoutCmd{})
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr: %s", code, env.err.String())
	}
	if _, ok := env.sess.Current(); ok {
		t.Error("session should be cleared")
	}
	if env.cfg.HasSession() {
		t.Error("session file should be removed")
	}
	if got, want := env.out.String(), "ok\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestLogout_NotLoggedIn(t *testing.T) {
	env := newTestEnv(t)
	if err := env.sess.Logout(); err != nil {
		t.Fatal(err)
	}

	code := env.run(t, &commands.LogoutCmd{})
	if code != exitcode.Success {
		t.Fatalf("exit = %d", code)
	}
	if got, want := env.out.String(), "not logged in\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestProfile_Show(t *testing.T) {
	env := newTestEnv(t)

	code := env.run(t, &commands.ProfileCmd{})
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr: %s", code, env.err.String())
	}
	want := "name:   Test User\nemail:  test@example.com\n"
	if env.out.String() != want {
		t.Errorf("stdout = %q, want %q", env.out.String(), want)
	}
}

func TestProfile_UpdateName(t *testing.T) {
	env := newTestEnv(t)

	cmd := &commands.ProfileCmd{}
	cmd.SetUpdates(strptr("Renamed"), nil, nil)
	code := env.run(t, cmd)
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr: %s", code, env.err.String())
	}
	want := "name:   Renamed\nemail:  test@example.com\n"
	if env.out.String() != want {
		t.Errorf("stdout = %q, want %q", env.out.String(), want)
	}
	patch := env.fake.LastProfilePatch
	if patch.Name == nil || *patch.Name != "Renamed" {
		t.Errorf("patch.Name = %v", patch.Name)
	}
	if patch.Email != nil || patch.Password != nil {
		t.Errorf("unset fields should stay nil: %+v", patch)
	}
}

func TestProfile_EmptyPasswordKeepsCurrent(t *testing.T) {
	env := newTestEnv(t)

	cmd := &commands.ProfileCmd{}
	cmd.SetUpdates(strptr("Renamed"), nil, strptr(""))
	code := env.run(t, cmd)
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr: %s", code, env.err.String())
	}
	if env.fake.LastProfilePatch.Password != nil {
		t.Error("empty password must be dropped from the patch")
	}
}

func TestProfile_InvalidEmailBlocked(t *testing.T) {
	env := newTestEnv(t)

	cmd := &commands.ProfileCmd{}
	cmd.SetUpdates(nil, strptr("bogus"), nil)
	code := env.run(t, cmd)
	if code != exitcode.UserError {
		t.Fatalf("exit = %d", code)
	}
	if got, want := env.err.String(), "error: email: Invalid email address\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
}

func TestList_Dashboard(t *testing.T) {
	env := newTestEnv(t)
	seedDashboard(env.fake)

	code := env.run(t, &commands.ListCmd{})
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr: %s", code, env.err.String())
	}
	testutil.GoldenString(t, "dashboard", env.out.String())
}

func TestList_Empty(t *testing.T) {
	env := newTestEnv(t)

	code := env.run(t, &commands.ListCmd{})
	if code != exitcode.Success {
		t.Fatalf("exit = %d", code)
	}
	want := "total 0  completed 0  pending 0  high-priority 0\nno tasks found\n"
	if env.out.String() != want {
		t.Errorf("stdout = %q, want %q", env.out.String(), want)
	}
}

func TestList_Quiet(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Quiet = true
	seedDashboard(env.fake)

	code := env.run(t, &commands.ListCmd{})
	if code != exitcode.Success {
		t.Fatalf("exit = %d", code)
	}
	if strings.Contains(env.out.String(), "total ") {
		t.Errorf("quiet output should omit the summary: %q", env.out.String())
	}
	if got := strings.Count(env.out.String(), "\n"); got != 3 {
		t.Errorf("want 3 task lines, got %d: %q", got, env.out.String())
	}
}

func TestList_Filtered(t *testing.T) {
	env := newTestEnv(t)
	seedDashboard(env.fake)

	cmd := &commands.ListCmd{}
	cmd.SetFilter("", "completed")
	code := env.run(t, cmd)
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr: %s", code, env.err.String())
	}
	want := "total 1  completed 1  pending 0  high-priority 0\n" +
		"   1  [x]  medium  Buy milk\n"
	if env.out.String() != want {
		t.Errorf("stdout = %q, want %q", env.out.String(), want)
	}
}

func TestList_InvalidStatus(t *testing.T) {
	env := newTestEnv(t)

	cmd := &commands.ListCmd{}
	cmd.SetFilter("", "done")
	code := env.run(t, cmd)
	if code != exitcode.UserError {
		t.Fatalf("exit = %d", code)
	}
	if got, want := env.err.String(), "error: invalid status: \"done\" (want pending or completed)\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
	if env.fake.ListCalls != 0 {
		t.Errorf("ListCalls = %d, bad status should not hit the backend", env.fake.ListCalls)
	}
}

func TestAdd_Success(t *testing.T) {
	env := newTestEnv(t)

	cmd := &commands.AddCmd{}
	cmd.SetFields("quarterly numbers", "", "high", "2026-03-05")
	code := env.run(t, cmd, "Write", "report")
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr: %s", code, env.err.String())
	}
	if got, want := env.out.String(), "created t-1\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}

	tasks := env.fake.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d", len(tasks))
	}
	got := tasks[0]
	if got.Title != "Write report" || got.Description != "quarterly numbers" {
		t.Errorf("task = %+v", got)
	}
	if got.Status != service.StatusPending || got.Priority != service.PriorityHigh {
		t.Errorf("task = %+v", got)
	}
	if got.DueDate != "2026-03-05" {
		t.Errorf("DueDate = %q", got.DueDate)
	}
}

func TestAdd_DefaultPriority(t *testing.T) {
	env := newTestEnv(t)

	cmd := &commands.AddCmd{}
	cmd.SetFields("some description", "", "", "")
	code := env.run(t, cmd, "Chore")
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr: %s", code, env.err.String())
	}
	if got := env.fake.Tasks()[0].Priority; got != service.PriorityMedium {
		t.Errorf("Priority = %q, want medium default", got)
	}
}

func TestAdd_EmptyTitleBlocked(t *testing.T) {
	env := newTestEnv(t)

	cmd := &commands.AddCmd{}
	cmd.SetFields("some description", "", "", "")
	code := env.run(t, cmd)
	if code != exitcode.UserError {
		t.Fatalf("exit = %d", code)
	}
	if got, want := env.err.String(), "error: title: Title is required\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
	if env.fake.CreateCalls != 0 {
		t.Errorf("CreateCalls = %d, validation should short-circuit", env.fake.CreateCalls)
	}
}

func TestAdd_MissingDescriptionBlocked(t *testing.T) {
	env := newTestEnv(t)

	code := env.run(t, &commands.AddCmd{}, "Title", "only")
	if code != exitcode.UserError {
		t.Fatalf("exit = %d", code)
	}
	if got, want := env.err.String(), "error: description: Description is required\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
	if env.fake.CreateCalls != 0 {
		t.Errorf("CreateCalls = %d", env.fake.CreateCalls)
	}
}

func TestAdd_UsageDocumentsFlags(t *testing.T) {
	usage := (&commands.AddCmd{}).Usage()
	for _, f := range []string{"--desc", "--status", "--priority", "--due"} {
		if !strings.Contains(usage, f) {
			t.Errorf("usage %q does not mention %s", usage, f)
		}
	}
}

func TestDone_ByNumber(t *testing.T) {
	env := newTestEnv(t)
	seedDashboard(env.fake)

	code := env.run(t, &commands.DoneCmd{}, "1")
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr: %s", code, env.err.String())
	}
	if got := env.fake.Tasks()[0].Status; got != service.StatusCompleted {
		t.Errorf("Status = %q", got)
	}
	// Only the status moves; the rest of the task is untouched.
	if got := env.fake.Tasks()[0]; got.Title != "Write report" || got.DueDate != "2026-03-05" {
		t.Errorf("task = %+v", got)
	}
}

func TestDone_ByID(t *testing.T) {
	env := newTestEnv(t)
	seedDashboard(env.fake)

	code := env.run(t, &commands.DoneCmd{}, "t-3")
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr: %s", code, env.err.String())
	}
	if got := env.fake.Tasks()[2].Status; got != service.StatusCompleted {
		t.Errorf("Status = %q", got)
	}
}

func TestDone_OutOfRange(t *testing.T) {
	env := newTestEnv(t)
	seedDashboard(env.fake)

	code := env.run(t, &commands.DoneCmd{}, "9")
	if code != exitcode.UserError {
		t.Fatalf("exit = %d", code)
	}
	if got, want := env.err.String(), "error: task number out of range: 9\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
}

func TestDone_NoRef(t *testing.T) {
	env := newTestEnv(t)

	code := env.run(t, &commands.DoneCmd{})
	if code != exitcode.UserError {
		t.Fatalf("exit = %d", code)
	}
	if got, want := env.err.String(), "error: task reference required\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
}

func TestEdit_ChangesOneField(t *testing.T) {
	env := newTestEnv(t)
	seedDashboard(env.fake)

	cmd := &commands.EditCmd{}
	cmd.SetPatch(strptr("Write summary"), nil, nil, nil, nil)
	code := env.run(t, cmd, "1")
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr: %s", code, env.err.String())
	}
	got := env.fake.Tasks()[0]
	if got.Title != "Write summary" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Priority != service.PriorityHigh || got.DueDate != "2026-03-05" {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

func TestEdit_NoFlagsIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	seedDashboard(env.fake)
	before := env.fake.Tasks()[0]

	code := env.run(t, &commands.EditCmd{}, "1")
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr: %s", code, env.err.String())
	}
	if env.fake.UpdateCalls != 1 {
		t.Errorf("UpdateCalls = %d, the full form is always submitted", env.fake.UpdateCalls)
	}
	if got := env.fake.Tasks()[0]; got != before {
		t.Errorf("task changed by a no-op edit:\nbefore %+v\nafter  %+v", before, got)
	}
}

func TestEdit_SeededTaskPassesValidation(t *testing.T) {
	// Backend tasks always carry a description, so re-submitting one as an
	// edit form must validate.
	env := newTestEnv(t)
	env.fake.AddTask(service.Task{Title: "Bare task"})

	code := env.run(t, &commands.EditCmd{}, "1")
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr: %s", code, env.err.String())
	}
	if env.fake.UpdateCalls != 1 {
		t.Errorf("UpdateCalls = %d", env.fake.UpdateCalls)
	}
}

func TestEdit_EmptyTitleBlocked(t *testing.T) {
	env := newTestEnv(t)
	seedDashboard(env.fake)

	cmd := &commands.EditCmd{}
	cmd.SetPatch(strptr(""), nil, nil, nil, nil)
	code := env.run(t, cmd, "1")
	if code != exitcode.UserError {
		t.Fatalf("exit = %d", code)
	}
	if got, want := env.err.String(), "error: title: Title is required\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
	if env.fake.UpdateCalls != 0 {
		t.Errorf("UpdateCalls = %d", env.fake.UpdateCalls)
	}
}

func TestEdit_InvalidStatus(t *testing.T) {
	env := newTestEnv(t)
	seedDashboard(env.fake)

	cmd := &commands.EditCmd{}
	cmd.SetPatch(nil, nil, strptr(""), nil, nil)
	code := env.run(t, cmd, "1")
	if code != exitcode.UserError {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(env.err.String(), "invalid status") {
		t.Errorf("stderr = %q", env.err.String())
	}
}

func TestRm_ByNumber(t *testing.T) {
	env := newTestEnv(t)
	seedDashboard(env.fake)

	code := env.run(t, &commands.RmCmd{}, "2")
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr: %s", code, env.err.String())
	}
	tasks := env.fake.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d", len(tasks))
	}
	for _, task := range tasks {
		if task.Title == "Buy milk" {
			t.Error("deleted task still listed")
		}
	}
	if env.fake.DeleteCalls != 1 {
		t.Errorf("DeleteCalls = %d", env.fake.DeleteCalls)
	}
}

func TestRm_UnknownID(t *testing.T) {
	env := newTestEnv(t)
	seedDashboard(env.fake)

	code := env.run(t, &commands.RmCmd{}, "t-99")
	if code != exitcode.UserError {
		t.Fatalf("exit = %d", code)
	}
	if got, want := env.err.String(), "error: task not found: t-99\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
	if env.fake.DeleteCalls != 0 {
		t.Errorf("DeleteCalls = %d", env.fake.DeleteCalls)
	}
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	code := env.run(t, &commands.VersionCmd{})
	if code != exitcode.Success {
		t.Fatalf("exit = %d", code)
	}
	if got, want := env.out.String(), "taskhub "+commands.Version+"\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestSessionFileLocation(t *testing.T) {
	env := newTestEnv(t)
	if got, want := env.cfg.SessionPath(), filepath.Join(env.cfg.Dir, config.SessionFile); got != want {
		t.Errorf("SessionPath = %q, want %q", got, want)
	}
}
