package commands_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/querycache"
	"taskdeck/internal/service"
	"taskdeck/internal/taskquery"
	"taskdeck/internal/testutil"
)

var testNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

// fixClock pins commands.Now for the duration of the test.
func fixClock(t *testing.T) {
	t.Helper()
	prev := commands.Now
	commands.Now = func() time.Time { return testNow }
	t.Cleanup(func() { commands.Now = prev })
}

// newFake returns a FakeService stamped with the test clock.
func newFake() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.Now = func() time.Time { return testNow }
	return svc
}

// seed adds the two tasks most tests work on.
func seed(svc *testutil.FakeService) {
	created := service.Timestamp{Time: testNow.Add(-time.Hour)}
	svc.AddTask(service.Task{ID: "1", Title: "Buy milk", Description: "2 liters", Status: service.StatusPending, CreatedAt: created})
	svc.AddTask(service.Task{ID: "2", Title: "Write report", Status: service.StatusInProgress, CreatedAt: created})
}

// runCommand is a helper to run a command with a service and no stdin.
func runCommand(t *testing.T, cmd commands.Command, svc service.Service, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	return runCommandWithInput(t, cmd, svc, args, quiet, "")
}

func runCommandWithInput(t *testing.T, cmd commands.Command, svc service.Service, args []string, quiet bool, input string) (stdout, stderr string, code int) {
	t.Helper()
	fixClock(t)

	var outBuf, errBuf bytes.Buffer

	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	cfg.Quiet = quiet
	cfg.CacheDir = ""
	cfg.In = strings.NewReader(input)

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, svc, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// runWithFlags parses argv with the command's flags first, the way the
// dispatcher does.
func runWithFlags(t *testing.T, cmd commands.Command, svc service.Service, argv []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(argv); err != nil {
		t.Fatalf("parse flags %v: %v", argv, err)
	}
	return runCommand(t, cmd, svc, fs.Args(), quiet)
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskdeck 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("help output should contain 'Usage:'")
	}
}

// Tests for every registered command having a usable description
func TestRegistry_AllCommandsDescribed(t *testing.T) {
	for _, cmd := range commands.DefaultRegistry.All() {
		if cmd.Synopsis() == "" {
			t.Errorf("command %s has no synopsis", cmd.Name())
		}
		if !strings.HasPrefix(cmd.Usage(), "taskdeck "+cmd.Name()) {
			t.Errorf("command %s usage %q does not start with its name", cmd.Name(), cmd.Usage())
		}
	}
	for _, alias := range []string{"create", "delete", "ls"} {
		if _, ok := commands.DefaultRegistry.Find(alias); !ok {
			t.Errorf("alias %s not registered", alias)
		}
	}
}

// Tests for list command
func TestListCommand_WithTasks(t *testing.T) {
	svc := newFake()
	seed(svc)

	stdout, stderr, code := runWithFlags(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	expected := "Total: 2  Pending: 1  In Progress: 1  Completed: 0\n" +
		"\n" +
		"   1  PENDING      Buy milk\n" +
		"      2 liters\n" +
		"      Created: Today at 1:30 PM\n" +
		"\n" +
		"   2  IN PROGRESS  Write report\n" +
		"      No description\n" +
		"      Created: Today at 1:30 PM\n"
	if stdout != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, stdout)
	}
}

func TestListCommand_Quiet(t *testing.T) {
	svc := newFake()
	seed(svc)

	stdout, _, code := runWithFlags(t, &commands.ListCmd{}, svc, []string{"--status", "pending"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "   1  PENDING      Buy milk\n      2 liters\n      Created: Today at 1:30 PM\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_NoTasks(t *testing.T) {
	svc := newFake()

	stdout, stderr, code := runWithFlags(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.HasPrefix(stdout, "No tasks found\nYou don't have any tasks yet. Create your first task!\n") {
		t.Errorf("unexpected empty state: %q", stdout)
	}
}

func TestListCommand_NoMatches(t *testing.T) {
	svc := newFake()
	seed(svc)

	stdout, _, code := runWithFlags(t, &commands.ListCmd{}, svc, []string{"--status", "completed"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "No tasks found\nNo tasks match your current filters.\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_SearchFilter(t *testing.T) {
	svc := newFake()
	seed(svc)

	cmd := &commands.ListCmd{}
	cmd.SetFilters("", "LITERS")
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "Total: 1  Pending: 1  In Progress: 0  Completed: 0") {
		t.Errorf("expected stats of the filtered set, got %q", stdout)
	}
	if strings.Contains(stdout, "Write report") {
		t.Errorf("search should have filtered out task 2: %q", stdout)
	}
}

func TestListCommand_StatusAll(t *testing.T) {
	svc := newFake()
	seed(svc)

	cmd := &commands.ListCmd{}
	cmd.SetFilters("all", "")
	stdout, _, _ := runCommand(t, cmd, svc, nil, true)

	if !strings.Contains(stdout, "Buy milk") || !strings.Contains(stdout, "Write report") {
		t.Errorf("status all should list every task, got %q", stdout)
	}
}

func TestListCommand_InvalidStatus(t *testing.T) {
	svc := newFake()

	stdout, stderr, code := runWithFlags(t, &commands.ListCmd{}, svc, []string{"--status", "bogus"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: invalid status: bogus\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.CallCount("ListTasks") != 0 {
		t.Error("backend should not be called for an invalid filter")
	}
}

func TestListCommand_BackendError(t *testing.T) {
	svc := newFake()
	svc.ListTasksErr = errors.New("connection refused")

	_, stderr, code := runWithFlags(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: connection refused\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_Unauthorized(t *testing.T) {
	svc := newFake()
	svc.ListTasksErr = service.ErrUnauthorized

	_, stderr, code := runWithFlags(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: unauthorized\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for show command
func TestShowCommand(t *testing.T) {
	svc := newFake()
	seed(svc)

	stdout, stderr, code := runCommand(t, &commands.ShowCmd{}, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Buy milk\n", "Status:       PENDING\n", "Created:      Today at 1:30 PM (1 hour ago)\n", "2 liters\n"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, stdout)
		}
	}
}

func TestShowCommand_NotFound(t *testing.T) {
	svc := newFake()

	_, stderr, code := runCommand(t, &commands.ShowCmd{}, svc, []string{"99"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task not found: 99\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestShowCommand_MissingID(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ShowCmd{}, newFake(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task id required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for add command
func TestAddCommand_PositionalTitle(t *testing.T) {
	svc := newFake()

	stdout, stderr, code := runWithFlags(t, &commands.AddCmd{}, svc, []string{"Buy", "milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "created task 1\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	task, ok := svc.Task("1")
	if !ok {
		t.Fatal("task was not created")
	}
	if task.Title != "Buy milk" {
		t.Errorf("expected title %q, got %q", "Buy milk", task.Title)
	}
	if task.Status != service.StatusPending {
		t.Errorf("expected default status PENDING, got %s", task.Status)
	}
}

func TestAddCommand_AllFlags(t *testing.T) {
	svc := newFake()

	argv := []string{
		"--title", "Ship release",
		"--description", "Tag and publish",
		"--status", "in progress",
		"--priority", "high",
		"--due", "2099-01-31",
	}
	stdout, stderr, code := runWithFlags(t, &commands.AddCmd{}, svc, argv, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "1\n" {
		t.Errorf("quiet add should print only the id, got %q", stdout)
	}

	task, _ := svc.Task("1")
	if task.Status != service.StatusInProgress {
		t.Errorf("expected IN_PROGRESS, got %s", task.Status)
	}
	if task.Priority != service.PriorityHigh {
		t.Errorf("expected HIGH, got %s", task.Priority)
	}
	if task.DueDate == nil || task.DueDate.Year() != 2099 {
		t.Errorf("expected due date in 2099, got %v", task.DueDate)
	}
	if task.Description != "Tag and publish" {
		t.Errorf("unexpected description %q", task.Description)
	}
}

func TestAddCommand_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		expected string
	}{
		{
			name:     "missing title",
			argv:     nil,
			expected: "error: title: Title is required\n",
		},
		{
			name:     "title too long",
			argv:     []string{"--title", strings.Repeat("x", 201)},
			expected: "error: title: Title must be less than 200 characters\n",
		},
		{
			name:     "description too long",
			argv:     []string{"--title", "ok", "--description", strings.Repeat("d", 1001)},
			expected: "error: description: Description must be less than 1000 characters\n",
		},
		{
			name:     "past due date",
			argv:     []string{"--title", "ok", "--due", "2024-03-10"},
			expected: "error: dueDate: Due date cannot be in the past\n",
		},
		{
			name:     "unparseable due date",
			argv:     []string{"--title", "ok", "--due", "next week"},
			expected: "error: dueDate: Invalid date\n",
		},
		{
			name: "several fields in form order",
			argv: []string{"--title", " ", "--status", "bogus", "--priority", "urgent"},
			expected: "error: title: Title is required\n" +
				"error: status: Invalid status\n" +
				"error: priority: Invalid priority\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFake()

			stdout, stderr, code := runWithFlags(t, &commands.AddCmd{}, svc, tt.argv, false)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
			if stderr != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, stderr)
			}
			if svc.CallCount("CreateTask") != 0 {
				t.Error("invalid input must not reach the backend")
			}
		})
	}
}

func TestAddCommand_TitleFlagAndPositional(t *testing.T) {
	_, stderr, code := runWithFlags(t, &commands.AddCmd{}, newFake(), []string{"--title", "a", "b"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: cannot use both --title and a positional title\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestAddCommand_ServerRejects(t *testing.T) {
	svc := newFake()
	svc.CreateTaskErr = fmt.Errorf("%w: title already exists", service.ErrBadRequest)

	_, stderr, code := runWithFlags(t, &commands.AddCmd{}, svc, []string{"dup"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: bad request: title already exists\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for edit command
func TestEditCommand_OverlaysGivenFields(t *testing.T) {
	svc := newFake()
	seed(svc)

	stdout, stderr, code := runWithFlags(t, &commands.EditCmd{}, svc, []string{"--status", "completed", "1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	task, _ := svc.Task("1")
	if task.Status != service.StatusCompleted {
		t.Errorf("expected COMPLETED, got %s", task.Status)
	}
	if task.Title != "Buy milk" || task.Description != "2 liters" {
		t.Errorf("fields not given on the command line changed: %+v", task)
	}
}

func TestEditCommand_OverdueTask(t *testing.T) {
	fixClock(t)
	svc := newFake()
	due := service.Timestamp{Time: testNow.AddDate(0, 0, -3)}
	svc.AddTask(service.Task{ID: "7", Title: "File taxes", Status: service.StatusPending, DueDate: &due})

	stdout, stderr, code := runWithFlags(t, &commands.EditCmd{}, svc, []string{"--title", "Renamed", "7"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	task, _ := svc.Task("7")
	if task.Title != "Renamed" {
		t.Errorf("expected title Renamed, got %q", task.Title)
	}
	if task.DueDate == nil || !task.DueDate.Equal(due.Time) {
		t.Errorf("expected due date kept, got %v", task.DueDate)
	}
}

func TestEditCommand_PastDueGiven(t *testing.T) {
	fixClock(t)
	svc := newFake()
	seed(svc)

	_, stderr, code := runWithFlags(t, &commands.EditCmd{}, svc, []string{"--due", "2024-03-01", "1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: dueDate: Due date cannot be in the past\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.CallCount("UpdateTask") != 0 {
		t.Error("UpdateTask should not be called")
	}
}

func TestEditCommand_ClearDescription(t *testing.T) {
	svc := newFake()
	seed(svc)

	_, _, code := runWithFlags(t, &commands.EditCmd{}, svc, []string{"--description", "", "1"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	task, _ := svc.Task("1")
	if task.Description != "" {
		t.Errorf("expected description cleared, got %q", task.Description)
	}
}

func TestEditCommand_Invalid(t *testing.T) {
	svc := newFake()
	seed(svc)

	_, stderr, code := runWithFlags(t, &commands.EditCmd{}, svc, []string{"--title", "", "1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: title: Title is required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.CallCount("UpdateTask") != 0 {
		t.Error("invalid edit must not reach the backend")
	}
}

func TestEditCommand_NotFound(t *testing.T) {
	_, stderr, code := runWithFlags(t, &commands.EditCmd{}, newFake(), []string{"--title", "x", "42"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task not found: 42\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for done command
func TestDoneCommand(t *testing.T) {
	svc := newFake()
	seed(svc)

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	task, _ := svc.Task("2")
	if task.Status != service.StatusCompleted {
		t.Errorf("expected COMPLETED, got %s", task.Status)
	}
	if task.Title != "Write report" {
		t.Errorf("title changed: %q", task.Title)
	}
}

func TestDoneCommand_NotFound(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.DoneCmd{}, newFake(), []string{"7"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task not found: 7\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for rm command
func TestRmCommand_Yes(t *testing.T) {
	svc := newFake()
	seed(svc)

	cmd := &commands.RmCmd{}
	cmd.SetYes(true)
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if _, ok := svc.Task("1"); ok {
		t.Error("task 1 should be deleted")
	}
}

func TestRmCommand_ConfirmYes(t *testing.T) {
	svc := newFake()
	seed(svc)

	stdout, stderr, code := runCommandWithInput(t, &commands.RmCmd{}, svc, []string{"1"}, false, "y\n")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "Are you sure you want to delete this task? [y/N] " {
		t.Errorf("unexpected prompt %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if _, ok := svc.Task("1"); ok {
		t.Error("task 1 should be deleted")
	}
}

func TestRmCommand_ConfirmDeclined(t *testing.T) {
	for _, input := range []string{"n\n", "\n", ""} {
		svc := newFake()
		seed(svc)

		stdout, _, code := runCommandWithInput(t, &commands.RmCmd{}, svc, []string{"1"}, false, input)

		if code != exitcode.Success {
			t.Errorf("input %q: expected exit code %d, got %d", input, exitcode.Success, code)
		}
		if stdout != "cancelled\n" {
			t.Errorf("input %q: unexpected stdout %q", input, stdout)
		}
		if svc.CallCount("DeleteTask") != 0 {
			t.Errorf("input %q: delete should not be called", input)
		}
	}
}

func TestRmCommand_NotFound(t *testing.T) {
	cmd := &commands.RmCmd{}
	cmd.SetYes(true)
	_, stderr, code := runCommand(t, cmd, newFake(), []string{"5"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task not found: 5\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for status command
func TestStatusCommand(t *testing.T) {
	svc := newFake()
	seed(svc)

	stdout, stderr, code := runCommand(t, &commands.StatusCmd{}, svc, []string{"in", "progress"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "   2  IN PROGRESS  Write report\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestStatusCommand_Errors(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{nil, "error: status required\n"},
		{[]string{"later"}, "error: invalid status: later\n"},
	}
	for _, tt := range tests {
		_, stderr, code := runCommand(t, &commands.StatusCmd{}, newFake(), tt.args, false)
		if code != exitcode.UserError {
			t.Errorf("%v: expected exit code %d, got %d", tt.args, exitcode.UserError, code)
		}
		if stderr != tt.expected {
			t.Errorf("%v: expected %q, got %q", tt.args, tt.expected, stderr)
		}
	}
}

// Tests for search command
func TestSearchCommand(t *testing.T) {
	svc := newFake()
	seed(svc)

	stdout, _, code := runCommand(t, &commands.SearchCmd{}, svc, []string{"milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "   1  PENDING      Buy milk\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestSearchCommand_NoResults(t *testing.T) {
	svc := newFake()
	seed(svc)

	stdout, _, _ := runCommand(t, &commands.SearchCmd{}, svc, []string{"zebra"}, false)
	if stdout != "No tasks found\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestSearchCommand_KeywordTooShort(t *testing.T) {
	svc := newFake()

	_, stderr, code := runCommand(t, &commands.SearchCmd{}, svc, []string{"ab"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: keyword must be at least 3 characters\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.CallCount("SearchTasks") != 0 {
		t.Error("short keywords must not reach the backend")
	}
}

// Tests for board command
func TestBoardCommand(t *testing.T) {
	svc := newFake()
	seed(svc)

	stdout, stderr, code := runCommand(t, &commands.BoardCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	expected := "------------\nPENDING (1)\n------------\n       1  Buy milk\n" +
		"\n------------\nIN PROGRESS (1)\n------------\n       2  Write report\n" +
		"\n------------\nCOMPLETED (0)\n------------\n    (none)\n" +
		"\n------------\nCANCELLED (0)\n------------\n    (none)\n"
	if stdout != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, stdout)
	}
	if n := svc.CallCount("TasksByStatus"); n != 4 {
		t.Errorf("expected 4 by-status queries, got %d", n)
	}
}

func TestBoardCommand_Error(t *testing.T) {
	svc := newFake()
	svc.TasksByStatusErr = service.ErrTimeout

	stdout, stderr, code := runCommand(t, &commands.BoardCmd{}, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no partial board, got %q", stdout)
	}
	if stderr != "error: backend error: request timed out\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for cache command
func TestCacheCommand(t *testing.T) {
	fake := newFake()
	seed(fake)
	svc := taskquery.New(fake, querycache.NewClient(querycache.NewMemoryStore()), taskquery.Options{ListStaleTime: time.Minute})

	if _, err := svc.ListTasks(context.Background()); err != nil {
		t.Fatalf("ListTasks: %v", err)
	}

	stdout, stderr, code := runCommand(t, &commands.CacheCmd{}, svc, nil, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if !strings.HasPrefix(stdout, "fresh") || !strings.Contains(stdout, `"list"`) {
		t.Errorf("expected a fresh list entry, got %q", stdout)
	}

	stdout, _, code = runCommand(t, &commands.CacheCmd{}, svc, []string{"clear"}, false)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "removed 1 entries\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	stdout, _, _ = runCommand(t, &commands.CacheCmd{}, svc, nil, false)
	if stdout != "cache is empty\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestCacheCommand_NoCache(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.CacheCmd{}, newFake(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: query cache is not available\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for config command
func TestConfigCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ConfigCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{
		"base_url: http://localhost:8080/api\n",
		"timeout: 5s\n",
		"stale_time: 5m0s\n",
		"retry: 1\n",
		"logged_in: false\n",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in:\n%s", want, stdout)
		}
	}
}
