package cmd

import (
	"errors"
	"strings"
	"testing"

	"archup/internal/prompt"
	"archup/internal/snapshot"
)

func TestBackupCreatePassesComment(t *testing.T) {
	setupMocks(t)

	var comment string
	snapshot.Create = func(c string) error {
		comment = c
		return nil
	}

	_, err := executeCommand(rootCmd, "backup", "create", "--comment", "pre-upgrade")

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if comment != "pre-upgrade" {
		t.Errorf("expected comment 'pre-upgrade', got %q", comment)
	}
}

func TestBackupListRendersTable(t *testing.T) {
	setupMocks(t)

	snapshot.List = func() ([]snapshot.Snap, error) {
		return []snapshot.Snap{
			{Name: "2026-08-20_10-00-01", Tags: "O", Comment: "before desktop install"},
			{Name: "2026-08-27_09-30-00", Tags: "O", Comment: "pre-upgrade"},
		}, nil
	}

	output, err := executeCommand(rootCmd, "backup", "list")

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	for _, want := range []string{"NAME", "COMMENT", "2026-08-20_10-00-01", "pre-upgrade"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got: %s", want, output)
		}
	}
}

func TestBackupListEmpty(t *testing.T) {
	setupMocks(t)

	output, err := executeCommand(rootCmd, "backup", "list")

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !strings.Contains(output, "No snapshots found") {
		t.Errorf("expected the empty notice, got: %s", output)
	}
}

func TestBackupRestoreConfirms(t *testing.T) {
	setupMocks(t)

	var confirmed string
	prompt.ConfirmAction = func(message string) error {
		confirmed = message
		return nil
	}
	var restored string
	snapshot.Restore = func(name string) error {
		restored = name
		return nil
	}

	output, err := executeCommand(rootCmd, "backup", "restore", "2026-08-20_10-00-01")

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !strings.Contains(confirmed, "2026-08-20_10-00-01") {
		t.Errorf("expected the confirmation to name the snapshot, got %q", confirmed)
	}
	if restored != "2026-08-20_10-00-01" {
		t.Errorf("expected snapshot restore, got %q", restored)
	}
	if !strings.Contains(output, "Reboot to complete the rollback") {
		t.Errorf("expected the reboot hint, got: %s", output)
	}
}

func TestBackupRestoreDeclined(t *testing.T) {
	setupMocks(t)

	prompt.ConfirmAction = func(message string) error {
		return errors.New("aborted by user")
	}
	restored := false
	snapshot.Restore = func(name string) error {
		restored = true
		return nil
	}

	_, err := executeCommand(rootCmd, "backup", "restore", "2026-08-20_10-00-01")

	if err == nil || !strings.Contains(err.Error(), "aborted by user") {
		t.Fatalf("expected the decline to abort, got: %v", err)
	}
	if restored {
		t.Error("a declined confirmation must not restore anything")
	}
}

func TestBackupRestoreSkipsConfirmationWithYes(t *testing.T) {
	setupMocks(t)

	prompted := false
	prompt.ConfirmAction = func(message string) error {
		prompted = true
		return nil
	}

	_, err := executeCommand(rootCmd, "backup", "restore", "--yes", "2026-08-20_10-00-01")

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if prompted {
		t.Error("--yes must skip the confirmation prompt")
	}
}
