package cmd

import (
	"strings"
	"testing"
)

func TestStepsListsCatalog(t *testing.T) {
	setupMocks(t)

	output, err := executeCommand(rootCmd, "steps")

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	for _, want := range []string{
		"STEP",
		"VERIFIED",
		"partition target disk",
		"install base system",
		"install bootloader",
		"deploy SSH key for user",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected catalog to contain %q, got: %s", want, output)
		}
	}
}

func TestStepsOrdinalsMatchCatalogOrder(t *testing.T) {
	setupMocks(t)

	output, err := executeCommand(rootCmd, "steps")

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	first := strings.Index(output, "partition target disk")
	base := strings.Index(output, "install base system")
	last := strings.Index(output, "deploy SSH key for user")
	if first == -1 || base == -1 || last == -1 {
		t.Fatalf("catalog entries missing from output: %s", output)
	}
	if !(first < base && base < last) {
		t.Error("catalog must be printed in execution order")
	}
}
