package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/storagecalc/internal/report"
)

// executeCommand runs a fresh root command and captures its output
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := root.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func TestRunFromStdin(t *testing.T) {
	out, errOut, err := executeCommand(t, "jpg 1000 1000\nbmp 100 100\ng 1 2\nq\n", "run")
	if err != nil {
		t.Fatalf("Command execution failed: %v, output: %s", err, errOut)
	}
	for _, want := range []string{
		"[JPEG/Baseline] size: 262500  index: 1",
		"[BMP] size: 10000  index: 2",
		"previous size of images: 272500",
		"total compressed size: 169314",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "Total size: 169314 bytes\n") {
		t.Errorf("Unexpected final line in output:\n%s", out)
	}
}

func TestRunScriptWithExports(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "images.txt")
	if err := os.WriteFile(script, []byte("jp2 1000 1000\nbmp 300 300\n"), 0644); err != nil {
		t.Fatal(err)
	}
	summaryPath := filepath.Join(dir, "out", "summary.yaml")
	ledgerPath := filepath.Join(dir, "ledger.parquet")

	out, errOut, err := executeCommand(t, "", "run", script, "--report", summaryPath, "--ledger", ledgerPath)
	if err != nil {
		t.Fatalf("Command execution failed: %v, output: %s", err, errOut)
	}
	if !strings.Contains(out, "[JP2/2000] size: 152335  index: 1") {
		t.Errorf("Missing JP2 line in output:\n%s", out)
	}

	sum, err := report.Load(summaryPath)
	if err != nil {
		t.Fatalf("Load(summary) failed: %v", err)
	}
	ledger, err := report.Load(ledgerPath)
	if err != nil {
		t.Fatalf("Load(ledger) failed: %v", err)
	}
	if len(sum.Images) != 2 || sum.Total != ledger.Total {
		t.Errorf("Expected 2 images and matching totals, got %d images, summary total %d, ledger total %d", len(sum.Images), sum.Total, ledger.Total)
	}
	if !strings.Contains(errOut, "Ledger written") {
		t.Errorf("Expected log output to mention the ledger, got: %s", errOut)
	}
}

func TestRunMissingScript(t *testing.T) {
	_, _, err := executeCommand(t, "", "run", filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("expected error for a missing script")
	}
}

func TestEstimate(t *testing.T) {
	t.Run("baseline with pyramid", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "estimate", "jpg", "1000", "1000")
		if err != nil {
			t.Fatalf("Command execution failed: %v", err)
		}
		for _, want := range []string{"[JPEG/Baseline] 1000x1000", "base:    200000", "level:   500x500 50000", "total:   262500"} {
			if !strings.Contains(out, want) {
				t.Errorf("Expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("human readable", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "estimate", "bmp", "1000", "1000", "--human")
		if err != nil {
			t.Fatalf("Command execution failed: %v", err)
		}
		if !strings.Contains(out, "total:   1,312,500 (") {
			t.Errorf("Expected grouped total in output:\n%s", out)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, _, err := executeCommand(t, "", "estimate", "png", "1", "1"); err == nil {
			t.Error("Expected error for unknown format")
		}
	})

	t.Run("negative width", func(t *testing.T) {
		if _, _, err := executeCommand(t, "", "estimate", "bmp", "--", "-1", "1"); err == nil {
			t.Error("Expected error for negative width")
		}
	})
}

func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("pyramid:\n  min_size: 1000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := executeCommand(t, "", "--config", path, "estimate", "jpg", "1000", "1000")
	if err != nil {
		t.Fatalf("Command execution failed: %v", err)
	}
	if !strings.Contains(out, "total:   200000") {
		t.Errorf("Expected no pyramid levels with a 1000 floor:\n%s", out)
	}

	if _, _, err := executeCommand(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "estimate", "jpg", "1", "1"); err == nil {
		t.Error("Expected error for a missing config file")
	}
}

func TestReportCmd(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "ledger.parquet")
	if _, _, err := executeCommand(t, "jpg 1000 1000\nbmp 100 100\ng 1 2\n", "run", "--ledger", ledgerPath); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out, _, err := executeCommand(t, "", "report", ledgerPath)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if !strings.Contains(out, "Groups (1):") || !strings.HasSuffix(out, "Total size: 169314 bytes\n") {
		t.Errorf("Unexpected report:\n%s", out)
	}

	out, _, err = executeCommand(t, "", "report", ledgerPath, "--format", "csv")
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if !strings.HasPrefix(out, "kind,id,format") {
		t.Errorf("Unexpected CSV:\n%s", out)
	}

	if _, _, err := executeCommand(t, "", "report", ledgerPath, "--format", "xml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
