package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// executeCommand is a helper to run a cobra command and capture its output
func executeCommand(args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestReportCmd(t *testing.T) {
	t.Run("summarizes label counts", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.csv")
		content := "Image URL,Defects\r\n" +
			"\"https://a/1.png\",\"Crack; Scratch\"\r\n" +
			"\"https://a/2.png\",\"Crack\"\r\n" +
			"\"https://a/3.png\",\"\"\r\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		out, errOut, err := executeCommand("report", path)
		if err != nil {
			t.Fatalf("command failed: %v, stderr: %s", err, errOut)
		}
		if !strings.Contains(out, "Crack") || !strings.Contains(out, "2") {
			t.Errorf("output missing Crack count:\n%s", out)
		}
		if !strings.Contains(out, "Scratch") {
			t.Errorf("output missing Scratch row:\n%s", out)
		}
		if !strings.Contains(out, "2 / 3") {
			t.Errorf("output missing flagged/total footer:\n%s", out)
		}
	})

	t.Run("rejects a file that is not an export", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "other.csv")
		if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, _, err := executeCommand("report", path); err == nil {
			t.Error("expected an error for a foreign CSV")
		}
	})

	t.Run("rejects a missing file", func(t *testing.T) {
		if _, _, err := executeCommand("report", "/nonexistent.csv"); err == nil {
			t.Error("expected an error for a missing file")
		}
	})
}
