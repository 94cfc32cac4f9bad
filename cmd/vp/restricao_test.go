package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRestricaoCmd_Help(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"restricao", "--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("restricao --help failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Constraint management") {
		t.Errorf("expected help to mention 'Constraint management', got: %s", out)
	}
	for _, sub := range []string{"create", "list", "show", "reagendar", "concluir", "cancelar", "andamento", "evidencia"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help to list %q subcommand, got: %s", sub, out)
		}
	}
}

func TestNewRestricaoCmd(t *testing.T) {
	cmd := newRestricaoCmd()
	if cmd.Use != "restricao" {
		t.Errorf("Use = %q, want %q", cmd.Use, "restricao")
	}
	if !cmd.HasSubCommands() {
		t.Error("restricao command should have subcommands")
	}
}

func TestRestricaoCreateCmd_Help(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"restricao", "create", "--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("restricao create --help failed: %v", err)
	}

	out := buf.String()
	for _, flag := range []string{"--autor", "--titulo", "--prazo", "--causa", "--paralisa-obra"} {
		if !strings.Contains(out, flag) {
			t.Errorf("expected %s flag, got: %s", flag, out)
		}
	}
}

func TestRestricaoCreateCmd_RequiresFlags(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"restricao", "create"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error when required flags are missing")
	}
}

func TestRestricaoShowCmd_RequiresArg(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"restricao", "show"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error when constraint ID is missing")
	}
}

func TestRestricaoReagendarCmd_BadDate(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"restricao", "reagendar", "res-1a2b3", "--data", "not-a-date"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for unparseable date")
	}
	if !strings.Contains(err.Error(), "--data") {
		t.Errorf("error = %q, want to mention --data", err.Error())
	}
}
