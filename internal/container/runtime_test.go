// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

const testImage = "pptx2pdf-office:latest"

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runPipedFunc  func(name string, args []string, stdin io.Reader, stdout io.Writer) error

	lastArgs []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error {
	m.lastArgs = append([]string{name}, args...)
	if m.runPipedFunc != nil {
		return m.runPipedFunc(name, args, stdin, stdout)
	}
	return nil
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantName string
		wantErr  bool
	}{
		{
			name: "docker preferred when both respond",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"docker info": true, "podman info": true},
			},
			wantName: "docker",
		},
		{
			name: "podman when docker is absent",
			exec: &mockExecutor{
				availableBins: map[string]bool{"podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name: "podman when docker daemon is down",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name:    "no runtime",
			exec:    &mockExecutor{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(tt.exec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "no container runtime available") {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rt.Name() != tt.wantName {
				t.Errorf("got runtime %q, want %q", rt.Name(), tt.wantName)
			}
		})
	}
}

func TestImageExists(t *testing.T) {
	tests := []struct {
		name    string
		mkRT    func(*mockExecutor) Runtime
		cmds    map[string]bool
		wantErr bool
	}{
		{
			name: "docker inspect succeeds",
			mkRT: func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			cmds: map[string]bool{"docker image inspect " + testImage: true},
		},
		{
			name:    "docker inspect fails",
			mkRT:    func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			wantErr: true,
		},
		{
			name: "podman exists succeeds",
			mkRT: func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			cmds: map[string]bool{"podman image exists " + testImage: true},
		},
		{
			name:    "podman exists fails",
			mkRT:    func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := tt.mkRT(&mockExecutor{runnableCmds: tt.cmds})
			err := rt.ImageExists(testImage)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), testImage) {
					t.Errorf("error should mention image name, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRunBuildsArguments(t *testing.T) {
	exec := &mockExecutor{}
	rt := newDockerRuntime(exec)

	err := rt.Run(RunSpec{
		Image: testImage,
		Mounts: []Mount{
			{HostPath: "/decks", ContainerPath: "/in", ReadOnly: true},
			{HostPath: "/tmp/out", ContainerPath: "/out"},
		},
		Args: []string{"soffice", "--headless"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := strings.Join(exec.lastArgs, " ")
	want := "docker run --rm -i --network none -v /decks:/in:ro -v /tmp/out:/out " + testImage + " soffice --headless"
	if got != want {
		t.Errorf("args = %q, want %q", got, want)
	}
}

func TestRunPipesOutput(t *testing.T) {
	exec := &mockExecutor{
		runPipedFunc: func(name string, args []string, stdin io.Reader, stdout io.Writer) error {
			data, _ := io.ReadAll(stdin)
			_, _ = stdout.Write([]byte(name + ": " + string(data)))
			return nil
		},
	}
	rt := newPodmanRuntime(exec)

	var out bytes.Buffer
	err := rt.Run(RunSpec{Image: testImage, Stdin: strings.NewReader("deck"), Stdout: &out})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "podman: deck" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunErrors(t *testing.T) {
	exec := &mockExecutor{
		runPipedFunc: func(string, []string, io.Reader, io.Writer) error {
			return errors.New("exit status 1")
		},
	}
	rt := newDockerRuntime(exec)

	if err := rt.Run(RunSpec{}); err == nil {
		t.Error("expected error for missing image")
	}
	err := rt.Run(RunSpec{Image: testImage})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "exit status 1") {
		t.Errorf("error should wrap cause, got: %v", err)
	}
}
