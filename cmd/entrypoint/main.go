// Package main runs the calibration service and its MCP stdio bridge as one
// command, so an MCP client can spawn a single process.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	entrypoint "github.com/louisbranch/llzcal/internal/platform/cmd"
	"github.com/louisbranch/llzcal/internal/platform/discovery"
	"github.com/louisbranch/llzcal/internal/platform/timeouts"
)

// childProcess describes a managed child command.
type childProcess struct {
	name string
	cmd  *exec.Cmd
}

// processExit reports a child process exit result.
type processExit struct {
	name string
	err  error
}

// main starts the calibration server and the MCP bridge, then supervises them.
func main() {
	log.SetPrefix("[ENTRYPOINT] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	binDir, err := binaryDir(os.Getenv("LLZ_CAL_BIN_DIR"))
	if err != nil {
		log.Fatalf("resolve binary directory: %v", err)
	}
	grpcAddr := discovery.OrDefaultGRPCAddr(os.Getenv("LLZ_CAL_ADDR"), discovery.ServiceCalibration)

	// The calibration server must keep stdout free for MCP frames.
	serverCmd := exec.Command(filepath.Join(binDir, entrypoint.ServiceCalibration), "-addr="+grpcAddr)
	server, err := startChild(entrypoint.ServiceCalibration, serverCmd, nil, os.Stderr)
	if err != nil {
		log.Fatalf("failed to start calibration server: %v", err)
	}

	mcpCmd := exec.Command(filepath.Join(binDir, entrypoint.ServiceMCP), "-transport=stdio", "-addr="+grpcAddr)
	mcp, err := startChild(entrypoint.ServiceMCP, mcpCmd, os.Stdin, os.Stdout)
	if err != nil {
		terminateChildren([]*childProcess{server})
		log.Fatalf("failed to start MCP bridge: %v", err)
	}

	children := []*childProcess{server, mcp}
	exitCh := make(chan processExit, len(children))
	go waitChild(server, exitCh)
	go waitChild(mcp, exitCh)

	select {
	case <-ctx.Done():
		log.Printf("shutdown signal received")
		terminateChildren(children)
		waitForChildren(exitCh, children, nil, timeouts.ChildShutdown)
		return
	case exit := <-exitCh:
		log.Printf("%s exited: %v", exit.name, exit.err)
		terminateChildren(children)
		waitForChildren(exitCh, children, map[string]bool{exit.name: true}, timeouts.ChildShutdown)
		os.Exit(exitCode(exit.err))
	}
}

// binaryDir returns dir when set, otherwise the directory holding this
// executable.
func binaryDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	self, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(self), nil
}

// startChild starts a child process with the given stdin and stdout; stderr
// is always inherited.
func startChild(name string, cmd *exec.Cmd, stdin *os.File, stdout *os.File) (*childProcess, error) {
	if stdin != nil {
		cmd.Stdin = stdin
	}
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}
	return &childProcess{name: name, cmd: cmd}, nil
}

// waitChild waits for a child process and reports its exit.
func waitChild(child *childProcess, exitCh chan<- processExit) {
	err := child.cmd.Wait()
	exitCh <- processExit{name: child.name, err: err}
}

// terminateChildren sends SIGTERM to all child processes.
func terminateChildren(children []*childProcess) {
	for _, child := range children {
		if child == nil || child.cmd == nil || child.cmd.Process == nil {
			continue
		}
		_ = child.cmd.Process.Signal(syscall.SIGTERM)
	}
}

// waitForChildren waits for every child not already in exited to report on
// exitCh, killing the rest once timeout elapses. Exits are tracked from
// exitCh only; a child's ProcessState belongs to the goroutine in Wait.
func waitForChildren(exitCh <-chan processExit, children []*childProcess, exited map[string]bool, timeout time.Duration) map[string]bool {
	done := make(map[string]bool, len(children))
	for name := range exited {
		done[name] = true
	}
	remaining := 0
	for _, child := range children {
		if child != nil && !done[child.name] {
			remaining++
		}
	}
	if remaining == 0 {
		return done
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for remaining > 0 {
		select {
		case exit := <-exitCh:
			if !done[exit.name] {
				done[exit.name] = true
				remaining--
			}
		case <-timer.C:
			forceKill(children, done)
			return done
		}
	}
	return done
}

// forceKill sends SIGKILL to every child not yet reported as exited.
func forceKill(children []*childProcess, exited map[string]bool) {
	for _, child := range children {
		if child == nil || child.cmd == nil || child.cmd.Process == nil {
			continue
		}
		if exited[child.name] {
			continue
		}
		_ = child.cmd.Process.Kill()
	}
}

// exitCode derives a process exit code from a wait error.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
