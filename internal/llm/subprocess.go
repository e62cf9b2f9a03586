package llm

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"
)

// process is a spawned llama-server.
type process struct {
	cmd     *exec.Cmd
	baseURL string
	done    chan struct{}
	waitErr error
	onEvent func(string, map[string]any)
	once    sync.Once
}

func spawn(ctx context.Context, bin string, o Options, so ServerOptions) (*process, error) {
	port, err := pickFreePort(so.Host)
	if err != nil {
		return nil, err
	}
	base := fmt.Sprintf("http://%s:%d", so.Host, port)
	cmd := exec.Command(bin, serverArgs(o, so.Host, port, so.ExtraArgs)...)
	stderr := newTailBuffer(stderrTailBytes)
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start llama-server: %w", err)
	}
	p := &process{cmd: cmd, baseURL: base, done: make(chan struct{}), onEvent: so.OnEvent}
	pid := cmd.Process.Pid
	p.onEvent("spawn_start", map[string]any{"pid": pid, "host": so.Host, "port": port})
	go func() {
		p.waitErr = cmd.Wait()
		close(p.done)
	}()

	if err := waitReady(ctx, so.HTTPClient, base, so.ReadyTimeout, p.done); err != nil {
		select {
		case <-p.done:
			tail := stderr.String()
			p.onEvent("spawn_exit", map[string]any{"pid": pid, "before_ready": true})
			return nil, fmt.Errorf("llama-server exited before ready: %v; stderr tail: %s", p.waitErr, tail)
		default:
		}
		p.onEvent("spawn_timeout", map[string]any{"pid": pid})
		_ = p.stop()
		return nil, fmt.Errorf("llama-server not ready at %s: %w", base, err)
	}
	p.onEvent("spawn_ready", map[string]any{"pid": pid, "url": base})
	return p, nil
}

func serverArgs(o Options, host string, port int, extra []string) []string {
	args := []string{
		"-m", o.ModelPath,
		"--host", host,
		"--port", strconv.Itoa(port),
		"-c", strconv.Itoa(o.ContextSize),
		"-ngl", strconv.Itoa(o.GPULayers),
	}
	if o.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(o.Threads))
	}
	if o.Verbose {
		args = append(args, "--verbose")
	}
	return append(args, extra...)
}

// stop sends SIGTERM and falls back to kill after 2s.
func (p *process) stop() error {
	p.once.Do(func() {
		if p.cmd.Process == nil {
			return
		}
		_ = p.cmd.Process.Signal(syscall.SIGTERM)
		select {
		case <-p.done:
		case <-time.After(2 * time.Second):
			_ = p.cmd.Process.Kill()
			<-p.done
		}
		p.onEvent("spawn_stop", map[string]any{"pid": p.cmd.Process.Pid})
	})
	return nil
}

// waitReady polls base/v1/models until it answers 2xx, the deadline passes,
// ctx ends or exited is closed.
func waitReady(ctx context.Context, hc *http.Client, base string, timeout time.Duration, exited <-chan struct{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		if isHealthy(ctx, hc, base) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-exited:
			return fmt.Errorf("process exited")
		case <-tick.C:
		}
	}
}

func isHealthy(ctx context.Context, hc *http.Client, base string) bool {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/v1/models", nil)
	if err != nil {
		return false
	}
	resp, err := hc.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func pickFreePort(host string) (int, error) {
	l, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
