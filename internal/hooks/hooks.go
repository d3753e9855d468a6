// Package hooks runs user scripts at catalog lifecycle points.
//
// Scripts live in {hooks_dir}/{hook point}/ and run in name order. Every
// script receives HOOK_POINT, HOOK_TIMESTAMP, STOREFRONT_BINARY and the
// variables passed to Run.
package hooks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/storefront/internal/colors"
	"github.com/cristianoliveira/storefront/internal/config"
)

// Hook points.
const (
	PreImport      = "pre-import"
	PostImport     = "post-import"
	PostFavorite   = "post-favorite"
	PostFetchError = "post-fetch-error"
)

var (
	asyncPending      sync.WaitGroup
	asyncPendingMu    sync.Mutex
	asyncPendingCount int
)

type settings struct {
	dir          string
	failureMode  string
	async        bool
	asyncTimeout time.Duration
	maxAsync     int
}

func currentSettings() settings {
	return settings{
		dir:          config.Get("hooks_dir", ""),
		failureMode:  config.Get("hooks_failure_mode", config.HookFailureWarn),
		async:        config.GetBool("hooks_async", false),
		asyncTimeout: config.GetDuration("hooks_async_timeout", 30*time.Second),
		maxAsync:     config.GetInt("hooks_max_async", 10),
	}
}

// Init creates the hooks directory.
func Init() error {
	dir := config.Get("hooks_dir", "")
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, config.FileModeDir); err != nil {
		return fmt.Errorf("hooks: create directory %s: %w", dir, err)
	}
	return nil
}

type script struct {
	path string
	name string
}

// scripts returns the executable files of a hook point sorted by name.
func scripts(dir, hookPoint string) []script {
	hookDir := filepath.Join(dir, hookPoint)
	entries, err := os.ReadDir(hookDir)
	if err != nil {
		return nil
	}
	var out []script
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.Mode()&0111 == 0 {
			continue
		}
		out = append(out, script{path: filepath.Join(hookDir, e.Name()), name: e.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func buildEnv(hookPoint, failureMode string, envVars []string) []string {
	env := os.Environ()
	env = append(env,
		"HOOK_POINT="+hookPoint,
		"HOOK_TIMESTAMP="+time.Now().Format(time.RFC3339),
		config.EnvPrefix+"HOOKS_FAILURE_MODE="+failureMode,
	)
	if exe, err := os.Executable(); err == nil {
		env = append(env, config.EnvPrefix+"BINARY="+exe)
	}
	for _, v := range envVars {
		if strings.Contains(v, "=") {
			env = append(env, v)
		}
	}
	return env
}

// Run executes the scripts of hookPoint. envVars are KEY=VALUE pairs.
// With failure mode abort, the first failing synchronous script stops the
// run and its error is returned; otherwise failures are reported and Run
// returns nil.
func Run(hookPoint string, envVars ...string) error {
	s := currentSettings()
	if s.dir == "" {
		return nil
	}
	list := scripts(s.dir, hookPoint)
	if len(list) == 0 {
		return nil
	}

	colors.Debug(fmt.Sprintf("running %s hooks (%d script(s))", hookPoint, len(list)))
	env := buildEnv(hookPoint, s.failureMode, envVars)

	for _, sc := range list {
		if s.async {
			asyncPendingMu.Lock()
			if asyncPendingCount >= s.maxAsync {
				asyncPendingMu.Unlock()
				colors.Warning(fmt.Sprintf("too many async hooks pending (max: %d), skipping %s", s.maxAsync, sc.name))
				continue
			}
			asyncPendingCount++
			asyncPending.Add(1)
			asyncPendingMu.Unlock()
			go runAsync(sc, env, s.failureMode, s.asyncTimeout)
			continue
		}
		if err := runSync(sc, env, s.failureMode); err != nil {
			return err
		}
	}
	return nil
}

func runSync(sc script, env []string, failureMode string) error {
	start := time.Now()
	cmd := exec.Command(sc.path)
	cmd.Env = env
	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		colors.Debug(fmt.Sprintf("hook %s output: %s", sc.name, strings.TrimSpace(string(output))))
	}
	if err == nil {
		colors.Debug(fmt.Sprintf("hook %s completed in %.2fs", sc.name, time.Since(start).Seconds()))
		return nil
	}
	switch failureMode {
	case config.HookFailureAbort:
		return fmt.Errorf("hook %s failed: %w: %s", sc.name, err, strings.TrimSpace(string(output)))
	case config.HookFailureIgnore:
	default:
		colors.Warning(fmt.Sprintf("hook %s failed: %v", sc.name, err))
	}
	return nil
}

func runAsync(sc script, env []string, failureMode string, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer func() {
		cancel()
		asyncPendingMu.Lock()
		asyncPendingCount--
		asyncPendingMu.Unlock()
		asyncPending.Done()
	}()

	start := time.Now()
	cmd := exec.CommandContext(ctx, sc.path)
	cmd.Env = env
	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		colors.Warning(fmt.Sprintf("async hook %s timed out after %.2fs", sc.name, time.Since(start).Seconds()))
		return
	}
	if err != nil && failureMode != config.HookFailureIgnore {
		colors.Warning(fmt.Sprintf("async hook %s failed: %v", sc.name, err))
	}
}

// WaitForPendingHooks blocks until every async hook has finished.
func WaitForPendingHooks() {
	asyncPending.Wait()
}

// Shutdown waits for pending async hooks.
func Shutdown() {
	WaitForPendingHooks()
}
