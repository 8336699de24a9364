//go:build integration

package testhelpers

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// SPIRE is a local SPIRE server and agent started for one test.
type SPIRE struct {
	// SocketPath is the agent's Workload API socket.
	SocketPath  string
	TrustDomain string

	serverBin string
	adminSock string
}

// StartSPIRE runs spire-server and spire-agent from PATH (or SPIRE_SERVER and
// SPIRE_AGENT) and registers the current UID as a workload. The test is
// skipped when the binaries are missing. Processes are killed on cleanup.
func StartSPIRE(t *testing.T) *SPIRE {
	t.Helper()

	serverBin, agentBin := spireBinary("SPIRE_SERVER", "spire-server"), spireBinary("SPIRE_AGENT", "spire-agent")
	if _, err := exec.LookPath(serverBin); err != nil {
		t.Skip("spire-server not available")
	}
	if _, err := exec.LookPath(agentBin); err != nil {
		t.Skip("spire-agent not available")
	}

	// unix socket paths are length limited; t.TempDir can exceed it
	dir, err := os.MkdirTemp("", "bst-spire-*")
	if err != nil {
		t.Fatalf("temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	s := &SPIRE{
		SocketPath:  filepath.Join(dir, "agent.sock"),
		TrustDomain: "example.org",
		serverBin:   serverBin,
		adminSock:   filepath.Join(dir, "server", "api.sock"),
	}

	port := freePort(t)
	serverConf := writeConf(t, dir, "server.conf", fmt.Sprintf(`server {
    bind_address = "127.0.0.1"
    bind_port = "%d"
    trust_domain = "%s"
    data_dir = "%s/server"
    socket_path = "%s"
    log_level = "WARN"
}
plugins {
    DataStore "sql" {
        plugin_data {
            database_type = "sqlite3"
            connection_string = "%s/server/datastore.sqlite3"
        }
    }
    KeyManager "memory" { plugin_data {} }
    NodeAttestor "join_token" { plugin_data {} }
}
`, port, s.TrustDomain, dir, s.adminSock, dir))
	startProcess(t, serverBin, "run", "-config", serverConf)
	waitForFile(t, s.adminSock)

	agentID := "spiffe://" + s.TrustDomain + "/agent"
	out := s.serverCLI(t, "token", "generate", "-spiffeID", agentID)
	token := ""
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, "Token:"); ok {
			token = strings.TrimSpace(rest)
		}
	}
	if token == "" {
		t.Fatalf("no join token in %q", out)
	}

	agentConf := writeConf(t, dir, "agent.conf", fmt.Sprintf(`agent {
    data_dir = "%s/agent"
    trust_domain = "%s"
    server_address = "127.0.0.1"
    server_port = "%d"
    insecure_bootstrap = true
    log_level = "WARN"
}
plugins {
    KeyManager "memory" { plugin_data {} }
    NodeAttestor "join_token" { plugin_data {} }
    WorkloadAttestor "unix" { plugin_data {} }
}
`, dir, s.TrustDomain, port))
	startProcess(t, agentBin, "run", "-config", agentConf, "-socketPath", s.SocketPath, "-joinToken", token)
	waitForFile(t, s.SocketPath)

	s.serverCLI(t, "entry", "create",
		"-spiffeID", "spiffe://"+s.TrustDomain+"/bst-test",
		"-parentID", agentID,
		"-selector", fmt.Sprintf("unix:uid:%d", os.Getuid()))
	return s
}

func (s *SPIRE) serverCLI(t *testing.T, args ...string) string {
	t.Helper()
	args = append(args, "-socketPath", s.adminSock)
	out, err := exec.Command(s.serverBin, args...).CombinedOutput()
	if err != nil {
		t.Fatalf("spire-server %s: %v\n%s", args[0], err, out)
	}
	return string(out)
}

func spireBinary(env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("free port: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func writeConf(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func startProcess(t *testing.T, bin string, args ...string) {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Stdout, cmd.Stderr = os.Stderr, os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start %s: %v", bin, err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})
}

func waitForFile(t *testing.T, path string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	for {
		if _, err := os.Stat(path); err == nil {
			return
		}
		select {
		case <-ctx.Done():
			t.Fatalf("timed out waiting for %s", path)
		case <-tick.C:
		}
	}
}
