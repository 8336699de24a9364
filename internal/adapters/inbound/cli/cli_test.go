package cli_test

import (
	"bytes"
	"crypto/x509/pkix"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sufield/bst/internal/adapters/inbound/cli"
	"github.com/sufield/bst/internal/config"
	"github.com/sufield/bst/internal/domain"
	"github.com/sufield/bst/internal/dto"
	"github.com/sufield/bst/internal/testhelpers"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := cli.NewRootCommand(cli.VersionInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func message(tokens ...string) string {
	return `<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope"
  xmlns:wsse="` + domain.WSSENamespace + `" xmlns:wsu="` + domain.WSUNamespace + `">
  <soap:Header><wsse:Security>` + strings.Join(tokens, "") + `</wsse:Security></soap:Header>
  <soap:Body/></soap:Envelope>`
}

func bst(valueType, id string, payload []byte) string {
	return fmt.Sprintf(`<wsse:BinarySecurityToken EncodingType="%s" ValueType="%s" wsu:Id="%s">%s</wsse:BinarySecurityToken>`,
		domain.EncodingBase64Binary, valueType, id, testhelpers.Base64(payload))
}

type fixture struct {
	dir    string
	config string
	inter  *testhelpers.CertAuthority
	leaf   *testhelpers.Leaf
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	dir := t.TempDir()
	root := testhelpers.NewCA(t, "Root")
	inter := root.NewIntermediate(t, "Issuing")
	leaf := inter.IssueLeaf(t, pkix.Name{CommonName: "alice"})
	bundle := writeFile(t, dir, "bundle.pem", string(testhelpers.PEM(root.Cert)))
	cfg := writeFile(t, dir, "bst.yaml", fmt.Sprintf(`
log:
  level: error
signature_store:
  trust_domain: example.org
  bundle_path: %s
validators:
  - types: [trust]
`, bundle))

	return fixture{dir: dir, config: cfg, inter: inter, leaf: leaf}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "version")

	require.NoError(t, err)
	assert.Contains(t, out, "bst 1.2.3")
	assert.Contains(t, out, "commit: abc")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	bad := writeFile(t, f.dir, "bad.yaml", "log:\n  level: loud\n")

	tests := []struct {
		name    string
		args    []string
		wantOut string
		wantErr string
	}{
		{name: "argument", args: []string{"validate", f.config}, wantOut: "validators:       1"},
		{name: "config flag", args: []string{"--config", f.config, "validate"}, wantOut: "signature trust:  true"},
		{name: "invalid", args: []string{"validate", bad}, wantErr: config.ErrInvalidConfig.Error()},
		{name: "missing file", args: []string{"validate", filepath.Join(f.dir, "nope.yaml")}, wantErr: "nope.yaml"},
		{name: "no path", args: []string{"validate"}, wantErr: "config file path required"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := run(t, "", tt.args...)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestValidate_ConfigFromEnvironment(t *testing.T) {
	f := newFixture(t)
	t.Setenv("BST_CONFIG", f.config)

	out, err := run(t, "", "validate")

	require.NoError(t, err)
	assert.Contains(t, out, f.config)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	// Arrange
	f := newFixture(t)
	msg := message(
		bst(domain.ValueTypeX509V3, "X-1", f.leaf.Cert.Raw),
		bst(domain.ValueTypeGSSKerberosAPReq4120, "Krb-1", testhelpers.GSSWrap(t, testhelpers.APReq(t, []byte("t")))),
		bst("urn:example:custom", "", []byte("opaque")),
	)
	path := writeFile(t, f.dir, "msg.xml", msg)

	// Act
	out, err := run(t, "", "decode", path)

	// Assert
	require.NoError(t, err)
	var tokens []dto.Token
	require.NoError(t, yaml.Unmarshal([]byte(out), &tokens))
	require.Len(t, tokens, 3)
	assert.Equal(t, "X-1", tokens[0].ID)
	assert.Equal(t, domain.KindX509Single.String(), tokens[0].Kind)
	assert.Equal(t, len(f.leaf.Cert.Raw), tokens[0].Size)
	require.NotNil(t, tokens[1].Kerberos)
	assert.True(t, tokens[1].Kerberos.GSSWrapped)
	assert.Equal(t, domain.KindRawBinary.String(), tokens[2].Kind)
	assert.Equal(t, "urn:example:custom", tokens[2].ValueType)
}

func TestDecode_StdinJSON(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	msg := message(bst(domain.ValueTypeX509V3, "X-1", f.leaf.Cert.Raw))

	out, err := run(t, msg, "decode", "-o", "json", "-")

	require.NoError(t, err)
	var tokens []dto.Token
	require.NoError(t, json.Unmarshal([]byte(out), &tokens))
	require.Len(t, tokens, 1)
	assert.Equal(t, "X-1", tokens[0].ID)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	noEncoding := message(fmt.Sprintf(`<wsse:BinarySecurityToken ValueType="%s">AAAA</wsse:BinarySecurityToken>`,
		domain.ValueTypeX509V3))

	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr string
	}{
		{name: "strict profile", stdin: noEncoding, args: []string{"decode", "-"}, wantErr: "token 0"},
		{name: "malformed xml", stdin: "<a><b></a>", args: []string{"decode", "-"}, wantErr: "malformed XML"},
		{name: "unknown format", stdin: message(), args: []string{"decode", "-o", "toml", "-"}, wantErr: "unknown output format"},
		{name: "missing argument", args: []string{"decode"}, wantErr: "accepts 1 arg"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := run(t, tt.stdin, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProcess(t *testing.T) {
	t.Parallel()

	// Arrange
	f := newFixture(t)
	path := writeFile(t, f.dir, "msg.xml",
		message(bst(domain.ValueTypePKIPath, "Chain-1", testhelpers.PKIPath(t, f.leaf.Cert, f.inter.Cert))))

	// Act
	out, err := run(t, "", "--config", f.config, "process", path)

	// Assert
	require.NoError(t, err)
	var doc dto.Document
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.NotEmpty(t, doc.Document)
	require.Len(t, doc.Results, 1)
	assert.True(t, doc.Results[0].Validated)
	require.NotNil(t, doc.Results[0].Principal)
	assert.Equal(t, "CN=alice", doc.Results[0].Principal.Name)
	assert.Len(t, doc.Results[0].Certificates, 2)
}

func TestProcess_Untrusted(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	stranger := testhelpers.NewCA(t, "Stranger").IssueLeaf(t, pkix.Name{CommonName: "mallory"})
	msg := message(bst(domain.ValueTypeX509V3, "X-1", stranger.Cert.Raw))

	_, err := run(t, msg, "--config", f.config, "process", "-")

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}
