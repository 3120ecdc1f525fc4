/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/gbpctl/pkg/args"
	"github.com/NVIDIA/gbpctl/pkg/body"
	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/resource"
	"github.com/NVIDIA/gbpctl/pkg/sandbox"
	"github.com/NVIDIA/gbpctl/pkg/serializer"
)

func TestCommandLister(_ *testing.T) {
	commandLister(context.Background(), nil)

	cmd := &cli.Command{Name: "test"}
	commandLister(context.Background(), cmd)

	rootCmd := &cli.Command{
		Name: "root",
		Commands: []*cli.Command{
			{Name: "visible1", Hidden: false},
			{Name: "hidden", Hidden: true},
			{Name: "visible2", Hidden: false},
		},
	}
	commandLister(context.Background(), rootCmd)
}

func TestCommandListerOutput(t *testing.T) {
	var out bytes.Buffer
	rootCmd := &cli.Command{
		Name:   "root",
		Writer: &out,
		Commands: []*cli.Command{
			{Name: "visible1"},
			{Name: "hidden", Hidden: true},
			{Name: "visible2"},
		},
	}
	commandLister(context.Background(), rootCmd)
	assert.Equal(t, "visible1\nvisible2\n", out.String())
}

func hasName(flag cli.Flag, name string) bool {
	if flag == nil {
		return false
	}
	names := flag.Names()
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func findFlag(flags []cli.Flag, name string) cli.Flag {
	for _, f := range flags {
		if hasName(f, name) {
			return f
		}
	}
	return nil
}

func findCommand(cmds []*cli.Command, name string) *cli.Command {
	for _, c := range cmds {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRootCommandStructure(t *testing.T) {
	reg := resource.NewRegistry()
	root := newRootCmd(reg, &bytes.Buffer{}, &bytes.Buffer{})

	for _, name := range []string{flagURL, flagToken, flagConfigFile, flagFormat, "t", flagOutput, "o",
		flagTimeout, flagVerifyIDs, flagCacheLookups, flagDebug, flagLogJSON} {
		assert.NotNil(t, findFlag(root.Flags, name), "missing global flag %q", name)
	}

	require.Len(t, root.Commands, len(reg.Managed()))
	for _, d := range reg.Managed() {
		cmd := findCommand(root.Commands, d.Type.CLIName())
		require.NotNil(t, cmd, "missing command for %s", d.Type)
		for _, alias := range d.Aliases {
			assert.Contains(t, cmd.Aliases, alias)
		}
		for _, verb := range []string{"list", "show", "create", "update", "delete"} {
			assert.NotNil(t, findCommand(cmd.Commands, verb), "%s missing verb %s", d.Type, verb)
		}
	}

	l2 := findCommand(root.Commands, "l2-policy")
	require.NotNil(t, l2)
	assert.Contains(t, l2.Aliases, "l2_policy")
	assert.Contains(t, l2.Aliases, "l2p")

	ep := findCommand(root.Commands, "endpoint")
	require.NotNil(t, ep)
	assert.NotContains(t, ep.Aliases, "endpoint")
}

func TestFieldFlags(t *testing.T) {
	reg := resource.NewRegistry()
	l3, ok := reg.Get(resource.TypeL3Policy)
	require.True(t, ok)

	create := fieldFlags(l3.CreateFields(), body.ModeCreate)
	assert.Nil(t, findFlag(create, "name"), "name is positional on create")
	assert.NotNil(t, findFlag(create, "tenant-id"))

	ipVersion, ok := findFlag(create, "ip-version").(*cli.IntFlag)
	require.True(t, ok)
	assert.EqualValues(t, 4, ipVersion.Value)

	update := fieldFlags(l3.UpdateFields(), body.ModeUpdate)
	assert.NotNil(t, findFlag(update, "name"))
	assert.Nil(t, findFlag(update, "ip-version"), "ip version is fixed after create")
	assert.Nil(t, findFlag(update, "tenant-id"))

	epg, ok := reg.Get(resource.TypeEndpointGroup)
	require.True(t, ok)
	epgFlags := fieldFlags(epg.CreateFields(), body.ModeCreate)
	_, ok = findFlag(epgFlags, "provided-contracts").(*cli.StringSliceFlag)
	assert.True(t, ok)
	_, ok = findFlag(epgFlags, "subnets").(*cli.StringSliceFlag)
	assert.True(t, ok)
	_, ok = findFlag(epgFlags, "l2-policy").(*cli.StringFlag)
	assert.True(t, ok)
}

func TestCollectArgs(t *testing.T) {
	reg := resource.NewRegistry()
	epg, ok := reg.Get(resource.TypeEndpointGroup)
	require.True(t, ok)
	l3, ok := reg.Get(resource.TypeL3Policy)
	require.True(t, ok)

	tests := []struct {
		name    string
		d       *resource.Descriptor
		mode    body.Mode
		argv    []string
		check   func(t *testing.T, a *args.Args)
		wantErr bool
	}{
		{
			name: "nothing set",
			d:    epg,
			mode: body.ModeUpdate,
			argv: []string{"test"},
			check: func(t *testing.T, a *args.Args) {
				assert.Equal(t, 0, a.Len())
			},
		},
		{
			name: "reference and description",
			d:    epg,
			mode: body.ModeCreate,
			argv: []string{"test", "--l2-policy", "web", "--description", "front"},
			check: func(t *testing.T, a *args.Args) {
				assert.Equal(t, []string{"description", "l2_policy"}, a.Names())
				assert.Equal(t, "web", *a.String("l2_policy"))
			},
		},
		{
			name: "mapping pairs",
			d:    epg,
			mode: body.ModeCreate,
			argv: []string{"test", "--provided-contracts", "web=1,db=0", "--provided-contracts", "admin="},
			check: func(t *testing.T, a *args.Args) {
				assert.Equal(t, map[string]string{"web": "1", "db": "0", "admin": ""}, a.Map("provided_contracts"))
			},
		},
		{
			name: "list keeps order",
			d:    epg,
			mode: body.ModeUpdate,
			argv: []string{"test", "--subnets", "b,a", "--subnets", "c"},
			check: func(t *testing.T, a *args.Args) {
				assert.Equal(t, []string{"b", "a", "c"}, a.List("subnets"))
			},
		},
		{
			name: "explicit empty description is kept",
			d:    epg,
			mode: body.ModeUpdate,
			argv: []string{"test", "--description", ""},
			check: func(t *testing.T, a *args.Args) {
				require.True(t, a.Has("description"))
				assert.Equal(t, "", *a.String("description"))
			},
		},
		{
			name: "default int not collected",
			d:    l3,
			mode: body.ModeCreate,
			argv: []string{"test"},
			check: func(t *testing.T, a *args.Args) {
				assert.False(t, a.Has("ip_version"))
			},
		},
		{
			name: "int collected",
			d:    l3,
			mode: body.ModeCreate,
			argv: []string{"test", "--ip-version", "6", "--subnet-prefix-length", "64"},
			check: func(t *testing.T, a *args.Args) {
				assert.Equal(t, 6, *a.Int("ip_version"))
				assert.Equal(t, 64, *a.Int("subnet_prefix_length"))
			},
		},
		{
			name:    "bad mapping pair",
			d:       epg,
			mode:    body.ModeCreate,
			argv:    []string{"test", "--consumed-contracts", "web"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := tt.d.CreateFields()
			if tt.mode == body.ModeUpdate {
				fields = tt.d.UpdateFields()
			}

			var captured *args.Args
			var capturedErr error
			testCmd := &cli.Command{
				Name:  "test",
				Flags: fieldFlags(fields, tt.mode),
				Action: func(_ context.Context, cmd *cli.Command) error {
					captured, capturedErr = collectArgs(cmd, fields, tt.mode)
					return nil
				},
			}

			require.NoError(t, testCmd.Run(context.Background(), tt.argv))
			if tt.wantErr {
				require.Error(t, capturedErr)
				assert.Equal(t, gbperrors.ErrCodeInvalidRequest, gbperrors.CodeOf(capturedErr))
				return
			}
			require.NoError(t, capturedErr)
			tt.check(t, captured)
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		argv       []string
		configured string
		want       serializer.Format
		wantErr    bool
	}{
		{"flag wins", []string{"test", "--format", "yaml"}, "table", serializer.FormatYAML, false},
		{"configured", []string{"test"}, "table", serializer.FormatTable, false},
		{"non-terminal default", []string{"test"}, "", serializer.FormatJSON, false},
		{"unknown", []string{"test", "--format", "xml"}, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got serializer.Format
			var gotErr error
			testCmd := &cli.Command{
				Name:  "test",
				Flags: []cli.Flag{formatFlag},
				Action: func(_ context.Context, cmd *cli.Command) error {
					got, gotErr = parseOutputFormat(cmd, tt.configured, &bytes.Buffer{})
					return nil
				},
			}
			require.NoError(t, testCmd.Run(context.Background(), tt.argv))
			if tt.wantErr {
				require.Error(t, gotErr)
				assert.Equal(t, gbperrors.ErrCodeInvalidRequest, gbperrors.CodeOf(gotErr))
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

// harness runs gbpctl against an in-process sandbox.
type harness struct {
	t   *testing.T
	url string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, env := range []string{"GBPCTL_CONFIG", "GBPCTL_URL", "OS_URL", "GBPCTL_TOKEN", "OS_TOKEN",
		"GBPCTL_TENANT_ID", "OS_TENANT_ID", "GBPCTL_TRACING"} {
		t.Setenv(env, "")
	}

	h := sandbox.NewHandler(sandbox.NewStore(resource.NewRegistry()))
	mux := http.NewServeMux()
	mux.Handle(h.Pattern(), h)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return &harness{t: t, url: ts.URL}
}

func (h *harness) run(argv ...string) (int, string, string) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"gbpctl", "--url", h.url, "--format", "json"}, argv...)
	code := Run(context.Background(), full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func (h *harness) record(argv ...string) map[string]any {
	h.t.Helper()
	code, stdout, stderr := h.run(argv...)
	require.Equal(h.t, gbperrors.ExitOK, code, "stderr: %s", stderr)

	var rec map[string]any
	require.NoError(h.t, json.Unmarshal([]byte(stdout), &rec), "stdout: %s", stdout)
	return rec
}

func TestRunEndToEnd(t *testing.T) {
	h := newHarness(t)

	l3 := h.record("l3-policy", "create", "--ip-pool", "10.1.0.0/16", "--subnet-prefix-length", "28", "default")
	assert.Equal(t, "default", l3["name"])
	assert.EqualValues(t, 4, l3["ip_version"])
	assert.EqualValues(t, 28, l3["subnet_prefix_length"])

	l2 := h.record("l2_policy", "create", "--l3-policy", "default", "web")
	assert.Equal(t, l3["id"], l2["l3_policy_id"])

	shown := h.record("l2p", "show", "web")
	assert.Equal(t, l2["id"], shown["id"])

	updated := h.record("l2-policy", "update", "--description", "front end", "web")
	assert.Equal(t, "front end", updated["description"])

	code, stdout, stderr := h.run("l2-policy", "list", "--column", "id", "--column", "name")
	require.Equal(t, gbperrors.ExitOK, code, stderr)
	var list []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &list))
	assert.Equal(t, []map[string]any{{"id": l2["id"], "name": "web"}}, list)

	code, stdout, stderr = h.run("l2-policy", "delete", "web")
	require.Equal(t, gbperrors.ExitOK, code, stderr)
	assert.Equal(t, "Deleted l2_policy: web\n", stdout)

	code, _, stderr = h.run("l2-policy", "show", "web")
	assert.Equal(t, gbperrors.ExitUnresolved, code)
	assert.Contains(t, stderr, "unable to find l2_policy with name or id 'web'")
}

func TestRunServiceChain(t *testing.T) {
	h := newHarness(t)

	fw := h.record("servicechain-node", "create", "--servicetype", "FIREWALL", "--config", "{}", "fw")
	lb := h.record("scn", "create", "--servicetype", "LOADBALANCER", "lb")

	spec := h.record("servicechain-spec", "create", "--nodes", "lb,fw", "chain")
	assert.Equal(t, []any{lb["id"], fw["id"]}, spec["nodes"])

	updated := h.record("scs", "update", "--nodes", "", "chain")
	assert.Equal(t, []any{}, updated["nodes"])
}

func TestRunFailures(t *testing.T) {
	h := newHarness(t)
	h.record("l3-policy", "create", "dup")
	h.record("l3-policy", "create", "dup")

	tests := []struct {
		name     string
		argv     []string
		code     int
		contains string
	}{
		{"ambiguous reference", []string{"l2-policy", "create", "--l3-policy", "dup", "web"}, gbperrors.ExitUnresolved, "multiple l3_policy matches found for name 'dup'"},
		{"unknown reference", []string{"l2-policy", "create", "--l3-policy", "nope", "web"}, gbperrors.ExitUnresolved, "unable to find l3_policy with name or id 'nope'"},
		{"update with nothing to change", []string{"l3-policy", "update", "dup"}, gbperrors.ExitInvalid, "no fields to update"},
		{"create without name", []string{"l3-policy", "create"}, gbperrors.ExitInvalid, "name"},
		{"show without identifier", []string{"l3-policy", "show"}, gbperrors.ExitInvalid, "name or ID is required"},
		{"bad ip version", []string{"l3-policy", "create", "--ip-version", "5", "x"}, gbperrors.ExitInvalid, "ip_version"},
		{"bad mapping", []string{"endpoint-group", "create", "--provided-contracts", "web", "x"}, gbperrors.ExitInvalid, "invalid key=value pair"},
		{"unknown resource", []string{"l3-polcy"}, gbperrors.ExitInvalid, `did you mean "l3-policy"`},
		{"missing verb", []string{"l3_policy"}, gbperrors.ExitInvalid, "missing verb for l3-policy"},
		{"unknown verb", []string{"l3-policy", "frobnicate"}, gbperrors.ExitInvalid, `unknown verb "frobnicate"`},
		{"bad format", []string{"--format", "xml", "l3-policy", "list"}, gbperrors.ExitInvalid, "invalid --format"},
		{"bad sort dir", []string{"l3-policy", "list", "--sort-key", "name", "--sort-dir", "up"}, gbperrors.ExitInvalid, "invalid sort direction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := h.run(tt.argv...)
			assert.Equal(t, tt.code, code, "stderr: %s", stderr)
			assert.True(t, strings.HasPrefix(stderr, "Error: "), stderr)
			assert.Contains(t, stderr, tt.contains)
		})
	}
}

func TestRunUnreachableBackend(t *testing.T) {
	newHarness(t)
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"gbpctl", "--url", "http://127.0.0.1:1", "--format", "json", "l3-policy", "list"}, &stdout, &stderr)
	assert.Equal(t, gbperrors.ExitFailure, code)
	assert.Contains(t, stderr.String(), "request failed")
}

func TestRunUsage(t *testing.T) {
	newHarness(t)
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"gbpctl"}, &stdout, &stderr)
	assert.Equal(t, gbperrors.ExitOK, code)
	assert.Contains(t, stdout.String(), "Usage: gbpctl")
	assert.Contains(t, stdout.String(), "servicechain-instance")
	assert.Contains(t, stdout.String(), "l3_policy")
}
