package security

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLoader struct {
	cfg   *ClusterConfig
	err   error
	paths []string
}

func (f *fakeLoader) Load(_ context.Context, resourcePaths []string) (*ClusterConfig, error) {
	f.paths = resourcePaths
	if f.err != nil {
		return nil, f.err
	}
	return f.cfg, nil
}

type fakeAuthenticator struct {
	err    error
	called bool
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, _ string, _ string) error {
	f.called = true
	return f.err
}

func TestGateCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("no credentials skips authentication", func(t *testing.T) {
		auth := &fakeAuthenticator{}
		gate := NewGate(&fakeLoader{}, auth, zap.NewNop())

		d := gate.Check(ctx, Credentials{})
		assert.Equal(t, StateNotRequired, d.State)
		assert.False(t, auth.called)
	})

	t.Run("security disabled proceeds despite credentials", func(t *testing.T) {
		loader := &fakeLoader{cfg: &ClusterConfig{SecurityEnabled: false}}
		auth := &fakeAuthenticator{}
		gate := NewGate(loader, auth, zap.NewNop())

		d := gate.Check(ctx, Credentials{
			Principal:      "svc@REALM",
			Keytab:         "/etc/svc.keytab",
			ResourceConfig: "/etc/hadoop/core-site.xml",
		})
		assert.Equal(t, StateNotRequired, d.State)
		assert.False(t, auth.called)
	})

	t.Run("resource config only with security disabled", func(t *testing.T) {
		loader := &fakeLoader{cfg: &ClusterConfig{SecurityEnabled: false}}
		gate := NewGate(loader, &fakeAuthenticator{}, zap.NewNop())

		d := gate.Check(ctx, Credentials{ResourceConfig: "/etc/hadoop/core-site.xml"})
		assert.Equal(t, StateNotRequired, d.State)
	})

	t.Run("missing principal fails closed", func(t *testing.T) {
		loader := &fakeLoader{cfg: &ClusterConfig{SecurityEnabled: true}}
		auth := &fakeAuthenticator{}
		gate := NewGate(loader, auth, zap.NewNop())

		d := gate.Check(ctx, Credentials{
			Keytab:         "/etc/svc.keytab",
			ResourceConfig: "/etc/hadoop/core-site.xml",
		})
		assert.Equal(t, StateFailed, d.State)
		assert.Equal(t, "missing credentials", d.Reason)
		assert.False(t, auth.called)
	})

	t.Run("missing keytab fails closed", func(t *testing.T) {
		loader := &fakeLoader{cfg: &ClusterConfig{SecurityEnabled: true}}
		gate := NewGate(loader, &fakeAuthenticator{}, zap.NewNop())

		d := gate.Check(ctx, Credentials{
			Principal:      "svc@REALM",
			ResourceConfig: "/etc/hadoop/core-site.xml",
		})
		assert.Equal(t, StateFailed, d.State)
		assert.Equal(t, "missing credentials", d.Reason)
	})

	t.Run("loader error fails closed", func(t *testing.T) {
		loader := &fakeLoader{err: errors.New("unreadable resource")}
		gate := NewGate(loader, &fakeAuthenticator{}, zap.NewNop())

		d := gate.Check(ctx, Credentials{ResourceConfig: "/missing/core-site.xml"})
		assert.Equal(t, StateFailed, d.State)
		assert.Contains(t, d.Reason, "unreadable resource")
		require.Error(t, d.Err)
	})

	t.Run("authentication error fails closed", func(t *testing.T) {
		loader := &fakeLoader{cfg: &ClusterConfig{SecurityEnabled: true}}
		auth := &fakeAuthenticator{err: errors.New("preauth failed")}
		gate := NewGate(loader, auth, zap.NewNop())

		d := gate.Check(ctx, Credentials{
			Principal:      "svc@REALM",
			Keytab:         "/etc/svc.keytab",
			ResourceConfig: "/etc/hadoop/core-site.xml",
		})
		assert.Equal(t, StateFailed, d.State)
		assert.Contains(t, d.Reason, "preauth failed")
		assert.True(t, auth.called)
	})

	t.Run("successful authentication", func(t *testing.T) {
		loader := &fakeLoader{cfg: &ClusterConfig{SecurityEnabled: true}}
		auth := &fakeAuthenticator{}
		gate := NewGate(loader, auth, zap.NewNop())

		d := gate.Check(ctx, Credentials{
			Principal:      "svc@REALM",
			Keytab:         "/etc/svc.keytab",
			ResourceConfig: "/etc/hadoop/core-site.xml,/etc/hadoop/hdfs-site.xml",
		})
		assert.Equal(t, StateAuthenticated, d.State)
		assert.True(t, d.Authenticated())

		// Comma-separated resource list splits into trimmed paths.
		assert.Equal(t, []string{"/etc/hadoop/core-site.xml", "/etc/hadoop/hdfs-site.xml"}, loader.paths)
	})
}

func TestSiteFileLoader(t *testing.T) {
	ctx := context.Background()

	writeSite := func(t *testing.T, name string, body string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		return path
	}

	t.Run("kerberos enables security", func(t *testing.T) {
		path := writeSite(t, "core-site.xml", `<?xml version="1.0"?>
<configuration>
  <property>
    <name>hadoop.security.authentication</name>
    <value>kerberos</value>
  </property>
</configuration>`)

		cfg, err := NewSiteFileLoader().Load(ctx, []string{path})
		require.NoError(t, err)
		assert.True(t, cfg.SecurityEnabled)
	})

	t.Run("simple auth leaves security disabled", func(t *testing.T) {
		path := writeSite(t, "core-site.xml", `<configuration>
  <property><name>hadoop.security.authentication</name><value>simple</value></property>
</configuration>`)

		cfg, err := NewSiteFileLoader().Load(ctx, []string{path})
		require.NoError(t, err)
		assert.False(t, cfg.SecurityEnabled)
	})

	t.Run("later resources override earlier ones", func(t *testing.T) {
		first := writeSite(t, "a.xml", `<configuration>
  <property><name>hadoop.security.authentication</name><value>simple</value></property>
</configuration>`)
		second := writeSite(t, "b.xml", `<configuration>
  <property><name>hadoop.security.authentication</name><value>KERBEROS</value></property>
</configuration>`)

		cfg, err := NewSiteFileLoader().Load(ctx, []string{first, second})
		require.NoError(t, err)
		assert.True(t, cfg.SecurityEnabled)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := NewSiteFileLoader().Load(ctx, []string{"/does/not/exist.xml"})
		require.Error(t, err)
	})

	t.Run("malformed xml errors", func(t *testing.T) {
		path := writeSite(t, "bad.xml", `<configuration><property>`)
		_, err := NewSiteFileLoader().Load(ctx, []string{path})
		require.Error(t, err)
	})

	t.Run("no resources errors", func(t *testing.T) {
		_, err := NewSiteFileLoader().Load(ctx, nil)
		require.Error(t, err)
	})
}
