package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksyq12/siterender/internal/errors"
	"github.com/ksyq12/siterender/internal/executor"
	"github.com/ksyq12/siterender/internal/template"
)

var doc = &template.Document{Content: "server {\n    listen 80;\n    server_name acme.example.com;\n}\n"}

// argAfter returns the argument following flag.
func argAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func TestNginxValidate(t *testing.T) {
	root := t.TempDir()
	var wrapper, site string

	mock := &executor.MockExecutor{
		ExecuteFunc: func(name string, args ...string) ([]byte, error) {
			main := argAfter(args, "-c")
			data, err := os.ReadFile(main)
			require.NoError(t, err)
			wrapper = string(data)

			site = filepath.Join(argAfter(args, "-p"), "site.conf")
			staged, err := os.ReadFile(site)
			require.NoError(t, err)
			assert.Equal(t, doc.Content, string(staged))
			return nil, nil
		},
	}

	v := NewNginx(mock)
	v.TempDir = root
	require.NoError(t, v.Validate(doc))

	require.Len(t, mock.Calls, 1)
	assert.Equal(t, "nginx", mock.Calls[0].Name)
	assert.Equal(t, []string{"-t", "-q"}, mock.Calls[0].Args[:2])
	assert.Contains(t, wrapper, "events {}")
	assert.Contains(t, wrapper, "include "+site+";")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "staging dir should be removed")
}

func TestNginxValidateRejected(t *testing.T) {
	mock := &executor.MockExecutor{
		ExecuteFunc: func(name string, args ...string) ([]byte, error) {
			return []byte("nginx: [emerg] unknown directive \"dav_methods\"\n"), fmt.Errorf("exit status 1")
		},
	}

	err := NewNginx(mock).Validate(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidationFailed))

	var te *errors.TemplateError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, `nginx: [emerg] unknown directive "dav_methods"`, te.Output)
}

func TestNginxBinaryMissing(t *testing.T) {
	mock := &executor.MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			return "", fmt.Errorf("executable file not found in $PATH")
		},
	}

	err := NewNginx(mock).Validate(doc)
	assert.True(t, errors.Is(err, errors.ErrValidationFailed), "got %v", err)
	assert.Empty(t, mock.Calls)
}

func TestApacheValidate(t *testing.T) {
	var wrapper string
	mock := &executor.MockExecutor{
		ExecuteFunc: func(name string, args ...string) ([]byte, error) {
			data, err := os.ReadFile(argAfter(args, "-f"))
			require.NoError(t, err)
			wrapper = string(data)
			return []byte("Syntax OK\n"), nil
		},
	}

	v := NewApache(mock)
	v.TempDir = t.TempDir()
	require.NoError(t, v.Validate(doc))

	require.Len(t, mock.Calls, 1)
	call := mock.Calls[0]
	assert.Equal(t, "apache2ctl", call.Name)
	assert.Equal(t, "/etc/apache2", argAfter(call.Args, "-d"))
	assert.Equal(t, "-t", call.Args[len(call.Args)-1])
	assert.Contains(t, wrapper, "Include /etc/apache2/apache2.conf\n")
	assert.Contains(t, wrapper, "site.conf\n")
}

func TestForTarget(t *testing.T) {
	mock := &executor.MockExecutor{}

	tests := []struct {
		target  string
		want    string
		wantErr bool
	}{
		{"", "none", false},
		{"nginx", "nginx", false},
		{"apache", "apache", false},
		{"caddy", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			v, err := ForTarget(tt.target, mock)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Name())
		})
	}
}

func TestRun(t *testing.T) {
	ok := Run(Nop{}, doc)
	assert.Equal(t, Result{Validator: "none", OK: true}, ok)

	rejecting := Func{
		Label: "strict",
		Fn: func(*template.Document) error {
			return errors.ValidationFailed("strict", "line 2: bad", fmt.Errorf("exit status 1"))
		},
	}
	res := Run(rejecting, doc)
	assert.False(t, res.OK)
	assert.Equal(t, "strict", res.Validator)
	assert.Equal(t, "line 2: bad", res.Output)
	assert.NotEmpty(t, res.Error)
}
