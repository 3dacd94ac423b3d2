package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		env               map[string]string
		wantErr           bool
		want              *Config
		wantErrorContains []string
	}{
		{
			name: "valid config file with custom values",
			configContent: `study:
  backend: local
storage:
  path: custom/study.db
remote:
  timeout_seconds: 5
  max_retries: 1
`,
			want: &Config{
				Study:   StudyConfig{Backend: "local"},
				Storage: StorageConfig{Path: "custom/study.db"},
				Remote: RemoteConfig{
					BaseURL:         "https://www.aitimeline.app",
					TimeoutSeconds:  5,
					MaxRetries:      1,
					CacheTTLSeconds: 30,
				},
			},
		},
		{
			name:          "missing config file uses defaults",
			configContent: "",
			want: &Config{
				Study:   StudyConfig{Backend: "local"},
				Storage: StorageConfig{Path: filepath.Join("data", "study.db")},
				Remote: RemoteConfig{
					BaseURL:         "https://www.aitimeline.app",
					TimeoutSeconds:  10,
					MaxRetries:      3,
					CacheTTLSeconds: 30,
				},
			},
		},
		{
			name: "invalid YAML format",
			configContent: `study:
  backend: local
  invalid yaml format here [[[
`,
			wantErr: true,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "unknown backend is rejected",
			configContent: `study:
  backend: cloud
`,
			wantErr: true,
			wantErrorContains: []string{
				"invalid configuration",
				"backend",
			},
		},
		{
			name: "remote backend without a session id is rejected",
			configContent: `study:
  backend: remote
`,
			wantErr: true,
			wantErrorContains: []string{
				"TIMELINE_SESSION_ID",
			},
		},
		{
			name: "remote backend with session id from the environment",
			configContent: `study:
  backend: remote
`,
			env: map[string]string{
				"TIMELINE_SESSION_ID": "session-123",
				"TIMELINE_BASE_URL":   "https://staging.aitimeline.app",
			},
			want: &Config{
				Study:   StudyConfig{Backend: "remote"},
				Storage: StorageConfig{Path: filepath.Join("data", "study.db")},
				Remote: RemoteConfig{
					BaseURL:         "https://staging.aitimeline.app",
					SessionID:       "session-123",
					TimeoutSeconds:  10,
					MaxRetries:      3,
					CacheTTLSeconds: 30,
				},
			},
		},
		{
			name: "explicit config file path",
			configContent: `storage:
  path: explicit/study.db
`,
			useExplicitPath: true,
			want: &Config{
				Study:   StudyConfig{Backend: "local"},
				Storage: StorageConfig{Path: "explicit/study.db"},
				Remote: RemoteConfig{
					BaseURL:         "https://www.aitimeline.app",
					TimeoutSeconds:  10,
					MaxRetries:      3,
					CacheTTLSeconds: 30,
				},
			},
		},
		{
			name: "out of range retries",
			configContent: `remote:
  max_retries: 99
`,
			wantErr: true,
			wantErrorContains: []string{
				"invalid configuration",
				"max_retries",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(tempDir, "config.yml")
				err := os.WriteFile(configPath, []byte(tt.configContent), 0644)
				require.NoError(t, err)
			} else {
				if tt.configContent != "" {
					err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(tt.configContent), 0644)
					require.NoError(t, err)
				}

				originalDir, err := os.Getwd()
				require.NoError(t, err)
				defer func() {
					err := os.Chdir(originalDir)
					require.NoError(t, err)
				}()

				err = os.Chdir(tempDir)
				require.NoError(t, err)
				configPath = ""
			}

			got, err := Load(configPath)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}
