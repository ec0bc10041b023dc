package limiter

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		errMsg  string
	}{
		{name: "valid limit only", cfg: Config{Limit: 10}},
		{name: "valid offset only", cfg: Config{Offset: 5}},
		{name: "valid limit and offset", cfg: Config{Limit: 10, Offset: 5}},
		{name: "valid tail only", cfg: Config{Tail: 10}},
		{name: "tail ignores offset (valid)", cfg: Config{Tail: 10, Offset: 5}},
		{name: "limit and tail mutually exclusive", cfg: Config{Limit: 10, Tail: 5}, wantErr: true, errMsg: "mutually exclusive"},
		{name: "negative limit invalid", cfg: Config{Limit: -1}, wantErr: true, errMsg: "non-negative"},
		{name: "negative offset invalid", cfg: Config{Offset: -1}, wantErr: true, errMsg: "non-negative"},
		{name: "negative tail invalid", cfg: Config{Tail: -2}, wantErr: true, errMsg: "--tail"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfigIsActive(t *testing.T) {
	assert.False(t, Config{}.IsActive())
	assert.True(t, Config{Limit: 1}.IsActive())
	assert.True(t, Config{Offset: 1}.IsActive())
	assert.True(t, Config{Tail: 1}.IsActive())
}

func TestApply(t *testing.T) {
	rows := []string{"a", "b", "c", "d", "e"}
	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{name: "inactive", cfg: Config{}, want: rows},
		{name: "limit", cfg: Config{Limit: 2}, want: []string{"a", "b"}},
		{name: "offset", cfg: Config{Offset: 3}, want: []string{"d", "e"}},
		{name: "limit and offset", cfg: Config{Limit: 2, Offset: 1}, want: []string{"b", "c"}},
		{name: "limit past end", cfg: Config{Limit: 10, Offset: 4}, want: []string{"e"}},
		{name: "offset past end", cfg: Config{Offset: 9}, want: []string{}},
		{name: "tail", cfg: Config{Tail: 2}, want: []string{"d", "e"}},
		{name: "tail ignores offset", cfg: Config{Tail: 1, Offset: 3}, want: []string{"e"}},
		{name: "tail longer than rows", cfg: Config{Tail: 9}, want: rows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.cfg, rows))
		})
	}
}

func TestApplyEmpty(t *testing.T) {
	assert.Empty(t, Apply(Config{Limit: 3}, []int(nil)))
	assert.Empty(t, Apply(Config{Tail: 3}, []int{}))
}

func TestAddFlags(t *testing.T) {
	var c Config
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"--limit", "3", "--offset", "1"}))
	assert.Equal(t, Config{Limit: 3, Offset: 1}, c)
}
