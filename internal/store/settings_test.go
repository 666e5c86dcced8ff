// ABOUTME: Tests for settings defaults, upserts and malformed values
// ABOUTME: Unknown keys are stored but ignored by the typed view

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettings_Defaults(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "light", got.Theme)
	assert.Equal(t, 64, got.IconSize)
	assert.Nil(t, got.TintColor)
	assert.Equal(t, DefaultSettings(), got)
}

func TestSetSetting_Upsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetSetting(ctx, SettingTheme, "dark"))
	require.NoError(t, s.SetSetting(ctx, SettingIconSize, "96"))
	require.NoError(t, s.SetSetting(ctx, SettingTintColor, "#3b82f6"))
	require.NoError(t, s.SetSetting(ctx, SettingTheme, "solarized"))

	got, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "solarized", got.Theme)
	assert.Equal(t, 96, got.IconSize)
	require.NotNil(t, got.TintColor)
	assert.Equal(t, "#3b82f6", *got.TintColor)

	assert.Equal(t, 3, countRows(t, s, "settings"))
}

func TestGetSettings_MalformedIconSize(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, v := range []string{"huge", "", "-5", "0", "12.5"} {
		require.NoError(t, s.SetSetting(ctx, SettingIconSize, v))
		require.NoError(t, s.SetSetting(ctx, SettingTheme, "dark"))

		got, err := s.GetSettings(ctx)
		require.NoError(t, err, v)
		assert.Equal(t, DefaultIconSize, got.IconSize, "icon_size %q", v)
		assert.Equal(t, "dark", got.Theme, "other keys still read with icon_size %q", v)
	}
}

func TestGetSettings_EmptyTintIsNone(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetSetting(ctx, SettingTintColor, ""))
	got, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, got.TintColor)
}

func TestSetSetting_UnknownKeyStored(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetSetting(ctx, "window_width", "1280"))
	assert.Equal(t, 1, countRows(t, s, "settings"))

	got, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), got)
}
