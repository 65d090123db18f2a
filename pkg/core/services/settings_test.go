package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/weekend-shifts/pkg/db"
)

func TestPreferencesLocked(t *testing.T) {
	now := time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		settings *db.Settings
		expected bool
	}{
		{name: "no settings", settings: nil, expected: false},
		{name: "no deadline", settings: &db.Settings{}, expected: false},
		{name: "before deadline", settings: &db.Settings{Deadline: timePtr(now.Add(time.Hour))}, expected: false},
		{name: "after deadline", settings: &db.Settings{Deadline: timePtr(now.Add(-time.Hour))}, expected: true},
		{name: "locked before deadline", settings: &db.Settings{IsLocked: true, Deadline: timePtr(now.Add(time.Hour))}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PreferencesLocked(tt.settings, now))
		})
	}
}

func TestSetDeadline(t *testing.T) {
	store := &mockStore{}
	deadline := time.Date(2025, 11, 27, 8, 24, 0, 0, time.UTC)

	settings, err := SetDeadline(context.Background(), store, zap.NewNop(), deadline)
	require.NoError(t, err)

	require.NotNil(t, settings.Deadline)
	assert.True(t, deadline.Equal(*settings.Deadline))
	require.NotNil(t, store.settings.Deadline)
	assert.True(t, deadline.Equal(*store.settings.Deadline))
}

func TestLockAndUnlockPreferences(t *testing.T) {
	store := &mockStore{}
	cfg := testConfig()
	now := time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)

	_, err := LockPreferences(context.Background(), store, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, store.settings.IsLocked)

	settings, err := UnlockPreferences(context.Background(), store, cfg, zap.NewNop(), now)
	require.NoError(t, err)

	assert.False(t, settings.IsLocked)
	require.NotNil(t, settings.Deadline)
	assert.Equal(t, now.AddDate(0, 0, 7), *settings.Deadline)
	assert.False(t, PreferencesLocked(&store.settings, now))
}

func TestUnlockPreferences_KeepsAllocationTimestamp(t *testing.T) {
	allocatedAt := time.Date(2025, 11, 28, 9, 0, 0, 0, time.UTC)
	store := &mockStore{settings: db.Settings{IsLocked: true, AllocatedAt: &allocatedAt}}

	_, err := UnlockPreferences(context.Background(), store, testConfig(), zap.NewNop(), time.Now())
	require.NoError(t, err)

	require.NotNil(t, store.settings.AllocatedAt)
	assert.Equal(t, allocatedAt, *store.settings.AllocatedAt)
}

func TestUpdateSettings_StoreErrors(t *testing.T) {
	store := &mockStore{getSettingsErr: errors.New("connection refused")}
	_, err := LockPreferences(context.Background(), store, zap.NewNop())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch settings")

	store = &mockStore{updateSettingsErr: errors.New("connection refused")}
	_, err = LockPreferences(context.Background(), store, zap.NewNop())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update settings")
}

func TestFormatDeadline(t *testing.T) {
	eastern, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name     string
		deadline time.Time
		expected string
	}{
		{
			name:     "early morning",
			deadline: time.Date(2025, 11, 27, 3, 24, 0, 0, eastern),
			expected: "Nov. 27, 2025 3:24 a.m. ET",
		},
		{
			name:     "midnight",
			deadline: time.Date(2025, 11, 27, 0, 5, 0, 0, eastern),
			expected: "Nov. 27, 2025 12:05 a.m. ET",
		},
		{
			name:     "noon",
			deadline: time.Date(2025, 12, 1, 12, 0, 0, 0, eastern),
			expected: "Dec. 1, 2025 12:00 p.m. ET",
		},
		{
			name:     "converted from UTC",
			deadline: time.Date(2025, 11, 27, 20, 30, 0, 0, time.UTC),
			expected: "Nov. 27, 2025 3:30 p.m. ET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDeadline(tt.deadline, eastern))
		})
	}
}

func TestFormatDeadline_OtherZone(t *testing.T) {
	deadline := time.Date(2025, 11, 27, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, "Nov. 27, 2025 3:04 p.m. UTC", FormatDeadline(deadline, nil))
}
