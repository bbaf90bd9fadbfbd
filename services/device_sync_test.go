package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radmastery/radprep_api/dto"
	"github.com/radmastery/radprep_api/model"
	"github.com/radmastery/radprep_api/shared"
)

func newDeviceSyncService(t *testing.T) (*SqliteService, *DeviceSyncService) {
	t.Helper()
	ds := newTestDB(t)
	return ds, &DeviceSyncService{sqlSvc: ds, ttl: snapshotTTL}
}

func TestSnapshotRoundTrip(t *testing.T) {
	_, svc := newDeviceSyncService(t)

	state := json.RawMessage(`{"session_id":"s-1","current_index":3}`)
	require.NoError(t, svc.Put("user-1", dto.PutActiveSessionRequest{State: state, DeviceID: "tablet"}))

	snapshot, err := svc.Get("user-1")
	require.NoError(t, err)
	assert.JSONEq(t, string(state), string(snapshot.State))
	assert.Equal(t, "tablet", snapshot.DeviceID)
}

func TestSnapshotLastWriterWins(t *testing.T) {
	_, svc := newDeviceSyncService(t)

	require.NoError(t, svc.Put("user-1", dto.PutActiveSessionRequest{
		State:    json.RawMessage(`{"current_index":1}`),
		DeviceID: "phone",
	}))
	require.NoError(t, svc.Put("user-1", dto.PutActiveSessionRequest{
		State:    json.RawMessage(`{"current_index":4}`),
		DeviceID: "desktop",
	}))

	snapshot, err := svc.Get("user-1")
	require.NoError(t, err)
	assert.Equal(t, "desktop", snapshot.DeviceID)
	assert.JSONEq(t, `{"current_index":4}`, string(snapshot.State))
}

func TestSnapshotExpiresOnRead(t *testing.T) {
	ds, svc := newDeviceSyncService(t)

	require.NoError(t, svc.Put("user-1", dto.PutActiveSessionRequest{
		State:    json.RawMessage(`{}`),
		DeviceID: "phone",
	}))

	// Age the row past the TTL without touching gorm's auto-timestamping.
	stale := time.Now().Add(-snapshotTTL - time.Minute)
	require.NoError(t, ds.db.Model(&model.ActiveSessionSnapshot{}).
		Where("user_id = ?", "user-1").
		UpdateColumn("updated_at", stale).Error)

	_, err := svc.Get("user-1")
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)

	// The stale row is gone, not just hidden.
	var count int64
	require.NoError(t, ds.db.Model(&model.ActiveSessionSnapshot{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetMissingSnapshotNotFound(t *testing.T) {
	_, svc := newDeviceSyncService(t)

	_, err := svc.Get("user-1")
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestDeleteSnapshotIdempotent(t *testing.T) {
	_, svc := newDeviceSyncService(t)

	require.NoError(t, svc.Put("user-1", dto.PutActiveSessionRequest{
		State:    json.RawMessage(`{}`),
		DeviceID: "phone",
	}))
	require.NoError(t, svc.Delete("user-1"))
	require.NoError(t, svc.Delete("user-1"))
}

func TestSnapshotsIsolatedPerUser(t *testing.T) {
	_, svc := newDeviceSyncService(t)

	require.NoError(t, svc.Put("user-1", dto.PutActiveSessionRequest{
		State:    json.RawMessage(`{"owner":"one"}`),
		DeviceID: "phone",
	}))

	_, err := svc.Get("user-2")
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}
