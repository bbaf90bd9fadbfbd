package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/radmastery/radprep_api/dto"
	"github.com/radmastery/radprep_api/shared"
	"gorm.io/gorm"
)

// DeviceSyncService holds one resumable session snapshot per user so a quiz
// started on one device can continue on another. Snapshots expire lazily: a
// stale row is deleted the first time anything reads it.
type DeviceSyncService struct {
	context.DefaultService

	sqlSvc DatabaseService

	ttl time.Duration
}

const DEVICE_SYNC_SVC = "device_sync_svc"

const snapshotTTL = 30 * time.Minute

func (svc DeviceSyncService) Id() string {
	return DEVICE_SYNC_SVC
}

func (svc *DeviceSyncService) Configure(ctx *context.Context) error {
	svc.ttl = snapshotTTL
	return svc.DefaultService.Configure(ctx)
}

func (svc *DeviceSyncService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(DatabaseService)
	return nil
}

// Put stores the caller's snapshot, replacing whatever any device wrote
// before. Last writer wins; there is no merge.
func (svc *DeviceSyncService) Put(userID string, req dto.PutActiveSessionRequest) error {
	if err := svc.sqlSvc.Sessions().PutActiveSnapshot(userID, req.State, req.DeviceID); err != nil {
		return shared.NewPersistenceError(err, "Failed to store session snapshot")
	}
	return nil
}

// Get returns the user's snapshot, expiring it on read when it is older
// than the TTL.
func (svc *DeviceSyncService) Get(userID string) (*dto.ActiveSessionResponse, error) {
	snapshot, err := svc.sqlSvc.Sessions().GetActiveSnapshot(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "No active session snapshot")
		}
		return nil, shared.NewPersistenceError(err, "Failed to load session snapshot")
	}

	if time.Since(snapshot.UpdatedAt) > svc.ttl {
		if err := svc.sqlSvc.Sessions().DeleteActiveSnapshot(userID); err != nil {
			return nil, shared.NewPersistenceError(err, "Failed to expire session snapshot")
		}
		return nil, shared.NewNotFoundError(
			fmt.Errorf("snapshot for user expired at %s", snapshot.UpdatedAt.Add(svc.ttl)),
			"No active session snapshot")
	}

	return &dto.ActiveSessionResponse{
		State:     snapshot.SerializedState,
		DeviceID:  snapshot.DeviceID,
		UpdatedAt: snapshot.UpdatedAt,
	}, nil
}

// Delete removes the snapshot. Deleting an absent snapshot succeeds.
func (svc *DeviceSyncService) Delete(userID string) error {
	if err := svc.sqlSvc.Sessions().DeleteActiveSnapshot(userID); err != nil {
		return shared.NewPersistenceError(err, "Failed to delete session snapshot")
	}
	return nil
}
