package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/radmastery/radprep_api/model"
)

func newTestDB(t *testing.T) *SqliteService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(migratedModels()...))

	ds := &SqliteService{db: db}
	ds.buildRepositories()
	return ds
}

func seedCase(t *testing.T, ds *SqliteService, c model.Case) model.Case {
	t.Helper()

	if c.Title == "" {
		c.Title = "Case " + c.ID
	}
	if c.Specialty == "" {
		c.Specialty = "Chest"
	}
	if c.Modality == "" {
		c.Modality = "XR"
	}
	if c.BodyPart == "" {
		c.BodyPart = "Chest"
	}
	if c.Difficulty == 0 {
		c.Difficulty = 2
	}
	if c.Diagnosis == "" {
		c.Diagnosis = "Diagnosis " + c.ID
	}
	c.IsActive = true

	created, err := ds.Catalog().CreateCase(&c)
	require.NoError(t, err)
	return *created
}

// newServiceStack wires the full service graph onto one database the way
// the runtime does, minus the context framework.
func newServiceStack(t *testing.T) (*SqliteService, *SessionService) {
	t.Helper()

	ds := newTestDB(t)
	monitoring := &MonitoringService{}
	catalog := &CatalogService{sqlSvc: ds}
	mcq := &McqService{sqlSvc: ds}
	retention := &RetentionService{sqlSvc: ds}
	scheduler := &SchedulerService{sqlSvc: ds, catalogSvc: catalog}
	gamification := &GamificationService{sqlSvc: ds, monitoringSvc: monitoring}
	studyPlan := &StudyPlanService{sqlSvc: ds, catalogSvc: catalog}
	deviceSync := &DeviceSyncService{sqlSvc: ds, ttl: snapshotTTL}

	session := &SessionService{
		sqlSvc:          ds,
		redisSvc:        &RedisService{},
		catalogSvc:      catalog,
		mcqSvc:          mcq,
		schedulerSvc:    scheduler,
		retentionSvc:    retention,
		gamificationSvc: gamification,
		studyPlanSvc:    studyPlan,
		deviceSyncSvc:   deviceSync,
		monitoringSvc:   monitoring,
	}
	return ds, session
}

func intPtr(v int) *int {
	return &v
}
