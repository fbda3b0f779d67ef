package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/events"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

type capturingAppender struct {
	mu       sync.Mutex
	appended []models.FunnelEvent
}

func (c *capturingAppender) Append(ctx context.Context, event *models.FunnelEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appended = append(c.appended, *event)
	return nil
}

func Test_Record_UnknownStage_Fails(t *testing.T) {

	appender := &capturingAppender{}
	recorder, err := NewFunnelRecorder(EventBus.New(), appender)
	assert.NoError(t, err)

	err = recorder.Record(context.Background(), 1, 2, "ghosted", time.Now(), nil)

	var validationErr *models.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Empty(t, appender.appended)
}

func Test_Record_AppendsEvent(t *testing.T) {

	appender := &capturingAppender{}
	recorder, err := NewFunnelRecorder(EventBus.New(), appender)
	assert.NoError(t, err)

	at := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	err = recorder.Record(context.Background(), 1, 2, "applied", at, nil)

	assert.NoError(t, err)
	assert.Len(t, appender.appended, 1)
	assert.Equal(t, models.StageApplied, appender.appended[0].Stage)
	assert.Equal(t, 1, appender.appended[0].ProfileID)
	assert.Equal(t, 2, appender.appended[0].JobID)
	assert.Equal(t, at, appender.appended[0].CreatedAt)
	assert.Nil(t, appender.appended[0].TailoredCVID)
}

func Test_Record_LinksEventToTailoredCV(t *testing.T) {

	appender := &capturingAppender{}
	recorder, err := NewFunnelRecorder(EventBus.New(), appender)
	assert.NoError(t, err)

	cvID := 7
	err = recorder.Record(context.Background(), 1, 2, "applied", time.Now(), &cvID)

	assert.NoError(t, err)
	assert.Len(t, appender.appended, 1)
	assert.NotNil(t, appender.appended[0].TailoredCVID)
	assert.Equal(t, 7, *appender.appended[0].TailoredCVID)
}

func Test_FunnelRecorder_RecordsTailoredCVsFromBus(t *testing.T) {

	appender := &capturingAppender{}
	bus := EventBus.New()

	_, err := NewFunnelRecorder(bus, appender)
	assert.NoError(t, err)

	bus.Publish(events.CVTailoredTopic, events.CVTailored{ProfileID: 1, JobID: 2, TailoredCVID: 7})

	assert.Len(t, appender.appended, 1)
	assert.Equal(t, models.StageCVTailored, appender.appended[0].Stage)
	assert.NotNil(t, appender.appended[0].TailoredCVID)
	assert.Equal(t, 7, *appender.appended[0].TailoredCVID)
}
