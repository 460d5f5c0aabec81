package cron

import (
	"testing"

	"salonbook/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingScheduler map[string]string

func (r recordingScheduler) Register(spec string, task *asynq.Task, _ ...asynq.Option) (string, error) {
	r[task.Type()] = spec
	return task.Type(), nil
}

func TestRegisterSchedules(t *testing.T) {
	s := recordingScheduler{}
	require.NoError(t, RegisterSchedules(s, "salon-1"))
	assert.Equal(t, recordingScheduler{
		tasks.TypeChurnScan: "@daily",
		tasks.TypeReconcile: "@hourly",
	}, s)

	assert.Error(t, RegisterSchedules(recordingScheduler{}, ""))
}
