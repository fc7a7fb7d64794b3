package lib

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCronJob(t *testing.T) {
	id, err := CreateCronJob(func() {}, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.NotEmpty(t, *id)

	sched, err := GetScheduler()
	require.NoError(t, err)
	assert.Len(t, sched.Jobs(), 1)

	assert.NoError(t, sched.Shutdown())
	NewScheduler(nil)
}
